package directory

import (
	"time"

	"lifx-skill/internal/domain"
)

type Room struct {
	Name   string
	Lights []string
}

// Snapshot is an immutable view of the lights and rooms seen by one sync.
type Snapshot struct {
	lights    []string
	rooms     []Room
	roomIndex map[string]int
	lightSet  map[string]struct{}
	syncedAt  time.Time
}

var empty = NewSnapshot(nil, time.Time{})

// NewSnapshot builds a snapshot from an API listing. Rooms keep the order in
// which they were first seen; a light listed twice is recorded twice.
func NewSnapshot(lights []domain.Light, syncedAt time.Time) *Snapshot {
	s := &Snapshot{
		lights:    make([]string, 0, len(lights)),
		roomIndex: make(map[string]int),
		lightSet:  make(map[string]struct{}, len(lights)),
		syncedAt:  syncedAt,
	}

	for _, l := range lights {
		s.lights = append(s.lights, l.Label)
		s.lightSet[l.Label] = struct{}{}

		if l.Group == "" {
			continue
		}
		i, ok := s.roomIndex[l.Group]
		if !ok {
			i = len(s.rooms)
			s.roomIndex[l.Group] = i
			s.rooms = append(s.rooms, Room{Name: l.Group})
		}
		s.rooms[i].Lights = append(s.rooms[i].Lights, l.Label)
	}

	return s
}

func (s *Snapshot) Lights() []string {
	out := make([]string, len(s.lights))
	copy(out, s.lights)
	return out
}

func (s *Snapshot) Rooms() []Room {
	out := make([]Room, len(s.rooms))
	for i, r := range s.rooms {
		out[i] = Room{Name: r.Name, Lights: append([]string(nil), r.Lights...)}
	}
	return out
}

func (s *Snapshot) RoomNames() []string {
	names := make([]string, len(s.rooms))
	for i, r := range s.rooms {
		names[i] = r.Name
	}
	return names
}

func (s *Snapshot) LightsIn(room string) ([]string, bool) {
	i, ok := s.roomIndex[room]
	if !ok {
		return nil, false
	}
	return append([]string(nil), s.rooms[i].Lights...), true
}

func (s *Snapshot) HasRoom(name string) bool {
	_, ok := s.roomIndex[name]
	return ok
}

func (s *Snapshot) HasLight(label string) bool {
	_, ok := s.lightSet[label]
	return ok
}

// SelectorFor maps an exact room or light name to a selector. Rooms win over
// lights with the same name; unknown names address every device.
func (s *Snapshot) SelectorFor(name string) domain.Selector {
	if s.HasRoom(name) {
		return domain.GroupSelector(name)
	}
	if s.HasLight(name) {
		return domain.LabelSelector(name)
	}
	return domain.SelectorAll
}

func (s *Snapshot) SyncedAt() time.Time {
	return s.syncedAt
}

func (s *Snapshot) Empty() bool {
	return len(s.lights) == 0
}
