package resolve

import (
	"lifx-skill/internal/directory"
	"lifx-skill/internal/domain"
)

type Kind int

const (
	KindAll Kind = iota
	KindRoom
	KindLight
)

func (k Kind) String() string {
	switch k {
	case KindRoom:
		return "room"
	case KindLight:
		return "light"
	default:
		return "all"
	}
}

// Entity is a resolved target: a room, a single light or every device.
type Entity struct {
	Kind Kind
	Name string
}

var All = Entity{Kind: KindAll, Name: "all"}

func (e Entity) Selector() domain.Selector {
	switch e.Kind {
	case KindRoom:
		return domain.GroupSelector(e.Name)
	case KindLight:
		return domain.LabelSelector(e.Name)
	default:
		return domain.SelectorAll
	}
}

type Resolver struct {
	threshold int
}

// New returns a resolver accepting scores strictly above threshold. A
// non-positive threshold selects DefaultThreshold.
func New(threshold int) *Resolver {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Resolver{threshold: threshold}
}

func (r *Resolver) Threshold() int {
	return r.threshold
}

// Entity matches text against rooms first, then light labels, and falls back
// to All.
func (r *Resolver) Entity(snap *directory.Snapshot, text string) Entity {
	if room, ok := r.Room(snap, text); ok {
		return Entity{Kind: KindRoom, Name: room}
	}
	if light, ok := r.Light(snap, text); ok {
		return Entity{Kind: KindLight, Name: light}
	}
	return All
}

func (r *Resolver) Room(snap *directory.Snapshot, text string) (string, bool) {
	rooms := snap.RoomNames()
	i, ok := best(rooms, text, r.threshold)
	if !ok {
		return "", false
	}
	return rooms[i], true
}

func (r *Resolver) Light(snap *directory.Snapshot, text string) (string, bool) {
	lights := snap.Lights()
	i, ok := best(lights, text, r.threshold)
	if !ok {
		return "", false
	}
	return lights[i], true
}
