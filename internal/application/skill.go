package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"lifx-skill/internal/dialog"
	"lifx-skill/internal/domain"
	"lifx-skill/internal/resolve"
)

// Skill handles one intent at a time; callers serialize Handle.
type Skill struct {
	api         LightingAPI
	directory   DeviceDirectory
	resolver    *resolve.Resolver
	defaultRoom string
	logger      *slog.Logger
}

func NewSkill(
	api LightingAPI,
	directory DeviceDirectory,
	resolver *resolve.Resolver,
	defaultRoom string,
	logger *slog.Logger,
) *Skill {
	return &Skill{
		api:         api,
		directory:   directory,
		resolver:    resolver,
		defaultRoom: defaultRoom,
		logger:      logger,
	}
}

func (s *Skill) Initialize(ctx context.Context) error {
	if err := s.directory.Sync(ctx); err != nil {
		return fmt.Errorf("initial sync: %w", err)
	}
	return nil
}

// Handle runs the handler for intent. Unresolved names are answered by
// speech; errors come from the lighting API or the speaker.
func (s *Skill) Handle(ctx context.Context, intent domain.Intent, speaker Speaker) error {
	s.logger.Debug("handling intent", "intent", intent.Name())

	switch in := intent.(type) {
	case domain.ConnectIntent:
		return s.handleConnect(ctx, speaker)
	case domain.ListLightsIntent:
		return s.handleListLights(ctx, in, speaker)
	case domain.SetPowerIntent:
		return s.handleSetPower(ctx, in, speaker)
	case domain.SetStateValueIntent:
		return s.handleSetStateValue(ctx, in, speaker)
	default:
		return speaker.SpeakDialog(ctx, dialog.Whoops, nil)
	}
}

func (s *Skill) handleConnect(ctx context.Context, speaker Speaker) error {
	if err := s.directory.Sync(ctx); err != nil {
		return err
	}
	return speaker.SpeakDialog(ctx, dialog.Done, nil)
}

func (s *Skill) handleListLights(ctx context.Context, in domain.ListLightsIntent, speaker Speaker) error {
	snap := s.directory.Snapshot()

	var room string
	var ok bool
	switch strings.ToLower(in.Room) {
	case "here", "room":
		room, ok = s.currentRoom(snap.RoomNames())
	default:
		room, ok = s.resolver.Room(snap, in.Room)
	}

	if !ok {
		return speaker.Speak(ctx, fmt.Sprintf("I am not sure what room %s is", in.Room))
	}

	if err := speaker.Speak(ctx, fmt.Sprintf("The lights in %s are", room)); err != nil {
		return err
	}

	lights, _ := snap.LightsIn(room)
	for _, light := range lights {
		if err := speaker.Speak(ctx, light); err != nil {
			return err
		}

		// flash the light so it can be spotted
		selector := domain.LabelSelector(light)
		for range 2 {
			if _, err := s.api.TogglePower(ctx, selector); err != nil {
				return err
			}
		}
	}

	return nil
}

// currentRoom is the configured default room when it is known, else the
// first room seen by the last sync.
func (s *Skill) currentRoom(rooms []string) (string, bool) {
	for _, r := range rooms {
		if r == s.defaultRoom {
			return r, true
		}
	}
	if len(rooms) == 0 {
		return "", false
	}
	return rooms[0], true
}

func (s *Skill) handleSetPower(ctx context.Context, in domain.SetPowerIntent, speaker Speaker) error {
	entity := s.resolver.Entity(s.directory.Snapshot(), in.Entity)

	spoken := entity.Name
	if in.LightsStatement {
		spoken = fmt.Sprintf("the %s lights", entity.Name)
	}

	s.logger.Info("setting power",
		"entity", in.Entity,
		"resolved", entity.Name,
		"kind", entity.Kind,
		"power", in.Action,
	)

	results, err := s.api.SetState(ctx, entity.Selector(), domain.StateChange{Power: in.Action})
	if err != nil {
		return err
	}

	if len(results) > 1 {
		return speaker.SpeakDialog(ctx, "power.room."+string(in.Action), map[string]any{
			"number": len(results),
			"room":   spoken,
		})
	}

	return speaker.SpeakDialog(ctx, "power.light."+string(in.Action), map[string]any{
		"light": spoken,
	})
}

func (s *Skill) handleSetStateValue(ctx context.Context, in domain.SetStateValueIntent, speaker Speaker) error {
	entity := s.resolver.Entity(s.directory.Snapshot(), in.Entity)

	switch in.Kind {
	case domain.StateBrightness:
		return s.setBrightness(ctx, entity, in.Value, speaker)
	case domain.StateTemperature:
		return s.setTemperature(ctx, entity, in.Value, speaker)
	case domain.StateColor:
		return s.setColor(ctx, entity, in.Value, speaker)
	default:
		return speaker.SpeakDialog(ctx, dialog.Whoops, nil)
	}
}

func (s *Skill) setBrightness(ctx context.Context, entity resolve.Entity, value string, speaker Speaker) error {
	percent, err := parseNumber(value)
	if err != nil {
		return speaker.Speak(ctx, fmt.Sprintf("I didn't understand the value %s", value))
	}

	_, err = s.api.SetState(ctx, entity.Selector(), domain.StateChange{
		Brightness: domain.Float(percent / 100),
	})
	if err != nil {
		return err
	}

	return speaker.Speak(ctx, fmt.Sprintf("Set %s to %s percent", entity.Name, value))
}

func (s *Skill) setTemperature(ctx context.Context, entity resolve.Entity, value string, speaker Speaker) error {
	kelvin, err := parseNumber(value)
	if err != nil {
		return speaker.Speak(ctx, fmt.Sprintf("I didn't understand the value %s", value))
	}

	_, err = s.api.SetState(ctx, entity.Selector(), domain.StateChange{
		Color: "kelvin:" + strconv.FormatFloat(kelvin, 'f', -1, 64),
	})
	if err != nil {
		return err
	}

	return speaker.SpeakDialog(ctx, dialog.Done, nil)
}

func (s *Skill) setColor(ctx context.Context, entity resolve.Entity, value string, speaker Speaker) error {
	color, ok := s.resolver.Color(value)
	if !ok {
		return speaker.Speak(ctx, fmt.Sprintf("Cannot set the color %s", value))
	}

	_, err := s.api.SetState(ctx, entity.Selector(), domain.StateChange{Color: color.Hex})
	if err != nil {
		return err
	}

	return speaker.SpeakDialog(ctx, dialog.Done, nil)
}

var errNotFinite = errors.New("value is not a finite number")

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}
