package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidIntent is returned when an intent name is unknown or its slots
// do not satisfy the registration.
var ErrInvalidIntent = errors.New("invalid intent")

type IntentName string

const (
	IntentConnect       IntentName = "ConnectToLifxIntent"
	IntentListLights    IntentName = "ListLightsIntent"
	IntentSetPower      IntentName = "SetPowerIntent"
	IntentSetStateValue IntentName = "SetStateValueIntent"
)

// Slot keywords delivered by the host runtime.
const (
	SlotLifxKeyword       = "LifxKeyword"
	SlotConnectKeyword    = "ConnectKeyword"
	SlotListRoom          = "ListRoom"
	SlotLightAction       = "LightAction"
	SlotEntity            = "Entity"
	SlotLightsStatement   = "LightsStatement"
	SlotSetKeyword        = "SetKeyword"
	SlotWarmthKeyword     = "WarmthKeyword"
	SlotBrightnessKeyword = "BrightnessKeyword"
	SlotColorKeyword      = "ColorKeyword"
	SlotStateValue        = "StateValue"
)

// Slots is the raw slot mapping extracted from an utterance.
type Slots map[string]string

func (s Slots) has(key string) bool {
	v, ok := s[key]
	return ok && strings.TrimSpace(v) != ""
}

type Intent interface {
	Name() IntentName
}

type ConnectIntent struct{}

func (ConnectIntent) Name() IntentName { return IntentConnect }

type ListLightsIntent struct {
	Room string
}

func (ListLightsIntent) Name() IntentName { return IntentListLights }

type SetPowerIntent struct {
	Action          Power
	Entity          string
	LightsStatement bool
}

func (SetPowerIntent) Name() IntentName { return IntentSetPower }

type StateKind string

const (
	StateBrightness  StateKind = "brightness"
	StateTemperature StateKind = "temperature"
	StateColor       StateKind = "color"
)

type SetStateValueIntent struct {
	Kind   StateKind
	Entity string
	Value  string
}

func (SetStateValueIntent) Name() IntentName { return IntentSetStateValue }

// Registration describes the slot keywords the host must match before
// delivering an intent.
type Registration struct {
	Name     IntentName `json:"name"`
	Require  []string   `json:"require"`
	OneOf    []string   `json:"one_of,omitempty"`
	Optional []string   `json:"optional,omitempty"`
}

var registrations = []Registration{
	{
		Name:    IntentConnect,
		Require: []string{SlotLifxKeyword, SlotConnectKeyword},
	},
	{
		Name:    IntentListLights,
		Require: []string{SlotListRoom},
	},
	{
		Name:     IntentSetPower,
		Require:  []string{SlotLightAction, SlotEntity},
		Optional: []string{SlotLightsStatement},
	},
	{
		Name:    IntentSetStateValue,
		Require: []string{SlotSetKeyword, SlotEntity, SlotStateValue},
		OneOf:   []string{SlotBrightnessKeyword, SlotWarmthKeyword, SlotColorKeyword},
	},
}

func Registrations() []Registration {
	out := make([]Registration, len(registrations))
	copy(out, registrations)
	return out
}

func registrationFor(name IntentName) (Registration, bool) {
	for _, r := range registrations {
		if r.Name == name {
			return r, true
		}
	}
	return Registration{}, false
}

// ParseIntent validates raw slots against the registration for name and
// returns the typed intent.
func ParseIntent(name string, slots Slots) (Intent, error) {
	reg, ok := registrationFor(IntentName(name))
	if !ok {
		return nil, fmt.Errorf("%w: unknown intent %q", ErrInvalidIntent, name)
	}

	for _, key := range reg.Require {
		if !slots.has(key) {
			return nil, fmt.Errorf("%w: %s missing slot %s", ErrInvalidIntent, name, key)
		}
	}

	switch reg.Name {
	case IntentConnect:
		return ConnectIntent{}, nil

	case IntentListLights:
		return ListLightsIntent{Room: strings.TrimSpace(slots[SlotListRoom])}, nil

	case IntentSetPower:
		action, err := ParsePower(slots[SlotLightAction])
		if err != nil {
			return nil, err
		}
		return SetPowerIntent{
			Action:          action,
			Entity:          strings.TrimSpace(slots[SlotEntity]),
			LightsStatement: slots.has(SlotLightsStatement),
		}, nil

	case IntentSetStateValue:
		var kind StateKind
		switch {
		case slots.has(SlotBrightnessKeyword):
			kind = StateBrightness
		case slots.has(SlotWarmthKeyword):
			kind = StateTemperature
		case slots.has(SlotColorKeyword):
			kind = StateColor
		default:
			return nil, fmt.Errorf("%w: %s needs one of %s", ErrInvalidIntent, name, strings.Join(reg.OneOf, ", "))
		}
		return SetStateValueIntent{
			Kind:   kind,
			Entity: strings.TrimSpace(slots[SlotEntity]),
			Value:  strings.TrimSpace(slots[SlotStateValue]),
		}, nil
	}

	return nil, fmt.Errorf("%w: unhandled intent %q", ErrInvalidIntent, name)
}
