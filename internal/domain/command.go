package domain

import (
	"fmt"
	"strings"
)

type Power string

const (
	PowerOn  Power = "on"
	PowerOff Power = "off"
)

func ParsePower(s string) (Power, error) {
	switch Power(strings.ToLower(strings.TrimSpace(s))) {
	case PowerOn:
		return PowerOn, nil
	case PowerOff:
		return PowerOff, nil
	default:
		return "", fmt.Errorf("%w: unknown power action %q", ErrInvalidIntent, s)
	}
}

// Selector addresses one or more devices in the lighting API.
type Selector string

const SelectorAll Selector = "all"

func GroupSelector(room string) Selector {
	return Selector("group:" + room)
}

func LabelSelector(light string) Selector {
	return Selector("label:" + light)
}

func (s Selector) String() string {
	return string(s)
}
