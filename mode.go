package livepose

import (
	"fmt"
	"strings"

	"github.com/akmonengine/livepose/rig"
)

// ApplyMode selects which channels of a delta are applied
type ApplyMode uint8

const (
	// ModeAll applies position, rotation and scale
	ModeAll ApplyMode = iota
	ModeRotation
	ModePosition
	ModeScale
	// ModeRotationPosition applies rotation and position, never scale
	ModeRotationPosition
)

// String returns the identifier used in settings files
func (m ApplyMode) String() string {
	switch m {
	case ModeAll:
		return "ALL"
	case ModeRotation:
		return "ROTATION"
	case ModePosition:
		return "POSITION"
	case ModeScale:
		return "SCALE"
	case ModeRotationPosition:
		return "ROT_POS"
	default:
		return fmt.Sprintf("ApplyMode(%d)", uint8(m))
	}
}

// ParseApplyMode accepts the identifiers produced by ApplyMode.String, case-insensitively
func ParseApplyMode(s string) (ApplyMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ALL":
		return ModeAll, nil
	case "ROTATION":
		return ModeRotation, nil
	case "POSITION":
		return ModePosition, nil
	case "SCALE":
		return ModeScale, nil
	case "ROT_POS":
		return ModeRotationPosition, nil
	default:
		return ModeRotation, fmt.Errorf("unknown apply mode %q", s)
	}
}

func (m ApplyMode) Position() bool {
	return m == ModeAll || m == ModePosition || m == ModeRotationPosition
}

func (m ApplyMode) Rotation() bool {
	return m == ModeAll || m == ModeRotation || m == ModeRotationPosition
}

func (m ApplyMode) Scale() bool {
	return m == ModeAll || m == ModeScale
}

// Includes reports whether the mode writes channel. Euler is never written.
func (m ApplyMode) Includes(channel rig.Channel) bool {
	switch channel {
	case rig.ChannelLocation:
		return m.Position()
	case rig.ChannelRotation:
		return m.Rotation()
	case rig.ChannelScale:
		return m.Scale()
	default:
		return false
	}
}
