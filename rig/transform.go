package rig

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// RotationMode selects which rotation representation drives a bone
type RotationMode int

const (
	RotationQuaternion RotationMode = iota
	RotationEulerXYZ
)

func (m RotationMode) String() string {
	switch m {
	case RotationQuaternion:
		return "QUATERNION"
	case RotationEulerXYZ:
		return "XYZ"
	default:
		return "unknown"
	}
}

// ParseRotationMode is the inverse of RotationMode.String
func ParseRotationMode(s string) (RotationMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "QUATERNION":
		return RotationQuaternion, nil
	case "XYZ":
		return RotationEulerXYZ, nil
	default:
		return RotationQuaternion, fmt.Errorf("unknown rotation mode %q", s)
	}
}

// BoneTransform is the local transform of a pose bone, relative to its parent
type BoneTransform struct {
	Location mgl64.Vec3
	Rotation mgl64.Quat
	// Euler is kept for rigs driven in Euler mode, never written by the compositor
	Euler        mgl64.Vec3
	Scale        mgl64.Vec3
	RotationMode RotationMode
}

// NewBoneTransform creates an identity transform
func NewBoneTransform() BoneTransform {
	return BoneTransform{
		Location:     mgl64.Vec3{0, 0, 0},
		Rotation:     mgl64.QuatIdent(),
		Euler:        mgl64.Vec3{0, 0, 0},
		Scale:        mgl64.Vec3{1, 1, 1},
		RotationMode: RotationQuaternion,
	}
}
