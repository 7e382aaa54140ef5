// Package rig describes the skeletal rig a LivePose is applied to.
//
// The Rig interface is the only way the rest of the module touches a skeleton:
// bone enumeration, per-component transform reads and writes, the evaluation
// frame cursor, and keyframe insertion on the active clip. Any scene graph can
// implement it. Armature is the in-memory implementation used by the CLI and
// tests.
package rig

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrBoneNotFound is returned for any access to a bone the rig does not have
var ErrBoneNotFound = errors.New("bone not found")

// Channel identifies an animatable transform component of a bone
type Channel int

const (
	ChannelLocation Channel = iota
	ChannelRotation
	ChannelScale
	ChannelEuler
)

// String returns the data path of the channel
func (c Channel) String() string {
	switch c {
	case ChannelLocation:
		return "location"
	case ChannelRotation:
		return "rotation_quaternion"
	case ChannelScale:
		return "scale"
	case ChannelEuler:
		return "rotation_euler"
	default:
		return "unknown"
	}
}

// ParseChannel is the inverse of Channel.String
func ParseChannel(s string) (Channel, bool) {
	for _, c := range []Channel{ChannelLocation, ChannelRotation, ChannelScale, ChannelEuler} {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

// Clip is an animation clip attached to a rig
type Clip interface {
	Name() string
	// KeyframeTimes returns, for every animated curve, its keyframe times in
	// ascending order
	KeyframeTimes() [][]float64
}

// Rig is the access façade over a posable skeleton.
//
// Transform returns a copy; writes go through the per-component setters so a
// rig never has its transform object replaced. Frame/SetFrame move the
// evaluation cursor without evaluating: callers must call Evaluate before
// reading transforms at a new frame.
type Rig interface {
	BoneNames() []string
	Transform(bone string) (BoneTransform, error)

	SetLocation(bone string, location mgl64.Vec3) error
	SetRotation(bone string, rotation mgl64.Quat) error
	SetEuler(bone string, euler mgl64.Vec3) error
	SetScale(bone string, scale mgl64.Vec3) error
	SetRotationMode(bone string, mode RotationMode) error

	Frame() int
	SetFrame(frame int)
	Evaluate()

	ActiveClip() (Clip, bool)
	// InsertKeyframe keys the bone's current value of channel at frame
	InsertKeyframe(bone string, channel Channel, frame int) error

	SetPoseApplied(applied bool)
}
