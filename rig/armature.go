package rig

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

var _ Rig = (*Armature)(nil)

// Bone is a named pose bone of an Armature
type Bone struct {
	Name      string
	Transform BoneTransform
}

// Armature is an in-memory Rig: bones in declaration order, an optional
// active action and an evaluation frame cursor.
type Armature struct {
	Name        string
	PoseApplied bool

	bones  []*Bone
	index  map[string]*Bone
	action *Action
	frame  int
}

// NewArmature creates an armature whose bones all start at identity
func NewArmature(name string, bones ...string) *Armature {
	a := &Armature{
		Name:  name,
		index: make(map[string]*Bone, len(bones)),
	}
	for _, bone := range bones {
		a.AddBone(bone, NewBoneTransform())
	}
	return a
}

// AddBone adds a bone, or resets the transform of an existing one
func (a *Armature) AddBone(name string, transform BoneTransform) *Bone {
	if a.index == nil {
		a.index = make(map[string]*Bone)
	}
	if bone, ok := a.index[name]; ok {
		bone.Transform = transform
		return bone
	}

	bone := &Bone{Name: name, Transform: transform}
	a.bones = append(a.bones, bone)
	a.index[name] = bone
	return bone
}

// RemoveBone removes a bone. Curves of the active action that target it are
// kept and ignored by Evaluate.
func (a *Armature) RemoveBone(name string) bool {
	if _, ok := a.index[name]; !ok {
		return false
	}
	delete(a.index, name)

	k := -1
	for i, b := range a.bones {
		if b.Name == name {
			k = i
			break
		}
	}
	if k != -1 {
		a.bones = append(a.bones[:k], a.bones[k+1:]...)
	}
	return true
}

// Bone returns the named bone
func (a *Armature) Bone(name string) (*Bone, bool) {
	bone, ok := a.index[name]
	return bone, ok
}

func (a *Armature) BoneNames() []string {
	names := make([]string, len(a.bones))
	for i, bone := range a.bones {
		names[i] = bone.Name
	}
	return names
}

func (a *Armature) Transform(bone string) (BoneTransform, error) {
	b, err := a.lookup(bone)
	if err != nil {
		return BoneTransform{}, err
	}
	return b.Transform, nil
}

func (a *Armature) SetLocation(bone string, location mgl64.Vec3) error {
	b, err := a.lookup(bone)
	if err != nil {
		return err
	}
	b.Transform.Location = location
	return nil
}

func (a *Armature) SetRotation(bone string, rotation mgl64.Quat) error {
	b, err := a.lookup(bone)
	if err != nil {
		return err
	}
	b.Transform.Rotation = rotation
	return nil
}

func (a *Armature) SetEuler(bone string, euler mgl64.Vec3) error {
	b, err := a.lookup(bone)
	if err != nil {
		return err
	}
	b.Transform.Euler = euler
	return nil
}

func (a *Armature) SetScale(bone string, scale mgl64.Vec3) error {
	b, err := a.lookup(bone)
	if err != nil {
		return err
	}
	b.Transform.Scale = scale
	return nil
}

func (a *Armature) SetRotationMode(bone string, mode RotationMode) error {
	b, err := a.lookup(bone)
	if err != nil {
		return err
	}
	b.Transform.RotationMode = mode
	return nil
}

func (a *Armature) Frame() int {
	return a.frame
}

// SetFrame moves the cursor only; bone transforms keep their previous values
// until Evaluate.
func (a *Armature) SetFrame(frame int) {
	a.frame = frame
}

// Evaluate samples every curve of the active action at the current frame and
// writes the result into the targeted bones.
func (a *Armature) Evaluate() {
	if a.action == nil {
		return
	}

	frame := float64(a.frame)
	for _, curve := range a.action.curves {
		bone, ok := a.index[curve.Bone]
		if !ok {
			continue
		}
		if value, ok := curve.Sample(frame); ok {
			setChannelValue(&bone.Transform, curve.Channel, value)
		}
	}
}

// SetAction makes action the active clip; nil clears it
func (a *Armature) SetAction(action *Action) {
	a.action = action
}

// Action returns the active action, or nil
func (a *Armature) Action() *Action {
	return a.action
}

func (a *Armature) ActiveClip() (Clip, bool) {
	if a.action == nil {
		return nil, false
	}
	return a.action, true
}

// InsertKeyframe keys the bone's current channel value. An action is created
// when the armature has none.
func (a *Armature) InsertKeyframe(bone string, channel Channel, frame int) error {
	b, err := a.lookup(bone)
	if err != nil {
		return err
	}
	if a.action == nil {
		a.action = NewAction(a.Name + "Action")
	}
	a.action.Key(bone, channel, float64(frame), channelValue(b.Transform, channel))
	return nil
}

func (a *Armature) SetPoseApplied(applied bool) {
	a.PoseApplied = applied
}

// Keyframes returns the keys of the bone's channel curve in the active action
func (a *Armature) Keyframes(bone string, channel Channel) []Keyframe {
	if a.action == nil {
		return nil
	}
	curve := a.action.Curve(bone, channel)
	if curve == nil {
		return nil
	}
	return curve.Keys
}

func (a *Armature) lookup(bone string) (*Bone, error) {
	b, ok := a.index[bone]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBoneNotFound, bone)
	}
	return b, nil
}
