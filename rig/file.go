package rig

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-gl/mathgl/mgl64"
)

// armatureFile is the TOML snapshot layout of an Armature.
// Rotations are written W, X, Y, Z.
type armatureFile struct {
	Name        string      `toml:"name"`
	Frame       int         `toml:"frame"`
	PoseApplied bool        `toml:"pose_applied"`
	Bones       []boneFile  `toml:"bones"`
	Action      *actionFile `toml:"action,omitempty"`
}

type boneFile struct {
	Name         string    `toml:"name"`
	Location     []float64 `toml:"location,omitempty"`
	Rotation     []float64 `toml:"rotation,omitempty"`
	Euler        []float64 `toml:"euler,omitempty"`
	Scale        []float64 `toml:"scale,omitempty"`
	RotationMode string    `toml:"rotation_mode,omitempty"`
}

type actionFile struct {
	Name   string      `toml:"name"`
	Curves []curveFile `toml:"curves"`
}

type curveFile struct {
	Bone    string    `toml:"bone"`
	Channel string    `toml:"channel"`
	Keys    []keyFile `toml:"keys"`
}

type keyFile struct {
	Frame float64   `toml:"frame"`
	Value []float64 `toml:"value"`
}

// LoadArmature reads an armature snapshot from a TOML file
func LoadArmature(path string) (*Armature, error) {
	var raw armatureFile
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("load armature %s: %w", path, err)
	}
	a, err := raw.armature()
	if err != nil {
		return nil, fmt.Errorf("load armature %s: %w", path, err)
	}
	return a, nil
}

// DecodeArmature parses an armature snapshot
func DecodeArmature(data []byte) (*Armature, error) {
	var raw armatureFile
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode armature: %w", err)
	}
	return raw.armature()
}

// SaveArmature writes an armature snapshot to path
func SaveArmature(path string, a *Armature) error {
	data, err := EncodeArmature(a)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save armature %s: %w", path, err)
	}
	return nil
}

// EncodeArmature renders an armature snapshot as TOML
func EncodeArmature(a *Armature) ([]byte, error) {
	raw := armatureFile{
		Name:        a.Name,
		Frame:       a.frame,
		PoseApplied: a.PoseApplied,
		Bones:       make([]boneFile, 0, len(a.bones)),
	}
	for _, bone := range a.bones {
		t := bone.Transform
		rotation := quatToVec4(t.Rotation)
		raw.Bones = append(raw.Bones, boneFile{
			Name:         bone.Name,
			Location:     t.Location[:],
			Rotation:     rotation[:],
			Euler:        t.Euler[:],
			Scale:        t.Scale[:],
			RotationMode: t.RotationMode.String(),
		})
	}

	if a.action != nil {
		raw.Action = &actionFile{Name: a.action.name}
		for _, curve := range a.action.curves {
			cf := curveFile{Bone: curve.Bone, Channel: curve.Channel.String()}
			for _, key := range curve.Keys {
				cf.Keys = append(cf.Keys, keyFile{Frame: key.Frame, Value: valueSlice(curve.Channel, key.Value)})
			}
			raw.Action.Curves = append(raw.Action.Curves, cf)
		}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
		return nil, fmt.Errorf("encode armature: %w", err)
	}
	return buf.Bytes(), nil
}

func (raw armatureFile) armature() (*Armature, error) {
	a := NewArmature(raw.Name)
	a.frame = raw.Frame
	a.PoseApplied = raw.PoseApplied

	for i, bf := range raw.Bones {
		if bf.Name == "" {
			return nil, fmt.Errorf("bones[%d]: missing name", i)
		}
		t := NewBoneTransform()
		var err error
		if t.Location, err = vec3Or(bf.Location, t.Location); err != nil {
			return nil, fmt.Errorf("bone %q location: %w", bf.Name, err)
		}
		if t.Euler, err = vec3Or(bf.Euler, t.Euler); err != nil {
			return nil, fmt.Errorf("bone %q euler: %w", bf.Name, err)
		}
		if t.Scale, err = vec3Or(bf.Scale, t.Scale); err != nil {
			return nil, fmt.Errorf("bone %q scale: %w", bf.Name, err)
		}
		if bf.Rotation != nil {
			if len(bf.Rotation) != 4 {
				return nil, fmt.Errorf("bone %q rotation: want 4 components, got %d", bf.Name, len(bf.Rotation))
			}
			t.Rotation = vec4ToQuat(mgl64.Vec4{bf.Rotation[0], bf.Rotation[1], bf.Rotation[2], bf.Rotation[3]})
		}
		if t.RotationMode, err = ParseRotationMode(bf.RotationMode); err != nil {
			return nil, fmt.Errorf("bone %q: %w", bf.Name, err)
		}
		a.AddBone(bf.Name, t)
	}

	if raw.Action != nil {
		action := NewAction(raw.Action.Name)
		for _, cf := range raw.Action.Curves {
			channel, ok := ParseChannel(cf.Channel)
			if !ok {
				return nil, fmt.Errorf("curve %s: unknown channel %q", cf.Bone, cf.Channel)
			}
			for _, key := range cf.Keys {
				value, err := keyValue(channel, key.Value)
				if err != nil {
					return nil, fmt.Errorf("curve %s/%s frame %v: %w", cf.Bone, cf.Channel, key.Frame, err)
				}
				action.Key(cf.Bone, channel, key.Frame, value)
			}
		}
		a.action = action
	}

	return a, nil
}

func vec3Or(values []float64, fallback mgl64.Vec3) (mgl64.Vec3, error) {
	if values == nil {
		return fallback, nil
	}
	if len(values) != 3 {
		return fallback, fmt.Errorf("want 3 components, got %d", len(values))
	}
	return mgl64.Vec3{values[0], values[1], values[2]}, nil
}

func keyValue(channel Channel, values []float64) (mgl64.Vec4, error) {
	if channel == ChannelRotation {
		if len(values) != 4 {
			return mgl64.Vec4{}, fmt.Errorf("want 4 components, got %d", len(values))
		}
		return mgl64.Vec4{values[0], values[1], values[2], values[3]}, nil
	}
	if len(values) != 3 {
		return mgl64.Vec4{}, fmt.Errorf("want 3 components, got %d", len(values))
	}
	return mgl64.Vec4{values[0], values[1], values[2], 0}, nil
}

func valueSlice(channel Channel, v mgl64.Vec4) []float64 {
	if channel == ChannelRotation {
		return []float64{v[0], v[1], v[2], v[3]}
	}
	return []float64{v[0], v[1], v[2]}
}
