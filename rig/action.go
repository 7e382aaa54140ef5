package rig

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Keyframe is one key of a curve. Vector channels use the first three
// components of Value; rotation keys store W, X, Y, Z.
type Keyframe struct {
	Frame float64
	Value mgl64.Vec4
}

// Curve animates one channel of one bone. Keys are kept sorted by frame.
type Curve struct {
	Bone    string
	Channel Channel
	Keys    []Keyframe
}

// Insert adds a key, replacing any key already at that exact frame
func (c *Curve) Insert(frame float64, value mgl64.Vec4) {
	i := sort.Search(len(c.Keys), func(i int) bool { return c.Keys[i].Frame >= frame })
	if i < len(c.Keys) && c.Keys[i].Frame == frame {
		c.Keys[i].Value = value
		return
	}

	c.Keys = append(c.Keys, Keyframe{})
	copy(c.Keys[i+1:], c.Keys[i:])
	c.Keys[i] = Keyframe{Frame: frame, Value: value}
}

// Sample evaluates the curve at frame. Values are held before the first key
// and after the last; in between vectors are interpolated linearly and
// rotations spherically.
func (c *Curve) Sample(frame float64) (mgl64.Vec4, bool) {
	n := len(c.Keys)
	if n == 0 {
		return mgl64.Vec4{}, false
	}
	if frame <= c.Keys[0].Frame {
		return c.Keys[0].Value, true
	}
	if frame >= c.Keys[n-1].Frame {
		return c.Keys[n-1].Value, true
	}

	i := sort.Search(n, func(i int) bool { return c.Keys[i].Frame >= frame })
	if c.Keys[i].Frame == frame {
		return c.Keys[i].Value, true
	}

	prev, next := c.Keys[i-1], c.Keys[i]
	t := (frame - prev.Frame) / (next.Frame - prev.Frame)

	if c.Channel == ChannelRotation {
		q := mgl64.QuatSlerp(vec4ToQuat(prev.Value), vec4ToQuat(next.Value), t)
		return quatToVec4(q), true
	}
	return prev.Value.Add(next.Value.Sub(prev.Value).Mul(t)), true
}

// Times returns the frames of the curve's keys
func (c *Curve) Times() []float64 {
	times := make([]float64, len(c.Keys))
	for i, key := range c.Keys {
		times[i] = key.Frame
	}
	return times
}

// Action is a named clip made of per-bone, per-channel curves
type Action struct {
	name   string
	curves []*Curve
}

func NewAction(name string) *Action {
	return &Action{name: name}
}

func (a *Action) Name() string {
	return a.name
}

// KeyframeTimes returns the key times of every non-empty curve
func (a *Action) KeyframeTimes() [][]float64 {
	times := make([][]float64, 0, len(a.curves))
	for _, curve := range a.curves {
		if len(curve.Keys) > 0 {
			times = append(times, curve.Times())
		}
	}
	return times
}

// Curves returns the action's curves in creation order
func (a *Action) Curves() []*Curve {
	return a.curves
}

// Curve returns the curve animating channel of bone, or nil
func (a *Action) Curve(bone string, channel Channel) *Curve {
	for _, curve := range a.curves {
		if curve.Bone == bone && curve.Channel == channel {
			return curve
		}
	}
	return nil
}

// Key inserts a key, creating the curve when needed
func (a *Action) Key(bone string, channel Channel, frame float64, value mgl64.Vec4) {
	curve := a.Curve(bone, channel)
	if curve == nil {
		curve = &Curve{Bone: bone, Channel: channel}
		a.curves = append(a.curves, curve)
	}
	curve.Insert(frame, value)
}

// KeyVec3 inserts a location, scale or Euler key
func (a *Action) KeyVec3(bone string, channel Channel, frame float64, value mgl64.Vec3) {
	a.Key(bone, channel, frame, value.Vec4(0))
}

// KeyQuat inserts a rotation key
func (a *Action) KeyQuat(bone string, frame float64, value mgl64.Quat) {
	a.Key(bone, ChannelRotation, frame, quatToVec4(value))
}

func quatToVec4(q mgl64.Quat) mgl64.Vec4 {
	return mgl64.Vec4{q.W, q.V.X(), q.V.Y(), q.V.Z()}
}

func vec4ToQuat(v mgl64.Vec4) mgl64.Quat {
	return mgl64.Quat{W: v.X(), V: mgl64.Vec3{v.Y(), v.Z(), v.W()}}
}

func channelValue(t BoneTransform, channel Channel) mgl64.Vec4 {
	switch channel {
	case ChannelLocation:
		return t.Location.Vec4(0)
	case ChannelRotation:
		return quatToVec4(t.Rotation)
	case ChannelScale:
		return t.Scale.Vec4(0)
	default:
		return t.Euler.Vec4(0)
	}
}

func setChannelValue(t *BoneTransform, channel Channel, v mgl64.Vec4) {
	switch channel {
	case ChannelLocation:
		t.Location = v.Vec3()
	case ChannelRotation:
		t.Rotation = vec4ToQuat(v)
	case ChannelScale:
		t.Scale = v.Vec3()
	default:
		t.Euler = v.Vec3()
	}
}
