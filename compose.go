package livepose

import (
	"github.com/akmonengine/livepose/pose"
	"github.com/akmonengine/livepose/rig"
)

// Compose applies delta onto t in place, for the channels selected by mode.
//
// Position and scale are additive offsets: t += sign * delta, with sign = -1
// when invert is set. Scale deltas are differences, not ratios.
//
// Rotation is post-multiplied, t = t * delta: the current rotation first, then
// the delta in the bone's own frame. Do not pre-multiply. The delta is
// normalized, and conjugated when inverting. A rotation flagged IsIdentity is skipped whatever its payload.
//
// Channels absent from delta are left untouched even when mode selects them.
// Euler angles are never modified.
func Compose(t *rig.BoneTransform, delta pose.Delta, mode ApplyMode, invert bool) {
	sign := 1.0
	if invert {
		sign = -1.0
	}

	if mode.Position() && delta.Position != nil {
		t.Location = t.Location.Add(delta.Position.Mul(sign))
	}

	if mode.Rotation() && delta.Rotation != nil && !delta.Rotation.IsIdentity {
		q := delta.Rotation.Quat.Normalize()
		if invert {
			q = q.Conjugate()
		}
		t.Rotation = t.Rotation.Normalize().Mul(q).Normalize()
		t.RotationMode = rig.RotationQuaternion
	}

	if mode.Scale() && delta.Scale != nil {
		t.Scale = t.Scale.Add(delta.Scale.Mul(sign))
	}
}
