package livepose

import (
	"math"

	"github.com/akmonengine/livepose/pose"
	"github.com/akmonengine/livepose/rig"
	"github.com/go-gl/mathgl/mgl64"
)

// Helper function to compare floats with epsilon tolerance
func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

// Helper function to compare Vec3 with epsilon tolerance
func vec3AlmostEqual(a, b mgl64.Vec3, epsilon float64) bool {
	return almostEqual(a.X(), b.X(), epsilon) &&
		almostEqual(a.Y(), b.Y(), epsilon) &&
		almostEqual(a.Z(), b.Z(), epsilon)
}

// Helper function to compare quaternions with epsilon tolerance
func quatAlmostEqual(a, b mgl64.Quat, epsilon float64) bool {
	return almostEqual(a.W, b.W, epsilon) &&
		almostEqual(a.V.X(), b.V.X(), epsilon) &&
		almostEqual(a.V.Y(), b.V.Y(), epsilon) &&
		almostEqual(a.V.Z(), b.V.Z(), epsilon)
}

func vec(x, y, z float64) *mgl64.Vec3 {
	v := mgl64.Vec3{x, y, z}
	return &v
}

func rotation(q mgl64.Quat) *pose.Rotation {
	return &pose.Rotation{Quat: q}
}

func quatZ(angle float64) mgl64.Quat {
	return mgl64.QuatRotate(angle, mgl64.Vec3{0, 0, 1})
}

// recordingRig records every cursor move on top of an Armature
type recordingRig struct {
	*rig.Armature
	frames []int
}

func (r *recordingRig) SetFrame(frame int) {
	r.frames = append(r.frames, frame)
	r.Armature.SetFrame(frame)
}

// offsetDoc returns a document moving bone by +1 on X
func offsetDoc(bone string) *pose.Document {
	return &pose.Document{Records: []pose.Record{
		{Bone: bone, Stacks: []pose.Delta{{Position: vec(1, 0, 0)}}},
	}}
}
