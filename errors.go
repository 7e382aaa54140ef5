package livepose

import (
	"errors"

	"github.com/akmonengine/livepose/pose"
	"github.com/akmonengine/livepose/rig"
)

// Bake preconditions. They fail the bake call only; the rig is left with its
// frame cursor restored.
var (
	ErrNoActiveClip    = errors.New("no active action found on armature")
	ErrNoMatchingBones = errors.New("no matching bones found in LivePose data")
	ErrNoKeyframes     = errors.New("no keyframes found in action")
)

// Re-exported so callers of this package need a single import for errors.Is
var (
	ErrIO                = pose.ErrIO
	ErrMalformedDocument = pose.ErrMalformedDocument
	ErrMalformedRecord   = pose.ErrMalformedRecord
	ErrBoneNotFound      = rig.ErrBoneNotFound
)
