package livepose

import (
	"github.com/akmonengine/livepose/pose"
	"github.com/akmonengine/livepose/rig"
)

// BakeResult is the outcome of Bake
type BakeResult struct {
	// ModifiedBones counts bones that received at least one keyframe
	ModifiedBones int
	// Frames is the number of distinct frames visited
	Frames     int
	FirstFrame int
	LastFrame  int
	Keyframes  int
	// LostBones lists bones that vanished from the rig during the bake
	LostBones []string
}

type bakeTarget struct {
	bone     string
	delta    pose.Delta
	samples  []rig.BoneTransform
	lost     bool
	modified bool
}

// Bake composes the document's deltas onto every keyframe of the rig's active
// clip and keys the result.
//
// The frames visited are the union of the key times of every curve of the
// clip, in ascending order. Each bone is composed with the first non-empty
// stack of its first record. A key is inserted only for the channels selected
// by Mode whose value actually changed.
//
// Baking runs in two phases. Sampling moves the cursor to every frame,
// evaluates the rig and snapshots each bone, so that every baseline comes from
// the original curves. Keying then composes each snapshot and inserts keys.
// Reading a bone without evaluating first returns the previous frame's values.
//
// The rig's frame cursor is restored and re-evaluated on every return path.
func (a *Applier) Bake(doc *pose.Document) (result BakeResult, err error) {
	if doc == nil {
		return BakeResult{}, ErrMalformedDocument
	}

	originalFrame := a.Rig.Frame()
	defer func() {
		a.Rig.SetFrame(originalFrame)
		a.Rig.Evaluate()
		a.Events.flush()
	}()

	clip, ok := a.Rig.ActiveClip()
	if !ok {
		return result, ErrNoActiveClip
	}

	targets := a.bakeTargets(doc)
	if len(targets) == 0 {
		return result, ErrNoMatchingBones
	}

	frames := mergeFrames(clip.KeyframeTimes())
	if len(frames) == 0 {
		return result, ErrNoKeyframes
	}

	result.Frames = len(frames)
	result.FirstFrame = frames[0]
	result.LastFrame = frames[len(frames)-1]

	a.Logger.Info().
		Str("clip", clip.Name()).
		Int("frames", result.Frames).
		Int("from", result.FirstFrame).
		Int("to", result.LastFrame).
		Int("bones", len(targets)).
		Msg("baking livepose")

	a.sample(frames, targets, &result)
	a.key(frames, targets, &result)

	for _, target := range targets {
		if target.modified {
			result.ModifiedBones++
		}
	}

	a.Rig.SetPoseApplied(true)
	a.Events.emit(AnimationBakedEvent{Result: result, Invert: a.Invert})

	a.Logger.Info().
		Int("modified", result.ModifiedBones).
		Int("keyframes", result.Keyframes).
		Bool("invert", a.Invert).
		Msg("livepose baked")

	return result, nil
}

// bakeTargets keeps the document's bake deltas whose bone exists in the rig
func (a *Applier) bakeTargets(doc *pose.Document) []*bakeTarget {
	present := make(map[string]bool)
	for _, name := range a.Rig.BoneNames() {
		present[name] = true
	}

	var targets []*bakeTarget
	for _, bd := range doc.BakeDeltas() {
		if !present[bd.Bone] {
			continue
		}
		targets = append(targets, &bakeTarget{bone: bd.Bone, delta: bd.Delta})
	}
	return targets
}

func (a *Applier) sample(frames []int, targets []*bakeTarget, result *BakeResult) {
	for _, target := range targets {
		target.samples = make([]rig.BoneTransform, len(frames))
	}

	for i, frame := range frames {
		a.Rig.SetFrame(frame)
		a.Rig.Evaluate()

		a.Events.emit(FrameSampledEvent{Frame: frame, Index: i, Total: len(frames)})
		a.Events.flush()

		for _, target := range targets {
			if target.lost {
				continue
			}
			t, err := a.Rig.Transform(target.bone)
			if err != nil {
				a.lose(target, frame, err, result)
				continue
			}
			target.samples[i] = t
		}
	}
}

func (a *Applier) key(frames []int, targets []*bakeTarget, result *BakeResult) {
	for i, frame := range frames {
		for _, target := range targets {
			if target.lost {
				continue
			}

			before := target.samples[i]
			after := before
			Compose(&after, target.delta, a.Mode, a.Invert)

			inserted, err := a.keyBone(target.bone, frame, before, after)
			result.Keyframes += inserted
			if inserted > 0 {
				target.modified = true
			}
			if err != nil {
				a.lose(target, frame, err, result)
			}
		}
	}
}

// keyBone writes and keys the channels of after that differ from before.
// Comparison is exact: a delta that leaves a value bit-identical adds no key.
func (a *Applier) keyBone(bone string, frame int, before, after rig.BoneTransform) (int, error) {
	inserted := 0

	if a.Mode.Position() && after.Location != before.Location {
		if err := a.Rig.SetLocation(bone, after.Location); err != nil {
			return inserted, err
		}
		if err := a.insert(bone, rig.ChannelLocation, frame); err != nil {
			return inserted, err
		}
		inserted++
	}

	if a.Mode.Rotation() && after.Rotation != before.Rotation {
		if err := a.Rig.SetRotationMode(bone, rig.RotationQuaternion); err != nil {
			return inserted, err
		}
		if err := a.Rig.SetRotation(bone, after.Rotation); err != nil {
			return inserted, err
		}
		if err := a.insert(bone, rig.ChannelRotation, frame); err != nil {
			return inserted, err
		}
		inserted++
	}

	if a.Mode.Scale() && after.Scale != before.Scale {
		if err := a.Rig.SetScale(bone, after.Scale); err != nil {
			return inserted, err
		}
		if err := a.insert(bone, rig.ChannelScale, frame); err != nil {
			return inserted, err
		}
		inserted++
	}

	return inserted, nil
}

func (a *Applier) insert(bone string, channel rig.Channel, frame int) error {
	if err := a.Rig.InsertKeyframe(bone, channel, frame); err != nil {
		return err
	}
	a.Events.emit(KeyframeInsertedEvent{Bone: bone, Channel: channel, Frame: frame})
	return nil
}

func (a *Applier) lose(target *bakeTarget, frame int, err error, result *BakeResult) {
	target.lost = true
	result.LostBones = append(result.LostBones, target.bone)
	a.Events.emit(BoneLostEvent{Bone: target.bone, Frame: frame, Err: err})
	a.Logger.Warn().Err(err).Str("bone", target.bone).Int("frame", frame).Msg("bone lost during bake, skipped for remaining frames")
}

// mergeFrames merges ascending key time sequences into ascending, distinct
// integer frames. Times are truncated toward zero.
func mergeFrames(times [][]float64) []int {
	cursors := make([]int, len(times))
	var frames []int

	for {
		next := -1
		for i, seq := range times {
			if cursors[i] >= len(seq) {
				continue
			}
			if next == -1 || seq[cursors[i]] < times[next][cursors[next]] {
				next = i
			}
		}
		if next == -1 {
			return frames
		}

		frame := int(times[next][cursors[next]])
		cursors[next]++
		if len(frames) == 0 || frames[len(frames)-1] != frame {
			frames = append(frames, frame)
		}
	}
}
