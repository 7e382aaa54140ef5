package livepose

import (
	"errors"
	"fmt"
	"strings"

	"github.com/akmonengine/livepose/pose"
	"github.com/akmonengine/livepose/rig"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// SkippedDisplayLimit is the number of skipped bone names shown in a report
const SkippedDisplayLimit = 5

// Applier applies LivePose documents to a rig.
// Only one operation may run at a time on a given rig.
type Applier struct {
	Rig    rig.Rig
	Mode   ApplyMode
	Invert bool // remove a previously applied pose instead of adding it

	Logger zerolog.Logger
	Events Events
}

// NewApplier returns an Applier with a disabled logger
func NewApplier(r rig.Rig, mode ApplyMode, invert bool) *Applier {
	return &Applier{
		Rig:    r,
		Mode:   mode,
		Invert: invert,
		Logger: zerolog.Nop(),
		Events: NewEvents(),
	}
}

// ApplyResult is the outcome of ApplyPose
type ApplyResult struct {
	// Applied counts the records composed onto a rig bone
	Applied int
	// Skipped lists the bones of the document the rig does not have, in document order
	Skipped []string
}

// SkippedSummary joins the first limit skipped names, with a trailing "..."
// when more were skipped.
func (r ApplyResult) SkippedSummary(limit int) string {
	if len(r.Skipped) <= limit {
		return strings.Join(r.Skipped, ", ")
	}
	return strings.Join(r.Skipped[:limit], ", ") + "..."
}

// ApplyPose composes every stack of every record onto the rig's current pose.
// Bones missing from the rig are reported in the result, never fatal.
func (a *Applier) ApplyPose(doc *pose.Document) (ApplyResult, error) {
	if doc == nil {
		return ApplyResult{}, ErrMalformedDocument
	}
	defer a.Events.flush()

	var result ApplyResult
	for _, record := range doc.Records {
		before, err := a.Rig.Transform(record.Bone)
		if err != nil {
			a.skip(&result, record.Bone, err)
			continue
		}
		if len(record.Stacks) == 0 {
			continue
		}

		after := before
		for _, stack := range record.Stacks {
			Compose(&after, stack, a.Mode, a.Invert)
		}
		if err := commit(a.Rig, record.Bone, before, after); err != nil {
			a.skip(&result, record.Bone, err)
			continue
		}

		result.Applied++
		if result.Applied <= 3 {
			a.Logger.Debug().
				Str("bone", record.Bone).
				Int("stacks", len(record.Stacks)).
				Str("before", fmt.Sprint(before.Rotation)).
				Str("after", fmt.Sprint(after.Rotation)).
				Msg("bone posed")
		}
	}

	a.Rig.SetPoseApplied(true)
	a.Events.emit(PoseAppliedEvent{Result: result, Invert: a.Invert})

	level := zerolog.InfoLevel
	if len(result.Skipped) > 0 {
		level = zerolog.WarnLevel
	}
	a.Logger.WithLevel(level).
		Int("applied", result.Applied).
		Strs("skipped", result.Skipped).
		Bool("invert", a.Invert).
		Stringer("mode", a.Mode).
		Msg("pose applied")

	return result, nil
}

func (a *Applier) skip(result *ApplyResult, bone string, err error) {
	result.Skipped = append(result.Skipped, bone)
	a.Events.emit(BoneSkippedEvent{Bone: bone})
	a.Logger.Debug().Err(err).Str("bone", bone).Msg("bone skipped")
}

// commit writes back the components that differ between before and after
func commit(r rig.Rig, bone string, before, after rig.BoneTransform) error {
	if after.Location != before.Location {
		if err := r.SetLocation(bone, after.Location); err != nil {
			return err
		}
	}
	if after.RotationMode != before.RotationMode {
		if err := r.SetRotationMode(bone, after.RotationMode); err != nil {
			return err
		}
	}
	if after.Rotation != before.Rotation {
		if err := r.SetRotation(bone, after.Rotation); err != nil {
			return err
		}
	}
	if after.Scale != before.Scale {
		if err := r.SetScale(bone, after.Scale); err != nil {
			return err
		}
	}
	return nil
}

// ResetPose puts every bone back to identity and clears the pose-applied flag
func ResetPose(r rig.Rig) error {
	var errs []error
	for _, bone := range r.BoneNames() {
		errs = append(errs,
			r.SetLocation(bone, mgl64.Vec3{0, 0, 0}),
			r.SetRotation(bone, mgl64.QuatIdent()),
			r.SetEuler(bone, mgl64.Vec3{0, 0, 0}),
			r.SetScale(bone, mgl64.Vec3{1, 1, 1}),
		)
	}
	r.SetPoseApplied(false)
	return errors.Join(errs...)
}

// Result is the outcome of ApplyFile. Exactly one of Pose and Bake is set.
type Result struct {
	Pose   *ApplyResult
	Bake   *BakeResult
	Invert bool
}

// Message renders the one-line report shown to the user
func (r Result) Message() string {
	verb := "Applied"
	if r.Invert {
		verb = "Removed"
	}

	switch {
	case r.Bake != nil:
		return fmt.Sprintf("%s LivePose offset to %d bones across %d keyframes", verb, r.Bake.ModifiedBones, r.Bake.Frames)
	case r.Pose != nil && len(r.Pose.Skipped) > 0:
		return fmt.Sprintf("Applied pose to %d bones. Skipped %d missing bones: %s",
			r.Pose.Applied, len(r.Pose.Skipped), r.Pose.SkippedSummary(SkippedDisplayLimit))
	case r.Pose != nil:
		return fmt.Sprintf("Successfully %s pose to %d bones", strings.ToLower(verb), r.Pose.Applied)
	default:
		return ""
	}
}

// ApplyFile loads the LivePose file at path and applies it to the current
// pose, or bakes it into the active clip when toAnimation is set.
// File and document errors abort before the rig is touched.
func (a *Applier) ApplyFile(path string, toAnimation bool) (Result, error) {
	doc, err := pose.Load(path)
	if err != nil {
		return Result{}, err
	}
	if doc.Malformed > 0 {
		a.Logger.Warn().Int("records", doc.Malformed).Str("path", path).Msg("malformed records skipped")
	}

	result := Result{Invert: a.Invert}
	if toAnimation {
		bake, err := a.Bake(doc)
		if err != nil {
			return Result{}, err
		}
		result.Bake = &bake
		return result, nil
	}

	applied, err := a.ApplyPose(doc)
	if err != nil {
		return Result{}, err
	}
	result.Pose = &applied
	return result, nil
}
