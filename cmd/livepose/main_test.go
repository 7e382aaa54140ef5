package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/akmonengine/livepose"
	"github.com/akmonengine/livepose/internal/config"
	"github.com/akmonengine/livepose/internal/testutil/testlog"
	"github.com/akmonengine/livepose/rig"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rigTOML = `
name = "Armature"
frame = 3

[[bones]]
name = "Spine"

[[bones]]
name = "Head"
location = [0, 2, 0]

[action]
name = "Idle"

[[action.curves]]
bone = "Spine"
channel = "location"

[[action.curves.keys]]
frame = 1
value = [0, 0, 0]

[[action.curves.keys]]
frame = 5
value = [0, 4, 0]
`

const poseJSON = `{"Data": [
	{"BonePoseInfoId": {"BoneName": "Spine"}, "Stacks": [{"Transform": {"Position": {"X": 1, "Y": 0, "Z": 0}}}]},
	{"BonePoseInfoId": {"BoneName": "Tail"}, "Stacks": [{"Transform": {"Position": {"X": 1, "Y": 0, "Z": 0}}}]}
]}`

func writeInputs(t *testing.T) config.Settings {
	t.Helper()
	dir := t.TempDir()
	rigPath := filepath.Join(dir, "rig.toml")
	posePath := filepath.Join(dir, "pose.livepose")
	require.NoError(t, os.WriteFile(rigPath, []byte(rigTOML), 0o644))
	require.NoError(t, os.WriteFile(posePath, []byte(poseJSON), 0o644))

	cfg := config.Default()
	cfg.RigFile = rigPath
	cfg.LiveposeFile = posePath
	cfg.OutputFile = filepath.Join(dir, "out.toml")
	cfg.Mode = livepose.ModePosition
	return cfg
}

func TestRun_Bake(t *testing.T) {
	cfg := writeInputs(t)

	require.NoError(t, run(cfg, false, testlog.New(t)))

	out, err := rig.LoadArmature(cfg.OutputFile)
	require.NoError(t, err)
	assert.True(t, out.PoseApplied)
	assert.Equal(t, 3, out.Frame(), "frame cursor is restored before saving")

	keys := out.Keyframes("Spine", rig.ChannelLocation)
	require.Len(t, keys, 2)
	assert.Equal(t, mgl64.Vec4{1, 0, 0, 0}, keys[0].Value)
	assert.Equal(t, mgl64.Vec4{1, 4, 0, 0}, keys[1].Value)
}

func TestRun_SinglePose(t *testing.T) {
	cfg := writeInputs(t)
	cfg.ApplyToAnimation = false

	require.NoError(t, run(cfg, false, testlog.New(t)))

	out, err := rig.LoadArmature(cfg.OutputFile)
	require.NoError(t, err)
	spine, err := out.Transform("Spine")
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, spine.Location)
	assert.Equal(t, []float64{1, 5}, out.Action().Curve("Spine", rig.ChannelLocation).Times(), "single pose leaves the action alone")
}

func TestRun_Reset(t *testing.T) {
	cfg := writeInputs(t)

	require.NoError(t, run(cfg, true, testlog.New(t)))

	out, err := rig.LoadArmature(cfg.OutputFile)
	require.NoError(t, err)
	assert.False(t, out.PoseApplied)
	head, err := out.Transform("Head")
	require.NoError(t, err)
	assert.Equal(t, rig.NewBoneTransform(), head)
}

func TestRun_MissingPose(t *testing.T) {
	cfg := writeInputs(t)
	cfg.LiveposeFile = filepath.Join(t.TempDir(), "missing.livepose")

	err := run(cfg, false, testlog.New(t))
	assert.ErrorIs(t, err, livepose.ErrIO)
	assert.NoFileExists(t, cfg.OutputFile)
}
