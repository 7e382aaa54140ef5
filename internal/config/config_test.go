package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/akmonengine/livepose"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Defaults(t *testing.T) {
	cfg, err := Decode(`rig_file = "rig.toml"`)
	require.NoError(t, err)

	assert.Equal(t, "rig.toml", cfg.RigFile)
	assert.Equal(t, livepose.ModeRotation, cfg.Mode)
	assert.True(t, cfg.ApplyToAnimation)
	assert.False(t, cfg.Invert)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
}

func TestDecode_AllKeys(t *testing.T) {
	cfg, err := Decode(`
livepose_file = " pose.livepose "
rig_file = "rig.toml"
output_file = "rig.out.toml"
apply_mode = "rot_pos"
apply_to_animation = false
invert = true
log_level = "debug"
`)
	require.NoError(t, err)

	assert.Equal(t, Settings{
		LiveposeFile:     "pose.livepose",
		RigFile:          "rig.toml",
		OutputFile:       "rig.out.toml",
		Mode:             livepose.ModeRotationPosition,
		ApplyToAnimation: false,
		Invert:           true,
		LogLevel:         zerolog.DebugLevel,
	}, cfg)
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown_mode", `apply_mode = "LOCATION"`},
		{"unknown_level", `log_level = "loud"`},
		{"unknown_key", `armature = "Armature"`},
		{"wrong_type", `invert = "yes"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "livepose.toml")
	require.NoError(t, os.WriteFile(path, []byte("rig_file = \"rig.toml\"\napply_mode = \"SCALE\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, livepose.ModeScale, cfg.Mode)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.Error(t, Validate(Default()))

	cfg := Default()
	cfg.RigFile = "rig.toml"
	assert.NoError(t, Validate(cfg))
	assert.Error(t, ValidateApply(cfg))

	cfg.LiveposeFile = "pose.livepose"
	assert.NoError(t, ValidateApply(cfg))
}
