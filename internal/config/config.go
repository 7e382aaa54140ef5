package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/akmonengine/livepose"
	"github.com/akmonengine/livepose/internal/logging"
	"github.com/rs/zerolog"
)

// Settings drives one livepose run
type Settings struct {
	LiveposeFile     string
	RigFile          string
	OutputFile       string
	Mode             livepose.ApplyMode
	ApplyToAnimation bool
	Invert           bool
	LogLevel         zerolog.Level
}

type fileConfig struct {
	LiveposeFile     string `toml:"livepose_file"`
	RigFile          string `toml:"rig_file"`
	OutputFile       string `toml:"output_file"`
	ApplyMode        string `toml:"apply_mode"`
	ApplyToAnimation bool   `toml:"apply_to_animation"`
	Invert           bool   `toml:"invert"`
	LogLevel         string `toml:"log_level"`
}

// Default applies rotation only, baked into the active animation
func Default() Settings {
	return Settings{
		Mode:             livepose.ModeRotation,
		ApplyToAnimation: true,
		Invert:           false,
		LogLevel:         zerolog.InfoLevel,
	}
}

// Load reads settings from a TOML file. Keys absent from the file keep their
// Default value.
func Load(path string) (Settings, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	cfg, err := fromFile(raw, meta)
	if err != nil {
		return Settings{}, fmt.Errorf("load settings %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses settings from TOML text
func Decode(data string) (Settings, error) {
	var raw fileConfig
	meta, err := toml.Decode(data, &raw)
	if err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return fromFile(raw, meta)
}

func fromFile(raw fileConfig, meta toml.MetaData) (Settings, error) {
	cfg := Default()

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Settings{}, fmt.Errorf("unknown setting %q", undecoded[0].String())
	}

	cfg.LiveposeFile = strings.TrimSpace(raw.LiveposeFile)
	cfg.RigFile = strings.TrimSpace(raw.RigFile)
	cfg.OutputFile = strings.TrimSpace(raw.OutputFile)

	if meta.IsDefined("apply_mode") {
		mode, err := livepose.ParseApplyMode(raw.ApplyMode)
		if err != nil {
			return Settings{}, err
		}
		cfg.Mode = mode
	}
	if meta.IsDefined("apply_to_animation") {
		cfg.ApplyToAnimation = raw.ApplyToAnimation
	}
	if meta.IsDefined("invert") {
		cfg.Invert = raw.Invert
	}
	if meta.IsDefined("log_level") {
		lvl, ok := logging.ParseLevel(raw.LogLevel)
		if !ok {
			return Settings{}, fmt.Errorf("unknown log_level %q", raw.LogLevel)
		}
		cfg.LogLevel = lvl
	}

	return cfg, nil
}

// Validate checks the settings needed to run
func Validate(cfg Settings) error {
	if cfg.RigFile == "" {
		return fmt.Errorf("settings missing rig_file")
	}
	return nil
}

// ValidateApply checks the settings needed to apply a LivePose file
func ValidateApply(cfg Settings) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	if cfg.LiveposeFile == "" {
		return fmt.Errorf("settings missing livepose_file")
	}
	return nil
}
