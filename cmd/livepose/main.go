package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/akmonengine/livepose"
	"github.com/akmonengine/livepose/internal/config"
	"github.com/akmonengine/livepose/internal/logging"
	"github.com/akmonengine/livepose/rig"
	"github.com/rs/zerolog"
)

type options struct {
	configPath string
	livepose   string
	rigFile    string
	output     string
	mode       string
	invert     bool
	animation  bool
	reset      bool
	logLevel   string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "settings file (TOML)")
	flag.StringVar(&opts.livepose, "pose", "", "LivePose file to apply")
	flag.StringVar(&opts.rigFile, "rig", "", "armature snapshot (TOML)")
	flag.StringVar(&opts.output, "out", "", "where to write the armature (defaults to -rig)")
	flag.StringVar(&opts.mode, "mode", "", "apply mode: ALL | ROTATION | POSITION | SCALE | ROT_POS")
	flag.BoolVar(&opts.invert, "invert", false, "remove a previously applied LivePose")
	flag.BoolVar(&opts.animation, "animation", true, "bake into every keyframe of the active action")
	flag.BoolVar(&opts.reset, "reset", false, "reset the armature to its rest pose instead of applying")
	flag.StringVar(&opts.logLevel, "log-level", "", "trace | debug | info | warn | error | off")
	flag.Parse()

	cfg, err := settings(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "livepose: %v\n", err)
		os.Exit(2)
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logger := logging.New("livepose", logCfg)

	if err := run(cfg, opts.reset, logger); err != nil {
		logger.Error().Err(err).Msg("livepose failed")
		os.Exit(1)
	}
}

// settings merges the settings file with the flags explicitly set on the command line
func settings(opts options) (config.Settings, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	var err error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "pose":
			cfg.LiveposeFile = opts.livepose
		case "rig":
			cfg.RigFile = opts.rigFile
		case "out":
			cfg.OutputFile = opts.output
		case "mode":
			mode, parseErr := livepose.ParseApplyMode(opts.mode)
			err = errors.Join(err, parseErr)
			cfg.Mode = mode
		case "invert":
			cfg.Invert = opts.invert
		case "animation":
			cfg.ApplyToAnimation = opts.animation
		case "log-level":
			lvl, ok := logging.ParseLevel(opts.logLevel)
			if !ok {
				err = errors.Join(err, fmt.Errorf("unknown log level %q", opts.logLevel))
			}
			cfg.LogLevel = lvl
		}
	})
	if err != nil {
		return cfg, err
	}

	if cfg.OutputFile == "" {
		cfg.OutputFile = cfg.RigFile
	}
	if opts.reset {
		return cfg, config.Validate(cfg)
	}
	return cfg, config.ValidateApply(cfg)
}

func run(cfg config.Settings, reset bool, logger zerolog.Logger) error {
	armature, err := rig.LoadArmature(cfg.RigFile)
	if err != nil {
		return err
	}
	logger.Info().Str("path", cfg.RigFile).Int("bones", len(armature.BoneNames())).Msg("loaded armature")

	if reset {
		if err := livepose.ResetPose(armature); err != nil {
			return err
		}
		logger.Info().Msg("armature pose reset to default")
		return rig.SaveArmature(cfg.OutputFile, armature)
	}

	applier := livepose.NewApplier(armature, cfg.Mode, cfg.Invert)
	applier.Logger = logger
	applier.Events.Subscribe(livepose.FRAME_SAMPLED, func(event livepose.Event) {
		e := event.(livepose.FrameSampledEvent)
		logger.Debug().Int("frame", e.Frame).Msgf("sampling %d/%d", e.Index+1, e.Total)
	})
	applier.Events.Subscribe(livepose.BONE_LOST, func(event livepose.Event) {
		e := event.(livepose.BoneLostEvent)
		logger.Warn().Str("bone", e.Bone).Int("frame", e.Frame).Msg("bone lost")
	})

	result, err := applier.ApplyFile(cfg.LiveposeFile, cfg.ApplyToAnimation)
	if err != nil {
		return err
	}
	logger.Info().Msg(result.Message())

	if err := rig.SaveArmature(cfg.OutputFile, armature); err != nil {
		return err
	}
	logger.Info().Str("path", cfg.OutputFile).Msg("saved armature")
	return nil
}
