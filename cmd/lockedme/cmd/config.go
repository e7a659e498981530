package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	internal "github.com/ZanzyTHEbar/lockedme/lockedme"
	"github.com/ZanzyTHEbar/lockedme/lockedme/config"
	"github.com/ZanzyTHEbar/lockedme/lockedme/filesystem"
	"github.com/ZanzyTHEbar/lockedme/lockedme/validation"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// application holds everything a command needs. It is filled in by the root
// command's pre-run hook; until then logger is the default stderr logger.
type application struct {
	fs         afero.Fs
	v          *viper.Viper
	configFile string

	cfg       *config.Config
	logger    zerolog.Logger
	store     *filesystem.DirectoryStore
	validator *validation.Validator
}

func newApplication(fsys afero.Fs) *application {
	return &application{
		fs:     fsys,
		v:      viper.New(),
		logger: internal.GetLogger(),
	}
}

// bindFlags registers the persistent flags and binds them into the viper
// instance so they win over the config file and the environment.
func (app *application) bindFlags(cmd *cobra.Command) error {
	flags := cmd.PersistentFlags()
	flags.StringVar(&app.configFile, "config", "", "config file (default searches ./config.yaml, ~/.config/lockedme, /etc/lockedme)")
	flags.String("dir", "", "directory to manage (default current directory)")
	flags.Bool("strict", false, "fail instead of falling back to the current directory")
	flags.Int("max-attempts", internal.DefaultMaxAttempts, "invalid inputs allowed before a prompt is abandoned")
	flags.StringSlice("allowed-ext", nil, "extensions accepted for new files (default any)")
	flags.String("log-level", internal.DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.String("log-format", internal.DefaultLogFormat, "log format (auto, console, json)")

	bindings := map[string]string{
		config.KeyDirectory:         "dir",
		config.KeyStrictDirectory:   "strict",
		config.KeyMaxAttempts:       "max-attempts",
		config.KeyAllowedExtensions: "allowed-ext",
		config.KeyLogLevel:          "log-level",
		config.KeyLogFormat:         "log-format",
	}
	for key, name := range bindings {
		if err := app.v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// load resolves configuration and builds the logger, validator and store.
func (app *application) load(cmd *cobra.Command) error {
	envErr := godotenv.Load(internal.DefaultDotEnvFile)
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		// The configured logger depends on variables the file may set.
		app.logger.Warn().Err(envErr).Msg("Failed to load .env file")
	}

	cfg, err := config.Load(app.v, app.configFile)
	if err != nil {
		return err
	}
	app.cfg = cfg

	app.logger = internal.NewLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format).
		With().Str("cmd", cmd.Name()).Logger()

	if envErr == nil {
		app.logger.Debug().Str("file", internal.DefaultDotEnvFile).Msg("Loaded environment file")
	} else {
		app.logger.Debug().Msg("No .env file found, using environment variables")
	}

	if used := app.v.ConfigFileUsed(); used != "" {
		app.logger.Debug().Str("file", used).Msg("Loaded config file")
	}

	app.validator = validation.New(cfg.AllowedExtensions...)

	if cfg.StrictDirectory {
		store, err := filesystem.Open(app.fs, cfg.Directory, app.logger)
		if err != nil {
			return fmt.Errorf("cannot use directory: %w", err)
		}
		app.store = store
	} else {
		app.store = filesystem.New(app.fs, cfg.Directory, app.logger)
	}

	return nil
}
