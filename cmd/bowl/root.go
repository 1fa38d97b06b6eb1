// Root command for the bowl CLI.
package main

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jackjohn7/bowl"
	"github.com/jackjohn7/bowl/internal/cache"
	"github.com/jackjohn7/bowl/internal/logging"
	"github.com/jackjohn7/bowl/internal/paths"
	"github.com/jackjohn7/bowl/internal/sqlite"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// sysError marks failures of the environment (I/O, storage) as opposed to
// bad input.
type sysError struct {
	err error
}

func (e *sysError) Error() string { return e.err.Error() }
func (e *sysError) Unwrap() error { return e.err }

func sysErr(err error) error {
	if err == nil {
		return nil
	}
	return &sysError{err: err}
}

// exitCode maps an error returned by a command to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var se *sysError
	if errors.As(err, &se) {
		return exitSysError
	}
	return exitUserError
}

// app holds global flag values and state shared by subcommands.
type app struct {
	configDir string
	dataDir   string
	workDir   string
	logLevel  string
	logFormat string
	jsonMode  bool

	cfg    *viper.Viper
	logger *slog.Logger
}

// newRootCmd creates the top-level "bowl" command with global flags and all
// subcommands registered.
func newRootCmd() *cobra.Command {
	a := &app{logger: logging.Discard()}

	root := &cobra.Command{
		Use:   "bowl",
		Short: "Package project templates and create projects from them",
		Long: `Bowl packages a template directory into a single .bowl bundle,
keeps bundles in a local cache and recreates projects from them.`,
		Version:       bowl.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory holding the template cache (default: platform data dir)")
	root.PersistentFlags().StringVarP(&a.workDir, "dir", "C", ".", "run as if bowl was started in this directory")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: text or json")
	root.PersistentFlags().BoolVar(&a.jsonMode, "json", false, "output as JSON")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newNewCmd(a))
	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newPublishCmd(a))
	root.AddCommand(newSaveCmd(a))
	root.AddCommand(newUseCmd(a))
	root.AddCommand(newInspectCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newRemoveCmd(a))

	return root
}

// setup loads config.yaml and builds the logger. Flags win over config
// values.
func (a *app) setup(cmd *cobra.Command) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return sysErr(err)
	}
	a.configDir = configDir

	cfg, err := loadConfig(configDir)
	if err != nil {
		return sysErr(err)
	}
	a.cfg = cfg

	logCfg := logging.DefaultConfig()
	logCfg.Output = cmd.ErrOrStderr()
	for _, v := range []string{a.logLevel, cfg.GetString(cfgKeyLogLevel)} {
		if v != "" {
			logCfg.Level = v
			break
		}
	}
	for _, v := range []string{a.logFormat, cfg.GetString(cfgKeyLogFormat)} {
		if v != "" {
			logCfg.Format = v
			break
		}
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return err
	}
	a.logger = logger.With("command", cmd.Name())

	workDir, err := filepath.Abs(a.workDir)
	if err != nil {
		return sysErr(err)
	}
	a.workDir = workDir

	a.logger.Debug("configuration loaded", "config_dir", configDir, "work_dir", workDir)
	return nil
}

// resolveDataDir returns the data directory following the precedence:
// --data-dir flag > config.yaml data_dir > BOWL_DATA_DIR env > platform default.
func (a *app) resolveDataDir() (string, error) {
	var configured string
	if a.cfg != nil {
		configured = a.cfg.GetString(cfgKeyDataDir)
	}
	return paths.ResolveDataDir(a.dataDir, configured)
}

// openStore attaches the catalog and returns the local template cache. The
// caller must call the returned close function.
func (a *app) openStore() (*cache.Store, func(), error) {
	dataDir, err := a.resolveDataDir()
	if err != nil {
		return nil, nil, sysErr(err)
	}

	catalog := sqlite.NewBackend()
	if err := catalog.Attach(dataDir); err != nil {
		return nil, nil, sysErr(err)
	}
	closeFn := func() {
		if err := catalog.Detach(); err != nil {
			a.logger.Warn("detach catalog", "error", err)
		}
	}

	store := cache.Open(dataDir, catalog)
	a.logger.Debug("cache opened", "dir", store.Dir())
	return store, closeFn, nil
}

// context returns the command context or a background context when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
