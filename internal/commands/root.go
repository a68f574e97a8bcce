package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cardguard-dev/cardguard/internal/buildinfo"
	"github.com/cardguard-dev/cardguard/internal/config"
	"github.com/cardguard-dev/cardguard/internal/logger"
)

type globalFlags struct {
	configPath string
	logLevel   string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var gf globalFlags

	rootCmd := &cobra.Command{
		Use:     "cardguard",
		Short:   "Feature preparation and scoring for card fraud detection",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&gf.configPath, "config", config.FileName, "path to project config")
	rootCmd.PersistentFlags().StringVar(&gf.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newTransformCommand(&gf))
	rootCmd.AddCommand(newPrepareCommand(&gf))
	rootCmd.AddCommand(newScoreCommand(&gf))
	rootCmd.AddCommand(newSplitCommand(&gf))

	return rootCmd
}

// project is a loaded configuration and the directory its relative paths
// resolve against.
type project struct {
	root string
	cfg  *config.Config
}

// loadProject reads the config at gf.configPath, falling back to defaults
// when the file does not exist, then applies .env and environment
// overrides. It installs the configured logger on cmd's context.
func loadProject(cmd *cobra.Command, gf *globalFlags) (*project, error) {
	absConfig, err := filepath.Abs(gf.configPath)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	root := filepath.Dir(absConfig)

	cfg, err := config.Load(absConfig)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = config.Default()
	} else if err != nil {
		return nil, err
	}

	if err := config.ApplyEnv(cfg, filepath.Join(root, ".env")); err != nil {
		return nil, err
	}
	if gf.logLevel != "" {
		cfg.Logging.Level = gf.logLevel
	}

	log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	cmd.SetContext(logger.WithContext(cmd.Context(), log))

	return &project{root: root, cfg: cfg}, nil
}

// path resolves a configured path against the project root.
func (p *project) path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.root, rel)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
