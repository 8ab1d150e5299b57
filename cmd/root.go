package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"reposynth/pkg/combine"
	"reposynth/pkg/config"
	"reposynth/pkg/ignore"
	"reposynth/pkg/logging"
	"reposynth/pkg/version"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// openConfigDir is replaced in tests.
var openConfigDir = config.OpenInFileExplorer

// rootOptions holds the raw flag values shared by the root and tree commands.
type rootOptions struct {
	directory  string
	output     string
	extensions []string
	ignore     []string
	openConfig bool
	debug      bool
}

// RootCmd is the base command when called without any subcommands.
var RootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "reposynth",
		Short: "Concatenate a repository's text files into a single prompt-ready stream",
		Long: `reposynth walks a directory, drops ignored folders, files and extensions,
and prints every remaining text file as a "<path>:" header followed by its content.
Ignored names are read from a config file created on first run; use --config to open it.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !opts.debug {
				return nil
			}
			return logging.Setup(true, version.AppName, version.Get().Version)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.directory, "directory", "d", "", "Directory to analyze (default: current working directory)")
	flags.StringSliceVarP(&opts.extensions, "extensions", "e", nil, "Only include files with these extensions")
	flags.StringSliceVarP(&opts.ignore, "ignore", "i", nil, "Exclude files with these extensions, in addition to the configured ones")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging on stderr")

	cmd.Flags().StringVarP(&opts.output, "output-file", "o", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVarP(&opts.openConfig, "config", "c", false, "Open the config file location in the file explorer")

	cmd.AddCommand(newTreeCmd(opts))
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

func runRoot(cmd *cobra.Command, opts *rootOptions) error {
	logger := logging.Logger

	cfgPath, cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	if opts.openConfig {
		dir := filepath.Dir(cfgPath)
		logger.Info("Opening config directory", zap.String("directory", dir))
		if err := openConfigDir(dir); err != nil {
			return fmt.Errorf("failed to open config directory: %w", err)
		}
		return nil
	}

	runOpts, err := opts.resolve(cfg)
	if err != nil {
		return err
	}
	runOpts.Output = opts.output

	if _, err := combine.Run(runOpts, cmd.OutOrStdout(), logger); err != nil {
		return err
	}
	return nil
}

func loadConfig(logger *zap.Logger) (string, config.Config, error) {
	path, err := config.Path()
	if err != nil {
		return "", config.Config{}, err
	}
	cfg, err := config.LoadOrCreate(path, logger)
	if err != nil {
		return "", config.Config{}, err
	}
	return path, cfg, nil
}

// resolve turns the flags and the stored config into run options.
// An allow and deny list sharing an extension is rejected here, before any walk.
func (o *rootOptions) resolve(cfg config.Config) (combine.Options, error) {
	root := o.directory
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return combine.Options{}, fmt.Errorf("failed to get current directory: %w", err)
		}
		root = wd
	}

	policy := cfg.Policy()
	rules := ignore.NewExtensionRules(o.extensions, o.ignore, policy)
	if err := rules.Validate(); err != nil {
		return combine.Options{}, fmt.Errorf("invalid arguments: %w", err)
	}

	return combine.Options{
		Root:   root,
		Policy: policy,
		Rules:  rules,
	}, nil
}
