// Package cmd provides the CLI commands for doorcost.
package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"doorcost/core/output"
	"doorcost/core/rules"
	"doorcost/internal/config"
	doorerrors "doorcost/internal/errors"
	"doorcost/internal/logging"
)

// Version is overridden at build time with -ldflags "-X doorcost/cmd/cli/cmd.Version=..."
var Version = "0.1.0"

// app carries the global flags and the state resolved from them
type app struct {
	cfgFile   string
	rulesFile string
	verbose   bool

	cfg   *config.Config
	table *rules.Table
}

// NewRootCmd builds the command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "doorcost",
		Short: "Price sliding doors from a rules table",
		Long: `doorcost prices sliding door configurations.

Every price is computed from a rules table (built in, or loaded from an
HCL or YAML file) and comes with a line-by-line breakdown.

Examples:
  doorcost calculate --product "Type A" --width 900 --height 2100
  doorcost calculate --product "Type D" --width 3200 --count "Horizontale Regel=6"
  doorcost quote doors.yaml --format markdown
  doorcost rules --rules custom.hcl`,
		SilenceUsage:      true,
		PersistentPreRunE: a.initConfig,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.doorcost.json)")
	root.PersistentFlags().StringVar(&a.rulesFile, "rules", "", "rules file (.hcl, .yaml); overrides the config")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")

	root.AddCommand(newCalculateCmd(a))
	root.AddCommand(newQuoteCmd(a))
	root.AddCommand(newRulesCmd(a))
	root.AddCommand(newVersionCmd())
	root.AddCommand(newConfigCmd(a))
	return root
}

// Execute runs the CLI
func Execute() error {
	defer logging.Sync()
	return NewRootCmd().Execute()
}

func (a *app) initConfig(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(""); err != nil {
		return err
	}

	path := a.cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if a.rulesFile != "" {
		cfg.Rules.File = a.rulesFile
	}
	config.Set(cfg)
	a.cfg = cfg

	if a.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		return err
	}
	logging.Debug("configuration loaded", zap.String("path", path), zap.String("rules", cfg.Rules.File))
	return nil
}

// rules loads the configured table once
func (a *app) rules() (*rules.Table, error) {
	if a.table != nil {
		return a.table, nil
	}
	if a.cfg == nil || a.cfg.Rules.File == "" {
		a.table = rules.Default()
		return a.table, nil
	}

	t, err := rules.LoadFile(a.cfg.Rules.File)
	if err != nil {
		return nil, err
	}
	logging.Info("rules loaded",
		zap.String("file", a.cfg.Rules.File),
		zap.String("fingerprint", t.Fingerprint()))
	a.table = t
	return t, nil
}

// renderOptions merges the output flags of cmd over the config
func (a *app) renderOptions(cmd *cobra.Command, format, lang string, details bool) (output.Format, output.Options, error) {
	opts := output.Options{Language: a.cfg.Tag(), ShowDetails: a.cfg.Output.ShowDetails}
	if cmd.Flags().Changed("details") {
		opts.ShowDetails = details
	}
	if lang != "" {
		tag, err := language.Parse(lang)
		if err != nil {
			return "", opts, doorerrors.Wrap(doorerrors.TypeInput, fmt.Sprintf("invalid --lang %q", lang), err)
		}
		opts.Language = tag
	}
	if format == "" {
		format = a.cfg.Output.Format
	}
	return output.Format(format), opts, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "doorcost version %s\n", Version)
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(config.Get())
		},
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath()
			if len(args) > 0 {
				path = args[0]
			}
			if err := config.Default().Save(path); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	})
	return configCmd
}
