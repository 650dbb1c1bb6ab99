// Package cmd - quote command
package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"doorcost/core/door"
	"doorcost/core/engine"
	"doorcost/core/output"
	"doorcost/core/quote"
	"doorcost/internal/logging"
)

type quoteFlags struct {
	format  string
	lang    string
	details bool
}

func newQuoteCmd(a *app) *cobra.Command {
	f := &quoteFlags{}

	cmd := &cobra.Command{
		Use:   "quote <doors-file>",
		Short: "Price every door in a doors file",
		Long: `Price a list of doors read from a YAML or HCL file and print the
per-door breakdown and the grand total.

Examples:
  doorcost quote examples/doors.yaml
  doorcost quote examples/doors.hcl --format markdown --lang nl`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runQuote(cmd, args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format (cli, json, markdown)")
	cmd.Flags().StringVar(&f.lang, "lang", "", "label and number language (en, nl)")
	cmd.Flags().BoolVarP(&f.details, "details", "d", true, "show the breakdown lines")

	return cmd
}

func (a *app) runQuote(cmd *cobra.Command, path string, f *quoteFlags) error {
	table, err := a.rules()
	if err != nil {
		return err
	}

	doors, err := door.LoadFile(path)
	if err != nil {
		return err
	}
	doors = door.FromDoors(table, doors).Doors()
	logging.Debug("doors loaded", zap.String("file", path), zap.Int("count", len(doors)))

	format, opts, err := a.renderOptions(cmd, f.format, f.lang, f.details)
	if err != nil {
		return err
	}

	eng, err := engine.New(table, engine.WithLanguage(opts.Language))
	if err != nil {
		return err
	}
	q, err := quote.Build(cmd.Context(), eng, doors)
	if err != nil {
		return err
	}
	for _, d := range q.OutOfRange() {
		logging.Warn("dimensions outside the product range",
			zap.String("door", d.Door.ID),
			zap.String("product", d.Door.Config.Product))
	}

	return output.NewRegistry(opts).Render(cmd.OutOrStdout(), format, q)
}
