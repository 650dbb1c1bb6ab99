// Package cmd - calculate command
package cmd

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"doorcost/core/door"
	"doorcost/core/engine"
	"doorcost/core/output"
	"doorcost/core/quote"
	doorerrors "doorcost/internal/errors"
	"doorcost/internal/logging"
)

type calculateFlags struct {
	product string
	width   float64
	height  float64
	options []string
	counts  []string
	region  string
	format  string
	lang    string
	details bool
	clamp   bool
}

func newCalculateCmd(a *app) *cobra.Command {
	f := &calculateFlags{}

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Price a single door configuration",
		Long: `Price one door and print its breakdown.

Width and height default to the product's base size. Counted options are
given as id=n and keep the order in which they are passed.

Examples:
  doorcost calculate --product "Type A" --width 900 --height 2100 --option Isolatieglas
  doorcost calculate --product "Type D" --width 3200 --count "Horizontale Regel=6" --region Limburg
  doorcost calculate --product "Type B" --format json --lang nl
  doorcost calculate --product "Type A" --width 5000 --clamp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCalculate(cmd, f)
		},
	}

	cmd.Flags().StringVarP(&f.product, "product", "p", "", "product name [REQUIRED]")
	cmd.Flags().Float64VarP(&f.width, "width", "W", 0, "width in mm (default: product base width)")
	cmd.Flags().Float64VarP(&f.height, "height", "H", 0, "height in mm (default: product base height)")
	cmd.Flags().StringArrayVarP(&f.options, "option", "o", nil, "area or flat option id (repeatable)")
	cmd.Flags().StringArrayVarP(&f.counts, "count", "c", nil, "counted option as id=n (repeatable)")
	cmd.Flags().StringVarP(&f.region, "region", "r", "", "installation region")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format (cli, json, markdown)")
	cmd.Flags().StringVar(&f.lang, "lang", "", "label and number language (en, nl)")
	cmd.Flags().BoolVarP(&f.details, "details", "d", true, "show the breakdown lines")
	cmd.Flags().BoolVar(&f.clamp, "clamp", false, "pull width and height into the product range")
	_ = cmd.MarkFlagRequired("product")

	return cmd
}

func (a *app) runCalculate(cmd *cobra.Command, f *calculateFlags) error {
	table, err := a.rules()
	if err != nil {
		return err
	}

	cfg, err := door.SelectProduct(engine.Configuration{}, table, f.product)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("width") {
		cfg.Width = f.width
	}
	if cmd.Flags().Changed("height") {
		cfg.Height = f.height
	}
	cfg.Options = append(cfg.Options, f.options...)
	cfg.Counts, err = parseCounts(f.counts)
	if err != nil {
		return err
	}
	cfg.Region = f.region
	if f.clamp {
		cfg = door.Clamp(cfg, table)
	}

	format, opts, err := a.renderOptions(cmd, f.format, f.lang, f.details)
	if err != nil {
		return err
	}

	eng, err := engine.New(table, engine.WithLanguage(opts.Language))
	if err != nil {
		return err
	}
	q, err := quote.Build(cmd.Context(), eng, []door.Door{{ID: door.NewID(), Config: cfg}})
	if err != nil {
		return err
	}
	if len(q.OutOfRange()) > 0 {
		rng := q.Doors[0].Range
		logging.Warn("dimensions outside the product range",
			zap.String("product", cfg.Product),
			zap.Float64("width", cfg.Width),
			zap.Float64("height", cfg.Height),
			zap.Float64("min_width", rng.MinWidth),
			zap.Float64("max_width", rng.MaxWidth),
			zap.Float64("min_height", rng.MinHeight),
			zap.Float64("max_height", rng.MaxHeight))
	}

	return output.NewRegistry(opts).Render(cmd.OutOrStdout(), format, q)
}

// parseCounts reads id=n pairs in order. The id may itself contain '='.
func parseCounts(pairs []string) (engine.Quantities, error) {
	var q engine.Quantities
	for _, pair := range pairs {
		i := strings.LastIndex(pair, "=")
		if i <= 0 {
			return q, doorerrors.Newf(doorerrors.TypeInput, "invalid --count %q, expected id=n", pair)
		}
		n, err := strconv.Atoi(strings.TrimSpace(pair[i+1:]))
		if err != nil {
			return q, doorerrors.Wrap(doorerrors.TypeInput, "invalid --count "+strconv.Quote(pair), err)
		}
		q.Set(strings.TrimSpace(pair[:i]), n)
	}
	return q, nil
}
