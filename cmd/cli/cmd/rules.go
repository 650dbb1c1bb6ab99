// Package cmd - rules command
package cmd

import (
	"github.com/spf13/cobra"

	"doorcost/core/output"
)

func newRulesCmd(a *app) *cobra.Command {
	var format, lang string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the rules table",
		Long: `Print the products, options, regions and surcharges of the active
rules table together with its fingerprint.

Examples:
  doorcost rules
  doorcost rules --format json
  doorcost rules --rules examples/rules.hcl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.rules()
			if err != nil {
				return err
			}
			_, opts, err := a.renderOptions(cmd, "", lang, false)
			if err != nil {
				return err
			}
			return output.RenderRules(cmd.OutOrStdout(), output.Format(format), table, opts.Language)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "cli", "output format (cli, json)")
	cmd.Flags().StringVar(&lang, "lang", "", "number language (en, nl)")

	return cmd
}
