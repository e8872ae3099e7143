package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/njchilds90/mathtree"
)

func newEvalCmd(a *app) *cobra.Command {
	var latex, asJSON bool
	cmd := &cobra.Command{
		Use:   "eval [text...]",
		Short: "Type text into an empty editor and print the result",
		Long: `Types the arguments, joined by spaces, into a fresh editor one character
at a time, exactly as a user would, then prints the formula and its value.

Example:
  mathtree eval "2x*3+x"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			e := mathtree.NewEditor(mathtree.WithLogger(a.logger))
			for _, r := range text {
				if err := e.Type(string(r)); err != nil {
					return err
				}
			}
			a.logger.Debug("evaluated", zap.String("input", text), zap.String("formula", e.Root().String()))

			out := cmd.OutOrStdout()
			if asJSON {
				tree, err := mathtree.ToJSON(e.Root())
				if err != nil {
					return err
				}
				return printJSON(out, map[string]interface{}{
					"state": e.State(),
					"tree":  json.RawMessage(tree),
				})
			}
			printState(out, e.State(), latex)
			return nil
		},
	}
	cmd.Flags().BoolVar(&latex, "latex", false, "Also print LaTeX renderings")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the state and tree as JSON")
	return cmd
}
