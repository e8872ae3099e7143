package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/njchilds90/mathtree"
)

func newReplayCmd(a *app) *cobra.Command {
	var trace, latex bool
	cmd := &cobra.Command{
		Use:   "replay <script|->",
		Short: "Replay a key script against an empty editor",
		Long: `Replays editor keys, one per line:

  type 5+7
  left
  backspace      # folds 5+7 into 12

Blank lines and # comments are skipped. A .yaml or .yml script is a list
of {name, text} keys instead. Use - to read the script from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := loadScript(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			a.logger.Debug("replaying script", zap.String("script", args[0]), zap.Int("keys", len(keys)))

			out := cmd.OutOrStdout()
			e := mathtree.NewEditor(mathtree.WithLogger(a.logger))
			prev := e.Root().String()
			for i, k := range keys {
				if err := e.Apply(k); err != nil {
					return fmt.Errorf("step %d (%s): %w", i+1, k, err)
				}
				if trace {
					cur := e.Root().String()
					fmt.Fprintf(out, "%3d  %-16s %s\n", i+1, k, formulaDiff(prev, cur))
					prev = cur
				}
			}
			printState(out, e.State(), latex)
			return nil
		},
	}
	cmd.Flags().BoolVar(&trace, "trace", false, "Print how the formula changes at each step")
	cmd.Flags().BoolVar(&latex, "latex", false, "Also print LaTeX renderings")
	return cmd
}

// loadScript reads keys from path, or from stdin when path is "-".
func loadScript(stdin io.Reader, path string) ([]mathtree.Key, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()
		r = f
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var keys []mathtree.Key
		if err := yaml.NewDecoder(r).Decode(&keys); err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to parse script: %w", err)
		}
		return keys, nil
	}
	return parseScript(r)
}

func parseScript(r io.Reader) ([]mathtree.Key, error) {
	var keys []mathtree.Key
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		k, err := mathtree.ParseKey(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		keys = append(keys, k)
	}
	return keys, sc.Err()
}
