package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/njchilds90/mathtree"
)

func newREPLCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Edit an expression interactively",
		Long: `Starts an interactive editor. Each line is typed at the caret; lines
starting with ':' are commands. Type :help for the list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rl, err := readline.NewEx(&readline.Config{
				Prompt:          a.cfg.REPL.Prompt,
				HistoryFile:     a.cfg.REPL.HistoryFile,
				InterruptPrompt: "^C",
				EOFPrompt:       "exit",
				AutoComplete:    replCompleter,
			})
			if err != nil {
				return fmt.Errorf("readline: %w", err)
			}
			defer rl.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "mathtree repl. Type :help for commands, :quit to leave.")
			return newREPL(a, out).run(rl)
		},
	}
}

var replCompleter = readline.NewPrefixCompleter(
	readline.PcItem(":left"),
	readline.PcItem(":right"),
	readline.PcItem(":backspace"),
	readline.PcItem(":delete"),
	readline.PcItem(":latex"),
	readline.PcItem(":json"),
	readline.PcItem(":reset"),
	readline.PcItem(":help"),
	readline.PcItem(":quit"),
)

const replHelp = `  <text>       type text at the caret (operators restructure the tree)
  :left        move the caret left       :right       move the caret right
  :backspace   delete before the caret   :delete      delete after the caret
  :latex       toggle LaTeX output       :json        print the tree as JSON
  :reset       start over                :quit        leave`

var errQuit = errors.New("quit")

type lineReader interface {
	Readline() (string, error)
}

type repl struct {
	a      *app
	out    io.Writer
	editor *mathtree.Editor
	latex  bool
}

func newREPL(a *app, out io.Writer) *repl {
	return &repl{a: a, out: out, editor: mathtree.NewEditor(mathtree.WithLogger(a.logger))}
}

func (r *repl) run(rl lineReader) error {
	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				return nil
			}
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := r.dispatch(line); err != nil {
			if err == errQuit {
				return nil
			}
			printError(r.out, err)
		}
	}
}

func (r *repl) dispatch(line string) error {
	if !strings.HasPrefix(line, ":") {
		if err := r.editor.Type(line); err != nil {
			return err
		}
		r.show()
		return nil
	}

	switch cmd := strings.TrimSpace(strings.TrimPrefix(line, ":")); cmd {
	case "quit", "q", "exit":
		return errQuit
	case "help", "?":
		fmt.Fprintln(r.out, replHelp)
	case "latex":
		r.latex = !r.latex
		r.show()
	case "json":
		tree, err := mathtree.ToJSON(r.editor.Root())
		if err != nil {
			return err
		}
		fmt.Fprintln(r.out, tree)
	case "reset":
		r.editor = mathtree.NewEditor(mathtree.WithLogger(r.a.logger))
		r.show()
	case "bs":
		return r.key(mathtree.Key{Name: mathtree.KeyBackspace})
	case "del":
		return r.key(mathtree.Key{Name: mathtree.KeyDelete})
	default:
		k, err := mathtree.ParseKey(cmd)
		if err != nil {
			return err
		}
		return r.key(k)
	}
	return nil
}

func (r *repl) key(k mathtree.Key) error {
	if err := r.editor.Apply(k); err != nil {
		return err
	}
	r.show()
	return nil
}

// show prints the state with a caret marker under the focused field.
func (r *repl) show() {
	s := r.editor.State()
	printState(r.out, s, r.latex)
	text := r.editor.Text(r.editor.Focus())
	fmt.Fprintf(r.out, "%s %s|%s  %s\n",
		labelColor("field:  "), text[:s.Caret], text[s.Caret:], labelColor(fmt.Sprint(s.Focus)))
}
