package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/njchilds90/mathtree"
)

var (
	labelColor   = color.New(color.FgHiBlack).SprintFunc()
	formulaColor = color.New(color.FgCyan).SprintFunc()
	valueColor   = color.New(color.FgGreen, color.Bold).SprintFunc()
	noneColor    = color.New(color.FgYellow).SprintFunc()
	errorColor   = color.New(color.FgRed).SprintFunc()
	insertColor  = color.New(color.FgGreen).SprintFunc()
	deleteColor  = color.New(color.FgRed, color.CrossedOut).SprintFunc()
)

// printState writes the formula and its value.
func printState(w io.Writer, s mathtree.Snapshot, latex bool) {
	fmt.Fprintf(w, "%s %s\n", labelColor("formula:"), formulaColor(s.Formula))
	if latex {
		fmt.Fprintf(w, "%s %s\n", labelColor("latex:  "), s.LaTeX)
	}
	value := noneColor("(incomplete)")
	if s.Evaluated {
		value = valueColor(s.Value)
		if latex {
			value += " " + labelColor("=") + " " + s.ValueLaTeX
		}
	}
	fmt.Fprintf(w, "%s %s\n", labelColor("value:  "), value)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", errorColor("error:"), err)
}

// formulaDiff renders how to differs from from, marking inserted text
// {+like this+} and removed text [-like this-].
func formulaDiff(from, to string) string {
	dmp := diffpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(from, to, false))
	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffpatch.DiffInsert:
			b.WriteString(insertColor("{+" + d.Text + "+}"))
		case diffpatch.DiffDelete:
			b.WriteString(deleteColor("[-" + d.Text + "-]"))
		case diffpatch.DiffEqual:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}
