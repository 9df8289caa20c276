package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"regions/internal/fixture"
	"regions/internal/hir"
	"regions/internal/region"
)

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump FILE",
		Short: "Render the replayed scope forest as a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fx, err := fixture.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderForest(cmd.OutOrStdout(), fx, newPalette(colorEnabled))
			return nil
		},
	}
}

type dumpLine struct {
	prefix string
	scope  region.Scope
}

// renderForest prints every root and its descendants, one scope per line,
// with spans aligned in a column and bindings, overrides and suspension
// points noted after them.
func renderForest(w io.Writer, fx *fixture.Fixture, p palette) {
	tree := fx.Tree
	children := tree.Children()

	var lines []dumpLine
	var walk func(s region.Scope, prefix, childPrefix string)
	walk = func(s region.Scope, prefix, childPrefix string) {
		lines = append(lines, dumpLine{prefix: prefix, scope: s})
		kids := children[s]
		for i, k := range kids {
			if i == len(kids)-1 {
				walk(k, childPrefix+"└─ ", childPrefix+"   ")
			} else {
				walk(k, childPrefix+"├─ ", childPrefix+"│  ")
			}
		}
	}
	for _, r := range tree.Roots() {
		walk(r, "", "")
	}

	width := 0
	for _, l := range lines {
		width = max(width, runewidth.StringWidth(l.prefix+l.scope.String()))
	}

	notes := scopeNotes(tree)
	for _, l := range lines {
		label := l.prefix + l.scope.String()
		pad := strings.Repeat(" ", width-runewidth.StringWidth(label)+2)
		fmt.Fprintf(w, "%s%s%s%s", p.guide.Render(l.prefix), p.scope(l.scope), pad, l.scope.Span(fx.Table, tree))
		if n := notes[l.scope]; len(n) > 0 {
			fmt.Fprintf(w, "  %s", p.note.Render(strings.Join(n, " ")))
		}
		fmt.Fprintln(w)
	}

	if bodies := closureLines(tree); len(bodies) > 0 {
		fmt.Fprintln(w)
		for _, b := range bodies {
			fmt.Fprintln(w, b)
		}
	}
}

func scopeNotes(tree *region.ScopeTree) map[region.Scope][]string {
	notes := make(map[region.Scope][]string)
	for v, s := range tree.VarScopes() {
		notes[s] = append(notes[s], fmt.Sprintf("var=%d", v))
	}
	for x := range tree.RvalueExprs() {
		s, static, _ := tree.RvalueOverride(x)
		if static {
			continue
		}
		notes[s] = append(notes[s], fmt.Sprintf("temp=%d", x))
	}
	for s, y := range tree.SuspensionPoints() {
		notes[s] = append(notes[s], fmt.Sprintf("%s#%d", y.Source, y.ExprAndPatCount))
	}
	return notes
}

func closureLines(tree *region.ScopeTree) []string {
	var out []string
	for inner, outer := range tree.Closures() {
		out = append(out, fmt.Sprintf("closure body %d in %d", inner, outer))
	}
	for x := range tree.RvalueExprs() {
		if _, static, _ := tree.RvalueOverride(x); static {
			out = append(out, fmt.Sprintf("temp=%d static", x))
		}
	}
	var counts []string
	for b, n := range tree.BodyExprCounts() {
		counts = append(counts, fmt.Sprintf("%s=%d", bodyLabel(b), n))
	}
	if len(counts) > 0 {
		out = append(out, "expr counts: "+strings.Join(counts, " "))
	}
	return out
}

func bodyLabel(b hir.BodyID) string {
	return fmt.Sprintf("body %d", b.Value.Local)
}
