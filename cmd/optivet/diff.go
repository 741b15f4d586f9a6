package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"optivet/internal/config"
	"optivet/internal/diff"
)

var (
	diffJSON  bool
	statsOnly bool
	noColor   bool
)

var diffCmd = &cobra.Command{
	Use:   "diff [file-a] [file-b]",
	Short: "Show the line-level difference between two files",
	Long: `Computes a minimal-edit line alignment between two files and renders
it with change statistics. Only the first 300 lines per side (configurable)
participate in the alignment; anything beyond is reported as elided.`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().BoolVar(&diffJSON, "json", false, "emit the edit script and stats as JSON")
	diffCmd.Flags().BoolVar(&statsOnly, "stats-only", false, "print only the change statistics")
	diffCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Diff rendering styles, matching the conventional +/- color scheme.
var (
	addedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	removedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	contextStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	ellipsisStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	addedEmphStyle   = addedStyle.Reverse(true)
	removedEmphStyle = removedStyle.Reverse(true)
)

func runDiff(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	a, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	b, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[1], err)
	}

	engine := diff.NewEngine(cfg.Diff.MaxLines)
	script := engine.Compute(string(a), string(b))
	stats := diff.ComputeStats(script)

	if diffJSON {
		payload := struct {
			Diff  []diff.Line `json:"diff"`
			Stats diff.Stats  `json:"stats"`
		}{script, stats}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	out := cmd.OutOrStdout()
	if !statsOnly {
		for i := 0; i < len(script); i++ {
			line := script[i]
			// A removed line directly followed by an added one is a
			// replacement; highlight what changed within the pair.
			if !noColor && line.Type == diff.Removed && i+1 < len(script) && script[i+1].Type == diff.Added {
				words := engine.WordDiff(line.Content, script[i+1].Content)
				fmt.Fprintln(out, renderWordLine(line, words, diffmatchpatch.DiffDelete))
				fmt.Fprintln(out, renderWordLine(script[i+1], words, diffmatchpatch.DiffInsert))
				i++
				continue
			}
			fmt.Fprintln(out, renderLine(line))
		}
	}
	fmt.Fprintf(out, "+%d -%d =%d (%d%% changed)\n",
		stats.Added, stats.Removed, stats.Unchanged, stats.ChangePercent)
	return nil
}

func renderLine(l diff.Line) string {
	numbers := fmt.Sprintf("%4s %4s", lineNo(l.OriginalLineNo), lineNo(l.NewLineNo))

	var marker string
	var style lipgloss.Style
	switch {
	case l.OriginalLineNo == nil && l.NewLineNo == nil:
		marker, style = " ", ellipsisStyle
	case l.Type == diff.Added:
		marker, style = "+", addedStyle
	case l.Type == diff.Removed:
		marker, style = "-", removedStyle
	default:
		marker, style = " ", contextStyle
	}

	text := fmt.Sprintf("%s %s %s", numbers, marker, strings.ReplaceAll(l.Content, "\t", "    "))
	if noColor {
		return text
	}
	return style.Render(text)
}

// renderWordLine renders one side of a replaced pair, emphasizing the
// segments that differ. keep selects which side's segments to show.
func renderWordLine(l diff.Line, words []diffmatchpatch.Diff, keep diffmatchpatch.Operation) string {
	base, emph, marker := addedStyle, addedEmphStyle, "+"
	if keep == diffmatchpatch.DiffDelete {
		base, emph, marker = removedStyle, removedEmphStyle, "-"
	}

	var b strings.Builder
	b.WriteString(base.Render(fmt.Sprintf("%4s %4s %s ", lineNo(l.OriginalLineNo), lineNo(l.NewLineNo), marker)))
	for _, seg := range words {
		text := strings.ReplaceAll(seg.Text, "\t", "    ")
		switch seg.Type {
		case diffmatchpatch.DiffEqual:
			b.WriteString(base.Render(text))
		case keep:
			b.WriteString(emph.Render(text))
		}
	}
	return b.String()
}

func lineNo(n *int) string {
	if n == nil {
		return ""
	}
	return fmt.Sprintf("%d", *n)
}
