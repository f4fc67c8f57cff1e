package blocks

import (
	"fmt"
	"regexp"
	"strings"

	"autoblog/internal/core"

	"github.com/google/uuid"
)

// Converter turns a raw generated-text string into an ordered sequence of
// typed content blocks. Keys assigned to text blocks are unique within one
// conversion: a run-scoped random prefix combined with a monotonic counter,
// so they do not depend on hashing the content.
type Converter struct {
	keyPrefix string
	counter   int
}

var (
	numberedHeadingRegex = regexp.MustCompile(`^\d+\.\s+`)
	whitespaceRegex      = regexp.MustCompile(`\s+`)
)

// NewConverter creates a Converter with a fresh run-scoped key prefix.
func NewConverter() *Converter {
	return &Converter{keyPrefix: uuid.NewString()[:8]}
}

// Convert splits content into newline-separated lines and classifies each
// into paragraph, heading, or table blocks. Consecutive pipe-delimited lines
// accumulate into a single table; blank lines are skipped without flushing,
// while any other non-pipe line flushes the pending table first. Order of
// blocks follows source line order.
func (c *Converter) Convert(content string) []core.Block {
	var out []core.Block
	var tableRows [][]string

	flushTable := func() {
		if len(tableRows) > 0 {
			out = append(out, core.Block{Rows: tableRows})
			tableRows = nil
		}
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.Contains(line, "|") {
			tableRows = append(tableRows, parseTableRow(line))
			continue
		}
		flushTable()

		text := normalizeText(line)
		style := core.StyleNormal
		switch {
		case numberedHeadingRegex.MatchString(text):
			// Numbered section headings keep their prefix in the text.
			style = core.StyleH2
		case strings.HasPrefix(text, "## "):
			style = core.StyleH2
			text = strings.TrimSpace(text[3:])
		case strings.HasPrefix(text, "# "):
			style = core.StyleH1
			text = strings.TrimSpace(text[2:])
		}

		out = append(out, core.Block{
			Style: style,
			Text:  text,
			Key:   c.nextKey(),
		})
	}

	flushTable()
	return out
}

// nextKey returns the next locally-unique block key.
func (c *Converter) nextKey() string {
	c.counter++
	return fmt.Sprintf("%s-%d", c.keyPrefix, c.counter)
}

// parseTableRow strips a single optional leading/trailing pipe, splits on
// the interior pipes, and trims each cell. A line with a lone pipe degrades
// into a row with whatever cells remain; it never fails.
func parseTableRow(line string) []string {
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	cells := strings.Split(line, "|")
	for i, cell := range cells {
		cells[i] = strings.TrimSpace(cell)
	}
	return cells
}

// normalizeText cleans up model output artifacts: em-dashes become hyphens,
// bold/italic markers are stripped, and whitespace runs collapse to single
// spaces.
func normalizeText(line string) string {
	line = strings.ReplaceAll(line, "—", "-")
	line = strings.ReplaceAll(line, "**", "")
	line = strings.ReplaceAll(line, "*", "")
	line = whitespaceRegex.ReplaceAllString(line, " ")
	return strings.TrimSpace(line)
}
