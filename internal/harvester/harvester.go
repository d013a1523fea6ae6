// Package harvester picks lines that look like labelled numeric rows out of
// extracted page text. It is a line filter, not a layout analyser.
package harvester

import (
	"regexp"
	"strings"

	"github.com/BerylCAtieno/pdftext-api/internal/models"
)

var (
	// A period followed by whitespace ends a line; the period stays with it.
	lineBreak = regexp.MustCompile(`\.\s+|\n+`)
	digit     = regexp.MustCompile(`[0-9]`)
	separator = regexp.MustCompile(`[:,]`)
)

// HarvestTables returns the table-like lines of every page that has text,
// in page order and line order.
func HarvestTables(pages []models.PageResult) []models.TableCandidate {
	var out []models.TableCandidate
	for _, page := range pages {
		if !page.HasTextContent || page.Text == "" {
			continue
		}
		for _, line := range SplitLines(page.Text) {
			if IsTableRow(line) {
				out = append(out, models.TableCandidate{Page: page.Index, Content: line})
			}
		}
	}
	return out
}

// SplitLines cuts text after sentence-ending periods and at newline runs.
// Abbreviations such as "Fig. 2" are split too.
func SplitLines(text string) []string {
	var lines []string
	start := 0
	for _, m := range lineBreak.FindAllStringIndex(text, -1) {
		end := m[0]
		if text[m[0]] == '.' {
			end++
		}
		lines = appendLine(lines, text[start:end])
		start = m[1]
	}
	return appendLine(lines, text[start:])
}

func appendLine(lines []string, line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return lines
	}
	return append(lines, line)
}

// IsTableRow reports whether line has a digit and a ':' or ','.
func IsTableRow(line string) bool {
	return digit.MatchString(line) && separator.MatchString(line)
}
