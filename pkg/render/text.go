// Package render turns entities and aggregates into markdown pages.
//
// Every function here is pure: the same inputs produce the same bytes, and
// the current date is always passed in by the caller.
package render

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	htmltable "github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
)

const (
	// NotSpecified replaces missing field values.
	NotSpecified = "Not specified"
	// NotAvailable replaces missing aggregate values (years, strengths).
	NotAvailable = "N/A"

	// DateLayout is used for every "Last updated" footer.
	DateLayout = "2006-01-02"
)

var (
	htmlTag = regexp.MustCompile(`<(?i:[a-z][a-z0-9]*|/[a-z][a-z0-9]*)[^>]*>`)

	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()

	prose = converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			htmltable.NewTablePlugin(),
		),
	)
)

// Text trims v and escapes pipes. Empty values become NotSpecified.
func Text(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return NotSpecified
	}
	return strings.ReplaceAll(v, "|", `\|`)
}

// Or returns Text(v), or def when v is blank.
func Or(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return Text(v)
}

// Cell is Text collapsed to a single line, for table cells.
func Cell(v string) string {
	return Text(strings.Join(strings.Fields(v), " "))
}

// Prose renders a free-text field. Values carrying HTML markup (abstracts
// exported from reference managers) are sanitized and converted to markdown.
func Prose(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return NotSpecified
	}
	if !htmlTag.MatchString(v) {
		return Text(v)
	}
	md, err := prose.ConvertString(ugc.Sanitize(v))
	if err != nil || strings.TrimSpace(md) == "" {
		return Text(strict.Sanitize(v))
	}
	return strings.TrimSpace(md)
}

// Plain strips any markup from v and collapses whitespace.
func Plain(v string) string {
	if htmlTag.MatchString(v) {
		v = strict.Sanitize(v)
	}
	return strings.Join(strings.Fields(v), " ")
}

// Excerpt is a single-line, markup-free preview of at most n runes followed
// by an ellipsis. Missing values become NotSpecified.
func Excerpt(v string, n int) string {
	v = Plain(v)
	if v == "" {
		return NotSpecified
	}
	if utf8.RuneCountInString(v) > n {
		r := []rune(v)
		v = strings.TrimRightFunc(string(r[:n]), isSpace) + "..."
	}
	return strings.ReplaceAll(v, "|", `\|`)
}

// Plural returns "1 document" or "3 documents".
func Plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' || r == '\n' }
