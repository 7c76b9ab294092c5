package render

import (
	"fmt"
	"regexp"
	"strings"
)

// AccessKind classifies a document's raw access URL.
type AccessKind int

const (
	AccessUnavailable AccessKind = iota
	AccessWeb
	AccessLocal
)

func (k AccessKind) String() string {
	switch k {
	case AccessWeb:
		return "web"
	case AccessLocal:
		return "local"
	default:
		return "unavailable"
	}
}

const (
	// UnavailableNotice is rendered for absent or unrecognized URLs.
	UnavailableNotice = "*Document URL not available*"
	// DownloadLabel is the link text used for remote-storage copies.
	DownloadLabel = "Download PDF"

	localNotice = "*Local document: %s*"
)

var (
	accessRow = regexp.MustCompile(`(?m)^\| \*\*Access URL\*\* \|(.*)\|[ \t]*$`)

	mdLink        = regexp.MustCompile(`^\[([^\]]*)\]\(([^)\s]*)\)$`)
	renderedLocal = regexp.MustCompile(`^\*\[?Local document: [^*/\\]+\]?\*$`)
	// Notices emitted by earlier generations of the tool.
	legacyNotices = map[string]bool{
		"*Not publicly available*": true,
	}
)

// ClassifyAccessURL reports whether raw is a web URL, a local file reference
// or neither.
func ClassifyAccessURL(raw string) AccessKind {
	s := strings.TrimSpace(raw)
	switch {
	case hasPrefixFold(s, "http://"), hasPrefixFold(s, "https://"):
		return AccessWeb
	case hasPrefixFold(s, "file://"):
		return AccessLocal
	default:
		return AccessUnavailable
	}
}

// AccessURL normalizes a raw or previously rendered access URL:
//
//   - http(s) URLs become a link to themselves
//   - file:// URLs become a local-document notice carrying only the file name
//   - everything else becomes UnavailableNotice
//
// Already normalized values, and markdown links to web URLs, are returned
// unchanged, so AccessURL(AccessURL(x)) == AccessURL(x).
func AccessURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == UnavailableNotice || renderedLocal.MatchString(s) {
		return s
	}
	if legacyNotices[s] {
		return UnavailableNotice
	}
	if m := mdLink.FindStringSubmatch(s); m != nil {
		if ClassifyAccessURL(m[2]) == AccessWeb {
			return s
		}
		// [text](file://...) or [Not available](#)
		return AccessURL(m[2])
	}

	switch ClassifyAccessURL(s) {
	case AccessWeb:
		u := escapeURL(s)
		return fmt.Sprintf("[%s](%s)", u, u)
	case AccessLocal:
		name := localName(s)
		if name == "" {
			return UnavailableNotice
		}
		return fmt.Sprintf(localNotice, name)
	default:
		return UnavailableNotice
	}
}

// DownloadLink renders a remote-storage link.
func DownloadLink(url string) string {
	return fmt.Sprintf("[%s](%s)", DownloadLabel, escapeURL(strings.TrimSpace(url)))
}

// AccessCell returns the current value of a page's Access URL row.
func AccessCell(page string) (string, bool) {
	m := accessRow.FindStringSubmatch(page)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// ReplaceAccessURL replaces the value of every Access URL row in page.
// It reports whether the page changed.
func ReplaceAccessURL(page, value string) (string, bool) {
	row := accessRowFor(value)
	out := accessRow.ReplaceAllLiteralString(page, row)
	return out, out != page
}

// NormalizeAccessRow applies AccessURL to the Access URL row of page.
func NormalizeAccessRow(page string) (string, bool) {
	cell, ok := AccessCell(page)
	if !ok {
		return page, false
	}
	return ReplaceAccessURL(page, AccessURL(cell))
}

func accessRowFor(value string) string {
	return "| **Access URL** | " + value + " |"
}

func localName(s string) string {
	s = s[len("file://"):]
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimRight(s, `/\`)
	if i := strings.LastIndexAny(s, `/\`); i >= 0 {
		s = s[i+1:]
	}
	s = strings.Map(func(r rune) rune {
		if r == '*' || r == '|' {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

var urlEscaper = strings.NewReplacer(
	"|", "%7C", "(", "%28", ")", "%29", "[", "%5B", "]", "%5D",
	" ", "%20", "\t", "%09", "\n", "%0A", "\r", "%0D", "\v", "%0B", "\f", "%0C",
)

// escapeURL keeps URLs from breaking table cells and link syntax. No
// whitespace survives, so the rendered link target matches mdLink again.
func escapeURL(u string) string {
	return urlEscaper.Replace(u)
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
