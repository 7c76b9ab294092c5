package render

import (
	"fmt"
	"strings"
)

// SummaryEntry is one navigation item of the GitBook table of contents.
// Path is slash separated and relative to the book root.
type SummaryEntry struct {
	Title    string
	Path     string
	Children []SummaryEntry
}

// SummaryGroup is a titled part of the table of contents.
type SummaryGroup struct {
	Heading string
	Entries []SummaryEntry
}

// Summary renders SUMMARY.md.
func Summary(intro *SummaryEntry, groups []SummaryGroup) string {
	var b strings.Builder
	b.WriteString("# Table of contents\n\n")
	if intro != nil {
		summaryEntry(&b, *intro, 0)
		b.WriteString("\n")
	}
	for _, g := range groups {
		if len(g.Entries) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", g.Heading)
		for _, e := range g.Entries {
			summaryEntry(&b, e, 0)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func summaryEntry(b *strings.Builder, e SummaryEntry, depth int) {
	title := strings.NewReplacer("[", `\[`, "]", `\]`).Replace(strings.TrimSpace(e.Title))
	fmt.Fprintf(b, "%s* [%s](%s)\n", strings.Repeat("  ", depth), title, e.Path)
	for _, c := range e.Children {
		summaryEntry(b, c, depth+1)
	}
}
