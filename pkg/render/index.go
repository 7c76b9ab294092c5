package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/litbook/pkg/core"
)

// EvidenceOrder is the display order of evidence strengths.
var EvidenceOrder = []string{"High", "Medium", "Low"}

// ClassLink describes one document class on the library pages.
type ClassLink struct {
	Title   string
	Summary string
	Href    string
	Count   int
}

// Bibliography lists every document. It is the library index before the
// flat indices exist and is kept as all-documents.md afterwards.
func Bibliography(docs []DocumentRef) string {
	var b strings.Builder
	b.WriteString("# Bibliography\n\n## All Documents\n\n")
	b.WriteString("| ID | Title | Year | Type | Evidence Strength |\n")
	b.WriteString("|----|-------|------|------|-------------------|\n")
	for _, d := range docs {
		fmt.Fprintf(&b, "| [%s](%s) | %s | %s | %s | %s |\n",
			d.ID, d.Href, Excerpt(d.Title, 60), Cell(d.Year), Cell(d.Type), Cell(d.EvidenceStrength))
	}
	return b.String()
}

// CategoryIndex is the README of a use-case category folder.
func CategoryIndex(title string, cases []UseCaseRef) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "This category contains %d documented use cases of %s in social protection systems.\n\n",
		len(cases), strings.ToLower(title))

	b.WriteString("## Use Cases in This Category\n\n")
	useCaseTable(&b, cases, 100)

	b.WriteString("\n## Statistics\n\n")
	fmt.Fprintf(&b, "- **Total Use Cases:** %d\n", len(cases))

	b.WriteString("\n### By Outcome:\n")
	for _, c := range Tally(cases, func(u UseCaseRef) string { return u.Outcome }) {
		fmt.Fprintf(&b, "- %s: %d\n", c.Key, c.N)
	}
	b.WriteString("\n### By Country:\n")
	for _, c := range Top(Tally(cases, func(u UseCaseRef) string { return u.Country }), 5) {
		fmt.Fprintf(&b, "- %s: %d\n", c.Key, c.N)
	}
	return b.String()
}

// SubcategoryIndex is the README of a use-case subcategory folder.
func SubcategoryIndex(title string, cases []UseCaseRef, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "This subcategory contains %d documented use cases.\n\n", len(cases))
	b.WriteString("## Use Cases\n\n")
	useCaseTable(&b, cases, 80)
	footer(&b, now)
	return b.String()
}

// ClassFolderIndex is the README of a document class folder.
func ClassFolderIndex(title string, docs []DocumentRef, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "This folder contains %d documents categorized as %s.\n\n", len(docs), strings.ToLower(title))

	b.WriteString("## Documents in This Category\n\n")
	b.WriteString("| ID | Title | Year | Evidence Strength |\n")
	b.WriteString("|----|-------|------|-------------------|\n")
	for _, d := range docs {
		fmt.Fprintf(&b, "| [%s](%s) | %s | %s | %s |\n",
			d.ID, d.Href, Excerpt(d.Title, 60), Or(d.Year, NotAvailable), Or(d.EvidenceStrength, NotAvailable))
	}

	b.WriteString("\n## Statistics\n\n")
	fmt.Fprintf(&b, "- **Total Documents:** %d\n", len(docs))
	documentStats(&b, docs)
	footer(&b, now)
	return b.String()
}

// ClassIndex is the flat, single-page index of one document class.
func ClassIndex(title string, docs []DocumentRef, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "This section contains %d documents categorized as %s.\n\n", len(docs), strings.ToLower(title))

	b.WriteString("## Documents\n\n")
	b.WriteString("| ID | Title | Year | Evidence Strength | Access |\n")
	b.WriteString("|----|-------|------|-------------------|--------|\n")
	for _, d := range docs {
		access := "Reference"
		if ClassifyAccessURL(d.URL) == AccessWeb {
			access = "Online"
		}
		fmt.Fprintf(&b, "| [%s](%s) | %s | %s | %s | %s |\n",
			d.ID, d.Href, Excerpt(d.Title, 50), Or(d.Year, NotAvailable), Or(d.EvidenceStrength, NotAvailable), access)
	}

	b.WriteString("\n## Statistics\n\n")
	documentStats(&b, docs)
	footer(&b, now)
	return b.String()
}

// Overview is the landing page of the flat document library.
func Overview(classes []ClassLink) string {
	var b strings.Builder
	b.WriteString("# Document Library Overview\n\n")
	b.WriteString("## Organization\n\n")
	b.WriteString("Documents in this library are organized by type and evidence quality to help researchers quickly find relevant materials.\n\n")
	b.WriteString("### Document Categories\n\n")
	for _, c := range classes {
		fmt.Fprintf(&b, "**[%s](%s)**\n", c.Title, c.Href)
		if c.Summary != "" {
			b.WriteString(c.Summary + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("### Quick Access\n\n")
	b.WriteString("- **[All Documents by ID](all-documents.md)** - Complete listing\n")
	b.WriteString("- **[Documents by Year](by-year.md)** - Chronological view\n")
	b.WriteString("- **[Documents by Evidence Strength](by-evidence.md)** - Quality-based filtering\n\n")
	b.WriteString("### Using This Library\n\n")
	b.WriteString("1. **Browse by category** to find documents of a specific type\n")
	b.WriteString("2. **Check evidence strength** to assess document quality\n")
	b.WriteString("3. **Look for Online markers** for directly accessible documents\n")
	b.WriteString("4. **Use document IDs** for precise citations\n\n")
	b.WriteString("---\n*See [Document Access Information](document-access.md) for help accessing restricted documents*\n")
	return b.String()
}

// ByYear lists documents grouped by year, newest first. Documents without a
// year are listed last.
func ByYear(docs []DocumentRef) string {
	var b strings.Builder
	b.WriteString("# Documents by Year\n\n## Chronological Listing\n\n")

	groups := make(map[string][]DocumentRef)
	var undated []DocumentRef
	for _, d := range docs {
		y := strings.TrimSpace(d.Year)
		if y == "" {
			undated = append(undated, d)
			continue
		}
		groups[y] = append(groups[y], d)
	}
	years := ByKey(Tally(docs, func(d DocumentRef) string { return d.Year }), true)
	for _, y := range years {
		fmt.Fprintf(&b, "### %s (%s)\n\n", y.Key, Plural(y.N, "document"))
		for _, d := range groups[y.Key] {
			fmt.Fprintf(&b, "- [%s](%s): %s\n", d.ID, d.Href, Excerpt(d.Title, 80))
		}
		b.WriteString("\n")
	}
	if len(undated) > 0 {
		fmt.Fprintf(&b, "### Year not specified (%s)\n\n", Plural(len(undated), "document"))
		for _, d := range undated {
			fmt.Fprintf(&b, "- [%s](%s): %s\n", d.ID, d.Href, Excerpt(d.Title, 80))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ByEvidence lists documents grouped by evidence strength in EvidenceOrder.
// Other strengths are not listed.
func ByEvidence(docs []DocumentRef) string {
	var b strings.Builder
	b.WriteString("# Documents by Evidence Strength\n\n## Quality Assessment\n\n")
	b.WriteString("Documents are rated by evidence strength to help researchers prioritize sources.\n\n")
	for _, strength := range EvidenceOrder {
		var group []DocumentRef
		for _, d := range docs {
			if strings.TrimSpace(d.EvidenceStrength) == strength {
				group = append(group, d)
			}
		}
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %s Evidence Strength (%s)\n\n", strength, Plural(len(group), "document"))
		for _, d := range group {
			fmt.Fprintf(&b, "- [%s](%s): %s *(%s)*\n", d.ID, d.Href, Excerpt(d.Title, 60), Or(d.Type, "Unknown"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FlatLibrary is the library README while documents are still flat.
func FlatLibrary(docs []core.Document) string {
	var b strings.Builder
	b.WriteString("# Documents\n\n")
	b.WriteString("Welcome to the document library. This section contains all source documents referenced in the literature review.\n\n")
	b.WriteString("-> **[Browse Document Library](overview.md)**\n\n")
	b.WriteString("### Quick Links\n\n")
	b.WriteString("- [Document Categories](overview.md)\n")
	b.WriteString("- [All Documents](all-documents.md)\n")
	b.WriteString("- [By Year](by-year.md)\n")
	b.WriteString("- [By Evidence Strength](by-evidence.md)\n")
	b.WriteString("- [Document Access Guide](document-access.md)\n\n")
	b.WriteString("---\n")
	fmt.Fprintf(&b, "*This library contains %s%s*\n", Plural(len(docs), "document"), yearSpan(docs, " from "))
	return b.String()
}

// FolderLibrary is the library README once documents live in class folders.
func FolderLibrary(classes []ClassLink, docs []core.Document, now time.Time) string {
	var b strings.Builder
	b.WriteString("# Documents Library\n\n## Document Categories\n\n")
	b.WriteString("The document library is organized into the following categories:\n\n")
	for _, c := range classes {
		fmt.Fprintf(&b, "### [%s](%s)\n", c.Title, c.Href)
		if c.Summary != "" {
			b.WriteString(c.Summary + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("## Document Statistics\n\n")
	fmt.Fprintf(&b, "- **Total Documents:** %d\n", len(docs))
	if span := yearSpan(docs, ""); span != "" {
		fmt.Fprintf(&b, "- **Date Range:** %s\n", span)
	}
	b.WriteString("\n### Documents by Category:\n")
	for _, c := range classes {
		if c.Count > 0 {
			fmt.Fprintf(&b, "- %s: %s\n", c.Title, Plural(c.Count, "document"))
		}
	}

	b.WriteString("\n## Navigation\n\n")
	b.WriteString("- Browse by category using the folders above\n")
	b.WriteString("- Each category folder contains its own README with document listings\n")
	b.WriteString("- Documents include full citations, abstracts, and metadata\n\n")
	b.WriteString("## Document Access\n\n")
	b.WriteString("See [Document Access Information](document-access.md) for guidance on accessing documents that don't have direct links.\n")
	footer(&b, now)
	return b.String()
}

// StorageLink is one row of the remote-storage reference page.
type StorageLink struct {
	ID  string
	URL string
	Web bool // the document's own web URL rather than a stored copy
}

// StorageLinks lists the downloadable copies of documents. links must be
// sorted by ID.
func StorageLinks(links []StorageLink, now time.Time) string {
	var b strings.Builder
	b.WriteString("# S3 Document Links\n\n## Available Documents\n\n")
	b.WriteString("The following documents are available for download from our S3 repository:\n\n")
	b.WriteString("| Document ID | Download Link | Type |\n")
	b.WriteString("|-------------|---------------|------|\n")
	for _, l := range links {
		kind := "S3"
		if l.Web {
			kind = "Web"
		}
		fmt.Fprintf(&b, "| %s | [Download](%s) | %s |\n", l.ID, escapeURL(l.URL), kind)
	}
	b.WriteString("\n## Access Information\n\n")
	b.WriteString("- Documents hosted on AWS S3 are freely accessible\n")
	b.WriteString("- Click the download link to access the PDF\n")
	b.WriteString("- For citation purposes, use the Document ID\n")
	footer(&b, now)
	return b.String()
}

// DocumentAccess explains the three kinds of access URL.
func DocumentAccess() string {
	return `# Document Access Information

## About Document URLs

Many of the documents referenced here come from various sources:

### Types of Documents

1. **Publicly Available Documents**
   - These have direct web links that you can click to access
   - Usually from official websites, journals, or repositories

2. **Restricted Access Documents**
   - Academic papers that may require institutional access
   - Government reports with limited distribution
   - Internal organizational documents

3. **Local Reference Documents**
   - Documents that were used in the literature review process
   - Not publicly shareable due to copyright or access restrictions
   - Listed for reference purposes only

### How to Access Documents

For documents marked as "Local document" or "Document URL not available":

1. **Check the citation** - Use the author, title, and year to search for the document
2. **Academic databases** - Try Google Scholar, JSTOR, or institutional libraries
3. **Publisher websites** - Many documents can be found on publisher sites
4. **Contact authors** - Some authors share papers upon request
5. **Institutional access** - Your organization may have subscriptions

### Document Metadata

Even when direct links aren't available, we provide:
- Full citation information
- DOI numbers (when available)
- ISBN/ISSN numbers
- Publication details
- Abstract or summary

This metadata should help you locate the documents through appropriate channels.

---
*Note: Documents are referenced for academic and research purposes and copyright and access restrictions are respected.*
`
}

func useCaseTable(b *strings.Builder, cases []UseCaseRef, width int) {
	b.WriteString("| ID | Country | Description | Outcome |\n")
	b.WriteString("|----|---------|-------------|---------|\n")
	for _, c := range cases {
		fmt.Fprintf(b, "| [%s](%s) | %s | %s | %s |\n",
			c.ID, c.Href, Cell(c.Country), Excerpt(c.Description, width), Cell(c.Outcome))
	}
}

func documentStats(b *strings.Builder, docs []DocumentRef) {
	years := ByKey(Tally(docs, func(d DocumentRef) string { return d.Year }), false)
	if len(years) > 0 {
		b.WriteString("\n### By Year:\n")
		for _, c := range years {
			fmt.Fprintf(b, "- %s: %s\n", c.Key, Plural(c.N, "document"))
		}
	}
	strengths := Tally(docs, func(d DocumentRef) string { return d.EvidenceStrength })
	if len(strengths) > 0 {
		b.WriteString("\n### By Evidence Strength:\n")
		for _, c := range strengths {
			fmt.Fprintf(b, "- %s: %s\n", c.Key, Plural(c.N, "document"))
		}
	}
}

func yearSpan(docs []core.Document, prefix string) string {
	years := make([]string, len(docs))
	for i, d := range docs {
		years[i] = d.Year
	}
	lo, hi, ok := YearRange(years)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s%d-%d", prefix, lo, hi)
}

func footer(b *strings.Builder, now time.Time) {
	fmt.Fprintf(b, "\n---\n*Last updated: %s*\n", now.Format(DateLayout))
}
