package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/litbook/pkg/core"
)

// DocumentRef is a document together with the link to its page, relative
// to the page being rendered.
type DocumentRef struct {
	core.Document
	Href string
}

// UseCaseRef is a use case together with the link to its page.
type UseCaseRef struct {
	core.UseCase
	Href string
}

// DocumentPage renders the page of one document. The Access URL row holds
// the normalized form of the document's URL.
func DocumentPage(d core.Document, now time.Time) (string, error) {
	var b strings.Builder
	title := Or(d.Title, "Untitled")

	fmt.Fprintf(&b, "# %s: %s\n\n", d.ID, title)

	b.WriteString("## Citation\n\n")
	fmt.Fprintf(&b, "**%s** (%s)\n", Or(d.Authors, "Unknown"), Or(d.Year, "n.d."))
	fmt.Fprintf(&b, "*%s*\n", title)
	fmt.Fprintf(&b, "%s\n\n", Text(d.Publisher))

	b.WriteString("## Abstract\n\n")
	if strings.TrimSpace(d.Abstract) == "" {
		b.WriteString("No abstract available.\n\n")
	} else {
		fmt.Fprintf(&b, "%s\n\n", Prose(d.Abstract))
	}

	b.WriteString("## Document Details\n\n")
	table(&b, [][2]string{
		{"Year", Cell(d.Year)},
		{"Type", Cell(d.Type)},
		{"Evidence Type", Cell(d.EvidenceType)},
		{"Evidence Strength", Cell(d.EvidenceStrength)},
		{"Language", Cell(d.Language)},
		{"DOI", Cell(d.DOI)},
		{"Access URL", AccessURL(d.URL)},
	})
	b.WriteString("\n")

	b.WriteString("## Publication Details\n\n")
	list(&b, [][2]string{
		{"Container Title", Text(d.ContainerTitle)},
		{"Publisher", Text(d.Publisher)},
		{"Place", Text(d.Place)},
		{"Volume", Text(d.Volume)},
		{"Issue", Text(d.Issue)},
		{"Pages", Text(d.Pages)},
		{"ISBN", Text(d.ISBN)},
		{"ISSN", Text(d.ISSN)},
	})
	b.WriteString("\n")

	b.WriteString("## Tags\n\n")
	fmt.Fprintf(&b, "%s\n\n", Or(d.Tags, "No tags"))

	accessed := strings.TrimSpace(d.AccessDate)
	if accessed == "" {
		accessed = now.Format(DateLayout)
	}
	fmt.Fprintf(&b, "---\n*Access Date: %s*\n", Text(accessed))

	return page(Meta{ID: d.ID, Kind: core.KindDocument, Title: strings.TrimSpace(d.Title)}, b.String())
}

// UseCasePage renders the page of one use case. related holds the linked
// documents in link order with hrefs relative to the use case's folder.
func UseCasePage(uc core.UseCase, related []DocumentRef, now time.Time) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s: %s\n\n", uc.ID, Text(uc.CategoryTitle))

	b.WriteString("## Quick Facts\n\n")
	table(&b, [][2]string{
		{"Country", fmt.Sprintf("%s (%s)", Cell(uc.Country), Cell(uc.IncomeGroup))},
		{"Category", Cell(uc.CategoryTitle)},
		{"Sub-Category", Cell(uc.SubCategoryTitle)},
		{"SP Pillar", Cell(uc.SPPillar)},
		{"AI Technology", Cell(uc.AITechnology)},
		{"Implementation Status", Cell(uc.Status)},
		{"Timeline", Cell(uc.Timeline)},
		{"Scale", Cell(uc.Scale)},
	})
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Overview\n\n%s\n\n", Prose(uc.Description))

	b.WriteString("## Technical Implementation\n\n")
	b.WriteString("### AI Technology Stack\n")
	list(&b, [][2]string{
		{"Primary Technology", Text(uc.AITechnology)},
		{"Data Inputs", Text(uc.DataInputs)},
		{"PII Data Use", Text(uc.PIIDataUse)},
		{"Implementation Approach", Text(uc.ImplementationApproach)},
	})
	b.WriteString("\n### Institutional Setup\n")
	list(&b, [][2]string{
		{"Implementing Partners", Text(uc.Partners)},
		{"Funding", Text(uc.Funding)},
		{"Hosting", Text(uc.Hosting)},
	})
	b.WriteString("\n")

	b.WriteString("## Outcomes and Impact\n\n")
	fmt.Fprintf(&b, "### Intended Outcomes\n%s\n\n", Prose(uc.IntendedOutcomes))
	fmt.Fprintf(&b, "### Documented Outcomes\n%s\n\n", Prose(uc.DocumentedOutcomes))
	fmt.Fprintf(&b, "**Outcome Classification:** %s\n\n", Text(uc.Outcome))

	b.WriteString("## Risks and Safeguards\n\n")
	fmt.Fprintf(&b, "### Reported Risks\n%s\n\n", Prose(uc.Risks))
	fmt.Fprintf(&b, "### Implemented Safeguards\n%s\n\n", Prose(uc.Safeguards))

	b.WriteString("## Evidence and Documentation\n\n")
	b.WriteString("### Evidence Gaps\n")
	list(&b, [][2]string{
		{"Gap Identified", Text(uc.IsEvidenceGap)},
		{"Gap Type", Text(uc.GapType)},
	})
	fmt.Fprintf(&b, "\n### DPG Potential\n%s\n", Prose(uc.DPGPotential))

	if len(related) > 0 {
		b.WriteString("\n### Related Documents\n\n")
		for _, d := range related {
			fmt.Fprintf(&b, "- [%s (%s)](%s)\n", Or(d.Title, "Untitled"), Text(d.Year), d.Href)
		}
	}

	themes := [][2]string{
		{"Gender & Disability Inclusion", uc.InclusionNotes},
		{"Localization & Language", uc.LocalizationNotes},
		{"Cross-Sectoral Relevance", uc.CrossSectoral},
	}
	if present(themes) {
		b.WriteString("\n## Cross-Cutting Themes\n\n")
		for _, t := range themes {
			if strings.TrimSpace(t[1]) != "" {
				fmt.Fprintf(&b, "### %s\n%s\n\n", t[0], Prose(t[1]))
			}
		}
	}

	if strings.TrimSpace(uc.Keywords) != "" {
		fmt.Fprintf(&b, "\n## Keywords\n%s\n", Text(uc.Keywords))
	}

	fmt.Fprintf(&b, "\n---\n*Last Updated: %s*\n", now.Format(DateLayout))

	return page(Meta{ID: uc.ID, Kind: core.KindUseCase, Title: strings.TrimSpace(uc.CategoryTitle)}, b.String())
}

func table(b *strings.Builder, rows [][2]string) {
	b.WriteString("| Field | Value |\n|-------|-------|\n")
	for _, r := range rows {
		fmt.Fprintf(b, "| **%s** | %s |\n", r[0], r[1])
	}
}

func list(b *strings.Builder, rows [][2]string) {
	for _, r := range rows {
		fmt.Fprintf(b, "- **%s:** %s\n", r[0], r[1])
	}
}

func present(fields [][2]string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f[1]) != "" {
			return true
		}
	}
	return false
}
