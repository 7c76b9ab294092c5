// Package litbook is the Composition Root for the litbook application.
//
// It wires the review dataset (CSV exports of the literature review
// spreadsheet) to the markdown book published with GitBook: one page per
// document and per use case, navigation indices, and the table of contents.
//
// Philosophy:
//
// The book is a derived artifact. Pages are regenerated from the dataset and
// then reorganized in place as the layout evolves, so every stage is
// idempotent and never deletes a page it did not move.
//
// Features:
//
//   - **Staged Pipeline**: generate, organize, reorganize, fix and apply access URLs.
//   - **Configurable Taxonomy**: category, subcategory and document class folders in litbook.yaml.
//   - **Reference Rewriting**: moved pages keep working links.
//   - **Link Checking**: every relative link of the book is verified.
//   - **Observability**: the service exposes its state through introspection.
//
// Usage:
//
//	svc, err := litbook.New("./book",
//		litbook.WithLogger(logger),
//	)
//
//	reports, err := svc.Run(ctx)
package litbook
