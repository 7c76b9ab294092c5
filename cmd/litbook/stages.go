package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/litbook"
)

// stageCommand builds a command running one stage of the pipeline.
func stageCommand(use, short string, run func(*litbook.Service, context.Context) (litbook.Report, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			svc, err := openService()
			if err != nil {
				fatal("Error opening book", err)
			}
			r, err := run(svc, cmd.Context())
			if err != nil {
				fatal("Error running "+use, err)
			}
			printReport(cmd, r)
		},
	}
}

func printReport(cmd *cobra.Command, r litbook.Report) {
	fmt.Fprintln(cmd.OutOrStdout(), r)
	for _, w := range r.Warnings {
		fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", w)
	}
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every stage in order, from page generation to access URLs",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := openService()
		if err != nil {
			fatal("Error opening book", err)
		}
		reports, err := svc.Run(cmd.Context())
		for _, r := range reports {
			printReport(cmd, r)
		}
		if err != nil {
			fatal("Error running pipeline", err)
		}
	},
}

var rewriteCmd = &cobra.Command{
	Use:   "rewrite OLD NEW",
	Short: "Replace a reference in every markdown page of the book",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := openService()
		if err != nil {
			fatal("Error opening book", err)
		}
		r, err := svc.RewriteReferences(cmd.Context(), args[0], args[1])
		if err != nil {
			fatal("Error rewriting references", err)
		}
		printReport(cmd, r)
	},
}

func init() {
	rootCmd.AddCommand(
		stageCommand("generate", "Render every document and use case page with the category indices",
			(*litbook.Service).Generate),
		stageCommand("organize", "Write the flat indices of the document library",
			(*litbook.Service).OrganizeDocuments),
		stageCommand("reorganize-documents", "Move document pages into their class folders",
			(*litbook.Service).ReorganizeDocuments),
		stageCommand("reorganize-use-cases", "Move use case pages into their subcategory folders",
			(*litbook.Service).ReorganizeUseCases),
		stageCommand("fix-urls", "Normalize the Access URL row of every document page",
			(*litbook.Service).FixAccessURLs),
		stageCommand("apply-urls", "Link documents without a web URL to their stored copy",
			(*litbook.Service).ApplyAccessURLs),
		stageCommand("check", "Report relative links that do not resolve",
			(*litbook.Service).Check),
		stageCommand("summary", "Write the GitBook table of contents",
			(*litbook.Service).Summary),
		runCmd,
		rewriteCmd,
	)
}
