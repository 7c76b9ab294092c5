package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where every document and use case page currently lives",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := openService()
		if err != nil {
			fatal("Error opening book", err)
		}
		st, err := svc.Status(cmd.Context())
		if err != nil {
			fatal("Error reading status", err)
		}

		out := cmd.OutOrStdout()
		if statusJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			doc := struct {
				Status  any `json:"status"`
				Service any `json:"service"`
			}{st, svc.State()}
			if err := encoder.Encode(doc); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		keys := make([]string, 0, len(st.Counts))
		for k := range st.Counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, k := range keys {
			fmt.Fprintf(w, "%s\t%d\n", k, st.Counts[k])
		}
		w.Flush()

		for _, e := range st.Entities {
			if e.Path != e.Target {
				fmt.Fprintf(out, "pending  %s %s -> %s\n", e.ID, e.Path, e.Target)
			}
		}
		for _, p := range st.Orphans {
			fmt.Fprintf(out, "orphan   %s %s\n", p.ID, p.Path)
		}
		for _, d := range st.Duplicates {
			fmt.Fprintf(out, "twice    %s %v\n", d.ID, d.Paths)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output in JSON format")
}
