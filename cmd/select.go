package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fpdrill/fpdrill/internal/corpus"
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Print the questions a selection would serve",
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := requestFromFlags(cmd)
		if err != nil {
			return err
		}
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		if req.Grade == "" {
			st, err := env.Engine.Settings.Load(cmd.Context())
			if err != nil {
				return err
			}
			req.Grade = st.TargetGrade
		}
		req.Count = env.requestCount(req)

		qs, err := env.Engine.Selection.Select(cmd.Context(), req)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(qs)
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tYEAR\tCATEGORY\tQUESTION")
		for _, q := range qs {
			cat := q.Category
			if c, ok := corpus.LookupCategory(q.Category); ok {
				cat = c.ShortName
			}
			fmt.Fprintf(tw, "%s\t%d%s\t%s\t%s\n", q.ID, q.Year, q.Session, cat, truncate(q.QuestionText, 40))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%d question(s)\n", len(qs))
		return nil
	},
}

func init() {
	addSelectionFlags(selectCmd)
	selectCmd.Flags().Bool("json", false, "Print full question records as JSON")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
