package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var noteCmd = &cobra.Command{
	Use:   "note QUESTION_ID [TEXT...]",
	Short: "Show or set the note on a question",
	Long:  "With TEXT the note is replaced; --clear removes it. Without either the current note is printed.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		id := args[0]
		if err := requireQuestion(cmd, env, id); err != nil {
			return err
		}

		clearNote, _ := cmd.Flags().GetBool("clear")
		switch {
		case clearNote:
			if err := env.Engine.Mastery.SetNotes(ctx, id, ""); err != nil {
				return err
			}
			fmt.Fprintf(out, "note on %s cleared\n", id)
		case len(args) > 1:
			if err := env.Engine.Mastery.SetNotes(ctx, id, strings.Join(args[1:], " ")); err != nil {
				return err
			}
			fmt.Fprintf(out, "note on %s saved\n", id)
		default:
			p, err := env.Engine.Mastery.Get(ctx, id)
			if err != nil {
				return err
			}
			if p.Notes == "" {
				fmt.Fprintf(out, "no note on %s\n", id)
			} else {
				fmt.Fprintln(out, p.Notes)
			}
		}
		return nil
	},
}

func init() {
	noteCmd.Flags().Bool("clear", false, "Remove the note")
}
