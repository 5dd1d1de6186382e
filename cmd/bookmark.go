package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fpdrill/fpdrill/internal/store"
)

var bookmarkCmd = &cobra.Command{
	Use:   "bookmark [QUESTION_ID]",
	Short: "Toggle a bookmark, or list bookmarked questions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			on := true
			rows, err := env.Engine.Store.Progress().Query(ctx, store.ProgressFilter{Bookmarked: &on})
			if err != nil {
				return err
			}
			for _, p := range rows {
				fmt.Fprintln(out, p.QuestionID)
			}
			fmt.Fprintf(out, "%d bookmark(s)\n", len(rows))
			return nil
		}

		id := args[0]
		if err := requireQuestion(cmd, env, id); err != nil {
			return err
		}
		on, err := env.Engine.Mastery.ToggleBookmark(ctx, id)
		if err != nil {
			return err
		}
		if on {
			fmt.Fprintf(out, "%s bookmarked\n", id)
		} else {
			fmt.Fprintf(out, "%s unbookmarked\n", id)
		}
		return nil
	},
}

// requireQuestion fails when id is not in the corpus.
func requireQuestion(cmd *cobra.Command, env *environment, id string) error {
	_, found, err := env.Engine.Store.Questions().Get(cmd.Context(), id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("question %q not found", id)
	}
	return nil
}
