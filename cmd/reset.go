package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learner data",
	Long: "Reset clears answers, progress and daily statistics. Settings are kept. " +
		"With --full the imported questions are removed as well. A snapshot of " +
		"progress and daily statistics is saved first.",
	RunE: func(cmd *cobra.Command, args []string) error {
		full, _ := cmd.Flags().GetBool("full")
		yes, _ := cmd.Flags().GetBool("yes")

		if !yes {
			what := "answers, progress and daily statistics"
			if full {
				what += " and all questions"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "This deletes %s. Continue? [y/N] ", what)
			line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if ans := strings.ToLower(strings.TrimSpace(line)); ans != "y" && ans != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "aborted")
				return nil
			}
		}

		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.Engine.Reset(cmd.Context(), full); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "reset complete")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("full", false, "Also delete the imported questions")
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
