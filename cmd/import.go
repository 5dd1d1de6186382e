package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fpdrill/fpdrill/internal/corpus"
)

var importCmd = &cobra.Command{
	Use:   "import FILE...",
	Short: "Import questions from JSON files (- reads stdin)",
	Long: "Import upserts questions by ID. Each file is one batch: a single invalid " +
		"record rejects the whole file and nothing from it is written.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		out := cmd.OutOrStdout()
		var failed int
		for _, path := range args {
			n, err := importFile(cmd, env, path)
			if err != nil {
				failed++
				var verr *corpus.ValidationError
				if errors.As(err, &verr) {
					fmt.Fprintf(out, "%s: rejected, %d issue(s)\n", path, len(verr.Issues))
					for _, issue := range verr.Issues {
						fmt.Fprintf(out, "  %s\n", issue)
					}
					continue
				}
				fmt.Fprintf(out, "%s: %v\n", path, err)
				continue
			}
			env.Logger.Info("questions imported", "file", path, "count", n)
			fmt.Fprintf(out, "%s: imported %d question(s)\n", path, n)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d file(s) failed", failed, len(args))
		}
		return nil
	},
}

func importFile(cmd *cobra.Command, env *environment, path string) (int, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return 0, err
		}
		defer f.Close()
		r = f
	}
	return corpus.Import(cmd.Context(), env.Engine.Store.Questions(), r)
}
