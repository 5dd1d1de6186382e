package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/fpdrill/fpdrill/internal/settings"
	"github.com/fpdrill/fpdrill/internal/store"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the study settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		st, err := env.Engine.Settings.Load(cmd.Context())
		if err != nil {
			return err
		}
		return printSettings(cmd.OutOrStdout(), st)
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change study settings",
	Example: `  fpdrill settings set --grade 2 --exam-date 2026-01-25
  fpdrill settings set --daily-goal 30 --theme dark
  fpdrill settings set --exam-date ""   # clear the exam date`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := patchFromFlags(cmd)
		if p == (settings.Patch{}) {
			return fmt.Errorf("nothing to change; see fpdrill settings set --help")
		}

		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		st, err := env.Engine.Settings.Update(cmd.Context(), p)
		if err != nil {
			return err
		}
		env.Logger.Debug("settings updated")
		return printSettings(cmd.OutOrStdout(), st)
	},
}

func init() {
	f := settingsSetCmd.Flags()
	f.String("grade", "", "Target exam grade (3 or 2)")
	f.String("exam-date", "", "Exam date as YYYY-MM-DD; empty clears it")
	f.Int("daily-goal", 0, "Questions per day")
	f.Bool("reminder", false, "Enable the daily reminder")
	f.String("reminder-time", "", "Reminder time as HH:MM")
	f.String("theme", "", "light, dark or auto")

	settingsCmd.AddCommand(settingsSetCmd)
}

// patchFromFlags sets only the fields whose flags were given.
func patchFromFlags(cmd *cobra.Command) settings.Patch {
	var p settings.Patch
	f := cmd.Flags()
	if f.Changed("grade") {
		v, _ := f.GetString("grade")
		p.TargetGrade = &v
	}
	if f.Changed("exam-date") {
		v, _ := f.GetString("exam-date")
		p.ExamDate = &v
	}
	if f.Changed("daily-goal") {
		v, _ := f.GetInt("daily-goal")
		p.DailyGoal = &v
	}
	if f.Changed("reminder") {
		v, _ := f.GetBool("reminder")
		p.ReminderEnabled = &v
	}
	if f.Changed("reminder-time") {
		v, _ := f.GetString("reminder-time")
		p.ReminderTime = &v
	}
	if f.Changed("theme") {
		v, _ := f.GetString("theme")
		p.Theme = &v
	}
	return p
}

func printSettings(w io.Writer, st store.Settings) error {
	exam := "-"
	if st.ExamDate != "" {
		exam = st.ExamDate
		if days, ok := settings.DaysUntilExam(st, time.Now()); ok && days >= 0 {
			exam += fmt.Sprintf(" (in %d days)", days)
		}
	}
	reminder := "off"
	if st.ReminderEnabled {
		reminder = "on"
		if st.ReminderTime != "" {
			reminder += " at " + st.ReminderTime
		}
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "grade\t%s\n", st.TargetGrade)
	fmt.Fprintf(tw, "exam date\t%s\n", exam)
	fmt.Fprintf(tw, "daily goal\t%d\n", st.DailyGoal)
	fmt.Fprintf(tw, "reminder\t%s\n", reminder)
	fmt.Fprintf(tw, "theme\t%s\n", st.Theme)
	return tw.Flush()
}
