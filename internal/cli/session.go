package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbowers/daytally/internal/models"
)

var (
	sessionCategory int
	sessionDate     string
	sessionMinutes  int
	sessionNote     string
	sessionFrom     string
	sessionTo       string
)

func SessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Track focus sessions",
	}

	cmd.AddCommand(sessionAddCmd())
	cmd.AddCommand(sessionListCmd())
	cmd.AddCommand(sessionSumCmd())

	return cmd
}

func sessionAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a focus session",
		Long: `Record time spent on a category.

Examples:
  daytally session add --category=1 --minutes=50
  daytally session add --category=1 --minutes=90 --date=2026-08-20 --note="Design review"
`,
		RunE: runSessionAdd,
	}

	cmd.Flags().IntVar(&sessionCategory, "category", 0, "Category ID (required)")
	cmd.MarkFlagRequired("category")

	cmd.Flags().IntVar(&sessionMinutes, "minutes", 0, "Session length in minutes (required)")
	cmd.MarkFlagRequired("minutes")

	cmd.Flags().StringVar(&sessionDate, "date", "", "Session date (default today)")
	cmd.Flags().StringVar(&sessionNote, "note", "", "Optional note")

	addOutputFlags(cmd)
	return cmd
}

func runSessionAdd(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	if sessionMinutes <= 0 {
		formatter.Error("INVALID_DURATION", "session length must be positive")
		os.Exit(ExitValidation)
	}
	date := requireDate(formatter, "date", sessionDate)

	cli := openCLI(formatter)
	defer cli.Close()

	session, err := cli.App.Repo().CreateSession(cli.ctx, &models.TimeSession{
		CategoryID: sessionCategory,
		Date:       date,
		Duration:   int64(sessionMinutes) * 60,
		Note:       sessionNote,
	})
	if err != nil {
		formatter.ErrorWithSuggestion("SESSION_CREATE_ERROR", err.Error(),
			"check the category id with: daytally category list")
		os.Exit(exitFor(err))
	}

	if quietMode {
		fmt.Printf("%d\n", session.ID)
		return nil
	}
	if jsonOutput {
		return formatter.Success(sessionJSON(session))
	}
	fmt.Printf("✓ Session of %dm recorded on %s (ID: %d)\n", sessionMinutes, session.Date, session.ID)
	return nil
}

func sessionListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions in a date range",
		RunE:  runSessionList,
	}

	addSessionRangeFlags(cmd)
	addOutputFlags(cmd)
	return cmd
}

func addSessionRangeFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&sessionCategory, "category", 0, "Restrict to one category (0 = all)")
	cmd.Flags().StringVar(&sessionFrom, "from", "", "Range start (default today)")
	cmd.Flags().StringVar(&sessionTo, "to", "", "Range end (default today)")
}

func runSessionList(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	from := requireDate(formatter, "from", sessionFrom)
	to := requireDate(formatter, "to", sessionTo)

	cli := openCLI(formatter)
	defer cli.Close()

	sessions, err := cli.App.Repo().GetSessions(cli.ctx, sessionCategory, from, to)
	if err != nil {
		formatter.Error("SESSION_LIST_ERROR", err.Error())
		os.Exit(exitFor(err))
	}

	if jsonOutput {
		rows := make([]map[string]interface{}, 0, len(sessions))
		for _, s := range sessions {
			rows = append(rows, sessionJSON(s))
		}
		return formatter.Success(rows)
	}

	if len(sessions) == 0 {
		fmt.Printf("No sessions between %s and %s.\n", from, to)
		return nil
	}
	for _, s := range sessions {
		note := ""
		if s.Note != "" {
			note = " - " + s.Note
		}
		fmt.Printf("#%d %s  %s (category %d)%s\n",
			s.ID, s.Date, formatDuration(s.Duration), s.CategoryID, note)
	}
	return nil
}

func sessionSumCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sum",
		Short: "Sum session time over a date range",
		RunE:  runSessionSum,
	}

	addSessionRangeFlags(cmd)
	addOutputFlags(cmd)
	return cmd
}

func runSessionSum(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	from := requireDate(formatter, "from", sessionFrom)
	to := requireDate(formatter, "to", sessionTo)

	cli := openCLI(formatter)
	defer cli.Close()

	seconds, err := cli.App.Repo().SumDuration(cli.ctx, sessionCategory, from, to)
	if err != nil {
		formatter.Error("SESSION_SUM_ERROR", err.Error())
		os.Exit(exitFor(err))
	}

	if jsonOutput {
		return formatter.Success(map[string]interface{}{
			"from": from, "to": to, "category_id": sessionCategory, "seconds": seconds,
		})
	}
	if quietMode {
		fmt.Println(seconds)
		return nil
	}
	fmt.Printf("Total %s to %s: %s\n", from, to, formatDuration(seconds))
	return nil
}

func formatDuration(seconds int64) string {
	d := time.Duration(seconds) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

func sessionJSON(s *models.TimeSession) map[string]interface{} {
	out := map[string]interface{}{
		"id":          s.ID,
		"category_id": s.CategoryID,
		"date":        s.Date,
		"seconds":     s.Duration,
	}
	if s.Note != "" {
		out["note"] = s.Note
	}
	return out
}
