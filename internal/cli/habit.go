package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kbowers/daytally/internal/events"
	"github.com/kbowers/daytally/internal/models"
	"github.com/kbowers/daytally/internal/reminder"
	habitservice "github.com/kbowers/daytally/internal/services/habit"
	"github.com/kbowers/daytally/internal/stats"
)

var (
	habitName     string
	habitType     string
	habitPeriod   int
	habitReminder string
	habitDate     string
	habitGaveUp   bool
	habitNote     string
	habitAll      bool

	// Agent-friendly flags (add to ALL commands)
	jsonOutput bool
	quietMode  bool
)

func HabitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Manage habits",
	}

	cmd.AddCommand(habitAddCmd())
	cmd.AddCommand(habitListCmd())
	cmd.AddCommand(habitLogCmd())
	cmd.AddCommand(habitUnlogCmd())
	cmd.AddCommand(habitArchiveCmd())
	cmd.AddCommand(habitStatsCmd())
	cmd.AddCommand(habitWatchCmd())

	return cmd
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&quietMode, "quiet", false, "Minimal output (ID only)")
}

func habitAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new habit",
		Long: `Create a new habit to track.

Examples:
  # Everyday build habit
  daytally habit add --name="Morning run"

  # Quit habit with a reminder, ID captured for scripting
  HABIT_ID=$(daytally habit add --name="No sugar" --type=quit --reminder=21:30 --quiet)

  # Habit on a three-day cadence
  daytally habit add --name="Water plants" --period=3
`,
		RunE: runHabitAdd,
	}

	cmd.Flags().StringVar(&habitName, "name", "", "Habit name (required)")
	cmd.MarkFlagRequired("name")

	cmd.Flags().StringVar(&habitType, "type", "build", "Habit type: build or quit")
	cmd.Flags().IntVar(&habitPeriod, "period", 0, "Target period in days (0 = every day)")
	cmd.Flags().StringVar(&habitReminder, "reminder", "", "Daily reminder time HH:MM")

	addOutputFlags(cmd)
	return cmd
}

func runHabitAdd(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	typ, ok := models.ParseHabitType(habitType)
	if !ok {
		formatter.Error("INVALID_TYPE", fmt.Sprintf("invalid type '%s' (must be: build, quit)", habitType))
		os.Exit(ExitValidation)
	}

	var reminder *models.ReminderTime
	if habitReminder != "" {
		var hour, minute int
		if _, err := fmt.Sscanf(habitReminder, "%d:%d", &hour, &minute); err != nil {
			formatter.ErrorWithSuggestion("INVALID_REMINDER",
				fmt.Sprintf("invalid --reminder '%s'", habitReminder),
				"reminders use the HH:MM format, e.g. 07:30")
			os.Exit(ExitValidation)
		}
		reminder = &models.ReminderTime{Hour: hour, Minute: minute}
	}

	cli := openCLI(formatter)
	defer cli.Close()

	habit, err := cli.App.HabitService.CreateHabit(cli.ctx, habitservice.CreateHabitRequest{
		Name:       habitName,
		Type:       typ,
		PeriodDays: habitPeriod,
		Reminder:   reminder,
		Today:      models.Today(),
	})
	if err != nil {
		formatter.Error("HABIT_CREATE_ERROR", err.Error())
		os.Exit(exitForValidation(err))
	}

	if quietMode {
		fmt.Printf("%d\n", habit.ID)
		return nil
	}
	if jsonOutput {
		return formatter.Success(habitJSON(habit))
	}

	fmt.Printf("✓ Habit '%s' created (ID: %d)\n", habit.Name, habit.ID)
	return nil
}

func habitListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List habits with their streaks",
		RunE:  runHabitList,
	}

	cmd.Flags().BoolVar(&habitAll, "all", false, "Include archived habits")
	addOutputFlags(cmd)
	return cmd
}

func runHabitList(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
	cli := openCLI(formatter)
	defer cli.Close()

	habits, err := cli.App.HabitService.GetAllWithStats(cli.ctx, models.Today(), !habitAll)
	if err != nil {
		formatter.Error("HABIT_LIST_ERROR", err.Error())
		os.Exit(exitFor(err))
	}

	if jsonOutput {
		rows := make([]map[string]interface{}, 0, len(habits))
		for _, h := range habits {
			rows = append(rows, habitStatsJSON(h))
		}
		return formatter.Success(rows)
	}

	printHabitTable(habits)
	return nil
}

func habitLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log <habit-id>",
		Short: "Log a habit outcome for a day",
		Args:  cobra.ExactArgs(1),
		RunE:  runHabitLog,
	}

	cmd.Flags().StringVar(&habitDate, "date", "", "Day to log (default today)")
	cmd.Flags().BoolVar(&habitGaveUp, "gave-up", false, "Record the day as given up instead of achieved")
	cmd.Flags().StringVar(&habitNote, "note", "", "Optional note")
	addOutputFlags(cmd)
	return cmd
}

func runHabitLog(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	habitID := requireID(formatter, args[0])
	date := requireDate(formatter, "date", habitDate)

	kind := models.CompletionAchieved
	if habitGaveUp {
		kind = models.CompletionGaveUp
	}

	cli := openCLI(formatter)
	defer cli.Close()

	err := cli.App.HabitService.LogCompletion(cli.ctx, habitservice.LogCompletionRequest{
		HabitID: habitID,
		Date:    date,
		Kind:    kind,
		Note:    habitNote,
		Today:   models.Today(),
	})
	if err != nil {
		formatter.Error("HABIT_LOG_ERROR", err.Error())
		os.Exit(exitForValidation(err))
	}

	if quietMode {
		return nil
	}
	if jsonOutput {
		return formatter.Success(map[string]interface{}{
			"habit_id": habitID, "date": date, "kind": string(kind),
		})
	}
	fmt.Printf("✓ Logged %s for habit #%d on %s\n", kind, habitID, date)
	return nil
}

func habitUnlogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unlog <habit-id>",
		Short: "Remove a logged day",
		Args:  cobra.ExactArgs(1),
		RunE:  runHabitUnlog,
	}

	cmd.Flags().StringVar(&habitDate, "date", "", "Day to clear (default today)")
	addOutputFlags(cmd)
	return cmd
}

func runHabitUnlog(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	habitID := requireID(formatter, args[0])
	date := requireDate(formatter, "date", habitDate)

	cli := openCLI(formatter)
	defer cli.Close()

	if err := cli.App.HabitService.RemoveCompletion(cli.ctx, habitID, date); err != nil {
		formatter.Error("HABIT_UNLOG_ERROR", err.Error())
		os.Exit(exitFor(err))
	}

	if !quietMode && !jsonOutput {
		fmt.Printf("✓ Cleared habit #%d on %s\n", habitID, date)
	}
	if jsonOutput {
		return formatter.Success(map[string]interface{}{"habit_id": habitID, "date": date})
	}
	return nil
}

func habitArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive <habit-id>",
		Short: "Archive a habit, keeping its history",
		Args:  cobra.ExactArgs(1),
		RunE:  runHabitArchive,
	}

	addOutputFlags(cmd)
	return cmd
}

func runHabitArchive(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
	habitID := requireID(formatter, args[0])

	cli := openCLI(formatter)
	defer cli.Close()

	if err := cli.App.HabitService.ArchiveHabit(cli.ctx, habitID); err != nil {
		formatter.Error("HABIT_ARCHIVE_ERROR", err.Error())
		os.Exit(exitFor(err))
	}

	if jsonOutput {
		return formatter.Success(map[string]interface{}{"habit_id": habitID, "archived": true})
	}
	if !quietMode {
		fmt.Printf("✓ Archived habit #%d\n", habitID)
	}
	return nil
}

func habitStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <habit-id>",
		Short: "Show streaks and completion rates for one habit",
		Args:  cobra.ExactArgs(1),
		RunE:  runHabitStats,
	}

	addOutputFlags(cmd)
	return cmd
}

func runHabitStats(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
	habitID := requireID(formatter, args[0])

	cli := openCLI(formatter)
	defer cli.Close()

	hs, err := cli.App.HabitService.GetHabitWithStats(cli.ctx, habitID, models.Today())
	if err != nil {
		formatter.Error("HABIT_STATS_ERROR", err.Error())
		os.Exit(exitFor(err))
	}

	if jsonOutput {
		return formatter.Success(habitStatsJSON(hs))
	}

	printHabitStats(hs)
	return nil
}

func habitWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live habit list that refreshes on every change",
		Long: `Stream the habit list with stats, re-rendered whenever a habit or a
completion changes in this process. Interrupt with Ctrl-C.`,
		RunE: runHabitWatch,
	}

	addOutputFlags(cmd)
	return cmd
}

func runHabitWatch(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	cli := openCLI(formatter)
	defer cli.Close()

	ctx, stop := signal.NotifyContext(cli.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cli.Config.RemindersOn() {
		sched := reminder.NewScheduler(cli.App.Repo(), reminder.NotifierFunc(func(h *models.Habit) {
			fmt.Printf("⏰ Reminder: %s\n", h.Name)
		}))
		if err := sched.Start(ctx); err != nil {
			slog.Warn("reminder scheduler disabled", "error", err)
		} else {
			defer sched.Stop()
		}
	}

	sub := cli.App.Bus.Subscribe(events.TopicHabits, events.TopicCompletions)
	defer sub.Cancel()

	feed := events.Watch(ctx, sub, func(ctx context.Context) ([]*stats.HabitWithStats, error) {
		return cli.App.HabitService.GetAllWithStats(ctx, models.Today(), true)
	})

	for habits := range feed {
		if jsonOutput {
			rows := make([]map[string]interface{}, 0, len(habits))
			for _, h := range habits {
				rows = append(rows, habitStatsJSON(h))
			}
			formatter.Success(rows)
			continue
		}
		printHabitTable(habits)
	}
	return nil
}

func printHabitTable(habits []*stats.HabitWithStats) {
	if len(habits) == 0 {
		fmt.Println("No habits yet. Create one with: daytally habit add --name=\"...\"")
		return
	}
	for _, h := range habits {
		mark := " "
		if h.CompletedToday {
			mark = "✓"
		}
		status := ""
		if !h.Habit.Active {
			status = " (archived)"
		}
		fmt.Printf("[%s] #%d %s%s  streak %d (best %d), %d logged\n",
			mark, h.Habit.ID, h.Habit.Name, status,
			h.CurrentStreak, h.LongestStreak, h.TotalCompletions)
	}
}

func printHabitStats(h *stats.HabitWithStats) {
	fmt.Printf("%s (#%d, %s)\n", h.Habit.Name, h.Habit.ID, h.Habit.Type)
	fmt.Printf("  Current streak:  %d\n", h.CurrentStreak)
	fmt.Printf("  Longest streak:  %d\n", h.LongestStreak)
	fmt.Printf("  Logged days:     %d (%d achieved, %d gave up)\n",
		h.TotalCompletions, h.TotalAchieved, h.TotalGaveUp)
	fmt.Printf("  Completion rate: %.1f%%\n", h.CompletionRate*100)
	fmt.Printf("  Success rate:    %.1f%%\n", h.SuccessRate*100)
}

func habitJSON(h *models.Habit) map[string]interface{} {
	out := map[string]interface{}{
		"id":           h.ID,
		"name":         h.Name,
		"type":         string(h.Type),
		"period_days":  h.PeriodDays,
		"everyday":     h.Everyday,
		"active":       h.Active,
		"created_date": h.CreatedDate,
	}
	if h.Reminder != nil {
		out["reminder"] = fmt.Sprintf("%02d:%02d", h.Reminder.Hour, h.Reminder.Minute)
	}
	return out
}

func habitStatsJSON(h *stats.HabitWithStats) map[string]interface{} {
	out := habitJSON(h.Habit)
	out["current_streak"] = h.CurrentStreak
	out["longest_streak"] = h.LongestStreak
	out["total_completions"] = h.TotalCompletions
	out["total_achieved"] = h.TotalAchieved
	out["total_gave_up"] = h.TotalGaveUp
	out["completion_rate"] = h.CompletionRate
	out["success_rate"] = h.SuccessRate
	out["completed_today"] = h.CompletedToday
	return out
}
