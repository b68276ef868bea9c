package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbowers/daytally/internal/models"
	summaryservice "github.com/kbowers/daytally/internal/services/summary"
)

var (
	summaryDate string
	summaryFrom string
	summaryTo   string

	bmiDate   string
	bmiHeight float64
	bmiWeight float64

	daysLabel string
)

func SummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Cross-domain rollups",
	}

	cmd.AddCommand(summaryDayCmd())
	cmd.AddCommand(summaryRangeCmd())

	return cmd
}

func summaryDayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "day",
		Short: "Show everything recorded for one day",
		RunE:  runSummaryDay,
	}

	cmd.Flags().StringVar(&summaryDate, "date", "", "Day to summarize (default today)")
	addOutputFlags(cmd)
	return cmd
}

func runSummaryDay(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
	date := requireDate(formatter, "date", summaryDate)

	cli := openCLI(formatter)
	defer cli.Close()

	day, err := cli.App.SummaryService.Day(cli.ctx, date)
	if err != nil {
		formatter.Error("SUMMARY_ERROR", err.Error())
		os.Exit(exitForValidation(err))
	}

	if jsonOutput {
		return formatter.Success(map[string]interface{}{
			"date":             day.Date,
			"session_seconds":  day.SessionSeconds,
			"expense_total":    day.ExpenseTotal.String(),
			"tasks_total":      day.Tasks.Total,
			"tasks_done":       day.Tasks.Done,
			"screen_seconds":   day.ScreenSeconds,
			"screen_unlocks":   day.ScreenUnlocks,
			"completed_habits": day.CompletedHabits,
		})
	}

	fmt.Printf("Summary for %s\n", day.Date)
	fmt.Printf("  Focus time:       %s\n", formatDuration(day.SessionSeconds))
	fmt.Printf("  Spent:            %s\n", day.ExpenseTotal)
	fmt.Printf("  Tasks:            %d/%d done\n", day.Tasks.Done, day.Tasks.Total)
	fmt.Printf("  Habits achieved:  %d\n", day.CompletedHabits)
	fmt.Printf("  Screen time:      %s (%d unlocks)\n", formatDuration(day.ScreenSeconds), day.ScreenUnlocks)
	return nil
}

func summaryRangeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "range",
		Short: "Aggregate sessions, expenses and screen time over a range",
		RunE:  runSummaryRange,
	}

	cmd.Flags().StringVar(&summaryFrom, "from", "", "Range start (default today)")
	cmd.Flags().StringVar(&summaryTo, "to", "", "Range end (default today)")
	addOutputFlags(cmd)
	return cmd
}

func runSummaryRange(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	from := requireDate(formatter, "from", summaryFrom)
	to := requireDate(formatter, "to", summaryTo)

	cli := openCLI(formatter)
	defer cli.Close()

	r, err := cli.App.SummaryService.Range(cli.ctx, from, to)
	if err != nil {
		formatter.Error("SUMMARY_ERROR", err.Error())
		os.Exit(exitForValidation(err))
	}

	if jsonOutput {
		return formatter.Success(rangeJSON(r))
	}

	fmt.Printf("Summary %s to %s\n", r.From, r.To)
	fmt.Printf("  Spent: %s   Screen time: %s\n", r.ExpenseTotal, formatDuration(r.ScreenSeconds))
	if len(r.SessionsByCat) > 0 {
		fmt.Println("  Focus time by category:")
		for _, c := range r.SessionsByCat {
			fmt.Printf("    %-20s %s\n", c.Name, formatDuration(c.Total))
		}
	}
	if len(r.ExpensesByCat) > 0 {
		fmt.Println("  Spending by category:")
		for _, c := range r.ExpensesByCat {
			fmt.Printf("    %-20s %s\n", c.Name, c.Amount)
		}
	}
	return nil
}

func rangeJSON(r *summaryservice.RangeSummary) map[string]interface{} {
	sessionsByDate := make([]map[string]interface{}, 0, len(r.SessionsByDate))
	for _, d := range r.SessionsByDate {
		sessionsByDate = append(sessionsByDate, map[string]interface{}{"date": d.Date, "seconds": d.Total})
	}
	sessionsByCat := make([]map[string]interface{}, 0, len(r.SessionsByCat))
	for _, c := range r.SessionsByCat {
		sessionsByCat = append(sessionsByCat, map[string]interface{}{
			"category_id": c.CategoryID, "name": c.Name, "seconds": c.Total,
		})
	}
	expensesByDate := make([]map[string]interface{}, 0, len(r.ExpensesByDate))
	for _, d := range r.ExpensesByDate {
		expensesByDate = append(expensesByDate, map[string]interface{}{"date": d.Date, "amount": d.Amount.String()})
	}
	expensesByCat := make([]map[string]interface{}, 0, len(r.ExpensesByCat))
	for _, c := range r.ExpensesByCat {
		expensesByCat = append(expensesByCat, map[string]interface{}{
			"category_id": c.CategoryID, "name": c.Name, "amount": c.Amount.String(),
		})
	}
	return map[string]interface{}{
		"from":             r.From,
		"to":               r.To,
		"expense_total":    r.ExpenseTotal.String(),
		"screen_seconds":   r.ScreenSeconds,
		"sessions_by_date": sessionsByDate,
		"sessions_by_cat":  sessionsByCat,
		"expenses_by_date": expensesByDate,
		"expenses_by_cat":  expensesByCat,
	}
}

func BMICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bmi",
		Short: "Track body mass index",
	}

	cmd.AddCommand(bmiRecordCmd())
	cmd.AddCommand(bmiLatestCmd())

	return cmd
}

func bmiRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a BMI measurement",
		Long: `Compute and store a BMI reading from height and weight.

Example:
  daytally bmi record --height=178 --weight=74.5
`,
		RunE: runBMIRecord,
	}

	cmd.Flags().Float64Var(&bmiHeight, "height", 0, "Height in centimeters (required)")
	cmd.MarkFlagRequired("height")

	cmd.Flags().Float64Var(&bmiWeight, "weight", 0, "Weight in kilograms (required)")
	cmd.MarkFlagRequired("weight")

	cmd.Flags().StringVar(&bmiDate, "date", "", "Measurement date (default today)")

	addOutputFlags(cmd)
	return cmd
}

func runBMIRecord(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
	date := requireDate(formatter, "date", bmiDate)

	cli := openCLI(formatter)
	defer cli.Close()

	rec, err := cli.App.SummaryService.RecordBMI(cli.ctx, date, bmiHeight, bmiWeight)
	if err != nil {
		formatter.Error("BMI_RECORD_ERROR", err.Error())
		os.Exit(exitForValidation(err))
	}

	if quietMode {
		fmt.Printf("%d\n", rec.ID)
		return nil
	}
	if jsonOutput {
		return formatter.Success(bmiJSON(rec))
	}
	fmt.Printf("✓ BMI %.1f recorded for %s (ID: %d)\n", rec.BMI, rec.Date, rec.ID)
	return nil
}

func bmiLatestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Show the most recent BMI reading",
		RunE:  runBMILatest,
	}

	addOutputFlags(cmd)
	return cmd
}

func runBMILatest(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
	cli := openCLI(formatter)
	defer cli.Close()

	rec, err := cli.App.Repo().LatestBMIRecord(cli.ctx)
	if err != nil {
		formatter.ErrorWithSuggestion("BMI_NOT_FOUND", err.Error(),
			"record one with: daytally bmi record --height=... --weight=...")
		os.Exit(exitFor(err))
	}

	if jsonOutput {
		return formatter.Success(bmiJSON(rec))
	}
	fmt.Printf("BMI %.1f on %s (%.1fcm, %.1fkg)\n", rec.BMI, rec.Date, rec.HeightCm, rec.WeightKg)
	return nil
}

func bmiJSON(r *models.BMIRecord) map[string]interface{} {
	return map[string]interface{}{
		"id":        r.ID,
		"date":      r.Date,
		"height_cm": r.HeightCm,
		"weight_kg": r.WeightKg,
		"bmi":       r.BMI,
	}
}

func DaysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "days",
		Short: "Date calculations",
	}

	cmd.AddCommand(daysBetweenCmd())

	return cmd
}

func daysBetweenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "between <start> <end>",
		Short: "Count the days between two dates",
		Long: `Count days from start (inclusive) to end (exclusive) and save the
calculation.

Example:
  daytally days between 2026-01-01 2026-03-01 --label="Q1 so far"
`,
		Args: cobra.ExactArgs(2),
		RunE: runDaysBetween,
	}

	cmd.Flags().StringVar(&daysLabel, "label", "", "Label for the saved calculation")
	addOutputFlags(cmd)
	return cmd
}

func runDaysBetween(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	cli := openCLI(formatter)
	defer cli.Close()

	calc, err := cli.App.SummaryService.DaysBetween(cli.ctx, daysLabel, args[0], args[1])
	if err != nil {
		formatter.Error("DAYS_BETWEEN_ERROR", err.Error())
		os.Exit(exitForValidation(err))
	}

	if quietMode {
		fmt.Printf("%d\n", calc.Days)
		return nil
	}
	if jsonOutput {
		return formatter.Success(map[string]interface{}{
			"id":    calc.ID,
			"label": calc.Label,
			"start": calc.StartDate,
			"end":   calc.EndDate,
			"days":  calc.Days,
		})
	}
	fmt.Printf("%d days from %s to %s\n", calc.Days, calc.StartDate, calc.EndDate)
	return nil
}
