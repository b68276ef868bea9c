package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbowers/daytally/internal/models"
)

var (
	expenseCategory int
	expenseAmount   string
	expenseDate     string
	expenseNote     string
	expenseFrom     string
	expenseTo       string
)

func ExpenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Track expenses",
	}

	cmd.AddCommand(expenseAddCmd())
	cmd.AddCommand(expenseListCmd())
	cmd.AddCommand(expenseSumCmd())

	return cmd
}

func expenseAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense",
		Long: `Record a spend against a category.

Examples:
  daytally expense add --category=3 --amount=12.50
  daytally expense add --category=3 --amount=899 --date=2026-08-12 --note="New monitor"
`,
		RunE: runExpenseAdd,
	}

	cmd.Flags().IntVar(&expenseCategory, "category", 0, "Category ID (required)")
	cmd.MarkFlagRequired("category")

	cmd.Flags().StringVar(&expenseAmount, "amount", "", "Amount, e.g. 12.50 (required)")
	cmd.MarkFlagRequired("amount")

	cmd.Flags().StringVar(&expenseDate, "date", "", "Date of the spend (default today)")
	cmd.Flags().StringVar(&expenseNote, "note", "", "Optional note")

	addOutputFlags(cmd)
	return cmd
}

func runExpenseAdd(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	amount := requireAmount(formatter, "amount", expenseAmount)
	date := requireDate(formatter, "date", expenseDate)

	cli := openCLI(formatter)
	defer cli.Close()

	expense, err := cli.App.Repo().CreateExpense(cli.ctx, &models.Expense{
		CategoryID: expenseCategory,
		Date:       date,
		Amount:     amount,
		Note:       expenseNote,
	})
	if err != nil {
		formatter.ErrorWithSuggestion("EXPENSE_CREATE_ERROR", err.Error(),
			"check the category id with: daytally category list")
		os.Exit(exitFor(err))
	}

	if quietMode {
		fmt.Printf("%d\n", expense.ID)
		return nil
	}
	if jsonOutput {
		return formatter.Success(expenseJSON(expense))
	}
	fmt.Printf("✓ Expense of %s recorded on %s (ID: %d)\n", expense.Amount, expense.Date, expense.ID)
	return nil
}

func expenseListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses in a date range",
		RunE:  runExpenseList,
	}

	addExpenseRangeFlags(cmd)
	addOutputFlags(cmd)
	return cmd
}

func addExpenseRangeFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&expenseCategory, "category", 0, "Restrict to one category (0 = all)")
	cmd.Flags().StringVar(&expenseFrom, "from", "", "Range start (default today)")
	cmd.Flags().StringVar(&expenseTo, "to", "", "Range end (default today)")
}

func runExpenseList(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	from := requireDate(formatter, "from", expenseFrom)
	to := requireDate(formatter, "to", expenseTo)

	cli := openCLI(formatter)
	defer cli.Close()

	expenses, err := cli.App.Repo().GetExpenses(cli.ctx, expenseCategory, from, to)
	if err != nil {
		formatter.Error("EXPENSE_LIST_ERROR", err.Error())
		os.Exit(exitFor(err))
	}

	if jsonOutput {
		rows := make([]map[string]interface{}, 0, len(expenses))
		for _, e := range expenses {
			rows = append(rows, expenseJSON(e))
		}
		return formatter.Success(rows)
	}

	if len(expenses) == 0 {
		fmt.Printf("No expenses between %s and %s.\n", from, to)
		return nil
	}
	for _, e := range expenses {
		note := ""
		if e.Note != "" {
			note = " - " + e.Note
		}
		fmt.Printf("#%d %s  %s (category %d)%s\n", e.ID, e.Date, e.Amount, e.CategoryID, note)
	}
	return nil
}

func expenseSumCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sum",
		Short: "Sum expenses over a date range",
		RunE:  runExpenseSum,
	}

	addExpenseRangeFlags(cmd)
	addOutputFlags(cmd)
	return cmd
}

func runExpenseSum(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	from := requireDate(formatter, "from", expenseFrom)
	to := requireDate(formatter, "to", expenseTo)

	cli := openCLI(formatter)
	defer cli.Close()

	total, err := cli.App.Repo().SumExpenses(cli.ctx, expenseCategory, from, to)
	if err != nil {
		formatter.Error("EXPENSE_SUM_ERROR", err.Error())
		os.Exit(exitFor(err))
	}

	if quietMode || jsonOutput {
		if jsonOutput {
			return formatter.Success(map[string]interface{}{
				"from": from, "to": to, "category_id": expenseCategory, "total": total.String(),
			})
		}
		fmt.Println(total.String())
		return nil
	}
	fmt.Printf("Total %s to %s: %s\n", from, to, total)
	return nil
}

func expenseJSON(e *models.Expense) map[string]interface{} {
	out := map[string]interface{}{
		"id":          e.ID,
		"category_id": e.CategoryID,
		"date":        e.Date,
		"amount":      e.Amount.String(),
	}
	if e.Note != "" {
		out["note"] = e.Note
	}
	return out
}
