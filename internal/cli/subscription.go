package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbowers/daytally/internal/models"
)

var (
	subName    string
	subAmount  string
	subPeriod  int
	subNextDue string
	subAll     bool
)

func SubscriptionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscription",
		Aliases: []string{"sub"},
		Short:   "Track recurring payments",
	}

	cmd.AddCommand(subAddCmd())
	cmd.AddCommand(subListCmd())
	cmd.AddCommand(subCostCmd())
	cmd.AddCommand(subCancelCmd())

	return cmd
}

func subAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a subscription",
		Long: `Add a recurring payment.

Examples:
  daytally sub add --name="Music" --amount=9.99 --period=30
  daytally sub add --name="Hosting" --amount=120 --period=360 --next-due=2027-01-05
`,
		RunE: runSubAdd,
	}

	cmd.Flags().StringVar(&subName, "name", "", "Subscription name (required)")
	cmd.MarkFlagRequired("name")

	cmd.Flags().StringVar(&subAmount, "amount", "", "Amount per billing period (required)")
	cmd.MarkFlagRequired("amount")

	cmd.Flags().IntVar(&subPeriod, "period", 30, "Billing period in days")
	cmd.Flags().StringVar(&subNextDue, "next-due", "", "Next charge date (default today)")

	addOutputFlags(cmd)
	return cmd
}

func runSubAdd(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	amount := requireAmount(formatter, "amount", subAmount)
	nextDue := requireDate(formatter, "next-due", subNextDue)
	if subPeriod <= 0 {
		formatter.Error("INVALID_PERIOD", "billing period must be at least one day")
		os.Exit(ExitValidation)
	}

	cli := openCLI(formatter)
	defer cli.Close()

	sub, err := cli.App.Repo().CreateSubscription(cli.ctx, &models.Subscription{
		Name:       subName,
		Amount:     amount,
		PeriodDays: subPeriod,
		NextDue:    nextDue,
		Active:     true,
	})
	if err != nil {
		formatter.Error("SUBSCRIPTION_CREATE_ERROR", err.Error())
		os.Exit(exitFor(err))
	}

	if quietMode {
		fmt.Printf("%d\n", sub.ID)
		return nil
	}
	if jsonOutput {
		return formatter.Success(subscriptionJSON(sub))
	}
	fmt.Printf("✓ Subscription '%s' added: %s every %d days (ID: %d)\n",
		sub.Name, sub.Amount, sub.PeriodDays, sub.ID)
	return nil
}

func subListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List subscriptions",
		RunE:  runSubList,
	}

	cmd.Flags().BoolVar(&subAll, "all", false, "Include cancelled subscriptions")
	addOutputFlags(cmd)
	return cmd
}

func runSubList(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
	cli := openCLI(formatter)
	defer cli.Close()

	subs, err := cli.App.Repo().GetSubscriptions(cli.ctx, !subAll)
	if err != nil {
		formatter.Error("SUBSCRIPTION_LIST_ERROR", err.Error())
		os.Exit(exitFor(err))
	}

	if jsonOutput {
		rows := make([]map[string]interface{}, 0, len(subs))
		for _, s := range subs {
			rows = append(rows, subscriptionJSON(s))
		}
		return formatter.Success(rows)
	}

	if len(subs) == 0 {
		fmt.Println("No subscriptions.")
		return nil
	}
	for _, s := range subs {
		status := ""
		if !s.Active {
			status = " (cancelled)"
		}
		fmt.Printf("#%d %s  %s / %dd, next due %s%s\n",
			s.ID, s.Name, s.Amount, s.PeriodDays, s.NextDue, status)
	}
	return nil
}

func subCostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cost",
		Short: "Show the normalized monthly cost of active subscriptions",
		RunE:  runSubCost,
	}

	addOutputFlags(cmd)
	return cmd
}

func runSubCost(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
	cli := openCLI(formatter)
	defer cli.Close()

	monthly, err := cli.App.SummaryService.MonthlySubscriptionCost(cli.ctx)
	if err != nil {
		formatter.Error("SUBSCRIPTION_COST_ERROR", err.Error())
		os.Exit(exitFor(err))
	}

	if jsonOutput {
		return formatter.Success(map[string]interface{}{"monthly_cost": monthly.String()})
	}
	if quietMode {
		fmt.Println(monthly.String())
		return nil
	}
	fmt.Printf("Monthly subscription cost: %s\n", monthly)
	return nil
}

func subCancelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel <subscription-id>",
		Short: "Cancel a subscription, keeping its record",
		Args:  cobra.ExactArgs(1),
		RunE:  runSubCancel,
	}

	addOutputFlags(cmd)
	return cmd
}

func runSubCancel(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
	id := requireID(formatter, args[0])

	cli := openCLI(formatter)
	defer cli.Close()

	sub, err := cli.App.Repo().GetSubscriptionByID(cli.ctx, id)
	if err != nil {
		formatter.Error("SUBSCRIPTION_NOT_FOUND", err.Error())
		os.Exit(exitFor(err))
	}

	sub.Active = false
	if err := cli.App.Repo().UpdateSubscription(cli.ctx, sub); err != nil {
		formatter.Error("SUBSCRIPTION_CANCEL_ERROR", err.Error())
		os.Exit(exitFor(err))
	}

	if jsonOutput {
		return formatter.Success(map[string]interface{}{"subscription_id": id, "active": false})
	}
	if !quietMode {
		fmt.Printf("✓ Cancelled subscription #%d (%s)\n", id, sub.Name)
	}
	return nil
}

func subscriptionJSON(s *models.Subscription) map[string]interface{} {
	return map[string]interface{}{
		"id":          s.ID,
		"name":        s.Name,
		"amount":      s.Amount.String(),
		"period_days": s.PeriodDays,
		"next_due":    s.NextDue,
		"active":      s.Active,
	}
}
