package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbowers/daytally/internal/models"
)

var (
	categoryName  string
	categoryKind  string
	categoryColor string
	categoryIcon  string
	categoryGoal  int
	categoryAll   bool
)

func CategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage categories",
	}

	cmd.AddCommand(categoryAddCmd())
	cmd.AddCommand(categoryListCmd())
	cmd.AddCommand(categoryArchiveCmd())
	cmd.AddCommand(categoryDeleteCmd())

	return cmd
}

func categoryAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new category",
		Long: `Create a category for sessions or expenses.

Examples:
  daytally category add --name="Deep work" --kind=activity --goal=120
  daytally category add --name="Groceries" --kind=expense --color="#4caf50"
`,
		RunE: runCategoryAdd,
	}

	cmd.Flags().StringVar(&categoryName, "name", "", "Category name (required)")
	cmd.MarkFlagRequired("name")

	cmd.Flags().StringVar(&categoryKind, "kind", "activity", "Kind: habit, activity or expense")
	cmd.Flags().StringVar(&categoryColor, "color", "", "Display color, e.g. #ff8800")
	cmd.Flags().StringVar(&categoryIcon, "icon", "", "Display icon")
	cmd.Flags().IntVar(&categoryGoal, "goal", 0, "Daily goal in minutes (0 = none)")

	addOutputFlags(cmd)
	return cmd
}

func runCategoryAdd(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	kind, ok := models.ParseCategoryKind(categoryKind)
	if !ok {
		formatter.Error("INVALID_KIND",
			fmt.Sprintf("invalid kind '%s' (must be: habit, activity, expense)", categoryKind))
		os.Exit(ExitValidation)
	}
	if categoryName == "" {
		formatter.Error("EMPTY_NAME", "category name cannot be empty")
		os.Exit(ExitValidation)
	}

	cli := openCLI(formatter)
	defer cli.Close()

	cat := &models.Category{
		Name:   categoryName,
		Kind:   kind,
		Color:  categoryColor,
		Icon:   categoryIcon,
		Active: true,
	}
	if categoryGoal > 0 {
		goal := categoryGoal
		cat.DailyGoal = &goal
	}

	created, err := cli.App.Repo().CreateCategory(cli.ctx, cat)
	if err != nil {
		formatter.Error("CATEGORY_CREATE_ERROR", err.Error())
		os.Exit(exitFor(err))
	}

	if quietMode {
		fmt.Printf("%d\n", created.ID)
		return nil
	}
	if jsonOutput {
		return formatter.Success(categoryJSON(created))
	}
	fmt.Printf("✓ Category '%s' created (ID: %d)\n", created.Name, created.ID)
	return nil
}

func categoryListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE:  runCategoryList,
	}

	cmd.Flags().BoolVar(&categoryAll, "all", false, "Include archived categories")
	addOutputFlags(cmd)
	return cmd
}

func runCategoryList(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
	cli := openCLI(formatter)
	defer cli.Close()

	categories, err := cli.App.Repo().GetCategories(cli.ctx, !categoryAll)
	if err != nil {
		formatter.Error("CATEGORY_LIST_ERROR", err.Error())
		os.Exit(exitFor(err))
	}

	if jsonOutput {
		rows := make([]map[string]interface{}, 0, len(categories))
		for _, c := range categories {
			rows = append(rows, categoryJSON(c))
		}
		return formatter.Success(rows)
	}

	if len(categories) == 0 {
		fmt.Println("No categories yet.")
		return nil
	}
	for _, c := range categories {
		status := ""
		if !c.Active {
			status = " (archived)"
		}
		goal := ""
		if c.DailyGoal != nil {
			goal = fmt.Sprintf(", goal %dm/day", *c.DailyGoal)
		}
		fmt.Printf("#%d %s [%s]%s%s\n", c.ID, c.Name, c.Kind, goal, status)
	}
	return nil
}

func categoryArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive <category-id>",
		Short: "Archive a category, keeping its records",
		Args:  cobra.ExactArgs(1),
		RunE:  runCategoryArchive,
	}

	addOutputFlags(cmd)
	return cmd
}

func runCategoryArchive(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
	id := requireID(formatter, args[0])

	cli := openCLI(formatter)
	defer cli.Close()

	if err := cli.App.Repo().ArchiveCategory(cli.ctx, id); err != nil {
		formatter.Error("CATEGORY_ARCHIVE_ERROR", err.Error())
		os.Exit(exitFor(err))
	}

	if jsonOutput {
		return formatter.Success(map[string]interface{}{"category_id": id, "archived": true})
	}
	if !quietMode {
		fmt.Printf("✓ Archived category #%d\n", id)
	}
	return nil
}

func categoryDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <category-id>",
		Short: "Delete a category and every session and expense under it",
		RunE:  runCategoryDelete,
		Args:  cobra.ExactArgs(1),
	}

	addOutputFlags(cmd)
	return cmd
}

func runCategoryDelete(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
	id := requireID(formatter, args[0])

	cli := openCLI(formatter)
	defer cli.Close()

	if err := cli.App.Repo().DeleteCategory(cli.ctx, id); err != nil {
		formatter.Error("CATEGORY_DELETE_ERROR", err.Error())
		os.Exit(exitFor(err))
	}

	if jsonOutput {
		return formatter.Success(map[string]interface{}{"category_id": id, "deleted": true})
	}
	if !quietMode {
		fmt.Printf("✓ Deleted category #%d and its records\n", id)
	}
	return nil
}

func categoryJSON(c *models.Category) map[string]interface{} {
	out := map[string]interface{}{
		"id":     c.ID,
		"name":   c.Name,
		"kind":   string(c.Kind),
		"active": c.Active,
	}
	if c.Color != "" {
		out["color"] = c.Color
	}
	if c.Icon != "" {
		out["icon"] = c.Icon
	}
	if c.DailyGoal != nil {
		out["daily_goal_minutes"] = *c.DailyGoal
	}
	return out
}
