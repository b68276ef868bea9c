package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbowers/daytally/internal/models"
)

var (
	taskTitle string
	taskDate  string
	taskUndo  bool
)

func TaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage daily tasks",
	}

	cmd.AddCommand(taskAddCmd())
	cmd.AddCommand(taskDoneCmd())
	cmd.AddCommand(taskListCmd())
	cmd.AddCommand(taskDeleteCmd())

	return cmd
}

func taskAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task for a day",
		Long: `Add a one-off task.

Examples:
  daytally task add --title="Call dentist"
  TASK_ID=$(daytally task add --title="Renew passport" --date=2026-09-15 --quiet)
`,
		RunE: runTaskAdd,
	}

	cmd.Flags().StringVar(&taskTitle, "title", "", "Task title (required)")
	cmd.MarkFlagRequired("title")

	cmd.Flags().StringVar(&taskDate, "date", "", "Day the task belongs to (default today)")

	addOutputFlags(cmd)
	return cmd
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	if taskTitle == "" {
		formatter.Error("EMPTY_TITLE", "task title cannot be empty")
		os.Exit(ExitValidation)
	}
	date := requireDate(formatter, "date", taskDate)

	cli := openCLI(formatter)
	defer cli.Close()

	task, err := cli.App.Repo().CreateTask(cli.ctx, &models.DailyTask{
		Title: taskTitle,
		Date:  date,
	})
	if err != nil {
		formatter.Error("TASK_CREATE_ERROR", err.Error())
		os.Exit(exitFor(err))
	}

	if quietMode {
		fmt.Printf("%d\n", task.ID)
		return nil
	}
	if jsonOutput {
		return formatter.Success(taskJSON(task))
	}
	fmt.Printf("✓ Task '%s' added for %s (ID: %d)\n", task.Title, task.Date, task.ID)
	return nil
}

func taskDoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task done",
		Args:  cobra.ExactArgs(1),
		RunE:  runTaskDone,
	}

	cmd.Flags().BoolVar(&taskUndo, "undo", false, "Mark the task as not done instead")
	addOutputFlags(cmd)
	return cmd
}

func runTaskDone(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
	id := requireID(formatter, args[0])

	cli := openCLI(formatter)
	defer cli.Close()

	if err := cli.App.Repo().SetTaskDone(cli.ctx, id, !taskUndo); err != nil {
		formatter.Error("TASK_DONE_ERROR", err.Error())
		os.Exit(exitFor(err))
	}

	if jsonOutput {
		return formatter.Success(map[string]interface{}{"task_id": id, "done": !taskUndo})
	}
	if !quietMode {
		if taskUndo {
			fmt.Printf("✓ Task #%d reopened\n", id)
		} else {
			fmt.Printf("✓ Task #%d done\n", id)
		}
	}
	return nil
}

func taskListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks for a day",
		RunE:  runTaskList,
	}

	cmd.Flags().StringVar(&taskDate, "date", "", "Day to list (default today)")
	addOutputFlags(cmd)
	return cmd
}

func runTaskList(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
	date := requireDate(formatter, "date", taskDate)

	cli := openCLI(formatter)
	defer cli.Close()

	tasks, err := cli.App.Repo().GetTasksByDate(cli.ctx, date)
	if err != nil {
		formatter.Error("TASK_LIST_ERROR", err.Error())
		os.Exit(exitFor(err))
	}

	if jsonOutput {
		rows := make([]map[string]interface{}, 0, len(tasks))
		for _, t := range tasks {
			rows = append(rows, taskJSON(t))
		}
		return formatter.Success(rows)
	}

	if len(tasks) == 0 {
		fmt.Printf("No tasks for %s.\n", date)
		return nil
	}
	for _, t := range tasks {
		mark := " "
		if t.Done {
			mark = "✓"
		}
		fmt.Printf("[%s] #%d %s\n", mark, t.ID, t.Title)
	}
	return nil
}

func taskDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE:  runTaskDelete,
	}

	addOutputFlags(cmd)
	return cmd
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
	id := requireID(formatter, args[0])

	cli := openCLI(formatter)
	defer cli.Close()

	if err := cli.App.Repo().DeleteTask(cli.ctx, id); err != nil {
		formatter.Error("TASK_DELETE_ERROR", err.Error())
		os.Exit(exitFor(err))
	}

	if jsonOutput {
		return formatter.Success(map[string]interface{}{"task_id": id, "deleted": true})
	}
	if !quietMode {
		fmt.Printf("✓ Deleted task #%d\n", id)
	}
	return nil
}

func taskJSON(t *models.DailyTask) map[string]interface{} {
	return map[string]interface{}{
		"id":    t.ID,
		"title": t.Title,
		"date":  t.Date,
		"done":  t.Done,
	}
}
