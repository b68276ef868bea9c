package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func BackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export and import snapshots",
	}

	cmd.AddCommand(backupExportCmd())
	cmd.AddCommand(backupImportCmd())
	cmd.AddCommand(backupListCmd())

	return cmd
}

func backupExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a snapshot of the whole store to the backup directory",
		RunE:  runBackupExport,
	}

	addOutputFlags(cmd)
	return cmd
}

func runBackupExport(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
	cli := openCLI(formatter)
	defer cli.Close()

	path, err := cli.App.Backup.ExportToFile(cli.ctx)
	if err != nil {
		formatter.Error("BACKUP_EXPORT_ERROR", err.Error())
		os.Exit(exitFor(err))
	}

	if jsonOutput {
		return formatter.Success(map[string]interface{}{"path": path})
	}
	if quietMode {
		fmt.Println(path)
		return nil
	}
	fmt.Printf("✓ Backup written to %s\n", path)
	return nil
}

func backupImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the store with a snapshot's contents",
		Long: `Restore from a snapshot file. The current contents are replaced
wholesale; a safety snapshot is written first.`,
		Args: cobra.ExactArgs(1),
		RunE: runBackupImport,
	}

	addOutputFlags(cmd)
	return cmd
}

func runBackupImport(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
	cli := openCLI(formatter)
	defer cli.Close()

	if err := cli.App.Backup.ImportFromFile(cli.ctx, args[0]); err != nil {
		formatter.ErrorWithSuggestion("BACKUP_IMPORT_ERROR", err.Error(),
			"list available snapshots with: daytally backup list")
		os.Exit(exitFor(err))
	}

	if jsonOutput {
		return formatter.Success(map[string]interface{}{"restored_from": args[0]})
	}
	if !quietMode {
		fmt.Printf("✓ Store restored from %s\n", args[0])
	}
	return nil
}

func backupListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List snapshot files, newest first",
		RunE:  runBackupList,
	}

	addOutputFlags(cmd)
	return cmd
}

func runBackupList(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
	cli := openCLI(formatter)
	defer cli.Close()

	backups, err := cli.App.Backup.ListBackups()
	if err != nil {
		formatter.Error("BACKUP_LIST_ERROR", err.Error())
		os.Exit(exitFor(err))
	}

	if jsonOutput {
		rows := make([]map[string]interface{}, 0, len(backups))
		for _, b := range backups {
			rows = append(rows, map[string]interface{}{
				"path":      b.Path,
				"timestamp": b.Timestamp,
				"size":      b.Size,
			})
		}
		return formatter.Success(rows)
	}

	if len(backups) == 0 {
		fmt.Println("No backups yet. Create one with: daytally backup export")
		return nil
	}
	for _, b := range backups {
		fmt.Printf("%s  %8d bytes  %s\n",
			b.Timestamp.Format("2006-01-02 15:04:05"), b.Size, b.Path)
	}
	return nil
}
