package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbowers/daytally/internal/models"
	"github.com/kbowers/daytally/internal/user"
)

var (
	profileName      string
	profileWeekStart string
)

func ProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit the user profile",
	}

	cmd.AddCommand(profileShowCmd())
	cmd.AddCommand(profileSetCmd())

	return cmd
}

func profileShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the profile",
		RunE:  runProfileShow,
	}

	addOutputFlags(cmd)
	return cmd
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
	cli := openCLI(formatter)
	defer cli.Close()

	profile, err := cli.App.Repo().GetProfile(cli.ctx)
	if errors.Is(err, models.ErrNotFound) {
		// No saved profile yet; show the defaults that would apply.
		profile = &models.UserProfile{
			DisplayName: user.CurrentUsername(),
			WeekStart:   time.Monday,
		}
	} else if err != nil {
		formatter.Error("PROFILE_ERROR", err.Error())
		os.Exit(exitFor(err))
	}

	if jsonOutput {
		return formatter.Success(map[string]interface{}{
			"display_name": profile.DisplayName,
			"week_start":   strings.ToLower(profile.WeekStart.String()),
		})
	}
	fmt.Printf("%s (weeks start on %s)\n", profile.DisplayName, profile.WeekStart)
	return nil
}

func profileSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update the profile",
		Long: `Update the display name or the first day of the week.

Examples:
  daytally profile set --name="Kim"
  daytally profile set --week-start=sunday
`,
		RunE: runProfileSet,
	}

	cmd.Flags().StringVar(&profileName, "name", "", "Display name (default: system username)")
	cmd.Flags().StringVar(&profileWeekStart, "week-start", "", "First day of the week, e.g. monday")

	addOutputFlags(cmd)
	return cmd
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
	cli := openCLI(formatter)
	defer cli.Close()

	profile, err := cli.App.Repo().GetProfile(cli.ctx)
	if errors.Is(err, models.ErrNotFound) {
		profile = &models.UserProfile{
			DisplayName: user.CurrentUsername(),
			WeekStart:   time.Monday,
		}
	} else if err != nil {
		formatter.Error("PROFILE_ERROR", err.Error())
		os.Exit(exitFor(err))
	}

	if profileName != "" {
		profile.DisplayName = profileName
	}
	if profileWeekStart != "" {
		day, ok := parseWeekday(profileWeekStart)
		if !ok {
			formatter.Error("INVALID_WEEKDAY",
				fmt.Sprintf("invalid --week-start '%s' (use a weekday name)", profileWeekStart))
			os.Exit(ExitValidation)
		}
		profile.WeekStart = day
	}

	if err := cli.App.Repo().SaveProfile(cli.ctx, profile); err != nil {
		formatter.Error("PROFILE_SAVE_ERROR", err.Error())
		os.Exit(exitFor(err))
	}

	if jsonOutput {
		return formatter.Success(map[string]interface{}{
			"display_name": profile.DisplayName,
			"week_start":   strings.ToLower(profile.WeekStart.String()),
		})
	}
	if !quietMode {
		fmt.Printf("✓ Profile saved: %s, weeks start on %s\n", profile.DisplayName, profile.WeekStart)
	}
	return nil
}

func parseWeekday(s string) (time.Weekday, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, true
		}
	}
	return time.Sunday, false
}
