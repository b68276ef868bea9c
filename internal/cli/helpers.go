package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kbowers/daytally/internal/backup"
	"github.com/kbowers/daytally/internal/models"
	habitservice "github.com/kbowers/daytally/internal/services/habit"
	summaryservice "github.com/kbowers/daytally/internal/services/summary"
)

// exitFor maps a service or repository error to an exit code.
func exitFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, models.ErrConstraint):
		return ExitDataErr
	case errors.Is(err, backup.ErrUnsupportedVersion):
		return ExitDataErr
	}
	return ExitError
}

var validationErrors = []error{
	habitservice.ErrEmptyName,
	habitservice.ErrNameTooLong,
	habitservice.ErrInvalidHabitID,
	habitservice.ErrInvalidPeriod,
	habitservice.ErrInvalidReminder,
	habitservice.ErrInvalidDate,
	habitservice.ErrDateBeforeCreated,
	habitservice.ErrDateInFuture,
	summaryservice.ErrInvalidDate,
	summaryservice.ErrInvalidRange,
	summaryservice.ErrInvalidHeight,
	summaryservice.ErrInvalidWeight,
}

// exitForValidation extends exitFor with the service-layer validation
// sentinels, which warrant their own exit code for scripting.
func exitForValidation(err error) int {
	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			return ExitValidation
		}
	}
	return exitFor(err)
}

// requireID parses a positional id argument.
func requireID(formatter *OutputFormatter, arg string) int {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		formatter.Error("INVALID_ID", fmt.Sprintf("invalid id '%s'", arg))
		os.Exit(ExitValidation)
	}
	return id
}

// requireDate validates a --date style flag, substituting today when
// the flag was left empty. Exits with a validation error on bad input.
func requireDate(formatter *OutputFormatter, flagName, value string) string {
	if value == "" {
		return models.Today()
	}
	if _, err := models.ParseDate(value); err != nil {
		formatter.ErrorWithSuggestion("INVALID_DATE",
			fmt.Sprintf("invalid --%s '%s'", flagName, value),
			"dates use the YYYY-MM-DD format")
		os.Exit(ExitValidation)
	}
	return value
}

// requireAmount parses a money flag into an exact decimal.
func requireAmount(formatter *OutputFormatter, flagName, value string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil || d.IsNegative() {
		formatter.ErrorWithSuggestion("INVALID_AMOUNT",
			fmt.Sprintf("invalid --%s '%s'", flagName, value),
			"amounts are non-negative decimals like 12.50")
		os.Exit(ExitValidation)
	}
	return d
}

// openCLI builds the application context or exits with a generic error.
func openCLI(formatter *OutputFormatter) *CLI {
	cli, err := NewCLI(context.Background())
	if err != nil {
		formatter.Error("INITIALIZATION_ERROR", err.Error())
		os.Exit(ExitError)
	}
	return cli
}
