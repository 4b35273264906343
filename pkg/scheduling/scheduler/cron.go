package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	gperrors "github.com/vnykmshr/gopool/pkg/common/errors"
)

// cronParser accepts five-field expressions, an optional leading seconds
// field, and descriptors such as "@hourly" or "@every 5m".
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func parseCron(expr string) (cron.Schedule, error) {
	if expr == "" {
		return nil, gperrors.NewValidationError("scheduler", "cron", expr, "cannot be empty").
			WithHint(`use e.g. "*/5 * * * *" or "@hourly"`)
	}
	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return schedule, nil
}

// firstRun returns the first activation of schedule after from. An
// expression with no future activation, such as February 30, is rejected.
func firstRun(expr string, schedule cron.Schedule, from time.Time) (time.Time, error) {
	next := schedule.Next(from)
	if next.IsZero() {
		return next, gperrors.NewValidationError("scheduler", "cron", expr, "never fires").
			WithHint("check day-of-month against month")
	}
	return next, nil
}

// ValidateCronExpression reports whether expr can be scheduled.
func ValidateCronExpression(expr string) error {
	schedule, err := parseCron(expr)
	if err != nil {
		return err
	}
	_, err = firstRun(expr, schedule, time.Now())
	return err
}

// NextRuns returns the next n activation times of expr after from.
func NextRuns(expr string, from time.Time, n int) ([]time.Time, error) {
	schedule, err := parseCron(expr)
	if err != nil {
		return nil, err
	}

	runs := make([]time.Time, 0, n)
	t := from
	for i := 0; i < n; i++ {
		t = schedule.Next(t)
		if t.IsZero() {
			break
		}
		runs = append(runs, t)
	}
	return runs, nil
}
