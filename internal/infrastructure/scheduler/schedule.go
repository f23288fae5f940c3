package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Schedule decides when a job kind runs next
type Schedule interface {
	// Next returns the first run time strictly after after
	Next(after time.Time) time.Time
	String() string
}

// IntervalSchedule runs a job every Every
type IntervalSchedule struct {
	Every time.Duration
}

// Next implements Schedule
func (s IntervalSchedule) Next(after time.Time) time.Time {
	return after.Add(s.Every)
}

func (s IntervalSchedule) String() string {
	return "every " + s.Every.String()
}

// defaultCronExpr is used when no expression is configured
const defaultCronExpr = "0 0 * * *"

// allDaysOfMonth has the bits 1-31 of a cron day-of-month field set
const allDaysOfMonth = uint64(1<<32 - 2)

// CronSchedule runs a job on a standard five-field cron expression evaluated
// in a fixed location
type CronSchedule struct {
	expr string
	spec *cron.SpecSchedule
}

// ParseCronSchedule parses a standard cron expression ("30 1 * * *",
// "0 3 1 * *" or a descriptor such as "@monthly") evaluated in loc. An empty
// expression means daily at midnight.
func ParseCronSchedule(cronExpr string, loc *time.Location) (CronSchedule, error) {
	expr := strings.Join(strings.Fields(cronExpr), " ")
	if expr == "" {
		expr = defaultCronExpr
	}

	parsed, err := cron.ParseStandard(expr)
	if err != nil {
		return CronSchedule{}, fmt.Errorf("%w: cron expression %q: %v", ErrInvalidConfig, cronExpr, err)
	}
	spec, ok := parsed.(*cron.SpecSchedule)
	if !ok {
		return CronSchedule{}, fmt.Errorf("%w: cron expression %q is not a calendar schedule", ErrInvalidConfig, cronExpr)
	}
	if loc != nil {
		spec.Location = loc
	}
	return CronSchedule{expr: expr, spec: spec}, nil
}

// MustParseCronSchedule is ParseCronSchedule for expressions known to be valid
func MustParseCronSchedule(cronExpr string, loc *time.Location) CronSchedule {
	s, err := ParseCronSchedule(cronExpr, loc)
	if err != nil {
		panic(err)
	}
	return s
}

// Next implements Schedule. The result is in the location of after.
func (s CronSchedule) Next(after time.Time) time.Time {
	return s.spec.Next(after)
}

// HasDayOfMonth reports whether the expression pins specific days of the month
// rather than matching every day
func (s CronSchedule) HasDayOfMonth() bool {
	return s.spec.Dom&allDaysOfMonth != allDaysOfMonth
}

// Expr returns the normalized cron expression
func (s CronSchedule) Expr() string {
	return s.expr
}

func (s CronSchedule) String() string {
	return "cron " + s.expr
}
