package opsserver

import (
	"errors"
	"fmt"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var errUnparsableSchedule = errors.New("could not parse schedule")

// parseSchedule turns a natural-language schedule ("in 2 hours", "tomorrow
// 6am") into a concrete time. Times already in the past are rejected.
func parseSchedule(input string, now time.Time) (time.Time, error) {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	result, err := w.Parse(input, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", errUnparsableSchedule, input, err)
	}
	if result == nil {
		return time.Time{}, fmt.Errorf("%w: %q", errUnparsableSchedule, input)
	}
	if !result.Time.After(now) {
		return time.Time{}, fmt.Errorf("schedule %q resolves to the past (%s)", input, result.Time.Format(time.RFC3339))
	}

	return result.Time, nil
}
