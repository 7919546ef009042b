package analysis

import (
	"errors"
	"fmt"
	"time"
)

var ErrEmptyInput = errors.New("extremal selection requires at least one bar")

// NoDataError reports a week that contains no bars.
type NoDataError struct {
	WeekStart time.Time
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no data for week starting %s", e.WeekStart.Format(time.DateOnly))
}
