package domain

import (
	"fmt"
	"time"
)

// DateRangeWhere builds the remote API filter expression selecting records
// with a date inside the closed interval [from, to]. Extractors append their
// own status and type clauses to it.
func DateRangeWhere(from, to time.Time) string {
	return fmt.Sprintf(
		"Date >= DateTime(%d, %02d, %02d) && Date <= DateTime(%d, %02d, %02d)",
		from.Year(), from.Month(), from.Day(),
		to.Year(), to.Month(), to.Day(),
	)
}
