package domain

import (
	"testing"
	"time"
)

func TestDateRangeWhere(t *testing.T) {
	from := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	got := DateRangeWhere(from, to)
	want := "Date >= DateTime(2024, 01, 05) && Date <= DateTime(2024, 12, 31)"
	if got != want {
		t.Fatalf("DateRangeWhere = %q, want %q", got, want)
	}
}

func TestDateRangeWhereSingleDay(t *testing.T) {
	day := time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)

	got := DateRangeWhere(day, day)
	want := "Date >= DateTime(2023, 07, 01) && Date <= DateTime(2023, 07, 01)"
	if got != want {
		t.Fatalf("DateRangeWhere = %q, want %q", got, want)
	}
}
