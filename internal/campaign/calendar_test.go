package campaign

import (
	"testing"
	"time"
)

func TestSeasonalMultiplier(t *testing.T) {
	tests := []struct {
		month time.Month
		want  float64
	}{
		{time.January, 1.2},
		{time.February, 1.2},
		{time.March, 1.0},
		{time.April, 1.0},
		{time.May, 1.0},
		{time.June, 0.85},
		{time.July, 0.85},
		{time.August, 0.85},
		{time.September, 1.0},
		{time.October, 1.0},
		{time.November, 1.4},
		{time.December, 1.4},
	}

	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			if got := SeasonalMultiplier(tt.month); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestWeekendMultiplier(t *testing.T) {
	// 2024-07-01 is a Monday
	monday := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		d := monday.AddDate(0, 0, i)
		want := 1.0
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			want = 0.7
		}
		if got := WeekendMultiplier(d.Weekday()); got != want {
			t.Errorf("%s: expected %v, got %v", d.Weekday(), want, got)
		}
	}
}

func TestDays(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"single day", date(2024, 7, 2), date(2024, 7, 2), 1},
		{"default range", date(2024, 7, 1), date(2025, 10, 31), 488},
		{"leap february", date(2024, 2, 1), date(2024, 2, 29), 29},
		{"end before start", date(2024, 7, 2), date(2024, 7, 1), 0},
		{"time of day ignored", time.Date(2024, 7, 1, 23, 0, 0, 0, time.UTC), date(2024, 7, 2), 2},
		{"four centuries", date(1900, 1, 1), date(2300, 12, 31), 146462},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Days(tt.start, tt.end); got != tt.want {
				t.Errorf("Expected %d days, got %d", tt.want, got)
			}
		})
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
