package campaign

import "time"

// SeasonalMultiplier returns the volume and spend factor for a calendar month.
// Holiday season: Nov-Dec (140%)
// Summer: Jun-Aug (85%)
// New Year: Jan-Feb (120%)
// Otherwise: 100%
func SeasonalMultiplier(month time.Month) float64 {
	switch month {
	case time.November, time.December:
		return 1.4
	case time.June, time.July, time.August:
		return 0.85
	case time.January, time.February:
		return 1.2
	default:
		return 1.0
	}
}

// WeekendMultiplier returns 0.7 on Saturday and Sunday, 1.0 otherwise.
func WeekendMultiplier(weekday time.Weekday) float64 {
	if weekday == time.Saturday || weekday == time.Sunday {
		return 0.7
	}
	return 1.0
}

// Days returns the number of calendar days in [start, end], or 0 if end is
// before start.
func Days(start, end time.Time) int {
	s := truncateDay(start)
	e := truncateDay(end)
	if e.Before(s) {
		return 0
	}
	return int((e.Unix()-s.Unix())/secondsPerDay) + 1
}

const secondsPerDay = 24 * 60 * 60

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
