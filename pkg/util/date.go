package util

import "time"

// periodDays maps a lookback label to calendar days.
var periodDays = map[string]int{
	"1m":  30,
	"3m":  90,
	"6m":  180,
	"1y":  365,
	"3y":  1095,
	"5y":  1825,
	"max": 5475,
}

// PeriodRange resolves a lookback label to a [from, to] date pair ending at
// now. Unknown labels fall back to one year.
func PeriodRange(period string, now time.Time) (time.Time, time.Time) {
	days, ok := periodDays[period]
	if !ok {
		days = periodDays["1y"]
	}
	return now.AddDate(0, 0, -days), now
}

// ResolutionForPeriod picks a candle resolution that keeps series sizes
// manageable across lookback windows.
func ResolutionForPeriod(period string) string {
	switch period {
	case "1m":
		return "hour"
	case "3y", "5y", "max":
		return "week"
	default:
		return "day"
	}
}
