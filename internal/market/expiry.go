package market

import "time"

// expiryCutoffHour is the local hour after which the current day's expiry
// is no longer tradeable for new analysis.
const expiryCutoffHour = 15

// NextExpiries returns the next n weekly index expiries (Thursdays) from
// now. An expiry on the current date counts only before the cutoff hour.
func NextExpiries(now time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	daysAhead := (int(time.Thursday) - int(day.Weekday()) + 7) % 7
	first := day.AddDate(0, 0, daysAhead)
	if daysAhead == 0 && now.Hour() >= expiryCutoffHour {
		first = first.AddDate(0, 0, 7)
	}

	expiries := make([]time.Time, n)
	for i := range expiries {
		expiries[i] = first.AddDate(0, 0, 7*i)
	}
	return expiries
}

// NextExpiry returns the nearest weekly expiry.
func NextExpiry(now time.Time) time.Time {
	return NextExpiries(now, 1)[0]
}
