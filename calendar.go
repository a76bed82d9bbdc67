package optiontree

import "time"

// TradingDaysPerYear is the day-count convention used to turn a trading-day
// count into a year fraction.
const TradingDaysPerYear = 252

// TradingDays counts the weekdays in [start, end), excluding any holidays
// that fall inside the range. It is the bridge between contract dates and
// the integer step counts the lattice consumes. end must be after start and
// the range must contain at least one trading day.
func TradingDays(start, end time.Time, holidays []time.Time) (int, error) {
	const layout = "2006-01-02"
	if !end.After(start) {
		return 0, configErrf("end date %s must be later than start date %s",
			end.Format(layout), start.Format(layout))
	}
	excluded := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		excluded[h.Format(layout)] = true
	}
	days := 0
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		if excluded[d.Format(layout)] {
			continue
		}
		days++
	}
	if days == 0 {
		return 0, configErrf("no trading days between %s and %s",
			start.Format(layout), end.Format(layout))
	}
	return days, nil
}

// Years converts a trading-day step count into a year fraction.
func Years(steps int) float64 { return float64(steps) / TradingDaysPerYear }

// ResolveExDate converts a date-based ex-dividend trigger into a step-based
// one by counting trading days from the spot date. Lattices only consume
// step triggers, so date-carrying specs go through here first.
func (d DividendSpec) ResolveExDate(spot time.Time, holidays []time.Time) (DividendSpec, error) {
	if d.ExDate.IsZero() {
		return d, nil
	}
	if d.ExStep >= 0 {
		return d, configErrf("ex-dividend date and ex-dividend step cannot both be set")
	}
	steps, err := TradingDays(spot, d.ExDate, holidays)
	if err != nil {
		return d, err
	}
	d.ExStep = steps
	d.ExDate = time.Time{}
	return d, nil
}
