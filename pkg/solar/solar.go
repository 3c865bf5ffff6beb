// Package solar converts Gregorian dates into the Iranian solar (Jalali)
// calendar used for school-year bucketing of dated records.
package solar

import "time"

// Date is a solar calendar date.
type Date struct {
	Year  int
	Month int
	Day   int
}

var gregorianDayOfYear = [12]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

// MonthNames holds Persian month names indexed by month-1.
var MonthNames = [12]string{
	"Farvardin", "Ordibehesht", "Khordad", "Tir", "Mordad", "Shahrivar",
	"Mehr", "Aban", "Azar", "Dey", "Bahman", "Esfand",
}

// MonthOrder is the school-year display order: Mehr through Shahrivar.
var MonthOrder = [12]int{7, 8, 9, 10, 11, 12, 1, 2, 3, 4, 5, 6}

// FromGregorian converts a Gregorian year/month/day into a solar date using
// the 33-year leap cycle arithmetic. Months are 1-based.
func FromGregorian(gy, gm, gd int) Date {
	jy := 979
	if gy <= 1600 {
		jy = 0
		gy -= 621
	} else {
		gy -= 1600
	}
	gy2 := gy
	if gm > 2 {
		gy2 = gy + 1
	}
	days := 365*gy + (gy2+3)/4 - (gy2+99)/100 + (gy2+399)/400 - 80 + gd + gregorianDayOfYear[gm-1]
	jy += 33 * (days / 12053)
	days %= 12053
	jy += 4 * (days / 1461)
	days %= 1461
	// Day offsets 0..365 fall inside the leap year opening the 1461-day
	// group; anything beyond advances in plain 365-day steps.
	if days > 365 {
		jy += (days - 1) / 365
		days = (days - 1) % 365
	}
	var jm, jd int
	if days < 186 {
		jm = 1 + days/31
		jd = days%31 + 1
	} else {
		jm = 7 + (days-186)/30
		jd = (days-186)%30 + 1
	}
	return Date{Year: jy, Month: jm, Day: jd}
}

// FromTime converts a time.Time. The zero time yields a zero Date which
// callers should treat as unparseable.
func FromTime(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return FromGregorian(t.Year(), int(t.Month()), t.Day())
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// SchoolYear returns the school-year label for the date. The school year
// spans Mehr (month 7) of year Y through Shahrivar (month 6) of year Y+1 and
// is labeled Y.
func (d Date) SchoolYear() int {
	if d.Month >= 7 {
		return d.Year
	}
	return d.Year - 1
}

// MonthName returns the Persian name of the date's month.
func (d Date) MonthName() string {
	if d.Month < 1 || d.Month > 12 {
		return ""
	}
	return MonthNames[d.Month-1]
}
