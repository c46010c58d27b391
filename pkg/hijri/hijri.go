// Package hijri converts Gregorian dates to the tabular (arithmetic) Islamic calendar.
package hijri

import "time"

// Date is a day in the Hijri calendar.
type Date struct {
	Year  int
	Month int
	Day   int
}

// FromTime converts the calendar day of t, in t's location, to its Hijri date.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return fromJulianDay(julianDay(y, int(m), d))
}

// Year returns the Hijri year of t.
func Year(t time.Time) int {
	return FromTime(t).Year
}

func julianDay(y, m, d int) int {
	a := (m - 14) / 12
	return (1461*(y+4800+a))/4 +
		(367*(m-2-12*a))/12 -
		(3*((y+4900+a)/100))/4 +
		d - 32075
}

func fromJulianDay(jd int) Date {
	l := jd - 1948440 + 10632
	n := (l - 1) / 10631
	l = l - 10631*n + 354
	j := ((10985-l)/5316)*((50*l)/17719) + (l/5670)*((43*l)/15238)
	l = l - ((30-j)/15)*((17719*j)/50) - (j/16)*((15238*j)/43) + 29
	m := (24 * l) / 709
	d := l - (709*m)/24
	y := 30*n + j - 30
	return Date{Year: y, Month: m, Day: d}
}
