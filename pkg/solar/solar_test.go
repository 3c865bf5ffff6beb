package solar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromGregorianReferenceDates(t *testing.T) {
	cases := []struct {
		gy, gm, gd int
		want       Date
	}{
		{2021, 3, 21, Date{1400, 1, 1}},
		{2025, 3, 21, Date{1404, 1, 1}},
		{2023, 9, 23, Date{1402, 7, 1}},
		{2023, 10, 23, Date{1402, 8, 1}},
		{2024, 2, 14, Date{1402, 11, 25}},
		{2024, 3, 19, Date{1402, 12, 29}},
		// Nowruz right after a non-leap Esfand: 1402 ends on the 29th.
		{2024, 3, 20, Date{1403, 1, 1}},
		{2024, 6, 10, Date{1403, 3, 21}},
		{2024, 9, 22, Date{1403, 7, 1}},
		// 1403 is a leap year, so Esfand runs to the 30th.
		{2025, 3, 20, Date{1403, 12, 30}},
		{2000, 1, 1, Date{1378, 10, 11}},
		{1979, 2, 11, Date{1357, 11, 22}},
		// Cycle boundary where the accumulated day offset lands on zero.
		{2016, 3, 20, Date{1395, 1, 1}},
	}
	for _, tc := range cases {
		got := FromGregorian(tc.gy, tc.gm, tc.gd)
		assert.Equalf(t, tc.want, got, "%04d-%02d-%02d", tc.gy, tc.gm, tc.gd)
	}
}

func TestFromTime(t *testing.T) {
	d := FromTime(time.Date(2023, 10, 23, 14, 30, 0, 0, time.UTC))
	require.Equal(t, Date{1402, 8, 1}, d)

	assert.True(t, FromTime(time.Time{}).IsZero())
}

func TestSchoolYear(t *testing.T) {
	// Mehr through Esfand belong to the school year labeled by their own year.
	assert.Equal(t, 1402, Date{1402, 8, 1}.SchoolYear())
	assert.Equal(t, 1402, Date{1402, 7, 1}.SchoolYear())
	// Farvardin through Shahrivar belong to the previous label.
	assert.Equal(t, 1402, Date{1403, 3, 20}.SchoolYear())
	assert.Equal(t, 1402, Date{1403, 6, 31}.SchoolYear())
	assert.Equal(t, 1403, Date{1404, 1, 1}.SchoolYear())
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "Mehr", Date{1402, 7, 1}.MonthName())
	assert.Equal(t, "Esfand", Date{1402, 12, 29}.MonthName())
	assert.Equal(t, "", Date{0, 0, 0}.MonthName())
}

func TestMonthOrderStartsAtMehr(t *testing.T) {
	require.Equal(t, 7, MonthOrder[0])
	require.Equal(t, 6, MonthOrder[11])

	seen := map[int]bool{}
	for _, m := range MonthOrder {
		seen[m] = true
	}
	assert.Len(t, seen, 12)
}
