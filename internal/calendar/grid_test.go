package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripplanner/internal/calendar"
	"github.com/pkordes/tripplanner/internal/domain"
)

func d(s string) domain.Date { return domain.MustParseDate(s) }

func TestSelection_Contains(t *testing.T) {
	tests := []struct {
		name string
		sel  calendar.Selection
		day  string
		want bool
	}{
		{"empty", calendar.Selection{}, "2024-03-01", false},
		{"start only on start", calendar.Selection{Start: d("2024-03-05")}, "2024-03-05", true},
		{"start only after start", calendar.Selection{Start: d("2024-03-05")}, "2024-03-06", false},
		{"closed first day", calendar.Selection{Start: d("2024-03-05"), End: d("2024-03-08")}, "2024-03-05", true},
		{"closed middle", calendar.Selection{Start: d("2024-03-05"), End: d("2024-03-08")}, "2024-03-06", true},
		{"closed last day", calendar.Selection{Start: d("2024-03-05"), End: d("2024-03-08")}, "2024-03-08", true},
		{"closed after", calendar.Selection{Start: d("2024-03-05"), End: d("2024-03-08")}, "2024-03-09", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.sel.Contains(d(tc.day)))
		})
	}
}

func TestSelection_IsBoundary(t *testing.T) {
	sel := calendar.Selection{Start: d("2024-03-05"), End: d("2024-03-08")}

	assert.True(t, sel.IsBoundary(d("2024-03-05")))
	assert.True(t, sel.IsBoundary(d("2024-03-08")))
	assert.False(t, sel.IsBoundary(d("2024-03-06")))
	assert.False(t, calendar.Selection{}.IsBoundary(d("2024-03-05")))
}

func TestMonthGrid(t *testing.T) {
	france := domain.Leg{Country: "France", StartDate: d("2024-02-27"), EndDate: d("2024-03-02")}
	italy := domain.Leg{Country: "Italy", StartDate: d("2024-03-10")}
	someday := domain.Leg{Country: "Peru"}
	sel := calendar.Selection{Start: d("2024-03-20"), End: d("2024-03-22")}

	days := calendar.MonthGrid(d("2024-03-17"), []domain.Leg{france, italy, someday}, d("2024-03-15"), sel)

	require.Len(t, days, 31)
	assert.Equal(t, d("2024-03-01"), days[0].Date)
	assert.Equal(t, time.Friday, days[0].Date.Weekday())
	assert.Equal(t, d("2024-03-31"), days[30].Date)

	// France covers Mar 1-2 of this month, both ends inclusive.
	assert.True(t, days[0].HasLeg())
	assert.True(t, days[1].HasLeg())
	assert.False(t, days[2].HasLeg())

	// An open leg covers only its start day.
	require.Len(t, days[9].Legs, 1)
	assert.Equal(t, "Italy", days[9].Legs[0].Country)
	assert.False(t, days[10].HasLeg())

	assert.True(t, days[14].IsToday)
	assert.False(t, days[15].IsToday)

	assert.True(t, days[19].InRange)
	assert.True(t, days[19].IsRangeStart)
	assert.True(t, days[20].InRange)
	assert.False(t, days[20].IsBoundary())
	assert.True(t, days[21].IsRangeEnd)
	assert.False(t, days[22].InRange)
}

func TestMonthGrid_LeapYear(t *testing.T) {
	assert.Len(t, calendar.MonthGrid(d("2024-02-01"), nil, domain.Date{}, calendar.Selection{}), 29)
	assert.Len(t, calendar.MonthGrid(d("2023-02-01"), nil, domain.Date{}, calendar.Selection{}), 28)
	assert.Nil(t, calendar.MonthGrid(domain.Date{}, nil, domain.Date{}, calendar.Selection{}))
}

func TestLegsOn_OverlappingLegs(t *testing.T) {
	legs := []domain.Leg{
		{Country: "France", StartDate: d("2024-03-01"), EndDate: d("2024-03-05")},
		{Country: "Spain", StartDate: d("2024-03-04"), EndDate: d("2024-03-07")},
	}

	got := calendar.LegsOn(legs, d("2024-03-04"))

	require.Len(t, got, 2)
	assert.Equal(t, "France", got[0].Country)
	assert.Equal(t, "Spain", got[1].Country)
}
