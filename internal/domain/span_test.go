package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/tripplanner/internal/domain"
)

func span(start, end string) domain.Span {
	return domain.Span{Start: domain.MustParseDate(start), End: domain.MustParseDate(end)}
}

func TestSpan_Kind(t *testing.T) {
	assert.Equal(t, domain.SpanUnscheduled, span("", "").Kind())
	assert.Equal(t, domain.SpanOpen, span("2024-03-01", "").Kind())
	assert.Equal(t, domain.SpanClosed, span("2024-03-01", "2024-03-05").Kind())
	assert.Equal(t, domain.SpanUnscheduled, span("", "2024-03-05").Kind(), "end without start is not a span")
}

func TestOverlaps_Symmetric(t *testing.T) {
	spans := []domain.Span{
		span("2024-03-01", "2024-03-05"),
		span("2024-03-05", "2024-03-08"),
		span("2024-03-04", "2024-03-07"),
		span("2024-02-01", "2024-04-01"),
		span("2024-03-06", "2024-03-09"),
		span("2024-03-03", ""),
		span("2024-03-20", ""),
		span("", ""),
	}
	for _, a := range spans {
		for _, b := range spans {
			assert.Equal(t, domain.Overlaps(a, b), domain.Overlaps(b, a), "%s vs %s", a, b)
		}
	}
}

func TestOverlaps_SharedBoundaryDayIsNotOverlap(t *testing.T) {
	a := span("2024-03-01", "2024-03-10")
	b := span("2024-03-10", "2024-03-15")

	assert.False(t, domain.Overlaps(a, b))
}

func TestOverlaps_Cases(t *testing.T) {
	tests := []struct {
		name string
		a, b domain.Span
		want bool
	}{
		{"intersecting", span("2024-03-01", "2024-03-05"), span("2024-03-04", "2024-03-07"), true},
		{"contained", span("2024-03-01", "2024-03-31"), span("2024-03-10", "2024-03-12"), true},
		{"disjoint", span("2024-03-01", "2024-03-05"), span("2024-03-06", "2024-03-09"), false},
		{"open after closed end", span("2024-03-05", ""), span("2024-03-01", "2024-03-05"), false},
		{"open inside closed", span("2024-03-03", ""), span("2024-03-01", "2024-03-05"), true},
		{"open before closed", span("2024-02-01", ""), span("2024-03-01", "2024-03-05"), true},
		{"two open spans", span("2024-03-01", ""), span("2024-03-02", ""), false},
		{"unscheduled", span("", ""), span("2024-03-01", "2024-03-05"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.Overlaps(tt.a, tt.b))
		})
	}
}

func TestDurationDays(t *testing.T) {
	days, ok := domain.DurationDays(span("2024-03-01", "2024-03-05"))
	assert.True(t, ok)
	assert.Equal(t, 4, days)

	days, ok = domain.DurationDays(span("2024-03-10", "2024-03-10"))
	assert.True(t, ok)
	assert.Equal(t, 0, days)

	_, ok = domain.DurationDays(span("2024-03-10", ""))
	assert.False(t, ok)

	_, ok = domain.DurationDays(span("", ""))
	assert.False(t, ok)
}

func TestSpan_Contains(t *testing.T) {
	closed := span("2024-03-01", "2024-03-05")
	assert.True(t, closed.Contains(domain.MustParseDate("2024-03-01")))
	assert.True(t, closed.Contains(domain.MustParseDate("2024-03-05")))
	assert.False(t, closed.Contains(domain.MustParseDate("2024-03-06")))

	open := span("2024-03-10", "")
	assert.True(t, open.Contains(domain.MustParseDate("2024-03-10")))
	assert.False(t, open.Contains(domain.MustParseDate("2024-03-11")))

	assert.False(t, span("", "").Contains(domain.MustParseDate("2024-03-10")))
}

func TestStartsBefore_UnscheduledLast(t *testing.T) {
	dated := span("2024-03-01", "2024-03-05")
	none := span("", "")

	assert.True(t, domain.StartsBefore(dated, none))
	assert.False(t, domain.StartsBefore(none, dated))
	assert.True(t, domain.StartsBefore(span("2024-01-01", ""), dated))
}

func TestSpan_String(t *testing.T) {
	assert.Equal(t, "Mar 1 - Mar 5", span("2024-03-01", "2024-03-05").String())
	assert.Equal(t, "from Mar 1", span("2024-03-01", "").String())
	assert.Equal(t, "no dates", span("", "").String())
}
