package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testSnapshot(price float64) PropertySnapshot {
	return PropertySnapshot{
		ID:      "prop-1",
		Title:   "Downtown Office",
		Address: "12 Main St, Springfield, IL, USA",
		Price:   price,
		Type:    TypeOffice,
		Area:    900,
	}
}

func testBooking(t *testing.T, price float64, start, end time.Time) *Booking {
	t.Helper()
	b, err := NewBooking(
		testSnapshot(price),
		UserRef{ID: "cust-1", Name: "Alice", Email: "alice@example.com"},
		UserRef{ID: "own-1", Name: "Bob", Email: "bob@example.com"},
		start, end,
	)
	require.NoError(t, err)
	return b
}

func TestBooking_Days_Inclusive(t *testing.T) {
	b := testBooking(t, 1000, date(2024, time.January, 1), date(2024, time.January, 1))
	assert.Equal(t, int64(1), b.Days())

	b = testBooking(t, 1000, date(2024, time.January, 1), date(2024, time.January, 31))
	assert.Equal(t, int64(31), b.Days())
}

func TestBooking_TotalPrice_CeilingMonths(t *testing.T) {
	price := 1500.0

	oneDay := testBooking(t, price, date(2024, time.March, 1), date(2024, time.March, 1))
	assert.Equal(t, int64(1), oneDay.Months())
	assert.Equal(t, price, oneDay.TotalPrice())

	thirtyDays := testBooking(t, price, date(2024, time.March, 1), date(2024, time.March, 30))
	assert.Equal(t, int64(30), thirtyDays.Days())
	assert.Equal(t, int64(1), thirtyDays.Months())
	assert.Equal(t, price, thirtyDays.TotalPrice())

	thirtyOneDays := testBooking(t, price, date(2024, time.March, 1), date(2024, time.March, 31))
	assert.Equal(t, int64(31), thirtyOneDays.Days())
	assert.Equal(t, int64(2), thirtyOneDays.Months())
	assert.Equal(t, 2*price, thirtyOneDays.TotalPrice())
}

func TestNewBooking_StartsPending(t *testing.T) {
	b := testBooking(t, 800, date(2024, time.June, 1), date(2024, time.June, 15))
	assert.Equal(t, BookingPending, b.Status)
	assert.False(t, b.Status.IsTerminal())
}

func TestNewBooking_RejectsInvertedRange(t *testing.T) {
	_, err := NewBooking(
		testSnapshot(800),
		UserRef{ID: "cust-1", Email: "alice@example.com"},
		UserRef{ID: "own-1", Email: "bob@example.com"},
		date(2024, time.June, 15), date(2024, time.June, 1),
	)
	assert.Error(t, err)
}

func TestBookingStatus_IsTerminal(t *testing.T) {
	assert.False(t, BookingPending.IsTerminal())
	assert.True(t, BookingAccepted.IsTerminal())
	assert.True(t, BookingRejected.IsTerminal())
}
