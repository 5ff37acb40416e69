package models

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookingIDFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^BK-[0-9A-F]{8}$`)
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := NewBookingID()
		assert.Regexp(t, pattern, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestBookingStatusIsTerminal(t *testing.T) {
	cases := []struct {
		status   BookingStatus
		terminal bool
	}{
		{BookingPending, false},
		{BookingConfirmed, false},
		{BookingInProgress, false},
		{BookingCompleted, true},
		{BookingCancelled, true},
		{BookingRejected, true},
		{BookingStatus("SOMETHING_ELSE"), false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.terminal, tc.status.IsTerminal(), "status %s", tc.status)
	}
}

func TestUpdateFieldsExcludesBookingID(t *testing.T) {
	forged := "BK-FFFFFFFF"
	hall := "Hall A"
	guests := 250
	req := &UpdateBookingRequest{
		BookingID:      &forged,
		EventHall:      &hall,
		ExpectedGuests: &guests,
	}

	fields := req.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "Hall A", fields["eventHall"])
	assert.Equal(t, 250, fields["expectedGuests"])
	assert.NotContains(t, fields, "bookingId")
	assert.NotContains(t, fields, "booking_id")
}

func TestUpdateFieldsOmitsUnsetValues(t *testing.T) {
	fields := (&UpdateBookingRequest{}).Fields()
	assert.Empty(t, fields)
}

func TestUpdateFieldsDates(t *testing.T) {
	eventDate := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
	endDate := eventDate.Add(48 * time.Hour)
	req := &UpdateBookingRequest{EventDate: &eventDate, EndDate: &endDate}

	fields := req.Fields()
	assert.Equal(t, eventDate, fields["eventDate"])
	assert.Equal(t, endDate, fields["endDate"])
}

func TestCreateBookingRequestValidation(t *testing.T) {
	valid := &CreateBookingRequest{
		BookingType: BookingTypeVenue,
		VenueID:     "venue-1",
		EventDate:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	}
	assert.NoError(t, Validate.Struct(valid))

	badType := *valid
	badType.BookingType = "caravan"
	assert.Error(t, Validate.Struct(&badType))

	noVenue := *valid
	noVenue.VenueID = ""
	assert.Error(t, Validate.Struct(&noVenue))

	badSlot := *valid
	badSlot.TimeSlot = "Midnight"
	assert.Error(t, Validate.Struct(&badSlot))
}

func TestCancelBookingRequestValidation(t *testing.T) {
	assert.Error(t, Validate.Struct(&CancelBookingRequest{}))
	assert.NoError(t, Validate.Struct(&CancelBookingRequest{CancellationReason: "plans changed"}))
}
