package lifecycle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"innkeep/internal/domains/booking/lifecycle"
	"innkeep/internal/domains/booking/model"
	"innkeep/shared/failure"
)

func booking(id string, checkedIn, checkedOut bool) model.Booking {
	return model.Booking{
		ID:           id,
		IsCheckedIn:  checkedIn,
		IsCheckedOut: checkedOut,
	}
}

func TestStateOf(t *testing.T) {
	tests := []struct {
		name       string
		booking    model.Booking
		wantState  lifecycle.State
		wantErr    bool
		wantErrKnd string
	}{
		{
			name:      "neither flag set is created",
			booking:   booking("b-1", false, false),
			wantState: lifecycle.StateCreated,
		},
		{
			name:      "checked in only is checked in",
			booking:   booking("b-2", true, false),
			wantState: lifecycle.StateCheckedIn,
		},
		{
			name:      "both flags set is checked out",
			booking:   booking("b-3", true, true),
			wantState: lifecycle.StateCheckedOut,
		},
		{
			name:       "checked out without checking in is corrupt",
			booking:    booking("b-4", false, true),
			wantErr:    true,
			wantErrKnd: failure.KindDataIntegrity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, err := lifecycle.StateOf(tt.booking)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantErrKnd, failure.GetKind(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantState, state)
			}
		})
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "created", lifecycle.StateCreated.String())
	assert.Equal(t, "checked_in", lifecycle.StateCheckedIn.String())
	assert.Equal(t, "checked_out", lifecycle.StateCheckedOut.String())
	assert.Equal(t, "unknown", lifecycle.State(0).String())
}

func TestEnsureCheckInAllowed(t *testing.T) {
	tests := []struct {
		name       string
		booking    model.Booking
		wantErrKnd string
	}{
		{
			name:    "created booking can check in",
			booking: booking("b-1", false, false),
		},
		{
			name:       "checked in booking cannot check in again",
			booking:    booking("b-2", true, false),
			wantErrKnd: failure.KindInvalidTransition,
		},
		{
			name:       "checked out booking cannot check in",
			booking:    booking("b-3", true, true),
			wantErrKnd: failure.KindInvalidTransition,
		},
		{
			name:       "corrupt flags surface as data integrity",
			booking:    booking("b-4", false, true),
			wantErrKnd: failure.KindDataIntegrity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := lifecycle.EnsureCheckInAllowed(tt.booking)

			if tt.wantErrKnd != "" {
				assert.Error(t, err)
				assert.Equal(t, tt.wantErrKnd, failure.GetKind(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnsureCheckOutAllowed(t *testing.T) {
	tests := []struct {
		name        string
		booking     model.Booking
		alreadyDone bool
		wantErrKnd  string
	}{
		{
			name:    "checked in booking can check out",
			booking: booking("b-1", true, false),
		},
		{
			name:        "checked out booking reports already done",
			booking:     booking("b-2", true, true),
			alreadyDone: true,
		},
		{
			name:       "created booking cannot check out",
			booking:    booking("b-3", false, false),
			wantErrKnd: failure.KindInvalidTransition,
		},
		{
			name:       "corrupt flags surface as data integrity",
			booking:    booking("b-4", false, true),
			wantErrKnd: failure.KindDataIntegrity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alreadyDone, err := lifecycle.EnsureCheckOutAllowed(tt.booking)

			if tt.wantErrKnd != "" {
				assert.Error(t, err)
				assert.Equal(t, tt.wantErrKnd, failure.GetKind(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.alreadyDone, alreadyDone)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	bookings := []model.Booking{
		booking("upcoming-1", false, false),
		booking("current-1", true, false),
		booking("history-1", true, true),
		booking("corrupt-1", false, true),
		booking("upcoming-2", false, false),
	}

	buckets := lifecycle.Classify(bookings)

	assert.Len(t, buckets.Upcoming, 2)
	assert.Len(t, buckets.Current, 1)
	assert.Len(t, buckets.History, 1)
	assert.Len(t, buckets.NeedsReview, 1)

	assert.Equal(t, "upcoming-1", buckets.Upcoming[0].ID)
	assert.Equal(t, "upcoming-2", buckets.Upcoming[1].ID)
	assert.Equal(t, "current-1", buckets.Current[0].ID)
	assert.Equal(t, "history-1", buckets.History[0].ID)
	assert.Equal(t, "corrupt-1", buckets.NeedsReview[0].ID)

	// every booking lands in exactly one bucket
	total := len(buckets.Upcoming) + len(buckets.Current) + len(buckets.History) + len(buckets.NeedsReview)
	assert.Equal(t, len(bookings), total)
}

func TestClassify_Empty(t *testing.T) {
	buckets := lifecycle.Classify(nil)

	assert.Empty(t, buckets.Upcoming)
	assert.Empty(t, buckets.Current)
	assert.Empty(t, buckets.History)
	assert.Empty(t, buckets.NeedsReview)
}

func TestBuckets_FilterByGuestName(t *testing.T) {
	alice := booking("b-1", false, false)
	alice.GuestName = "Alice Johnson"

	bob := booking("b-2", true, false)
	bob.GuestName = "Bob Smith"

	alicia := booking("b-3", true, true)
	alicia.GuestName = "ALICIA BROWN"

	buckets := lifecycle.Classify([]model.Booking{alice, bob, alicia})

	t.Run("empty query returns buckets unchanged", func(t *testing.T) {
		filtered := buckets.FilterByGuestName("")

		assert.Equal(t, buckets, filtered)
	})

	t.Run("matches case insensitively across buckets", func(t *testing.T) {
		filtered := buckets.FilterByGuestName("ali")

		assert.Len(t, filtered.Upcoming, 1)
		assert.Empty(t, filtered.Current)
		assert.Len(t, filtered.History, 1)
		assert.Equal(t, "Alice Johnson", filtered.Upcoming[0].GuestName)
		assert.Equal(t, "ALICIA BROWN", filtered.History[0].GuestName)
	})

	t.Run("does not mutate the receiver", func(t *testing.T) {
		_ = buckets.FilterByGuestName("nobody")

		assert.Len(t, buckets.Upcoming, 1)
		assert.Len(t, buckets.Current, 1)
		assert.Len(t, buckets.History, 1)
	})
}
