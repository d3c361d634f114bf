package checkin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"innkeep/internal/domains/booking/checkin"
	"innkeep/internal/domains/booking/model"
	roomModel "innkeep/internal/domains/room/model"
	"innkeep/shared/failure"
)

func testRooms() []roomModel.Room {
	return []roomModel.Room{
		{RoomNumber: "101", MaxOccupancy: 2},
		{RoomNumber: "102", MaxOccupancy: 1},
		{RoomNumber: "103", MaxOccupancy: 3},
	}
}

func guest(id, name string) model.Guest {
	return model.Guest{
		ID:    id,
		Name:  name,
		Email: name + "@example.com",
		Phone: "+6281100220033",
		DOB:   "1990-04-12",
	}
}

func TestLedger_SeedPrimary(t *testing.T) {
	t.Run("seeds the primary guest first", func(t *testing.T) {
		ledger := checkin.NewLedger(testRooms())

		err := ledger.SeedPrimary("101", guest("g-1", "alice"))
		assert.NoError(t, err)

		primary, ok := ledger.Primary()
		assert.True(t, ok)
		assert.Equal(t, "g-1", primary.ID)
		assert.True(t, primary.IsPrimary)
		assert.Equal(t, 1, ledger.GuestCount())
	})

	t.Run("replacement keeps the primary first and releases the old slot", func(t *testing.T) {
		ledger := checkin.NewLedger(testRooms())

		assert.NoError(t, ledger.SeedPrimary("102", guest("g-1", "alice")))
		assert.NoError(t, ledger.AddGuest("101", guest("g-2", "bob")))

		// 102 has capacity 1 and already holds the primary; replacing the
		// primary within the same room must not count the old primary.
		assert.NoError(t, ledger.SeedPrimary("102", guest("g-3", "carol")))

		primary, ok := ledger.Primary()
		assert.True(t, ok)
		assert.Equal(t, "g-3", primary.ID)
		assert.Equal(t, 2, ledger.GuestCount())

		snapshot := ledger.Snapshot()
		assert.Equal(t, "g-3", snapshot.PrimaryGuest.Guest.ID)
		assert.Len(t, snapshot.AdditionalGuests, 1)
		assert.Equal(t, "g-2", snapshot.AdditionalGuests[0].Guest.ID)
	})

	t.Run("rejects a full room", func(t *testing.T) {
		ledger := checkin.NewLedger(testRooms())

		assert.NoError(t, ledger.SeedPrimary("101", guest("g-1", "alice")))
		assert.NoError(t, ledger.AddGuest("102", guest("g-2", "bob")))

		err := ledger.SeedPrimary("102", guest("g-3", "carol"))
		assert.Error(t, err)
		assert.Equal(t, failure.KindCapacityExceeded, failure.GetKind(err))
	})

	t.Run("rejects an unknown room", func(t *testing.T) {
		ledger := checkin.NewLedger(testRooms())

		err := ledger.SeedPrimary("999", guest("g-1", "alice"))
		assert.Error(t, err)
		assert.Equal(t, failure.KindValidation, failure.GetKind(err))
	})

	t.Run("rejects an incomplete guest", func(t *testing.T) {
		ledger := checkin.NewLedger(testRooms())

		incomplete := guest("g-1", "alice")
		incomplete.Email = ""

		err := ledger.SeedPrimary("101", incomplete)
		assert.Error(t, err)
		assert.Equal(t, failure.KindValidation, failure.GetKind(err))
	})

	t.Run("generates an id when the guest has none", func(t *testing.T) {
		ledger := checkin.NewLedger(testRooms())

		assert.NoError(t, ledger.SeedPrimary("101", guest("", "alice")))

		primary, ok := ledger.Primary()
		assert.True(t, ok)
		assert.NotEmpty(t, primary.ID)
	})
}

func TestLedger_AddGuest(t *testing.T) {
	t.Run("requires the primary guest first", func(t *testing.T) {
		ledger := checkin.NewLedger(testRooms())

		err := ledger.AddGuest("101", guest("g-1", "alice"))
		assert.Error(t, err)
		assert.Equal(t, failure.KindPrimaryGuestMissing, failure.GetKind(err))
	})

	t.Run("fills a room up to its capacity", func(t *testing.T) {
		ledger := checkin.NewLedger(testRooms())

		assert.NoError(t, ledger.SeedPrimary("103", guest("g-1", "alice")))
		assert.NoError(t, ledger.AddGuest("103", guest("g-2", "bob")))
		assert.NoError(t, ledger.AddGuest("103", guest("g-3", "carol")))

		err := ledger.AddGuest("103", guest("g-4", "dave"))
		assert.Error(t, err)
		assert.Equal(t, failure.KindCapacityExceeded, failure.GetKind(err))
	})

	t.Run("capacity applies per room", func(t *testing.T) {
		ledger := checkin.NewLedger(testRooms())

		assert.NoError(t, ledger.SeedPrimary("102", guest("g-1", "alice")))
		assert.NoError(t, ledger.AddGuest("101", guest("g-2", "bob")))
		assert.NoError(t, ledger.AddGuest("101", guest("g-3", "carol")))

		err := ledger.AddGuest("101", guest("g-4", "dave"))
		assert.Error(t, err)
		assert.Equal(t, failure.KindCapacityExceeded, failure.GetKind(err))
	})

	t.Run("rejects a duplicate guest id", func(t *testing.T) {
		ledger := checkin.NewLedger(testRooms())

		assert.NoError(t, ledger.SeedPrimary("101", guest("g-1", "alice")))
		assert.NoError(t, ledger.AddGuest("103", guest("g-2", "bob")))

		err := ledger.AddGuest("103", guest("g-2", "bob"))
		assert.Error(t, err)
		assert.Equal(t, failure.KindValidation, failure.GetKind(err))
	})
}

func TestLedger_RemoveGuest(t *testing.T) {
	ledger := checkin.NewLedger(testRooms())

	assert.NoError(t, ledger.SeedPrimary("101", guest("g-1", "alice")))
	assert.NoError(t, ledger.AddGuest("103", guest("g-2", "bob")))

	t.Run("the primary guest cannot be removed", func(t *testing.T) {
		err := ledger.RemoveGuest("g-1")
		assert.Error(t, err)
		assert.Equal(t, failure.KindValidation, failure.GetKind(err))
	})

	t.Run("an unknown guest is not found", func(t *testing.T) {
		err := ledger.RemoveGuest("g-999")
		assert.Error(t, err)
	})

	t.Run("removing frees the room slot", func(t *testing.T) {
		assert.NoError(t, ledger.RemoveGuest("g-2"))
		assert.Empty(t, ledger.GuestsByRoom("103"))
		assert.Equal(t, 1, ledger.GuestCount())
	})
}

func TestLedger_RoomsAndGuestsByRoom(t *testing.T) {
	ledger := checkin.NewLedger(testRooms())

	assert.NoError(t, ledger.SeedPrimary("103", guest("g-1", "alice")))
	assert.NoError(t, ledger.AddGuest("101", guest("g-2", "bob")))
	assert.NoError(t, ledger.AddGuest("103", guest("g-3", "carol")))

	assert.Equal(t, []string{"103", "101"}, ledger.Rooms())

	occupants := ledger.GuestsByRoom("103")
	assert.Len(t, occupants, 2)
	assert.Equal(t, "g-1", occupants[0].ID)
	assert.Equal(t, "g-3", occupants[1].ID)

	assert.Empty(t, ledger.GuestsByRoom("102"))
}

func TestLedger_IsComplete(t *testing.T) {
	ledger := checkin.NewLedger(testRooms())

	assert.False(t, ledger.IsComplete(1), "empty ledger is never complete")

	assert.NoError(t, ledger.SeedPrimary("101", guest("g-1", "alice")))
	assert.True(t, ledger.IsComplete(1))
	assert.False(t, ledger.IsComplete(2), "declared headcount not yet recorded")

	assert.NoError(t, ledger.AddGuest("103", guest("g-2", "bob")))
	assert.True(t, ledger.IsComplete(2))

	// completeness is monotone under additions
	assert.NoError(t, ledger.AddGuest("103", guest("g-3", "carol")))
	assert.True(t, ledger.IsComplete(2))
}

func TestLedger_Snapshot(t *testing.T) {
	ledger := checkin.NewLedger(testRooms())

	assert.NoError(t, ledger.SeedPrimary("101", guest("g-1", "alice")))
	assert.NoError(t, ledger.AddGuest("103", guest("g-2", "bob")))
	assert.NoError(t, ledger.AddGuest("101", guest("g-3", "carol")))

	snapshot := ledger.Snapshot()

	assert.Equal(t, "g-1", snapshot.PrimaryGuest.Guest.ID)
	assert.Equal(t, "101", snapshot.PrimaryGuest.RoomNumber)
	assert.True(t, snapshot.PrimaryGuest.Guest.IsPrimary)

	assert.Len(t, snapshot.AdditionalGuests, 2)
	assert.Equal(t, "g-2", snapshot.AdditionalGuests[0].Guest.ID)
	assert.Equal(t, "103", snapshot.AdditionalGuests[0].RoomNumber)
	assert.Equal(t, "g-3", snapshot.AdditionalGuests[1].Guest.ID)
	assert.Equal(t, "101", snapshot.AdditionalGuests[1].RoomNumber)
}
