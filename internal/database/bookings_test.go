package database

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"barokah/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBookingSeedsTimeline(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	booking := createTestBooking(t, db)

	assert.Regexp(t, regexp.MustCompile(`^BRK\d{6}$`), booking.ID)
	assert.Equal(t, models.StatusPending, booking.Status)

	detail, err := db.GetBookingDetail(ctx, booking.ID)
	require.NoError(t, err)
	require.NotNil(t, detail)

	require.Len(t, detail.Timeline, len(models.TimelineStages))
	assert.Equal(t, "Booking Diterima", detail.Timeline[0].Title)
	assert.True(t, detail.Timeline[0].Completed)
	require.NotNil(t, detail.Timeline[0].CompletedAt)

	for _, entry := range detail.Timeline[1:] {
		assert.False(t, entry.Completed)
		assert.Nil(t, entry.CompletedAt)
	}
}

func TestCreateBookingUniqueCodes(t *testing.T) {
	db := setupTestDB(t)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		booking := createTestBooking(t, db)
		assert.False(t, seen[booking.ID], "duplicate code %s", booking.ID)
		seen[booking.ID] = true
	}
}

func TestGetBookingDetailCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	booking := createTestBooking(t, db)

	detail, err := db.GetBookingDetail(ctx, strings.ToLower(booking.ID))
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, booking.ID, detail.ID)
}

func TestGetBookingDetailUnknownCode(t *testing.T) {
	db := setupTestDB(t)

	detail, err := db.GetBookingDetail(context.Background(), "BRK000000")
	require.NoError(t, err)
	assert.Nil(t, detail)
}

func TestGetBookingDetailUnassignedTechnician(t *testing.T) {
	db := setupTestDB(t)

	booking := createTestBooking(t, db)

	detail, err := db.GetBookingDetail(context.Background(), booking.ID)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, models.TechnicianUnassigned, detail.Technician)
}

func TestUpdateBookingStatusMarksMatchingStage(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	booking := createTestBooking(t, db)

	ok, err := db.UpdateBookingStatus(ctx, booking.ID, models.StatusConfirmed)
	require.NoError(t, err)
	assert.True(t, ok)

	detail, err := db.GetBookingDetail(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, detail.Status)
	assert.True(t, detail.Timeline[1].Completed)
	require.NotNil(t, detail.Timeline[1].CompletedAt)
	assert.False(t, detail.Timeline[2].Completed)
}

func TestUpdateBookingStatusFastForward(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	booking := createTestBooking(t, db)

	// Jumping straight to completed stamps only the completed stage.
	ok, err := db.UpdateBookingStatus(ctx, booking.ID, models.StatusCompleted)
	require.NoError(t, err)
	assert.True(t, ok)

	detail, err := db.GetBookingDetail(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, detail.Status)

	assert.True(t, detail.Timeline[0].Completed)
	assert.False(t, detail.Timeline[1].Completed)
	assert.False(t, detail.Timeline[2].Completed)
	assert.False(t, detail.Timeline[3].Completed)
	assert.True(t, detail.Timeline[4].Completed)
}

func TestUpdateBookingStatusCancelledHasNoStage(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	booking := createTestBooking(t, db)

	ok, err := db.UpdateBookingStatus(ctx, booking.ID, models.StatusCancelled)
	require.NoError(t, err)
	assert.True(t, ok)

	detail, err := db.GetBookingDetail(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, detail.Status)

	completed := 0
	for _, entry := range detail.Timeline {
		if entry.Completed {
			completed++
		}
	}
	assert.Equal(t, 1, completed, "only the creation stage stays completed")
}

func TestUpdateBookingStatusUnknownCode(t *testing.T) {
	db := setupTestDB(t)

	ok, err := db.UpdateBookingStatus(context.Background(), "BRK999999", models.StatusConfirmed)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAssignTechnician(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	technician := models.Technician{Name: "Budi Santoso", IsAvailable: true, IsActive: true}
	require.NoError(t, db.CreateTechnician(ctx, &technician))

	booking := createTestBooking(t, db)

	ok, err := db.AssignTechnician(ctx, booking.ID, technician.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	detail, err := db.GetBookingDetail(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", detail.Technician)
}

func TestUpdateActualCostAndRevenueSources(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	booking := createTestBooking(t, db)

	ok, err := db.UpdateActualCost(ctx, booking.ID, "Rp 125.000")
	require.NoError(t, err)
	assert.True(t, ok)

	// Only completed bookings count toward revenue.
	costs, err := db.CompletedActualCosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, costs)

	_, err = db.UpdateBookingStatus(ctx, booking.ID, models.StatusCompleted)
	require.NoError(t, err)

	costs, err = db.CompletedActualCosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rp 125.000"}, costs)
}

func TestBookingStatusCounts(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first := createTestBooking(t, db)
	createTestBooking(t, db)

	_, err := db.UpdateBookingStatus(ctx, first.ID, models.StatusConfirmed)
	require.NoError(t, err)

	counts, err := db.BookingStatusCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[models.StatusPending])
	assert.Equal(t, int64(1), counts[models.StatusConfirmed])
}

func TestListBookingDetailsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first := createTestBooking(t, db)
	second := createTestBooking(t, db)

	details, err := db.ListBookingDetails(ctx)
	require.NoError(t, err)
	require.Len(t, details, 2)

	ids := []string{details[0].ID, details[1].ID}
	assert.Contains(t, ids, first.ID)
	assert.Contains(t, ids, second.ID)

	for _, detail := range details {
		assert.Len(t, detail.Timeline, len(models.TimelineStages))
	}
}
