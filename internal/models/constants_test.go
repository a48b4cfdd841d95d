package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidStatus(t *testing.T) {
	for _, status := range []string{
		StatusPending, StatusConfirmed, StatusInProgress,
		StatusServicing, StatusCompleted, StatusCancelled,
	} {
		assert.True(t, ValidStatus(status), status)
	}

	assert.False(t, ValidStatus("shipped"))
	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("Pending"), "statuses are case sensitive")
}

func TestEstimatedCostFor(t *testing.T) {
	assert.Equal(t, "Rp 50.000 - 150.000", EstimatedCostFor("Masalah Pencetakan"))
	assert.Equal(t, "Rp 30.000 - 120.000", EstimatedCostFor("Masalah Kertas"))
	assert.Equal(t, "Rp 100.000 - 500.000", EstimatedCostFor("Masalah Internal"))

	// Unrecognized categories fall back to the default range.
	assert.Equal(t, DefaultEstimatedCost, EstimatedCostFor("Masalah Aneh"))
	assert.Equal(t, DefaultEstimatedCost, EstimatedCostFor(""))
}

func TestTimelineStagesOrder(t *testing.T) {
	assert.Len(t, TimelineStages, 5)
	assert.Equal(t, StatusPending, TimelineStages[0].Status)
	assert.Equal(t, StatusCompleted, TimelineStages[4].Status)
	assert.Equal(t, "Booking Diterima", TimelineStages[0].Title)
	assert.Equal(t, "Service Selesai", TimelineStages[4].Title)

	for _, stage := range TimelineStages {
		assert.NotEqual(t, StatusCancelled, stage.Status, "cancellation has no timeline stage")
	}
}
