package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"barokah/internal/database"
	"barokah/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSheets struct {
	err         error
	appendCalls int
	statusCalls int
	lastStatus  string
}

func (f *fakeSheets) AppendBooking(context.Context, *models.BookingDetail) error {
	f.appendCalls++
	return f.err
}

func (f *fakeSheets) UpdateBookingStatus(_ context.Context, _, status string) error {
	f.statusCalls++
	f.lastStatus = status
	return f.err
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	logger := zerolog.Nop()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func createBooking(t *testing.T, db *database.DB) string {
	t.Helper()
	ctx := context.Background()

	customer := models.Customer{Name: "Tester", Phone: "081200000009"}
	require.NoError(t, db.UpsertCustomerByPhone(ctx, &customer))

	booking := models.Booking{
		CustomerID:      customer.ID,
		ServiceType:     models.DefaultServiceType,
		AppointmentDate: "2026-09-01",
		AppointmentTime: "10:00",
		EstimatedCost:   models.DefaultEstimatedCost,
	}
	require.NoError(t, db.CreateBooking(ctx, &booking))
	return booking.ID
}

func loadTask(t *testing.T, db *database.DB, id int64) models.SyncTask {
	t.Helper()
	row := db.QueryRowContext(context.Background(),
		`SELECT id, status, retry_count, COALESCE(last_error, '') FROM sync_queue WHERE id = ?`, id)

	var task models.SyncTask
	var lastError string
	require.NoError(t, row.Scan(&task.ID, &task.Status, &task.RetryCount, &lastError))
	if lastError != "" {
		task.LastError = &lastError
	}
	return task
}

func TestProcessAppendSuccess(t *testing.T) {
	db := newTestDB(t)
	sheets := &fakeSheets{}
	w := NewSheetsWorker(db, sheets, nil, RetryPolicy{}, nil)
	ctx := context.Background()

	code := createBooking(t, db)
	require.NoError(t, w.EnqueueAppend(ctx, code))

	task, ok := w.tryLocalQueue()
	require.True(t, ok, "expected task in local queue")
	w.processTask(ctx, &task)

	assert.Equal(t, 1, sheets.appendCalls)
	stored := loadTask(t, db, task.ID)
	assert.Equal(t, "done", stored.Status)
}

func TestProcessStatusUpdate(t *testing.T) {
	db := newTestDB(t)
	sheets := &fakeSheets{}
	w := NewSheetsWorker(db, sheets, nil, RetryPolicy{}, nil)
	ctx := context.Background()

	code := createBooking(t, db)
	require.NoError(t, w.EnqueueStatusUpdate(ctx, code, models.StatusConfirmed))

	task, ok := w.tryLocalQueue()
	require.True(t, ok)
	w.processTask(ctx, &task)

	assert.Equal(t, 1, sheets.statusCalls)
	assert.Equal(t, models.StatusConfirmed, sheets.lastStatus)
}

func TestProcessTaskRetry(t *testing.T) {
	db := newTestDB(t)
	sheets := &fakeSheets{err: errors.New("boom")}
	w := NewSheetsWorker(db, sheets, nil, RetryPolicy{MaxRetries: 3, InitialDelay: time.Second}, nil)
	ctx := context.Background()

	code := createBooking(t, db)
	require.NoError(t, w.EnqueueAppend(ctx, code))

	task, ok := w.tryLocalQueue()
	require.True(t, ok)
	w.processTask(ctx, &task)

	stored := loadTask(t, db, task.ID)
	assert.Equal(t, "retry", stored.Status)
	assert.Equal(t, 1, stored.RetryCount)
	require.NotNil(t, stored.LastError)
	assert.Contains(t, *stored.LastError, "boom")
}

func TestProcessTaskExhaustsRetries(t *testing.T) {
	db := newTestDB(t)
	sheets := &fakeSheets{err: errors.New("boom")}
	w := NewSheetsWorker(db, sheets, nil, RetryPolicy{MaxRetries: 1}, nil)
	ctx := context.Background()

	code := createBooking(t, db)
	require.NoError(t, w.EnqueueAppend(ctx, code))

	task, ok := w.tryLocalQueue()
	require.True(t, ok)
	w.processTask(ctx, &task)

	stored := loadTask(t, db, task.ID)
	assert.Equal(t, "failed", stored.Status)
}

func TestEnqueueRequiresBookingID(t *testing.T) {
	db := newTestDB(t)
	w := NewSheetsWorker(db, &fakeSheets{}, nil, RetryPolicy{}, nil)

	err := w.EnqueueAppend(context.Background(), "")
	assert.Error(t, err)
}

func TestRetryPolicyBackoff(t *testing.T) {
	policy := RetryPolicy{InitialDelay: time.Second, BackoffFactor: 2, MaxDelay: 5 * time.Second}

	assert.Equal(t, time.Second, policy.NextDelay(1))
	assert.Equal(t, 2*time.Second, policy.NextDelay(2))
	assert.Equal(t, 4*time.Second, policy.NextDelay(3))
	assert.Equal(t, 5*time.Second, policy.NextDelay(4), "clamped at max delay")
	assert.Equal(t, time.Second, policy.NextDelay(0), "attempt below 1 is normalized")
}
