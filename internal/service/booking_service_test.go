package service

import (
	"context"
	"path/filepath"
	"testing"

	"barokah/internal/database"
	"barokah/internal/events"
	"barokah/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *database.DB {
	t.Helper()
	logger := zerolog.Nop()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedTestCatalog(t *testing.T, db *database.DB) {
	t.Helper()
	seed := models.CatalogSeed{
		Brands: []models.PrinterBrand{
			{Name: "Epson", Models: []models.PrinterModel{{Name: "L3110", Type: "multifunction"}}},
		},
		Categories: []models.ProblemCategory{
			{Name: "Masalah Pencetakan", Icon: "🖨️"},
			{Name: "Masalah Kertas", Icon: "📄"},
		},
		Technicians: []models.Technician{
			{Name: "Budi Santoso", IsAvailable: true},
		},
	}
	require.NoError(t, db.SeedCatalog(context.Background(), seed))
}

func newBookingService(t *testing.T, db *database.DB, bus *events.Bus) *BookingService {
	t.Helper()
	logger := zerolog.Nop()
	return NewBookingService(db, bus, nil, &logger)
}

func testForm() models.BookingForm {
	return models.BookingForm{
		CustomerName:       "Andi Wijaya",
		Phone:              "081234567890",
		Email:              "andi@example.com",
		Address:            "Jl. Merdeka 1",
		PrinterBrand:       "Epson",
		PrinterModel:       "L3110",
		ProblemCategory:    "Masalah Pencetakan",
		ProblemDescription: "hasil cetak bergaris",
		AppointmentDate:    "2026-09-01",
		AppointmentTime:    "10:00",
	}
}

func TestCreateBookingFlow(t *testing.T) {
	db := newTestStore(t)
	seedTestCatalog(t, db)
	bus := events.NewBus()
	svc := newBookingService(t, db, bus)
	ctx := context.Background()

	var published []events.Event
	bus.Subscribe(events.TopicBookings, func(event events.Event) {
		published = append(published, event)
	})

	code, err := svc.CreateBooking(ctx, testForm())
	require.NoError(t, err)
	assert.Regexp(t, `^BRK\d{6}$`, code)

	detail, err := svc.GetBooking(ctx, code)
	require.NoError(t, err)
	require.NotNil(t, detail)

	assert.Equal(t, "Andi Wijaya", detail.Customer.Name)
	assert.Equal(t, "Epson", detail.PrinterBrand)
	assert.Equal(t, "L3110", detail.PrinterModel)
	assert.Equal(t, "Masalah Pencetakan", detail.ProblemCategory)
	assert.Equal(t, "Rp 50.000 - 150.000", detail.EstimatedCost)
	assert.Equal(t, models.DefaultServiceType, detail.ServiceType)
	assert.Equal(t, "Budi Santoso", detail.Technician)
	assert.Equal(t, models.StatusPending, detail.Status)

	require.Len(t, published, 1)
	assert.Equal(t, events.ActionInsert, published[0].Action)
	assert.Equal(t, code, published[0].RowID)
}

func TestCreateBookingMissingContact(t *testing.T) {
	db := newTestStore(t)
	svc := newBookingService(t, db, events.NewBus())

	form := testForm()
	form.Phone = "  "
	_, err := svc.CreateBooking(context.Background(), form)
	assert.ErrorIs(t, err, ErrMissingContact)
}

func TestCreateBookingUnknownCatalogNames(t *testing.T) {
	db := newTestStore(t)
	svc := newBookingService(t, db, events.NewBus())
	ctx := context.Background()

	form := testForm()
	form.PrinterBrand = "TypoBrand"
	form.PrinterModel = "TypoModel"
	form.ProblemCategory = "Masalah Aneh"

	code, err := svc.CreateBooking(ctx, form)
	require.NoError(t, err)

	detail, err := svc.GetBooking(ctx, code)
	require.NoError(t, err)
	require.NotNil(t, detail)

	assert.Empty(t, detail.PrinterBrand)
	assert.Empty(t, detail.PrinterModel)
	assert.Empty(t, detail.ProblemCategory)
	assert.Equal(t, models.DefaultEstimatedCost, detail.EstimatedCost)
	assert.Equal(t, models.TechnicianUnassigned, detail.Technician)
}

func TestCreateBookingDedupsCustomer(t *testing.T) {
	db := newTestStore(t)
	seedTestCatalog(t, db)
	svc := newBookingService(t, db, events.NewBus())
	ctx := context.Background()

	_, err := svc.CreateBooking(ctx, testForm())
	require.NoError(t, err)

	repeat := testForm()
	repeat.CustomerName = "Andi W."
	_, err = svc.CreateBooking(ctx, repeat)
	require.NoError(t, err)

	count, err := db.CountCustomers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	db := newTestStore(t)
	svc := newBookingService(t, db, events.NewBus())

	_, err := svc.UpdateStatus(context.Background(), "BRK123456", "shipped")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestUpdateStatusUnknownBooking(t *testing.T) {
	db := newTestStore(t)
	svc := newBookingService(t, db, events.NewBus())

	ok, err := svc.UpdateStatus(context.Background(), "BRK999999", models.StatusConfirmed)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateStatusPublishesChange(t *testing.T) {
	db := newTestStore(t)
	seedTestCatalog(t, db)
	bus := events.NewBus()
	svc := newBookingService(t, db, bus)
	ctx := context.Background()

	code, err := svc.CreateBooking(ctx, testForm())
	require.NoError(t, err)

	var updates []events.Event
	bus.Subscribe(events.TopicBookings, func(event events.Event) {
		updates = append(updates, event)
	})

	ok, err := svc.UpdateStatus(ctx, code, models.StatusServicing)
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, updates, 1)
	assert.Equal(t, events.ActionUpdate, updates[0].Action)
	assert.Equal(t, code, updates[0].RowID)
}

func TestStatsRevenue(t *testing.T) {
	db := newTestStore(t)
	seedTestCatalog(t, db)
	svc := newBookingService(t, db, events.NewBus())
	ctx := context.Background()

	first, err := svc.CreateBooking(ctx, testForm())
	require.NoError(t, err)
	second, err := svc.CreateBooking(ctx, testForm())
	require.NoError(t, err)

	_, err = svc.SetActualCost(ctx, first, "Rp 150.000")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, first, models.StatusCompleted)
	require.NoError(t, err)

	_, err = svc.SetActualCost(ctx, second, "Rp 75.000")
	require.NoError(t, err)
	// Second booking stays pending: its cost must not count.

	stats := svc.Stats(ctx)
	assert.Equal(t, int64(2), stats.TotalBookings)
	assert.Equal(t, int64(1), stats.ByStatus[models.StatusCompleted])
	assert.Equal(t, int64(1), stats.ByStatus[models.StatusPending])
	assert.Equal(t, int64(150000), stats.Revenue)
}

func TestParseRupiah(t *testing.T) {
	assert.Equal(t, int64(150000), parseRupiah("Rp 150.000"))
	assert.Equal(t, int64(75000), parseRupiah("75000"))
	assert.Equal(t, int64(0), parseRupiah(""))
	assert.Equal(t, int64(0), parseRupiah("gratis"))
}
