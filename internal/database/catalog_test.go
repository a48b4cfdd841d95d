package database

import (
	"context"
	"testing"

	"barokah/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBrandWithModel(t *testing.T, db *DB) (*models.PrinterBrand, *models.PrinterModel) {
	t.Helper()
	ctx := context.Background()

	brand := models.PrinterBrand{Name: "Epson", IsActive: true}
	require.NoError(t, db.CreateBrand(ctx, &brand))

	model := models.PrinterModel{BrandID: brand.ID, Name: "L3110", Type: "multifunction", IsActive: true}
	require.NoError(t, db.CreateModel(ctx, &model))

	return &brand, &model
}

func TestListBrandsNestsModels(t *testing.T) {
	db := setupTestDB(t)
	brand, model := seedBrandWithModel(t, db)

	brands, err := db.ListBrands(context.Background())
	require.NoError(t, err)
	require.Len(t, brands, 1)
	assert.Equal(t, brand.Name, brands[0].Name)
	require.Len(t, brands[0].Models, 1)
	assert.Equal(t, model.Name, brands[0].Models[0].Name)
}

func TestDeactivateBrandKeepsBookingReference(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	brand, model := seedBrandWithModel(t, db)

	customer := models.Customer{Name: "Sari", Phone: "081200000001"}
	require.NoError(t, db.UpsertCustomerByPhone(ctx, &customer))

	booking := models.Booking{
		CustomerID:      customer.ID,
		PrinterBrandID:  &brand.ID,
		PrinterModelID:  &model.ID,
		ServiceType:     models.DefaultServiceType,
		AppointmentDate: "2026-09-02",
		AppointmentTime: "09:00",
		EstimatedCost:   models.DefaultEstimatedCost,
	}
	require.NoError(t, db.CreateBooking(ctx, &booking))

	require.NoError(t, db.DeactivateBrand(ctx, brand.ID))

	// The public picker no longer offers the brand.
	brands, err := db.ListBrands(ctx)
	require.NoError(t, err)
	assert.Empty(t, brands)

	// The booking still renders the stored name.
	detail, err := db.GetBookingDetail(ctx, booking.ID)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, "Epson", detail.PrinterBrand)
	assert.Equal(t, "L3110", detail.PrinterModel)
}

func TestBrandIDByNameMissing(t *testing.T) {
	db := setupTestDB(t)

	id, err := db.BrandIDByName(context.Background(), "Unknown Brand")
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestListProblemCategoriesNestsProblems(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	category := models.ProblemCategory{Name: "Masalah Kertas", Icon: "📄", IsActive: true}
	require.NoError(t, db.CreateProblemCategory(ctx, &category))

	problem := models.Problem{
		CategoryID:    category.ID,
		Name:          "Paper jam",
		Severity:      "low",
		EstimatedCost: "Rp 30.000 - 120.000",
		IsActive:      true,
	}
	require.NoError(t, db.CreateProblem(ctx, &problem))

	categories, err := db.ListProblemCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	require.Len(t, categories[0].Problems, 1)
	assert.Equal(t, "Paper jam", categories[0].Problems[0].Name)

	// Soft-deleted problems vanish from the listing.
	require.NoError(t, db.DeactivateProblem(ctx, problem.ID))
	categories, err = db.ListProblemCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Empty(t, categories[0].Problems)
}

func TestSeedCatalogIdempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seed := models.CatalogSeed{
		Brands: []models.PrinterBrand{
			{Name: "Canon", Models: []models.PrinterModel{{Name: "PIXMA G2010", Type: "inkjet"}}},
		},
		Categories: []models.ProblemCategory{
			{Name: "Masalah Pencetakan", Icon: "🖨️"},
		},
		Technicians: []models.Technician{
			{Name: "Budi Santoso", IsAvailable: true},
		},
	}

	require.NoError(t, db.SeedCatalog(ctx, seed))
	require.NoError(t, db.SeedCatalog(ctx, seed))

	brands, err := db.ListBrands(ctx)
	require.NoError(t, err)
	require.Len(t, brands, 1)
	assert.Len(t, brands[0].Models, 1)

	technicians, err := db.ListTechnicians(ctx)
	require.NoError(t, err)
	assert.Len(t, technicians, 1)
}
