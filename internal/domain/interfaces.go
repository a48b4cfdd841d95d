package domain

import (
	"context"
	"time"

	"barokah/internal/models"
)

// Store is the data-access surface over the relational store. The store is
// the sole owner of all data; everything above it works on transient copies.
type Store interface {
	UpsertCustomerByPhone(ctx context.Context, customer *models.Customer) error
	GetCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error)
	CountCustomers(ctx context.Context) (int64, error)

	ListBrands(ctx context.Context) ([]models.PrinterBrand, error)
	CreateBrand(ctx context.Context, brand *models.PrinterBrand) error
	UpdateBrand(ctx context.Context, id int64, name string) error
	DeactivateBrand(ctx context.Context, id int64) error
	CreateModel(ctx context.Context, model *models.PrinterModel) error
	UpdateModel(ctx context.Context, id int64, name, modelType string) error
	DeactivateModel(ctx context.Context, id int64) error

	ListProblemCategories(ctx context.Context) ([]models.ProblemCategory, error)
	CreateProblemCategory(ctx context.Context, category *models.ProblemCategory) error
	UpdateProblemCategory(ctx context.Context, id int64, name, icon string) error
	DeactivateProblemCategory(ctx context.Context, id int64) error
	CreateProblem(ctx context.Context, problem *models.Problem) error
	UpdateProblem(ctx context.Context, problem *models.Problem) error
	DeactivateProblem(ctx context.Context, id int64) error

	BrandIDByName(ctx context.Context, name string) (*int64, error)
	ModelIDByName(ctx context.Context, name string) (*int64, error)
	ProblemCategoryIDByName(ctx context.Context, name string) (*int64, error)

	ListTechnicians(ctx context.Context) ([]models.Technician, error)
	FirstAvailableTechnician(ctx context.Context) (*int64, error)
	CreateTechnician(ctx context.Context, technician *models.Technician) error
	UpdateTechnician(ctx context.Context, technician *models.Technician) error
	DeactivateTechnician(ctx context.Context, id int64) error

	ListGalleryImages(ctx context.Context) ([]models.GalleryImage, error)
	CreateGalleryImage(ctx context.Context, image *models.GalleryImage) error
	UpdateGalleryImage(ctx context.Context, image *models.GalleryImage) error
	DeactivateGalleryImage(ctx context.Context, id int64) error

	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBookingDetail(ctx context.Context, code string) (*models.BookingDetail, error)
	ListBookingDetails(ctx context.Context) ([]models.BookingDetail, error)
	UpdateBookingStatus(ctx context.Context, code, status string) (bool, error)
	AssignTechnician(ctx context.Context, code string, technicianID int64) (bool, error)
	UpdateActualCost(ctx context.Context, code, actualCost string) (bool, error)
	BookingStatusCounts(ctx context.Context) (map[string]int64, error)
	CompletedActualCosts(ctx context.Context) ([]string, error)

	CreateSyncTask(ctx context.Context, task *models.SyncTask) error
	GetPendingSyncTasks(ctx context.Context, limit int) ([]models.SyncTask, error)
	MarkSyncTaskDone(ctx context.Context, id int64) error
	MarkSyncTaskRetry(ctx context.Context, id int64, retryCount int, lastError string, nextRetryAt time.Time) error
	MarkSyncTaskFailed(ctx context.Context, id int64, lastError string) error
}

// EventPublisher broadcasts table changes to the realtime bridge.
type EventPublisher interface {
	PublishChange(topic, action, rowID string)
}

// Cache holds short-lived serialized copies of hot read paths. Misses and
// backend failures both surface as (nil, false, err); callers fall through
// to the store.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// SyncWorker queues spreadsheet mirror tasks for the background worker.
type SyncWorker interface {
	EnqueueAppend(ctx context.Context, bookingID string) error
	EnqueueStatusUpdate(ctx context.Context, bookingID, status string) error
}

// SheetsWriter mirrors bookings into the shop's spreadsheet.
type SheetsWriter interface {
	AppendBooking(ctx context.Context, detail *models.BookingDetail) error
	UpdateBookingStatus(ctx context.Context, bookingID, status string) error
}

// BookingService is the booking lifecycle engine.
type BookingService interface {
	CreateBooking(ctx context.Context, form models.BookingForm) (string, error)
	GetBooking(ctx context.Context, code string) (*models.BookingDetail, error)
	ListBookings(ctx context.Context) []models.BookingDetail
	UpdateStatus(ctx context.Context, code, status string) (bool, error)
	AssignTechnician(ctx context.Context, code string, technicianID int64) (bool, error)
	SetActualCost(ctx context.Context, code, actualCost string) (bool, error)
	Stats(ctx context.Context) models.DashboardStats
}

// CatalogService serves printer and problem reference data.
type CatalogService interface {
	Brands(ctx context.Context) []models.PrinterBrand
	ProblemCategories(ctx context.Context) []models.ProblemCategory
	CreateBrand(ctx context.Context, name string) (*models.PrinterBrand, error)
	UpdateBrand(ctx context.Context, id int64, name string) error
	DeleteBrand(ctx context.Context, id int64) error
	CreateModel(ctx context.Context, brandID int64, name, modelType string) (*models.PrinterModel, error)
	UpdateModel(ctx context.Context, id int64, name, modelType string) error
	DeleteModel(ctx context.Context, id int64) error
	CreateProblemCategory(ctx context.Context, name, icon string) (*models.ProblemCategory, error)
	UpdateProblemCategory(ctx context.Context, id int64, name, icon string) error
	DeleteProblemCategory(ctx context.Context, id int64) error
	CreateProblem(ctx context.Context, problem *models.Problem) error
	UpdateProblem(ctx context.Context, problem *models.Problem) error
	DeleteProblem(ctx context.Context, id int64) error
}

// TechnicianService manages the technician roster.
type TechnicianService interface {
	Technicians(ctx context.Context) []models.Technician
	CreateTechnician(ctx context.Context, technician *models.Technician) error
	UpdateTechnician(ctx context.Context, technician *models.Technician) error
	DeleteTechnician(ctx context.Context, id int64) error
}

// GalleryService manages gallery images.
type GalleryService interface {
	Images(ctx context.Context) []models.GalleryImage
	CreateImage(ctx context.Context, image *models.GalleryImage) error
	UpdateImage(ctx context.Context, image *models.GalleryImage) error
	DeleteImage(ctx context.Context, id int64) error
}
