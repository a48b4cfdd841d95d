package models

import "time"

// Booking is a service request row as stored. Catalog references are nullable:
// a stale client may submit a brand/model/category name that no longer resolves,
// in which case the reference is stored as NULL rather than rejecting the booking.
type Booking struct {
	ID                 string    `json:"id"`
	CustomerID         int64     `json:"customer_id"`
	PrinterBrandID     *int64    `json:"printer_brand_id"`
	PrinterModelID     *int64    `json:"printer_model_id"`
	ProblemCategoryID  *int64    `json:"problem_category_id"`
	ProblemDescription string    `json:"problem_description"`
	ServiceType        string    `json:"service_type"`
	AppointmentDate    string    `json:"appointment_date"`
	AppointmentTime    string    `json:"appointment_time"`
	Status             string    `json:"status"` // pending, confirmed, in-progress, servicing, completed, cancelled
	TechnicianID       *int64    `json:"technician_id"`
	EstimatedCost      string    `json:"estimated_cost"`
	ActualCost         string    `json:"actual_cost"`
	Notes              string    `json:"notes"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TimelineEntry is one fixed lifecycle stage of a booking.
type TimelineEntry struct {
	ID          int64      `json:"id"`
	BookingID   string     `json:"booking_id"`
	Status      string     `json:"status"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// BookingForm carries the customer's submission from the booking page.
type BookingForm struct {
	CustomerName       string `json:"customer_name"`
	Phone              string `json:"phone"`
	Email              string `json:"email"`
	Address            string `json:"address"`
	PrinterBrand       string `json:"printer_brand"`
	PrinterModel       string `json:"printer_model"`
	ProblemCategory    string `json:"problem_category"`
	ProblemDescription string `json:"problem_description"`
	ServiceType        string `json:"service_type"`
	AppointmentDate    string `json:"appointment_date"`
	AppointmentTime    string `json:"appointment_time"`
	Notes              string `json:"notes"`
}

// BookingDetail is the denormalized view assembled for the status page and the
// admin dashboard: booking joined with customer, catalog names, technician name
// and the full timeline.
type BookingDetail struct {
	ID                 string          `json:"id"`
	Customer           Customer        `json:"customer"`
	PrinterBrand       string          `json:"printer_brand"`
	PrinterModel       string          `json:"printer_model"`
	ProblemCategory    string          `json:"problem_category"`
	ProblemDescription string          `json:"problem_description"`
	ServiceType        string          `json:"service_type"`
	AppointmentDate    string          `json:"appointment_date"`
	AppointmentTime    string          `json:"appointment_time"`
	Status             string          `json:"status"`
	Technician         string          `json:"technician"`
	EstimatedCost      string          `json:"estimated_cost"`
	ActualCost         string          `json:"actual_cost"`
	Notes              string          `json:"notes"`
	Timeline           []TimelineEntry `json:"timeline"`
	CreatedAt          time.Time       `json:"created_at"`
}

// DashboardStats summarizes bookings for the admin dashboard. Revenue is a
// best-effort sum over actual_cost strings with non-digits stripped.
type DashboardStats struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
	Revenue       int64            `json:"revenue"`
}
