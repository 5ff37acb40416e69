package models

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string

const (
	BookingPending    BookingStatus = "PENDING"
	BookingConfirmed  BookingStatus = "CONFIRMED"
	BookingInProgress BookingStatus = "IN_PROGRESS"
	BookingCompleted  BookingStatus = "COMPLETED"
	BookingCancelled  BookingStatus = "CANCELLED"
	BookingRejected   BookingStatus = "REJECTED"
)

// IsTerminal reports whether no further cancellation is allowed from s.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingCancelled, BookingCompleted, BookingRejected:
		return true
	}
	return false
}

const (
	BookingTypeVenue  = "venue"
	BookingTypeVendor = "vendor"
)

// Booking is the central document of the booking subsystem. venueId is a weak
// reference into either the venues or the vendors collection, disambiguated by
// bookingType. All reads filter isDeleted=false.
type Booking struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookingID   string             `bson:"bookingId" json:"booking_id"`
	BookingType string             `bson:"bookingType" json:"booking_type" validate:"required,oneof=venue vendor"`
	VenueID     string             `bson:"venueId" json:"venue_id" validate:"required"`
	UserID      string             `bson:"userId" json:"user_id"`

	// Denormalized target hints used when the referenced record is gone.
	Title        string `bson:"title,omitempty" json:"title,omitempty"`
	CategoryType string `bson:"categoryType,omitempty" json:"category_type,omitempty"`

	EventDate time.Time  `bson:"eventDate" json:"event_date"`
	EndDate   *time.Time `bson:"endDate,omitempty" json:"end_date,omitempty"`
	StartTime string     `bson:"startTime,omitempty" json:"start_time,omitempty"`
	EndTime   string     `bson:"endTime,omitempty" json:"end_time,omitempty"`
	TimeSlot  string     `bson:"timeSlot,omitempty" json:"time_slot,omitempty" validate:"omitempty,oneof=Morning Afternoon Evening Night"`

	EventHall          string `bson:"eventHall,omitempty" json:"event_hall,omitempty"`
	VenueAddress       string `bson:"venueAddress,omitempty" json:"venue_address,omitempty"`
	SpecialRequirement string `bson:"specialRequirement,omitempty" json:"special_requirement,omitempty"`
	ExpectedGuests     int    `bson:"expectedGuests,omitempty" json:"expected_guests,omitempty"`

	// Catering sub-fields
	MealType     string `bson:"mealType,omitempty" json:"meal_type,omitempty"`
	Cuisine      string `bson:"cuisine,omitempty" json:"cuisine,omitempty"`
	ServingStyle string `bson:"servingStyle,omitempty" json:"serving_style,omitempty"`

	// Photography sub-fields
	PhotographerType      string `bson:"photographerType,omitempty" json:"photographer_type,omitempty"`
	NumberOfPhotographers int    `bson:"numberOfPhotographers,omitempty" json:"number_of_photographers,omitempty"`
	CoverageDuration      string `bson:"coverageDuration,omitempty" json:"coverage_duration,omitempty"`
	BudgetRange           string `bson:"budgetRange,omitempty" json:"budget_range,omitempty"`

	EventTypeID       string `bson:"eventTypeId,omitempty" json:"event_type_id,omitempty"`
	PhotographyTypeID string `bson:"photographyTypeId,omitempty" json:"photography_type_id,omitempty"`

	// Populated only after successful upload; empty on total failure, never nil.
	ReferenceImages []string `bson:"referenceImages" json:"reference_images"`

	BookingStatus      BookingStatus `bson:"bookingStatus" json:"booking_status"`
	CancellationReason string        `bson:"cancellationReason,omitempty" json:"cancellation_reason,omitempty"`
	CancellationDate   *time.Time    `bson:"cancellationDate,omitempty" json:"cancellation_date,omitempty"`
	CancellationNotes  string        `bson:"cancellationNotes,omitempty" json:"cancellation_notes,omitempty"`

	IsDeleted bool      `bson:"isDeleted" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`
}

// NewBookingID generates a human-readable booking reference of the form
// BK-<8 uppercase hex>, derived from a fresh UUID.
func NewBookingID() string {
	id := uuid.New()
	return "BK-" + strings.ToUpper(hex.EncodeToString(id[:4]))
}

// CreateBookingRequest is the payload accepted by POST /booking/request-booking.
type CreateBookingRequest struct {
	BookingType        string     `json:"booking_type" validate:"required,oneof=venue vendor"`
	VenueID            string     `json:"venue_id" validate:"required"`
	Title              string     `json:"title,omitempty"`
	CategoryType       string     `json:"category_type,omitempty"`
	EventDate          time.Time  `json:"event_date" validate:"required"`
	EndDate            *time.Time `json:"end_date,omitempty"`
	StartTime          string     `json:"start_time,omitempty"`
	EndTime            string     `json:"end_time,omitempty"`
	TimeSlot           string     `json:"time_slot,omitempty" validate:"omitempty,oneof=Morning Afternoon Evening Night"`
	EventHall          string     `json:"event_hall,omitempty"`
	VenueAddress       string     `json:"venue_address,omitempty"`
	SpecialRequirement string     `json:"special_requirement,omitempty"`
	ExpectedGuests     int        `json:"expected_guests,omitempty"`

	MealType     string `json:"meal_type,omitempty"`
	Cuisine      string `json:"cuisine,omitempty"`
	ServingStyle string `json:"serving_style,omitempty"`

	PhotographerType      string `json:"photographer_type,omitempty"`
	NumberOfPhotographers int    `json:"number_of_photographers,omitempty"`
	CoverageDuration      string `json:"coverage_duration,omitempty"`
	BudgetRange           string `json:"budget_range,omitempty"`

	EventTypeID       string `json:"event_type_id,omitempty"`
	PhotographyTypeID string `json:"photography_type_id,omitempty"`

	// Base64 data URIs; uploaded best-effort, failures never block the write.
	ReferenceImages []string `json:"reference_images,omitempty"`
}

// UpdateBookingRequest carries the updatable booking fields. A supplied
// booking_id is ignored; the reference is immutable after creation.
type UpdateBookingRequest struct {
	BookingID *string `json:"booking_id,omitempty"`

	Title              *string    `json:"title,omitempty"`
	EventDate          *time.Time `json:"event_date,omitempty"`
	EndDate            *time.Time `json:"end_date,omitempty"`
	StartTime          *string    `json:"start_time,omitempty"`
	EndTime            *string    `json:"end_time,omitempty"`
	TimeSlot           *string    `json:"time_slot,omitempty" validate:"omitempty,oneof=Morning Afternoon Evening Night"`
	EventHall          *string    `json:"event_hall,omitempty"`
	VenueAddress       *string    `json:"venue_address,omitempty"`
	SpecialRequirement *string    `json:"special_requirement,omitempty"`
	ExpectedGuests     *int       `json:"expected_guests,omitempty"`

	MealType     *string `json:"meal_type,omitempty"`
	Cuisine      *string `json:"cuisine,omitempty"`
	ServingStyle *string `json:"serving_style,omitempty"`

	PhotographerType      *string `json:"photographer_type,omitempty"`
	NumberOfPhotographers *int    `json:"number_of_photographers,omitempty"`
	CoverageDuration      *string `json:"coverage_duration,omitempty"`
	BudgetRange           *string `json:"budget_range,omitempty"`

	EventTypeID       *string `json:"event_type_id,omitempty"`
	PhotographyTypeID *string `json:"photography_type_id,omitempty"`

	// Base64 data URIs, re-ingested on update when supplied.
	ReferenceImages []string `json:"reference_images,omitempty"`
}

// Fields returns the set document for the supplied values, keyed by the
// stored field names. booking_id never appears in the output.
func (r *UpdateBookingRequest) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	setString := func(key string, v *string) {
		if v != nil {
			fields[key] = *v
		}
	}
	setInt := func(key string, v *int) {
		if v != nil {
			fields[key] = *v
		}
	}

	if r.EventDate != nil {
		fields["eventDate"] = *r.EventDate
	}
	if r.EndDate != nil {
		fields["endDate"] = *r.EndDate
	}
	setString("title", r.Title)
	setString("startTime", r.StartTime)
	setString("endTime", r.EndTime)
	setString("timeSlot", r.TimeSlot)
	setString("eventHall", r.EventHall)
	setString("venueAddress", r.VenueAddress)
	setString("specialRequirement", r.SpecialRequirement)
	setInt("expectedGuests", r.ExpectedGuests)
	setString("mealType", r.MealType)
	setString("cuisine", r.Cuisine)
	setString("servingStyle", r.ServingStyle)
	setString("photographerType", r.PhotographerType)
	setInt("numberOfPhotographers", r.NumberOfPhotographers)
	setString("coverageDuration", r.CoverageDuration)
	setString("budgetRange", r.BudgetRange)
	setString("eventTypeId", r.EventTypeID)
	setString("photographyTypeId", r.PhotographyTypeID)

	return fields
}

type CancelBookingRequest struct {
	CancellationReason string `json:"cancellation_reason" validate:"required"`
	Notes              string `json:"notes,omitempty"`
}

// BookingFilters are the optional listing constraints parsed from the query.
type BookingFilters struct {
	Status      string
	BookingType string
	DateFrom    *time.Time
	DateTo      *time.Time
	Search      string
}

// BookingQuery is what the repository actually executes. VenueIDs narrows
// venueId to the given set when non-nil; an empty non-nil set matches nothing.
type BookingQuery struct {
	UserID      string
	Status      string
	BookingType string
	DateFrom    *time.Time
	DateTo      *time.Time
	VenueIDs    []string
	Page        int
	Limit       int
}
