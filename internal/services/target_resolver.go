package services

import (
	"context"
	"log/slog"

	"github.com/utsavhq/utsav-api/internal/models"
)

type TargetKind string

const (
	TargetVenue       TargetKind = "venue"
	TargetVendor      TargetKind = "vendor"
	TargetPlaceholder TargetKind = "placeholder"
)

// ServiceTarget is the resolved form of a booking's polymorphic venueId
// reference. It is resolved once per booking and passed by value into pricing
// and location enrichment, so downstream code never re-branches on the
// booking type.
type ServiceTarget struct {
	Kind          TargetKind
	ID            string
	Title         string
	Description   string
	CategoryID    string
	CategoryName  string
	Price         *float64
	FormData      map[string]interface{}
	Pricing       []models.PriceEntry
	AverageRating float64
	TotalRatings  int
	ImageURL      string
}

type TargetResolver struct {
	catalog    models.CatalogRepo
	categories models.CategoryRepo
	logger     *slog.Logger
}

func NewTargetResolver(catalog models.CatalogRepo, categories models.CategoryRepo, logger *slog.Logger) *TargetResolver {
	return &TargetResolver{
		catalog:    catalog,
		categories: categories,
		logger:     logger,
	}
}

// ResolveTarget maps a booking to its venue or vendor record. A vendor match
// also gets its category display name attached, tolerating a failed category
// lookup. When neither collection resolves the id, a placeholder target is
// synthesized from the booking's own denormalized fields so composition never
// sees a nil target. Lookup errors degrade, they do not propagate.
func (tr *TargetResolver) ResolveTarget(ctx context.Context, booking *models.Booking) ServiceTarget {
	var record *models.ServiceRecord
	var kind TargetKind

	switch booking.BookingType {
	case models.BookingTypeVenue:
		record = tr.lookup(ctx, TargetVenue, booking.VenueID)
		kind = TargetVenue
	case models.BookingTypeVendor:
		record = tr.lookup(ctx, TargetVendor, booking.VenueID)
		kind = TargetVendor
	}

	// Type-agnostic fallback: unknown bookingType or primary miss.
	if record == nil {
		if record = tr.lookup(ctx, TargetVenue, booking.VenueID); record != nil {
			kind = TargetVenue
		} else if record = tr.lookup(ctx, TargetVendor, booking.VenueID); record != nil {
			kind = TargetVendor
		}
	}

	if record == nil {
		return tr.placeholder(booking)
	}

	target := ServiceTarget{
		Kind:          kind,
		ID:            booking.VenueID,
		Title:         record.DisplayName(),
		Description:   record.Description,
		CategoryID:    record.CategoryID,
		Price:         record.Price,
		FormData:      record.FormData,
		Pricing:       record.Pricing,
		AverageRating: record.AverageRating,
		TotalRatings:  record.TotalRatings,
		ImageURL:      record.ImageURL,
	}

	if kind == TargetVendor && record.CategoryID != "" {
		category, err := tr.categories.FindCategoryByID(ctx, record.CategoryID)
		if err != nil {
			tr.logger.Warn("category lookup failed",
				"operation", "ResolveTarget",
				"category_id", record.CategoryID,
				"vendor_id", booking.VenueID,
				"error", err,
			)
		} else if category != nil {
			target.CategoryName = category.Name
		}
	}

	return target
}

func (tr *TargetResolver) lookup(ctx context.Context, kind TargetKind, id string) *models.ServiceRecord {
	var record *models.ServiceRecord
	var err error
	if kind == TargetVenue {
		record, err = tr.catalog.FindVenueByID(ctx, id)
	} else {
		record, err = tr.catalog.FindVendorByID(ctx, id)
	}
	if err != nil {
		tr.logger.Warn("service lookup failed",
			"operation", "ResolveTarget",
			"target_kind", string(kind),
			"target_id", id,
			"error", err,
		)
		return nil
	}
	return record
}

func (tr *TargetResolver) placeholder(booking *models.Booking) ServiceTarget {
	title := booking.Title
	if title == "" {
		title = "Unknown Vendor"
	}
	formData := map[string]interface{}{}
	if booking.VenueAddress != "" {
		formData["address"] = booking.VenueAddress
	}
	zero := 0.0
	return ServiceTarget{
		Kind:         TargetPlaceholder,
		ID:           booking.VenueID,
		Title:        title,
		CategoryName: booking.CategoryType,
		Price:        &zero,
		FormData:     formData,
		Pricing:      []models.PriceEntry{},
	}
}
