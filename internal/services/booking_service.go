package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/utsavhq/utsav-api/internal/models"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrNotOwner        = errors.New("you do not have permission to modify this booking")
	ErrFetchBookings   = errors.New("failed to fetch bookings")
	ErrCreateBooking   = errors.New("failed to create booking")
)

// TerminalStateError rejects a cancel attempted from a terminal status.
type TerminalStateError struct {
	Status models.BookingStatus
}

func (e *TerminalStateError) Error() string {
	return fmt.Sprintf("booking cannot be cancelled: booking is already %s", strings.ToLower(string(e.Status)))
}

// ImageIngestor uploads base64 reference images best-effort and returns the
// public URLs of the ones that succeeded.
type ImageIngestor interface {
	Ingest(ctx context.Context, images []string) []string
}

// enrichConcurrency bounds the per-page fan-out; steps within one booking
// stay sequential.
const enrichConcurrency = 8

const (
	defaultLimit = 10
	maxLimit     = 100
)

type BookingService struct {
	bookings  models.BookingRepo
	catalog   models.CatalogRepo
	locations models.LocationRepo
	users     models.UserRepo
	lookups   models.LookupRepo
	resolver  *TargetResolver
	ingestor  ImageIngestor
	logger    *slog.Logger
}

func NewBookingService(
	bookings models.BookingRepo,
	catalog models.CatalogRepo,
	categories models.CategoryRepo,
	locations models.LocationRepo,
	users models.UserRepo,
	lookups models.LookupRepo,
	ingestor ImageIngestor,
	logger *slog.Logger,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		catalog:   catalog,
		locations: locations,
		users:     users,
		lookups:   lookups,
		resolver:  NewTargetResolver(catalog, categories, logger),
		ingestor:  ingestor,
		logger:    logger,
	}
}

// CreateBooking persists a new booking in PENDING state and returns its
// composed view. Image ingestion is best-effort; a total upload failure still
// creates the booking with an empty referenceImages array.
func (bs *BookingService) CreateBooking(ctx context.Context, userID string, req *models.CreateBookingRequest) (*models.BookingView, error) {
	if err := models.Validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid booking data provided: %v", err)
	}

	imageURLs := []string{}
	if bs.ingestor != nil && len(req.ReferenceImages) > 0 {
		imageURLs = bs.ingestor.Ingest(ctx, req.ReferenceImages)
	}

	booking := &models.Booking{
		BookingID:             models.NewBookingID(),
		BookingType:           req.BookingType,
		VenueID:               req.VenueID,
		UserID:                userID,
		Title:                 req.Title,
		CategoryType:          req.CategoryType,
		EventDate:             req.EventDate,
		EndDate:               req.EndDate,
		StartTime:             req.StartTime,
		EndTime:               req.EndTime,
		TimeSlot:              req.TimeSlot,
		EventHall:             req.EventHall,
		VenueAddress:          req.VenueAddress,
		SpecialRequirement:    req.SpecialRequirement,
		ExpectedGuests:        req.ExpectedGuests,
		MealType:              req.MealType,
		Cuisine:               req.Cuisine,
		ServingStyle:          req.ServingStyle,
		PhotographerType:      req.PhotographerType,
		NumberOfPhotographers: req.NumberOfPhotographers,
		CoverageDuration:      req.CoverageDuration,
		BudgetRange:           req.BudgetRange,
		EventTypeID:           req.EventTypeID,
		PhotographyTypeID:     req.PhotographyTypeID,
		ReferenceImages:       imageURLs,
		BookingStatus:         models.BookingPending,
	}

	created, err := bs.bookings.CreateBooking(ctx, booking)
	if err != nil {
		bs.logger.Error("booking insert failed",
			"operation", "CreateBooking",
			"user_id", userID,
			"venue_id", req.VenueID,
			"error", err,
		)
		return nil, ErrCreateBooking
	}

	return bs.compose(ctx, created), nil
}

// ListForAdmin returns a page of all bookings. Free-text search first resolves
// matching venue and vendor ids, then narrows bookings to that id set.
func (bs *BookingService) ListForAdmin(ctx context.Context, filters models.BookingFilters, page, limit int) (*models.BookingPage, error) {
	return bs.list(ctx, "", filters, page, limit, true)
}

// ListForUser is the same shape as ListForAdmin but always constrained to the
// requesting user. Search narrows by venue ids only.
func (bs *BookingService) ListForUser(ctx context.Context, userID string, filters models.BookingFilters, page, limit int) (*models.BookingPage, error) {
	return bs.list(ctx, userID, filters, page, limit, false)
}

func (bs *BookingService) list(ctx context.Context, userID string, filters models.BookingFilters, page, limit int, includeVendors bool) (*models.BookingPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	q := models.BookingQuery{
		UserID:      userID,
		Status:      filters.Status,
		BookingType: filters.BookingType,
		DateFrom:    filters.DateFrom,
		DateTo:      filters.DateTo,
		Page:        page,
		Limit:       limit,
	}

	if filters.Search != "" {
		q.VenueIDs = bs.searchTargetIDs(ctx, filters.Search, includeVendors)
	}

	bookings, total, err := bs.bookings.ListBookings(ctx, q)
	if err != nil {
		bs.logger.Error("booking listing failed",
			"operation", "ListBookings",
			"user_id", userID,
			"error", err,
		)
		return nil, ErrFetchBookings
	}

	return &models.BookingPage{
		Bookings: bs.composePage(ctx, bookings),
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

// searchTargetIDs resolves a free-text query to the id set bookings are
// narrowed by. Always non-nil; a failed sub-search contributes nothing.
func (bs *BookingService) searchTargetIDs(ctx context.Context, query string, includeVendors bool) []string {
	ids := []string{}

	venueIDs, err := bs.catalog.SearchVenueIDs(ctx, query)
	if err != nil {
		bs.logger.Warn("venue search failed", "operation", "searchTargetIDs", "query", query, "error", err)
	} else {
		ids = append(ids, venueIDs...)
	}

	if includeVendors {
		vendorIDs, err := bs.catalog.SearchVendorIDs(ctx, query)
		if err != nil {
			bs.logger.Warn("vendor search failed", "operation", "searchTargetIDs", "query", query, "error", err)
		} else {
			ids = append(ids, vendorIDs...)
		}
	}

	return ids
}

// GetByBookingID returns the composed detail view, additionally resolving the
// event-type and photography-type names when those ids are set.
func (bs *BookingService) GetByBookingID(ctx context.Context, bookingID string) (*models.BookingView, error) {
	booking, err := bs.fetchBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	view := bs.compose(ctx, booking)

	if booking.EventTypeID != "" {
		eventType, err := bs.lookups.FindEventTypeByID(ctx, booking.EventTypeID)
		if err != nil {
			bs.logger.Warn("event type lookup failed",
				"operation", "GetByBookingID",
				"booking_id", bookingID,
				"event_type_id", booking.EventTypeID,
				"error", err,
			)
		} else if eventType != nil {
			view.EventTypeName = eventType.Name
		}
	}
	if booking.PhotographyTypeID != "" {
		photographyType, err := bs.lookups.FindPhotographyTypeByID(ctx, booking.PhotographyTypeID)
		if err != nil {
			bs.logger.Warn("photography type lookup failed",
				"operation", "GetByBookingID",
				"booking_id", bookingID,
				"photography_type_id", booking.PhotographyTypeID,
				"error", err,
			)
		} else if photographyType != nil {
			view.PhotographyTypeName = photographyType.Name
		}
	}

	return view, nil
}

// UpdateBooking merges the supplied fields into the booking after the
// ownership check. The bookingId reference is immutable and never written.
func (bs *BookingService) UpdateBooking(ctx context.Context, bookingID, userID string, req *models.UpdateBookingRequest) (*models.BookingView, error) {
	if err := models.Validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid update data provided: %v", err)
	}

	booking, err := bs.fetchBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrNotOwner
	}

	fields := req.Fields()
	if bs.ingestor != nil && len(req.ReferenceImages) > 0 {
		fields["referenceImages"] = bs.ingestor.Ingest(ctx, req.ReferenceImages)
	}

	if len(fields) > 0 {
		if err := bs.bookings.UpdateFields(ctx, bookingID, fields); err != nil {
			bs.logger.Error("booking update failed",
				"operation", "UpdateBooking",
				"booking_id", bookingID,
				"user_id", userID,
				"error", err,
			)
			return nil, fmt.Errorf("failed to update booking")
		}
	}

	updated, err := bs.fetchBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return bs.compose(ctx, updated), nil
}

// CancelBooking moves a booking into CANCELLED after the ownership and
// terminal-state checks, stamping the cancellation audit fields. There is no
// un-cancel path.
func (bs *BookingService) CancelBooking(ctx context.Context, bookingID, userID string, req *models.CancelBookingRequest) (*models.BookingView, error) {
	if err := models.Validate.Struct(req); err != nil {
		return nil, fmt.Errorf("cancellation reason is required")
	}

	booking, err := bs.fetchBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrNotOwner
	}
	if booking.BookingStatus.IsTerminal() {
		return nil, &TerminalStateError{Status: booking.BookingStatus}
	}

	now := time.Now()
	fields := map[string]interface{}{
		"bookingStatus":      models.BookingCancelled,
		"cancellationReason": req.CancellationReason,
		"cancellationDate":   now,
	}
	if req.Notes != "" {
		fields["cancellationNotes"] = req.Notes
	}

	if err := bs.bookings.UpdateFields(ctx, bookingID, fields); err != nil {
		bs.logger.Error("booking cancel failed",
			"operation", "CancelBooking",
			"booking_id", bookingID,
			"user_id", userID,
			"error", err,
		)
		return nil, fmt.Errorf("failed to cancel booking")
	}

	cancelled, err := bs.fetchBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return bs.compose(ctx, cancelled), nil
}

func (bs *BookingService) fetchBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := bs.bookings.GetByBookingID(ctx, bookingID)
	if err != nil {
		bs.logger.Error("booking fetch failed",
			"operation", "GetByBookingID",
			"booking_id", bookingID,
			"error", err,
		)
		return nil, ErrFetchBookings
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

// composePage enriches a page of bookings with bounded fan-out. Result order
// matches the input order.
func (bs *BookingService) composePage(ctx context.Context, bookings []*models.Booking) []*models.BookingView {
	views := make([]*models.BookingView, len(bookings))
	sem := make(chan struct{}, enrichConcurrency)
	var wg sync.WaitGroup
	for i, booking := range bookings {
		wg.Add(1)
		go func(i int, booking *models.Booking) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			views[i] = bs.compose(ctx, booking)
		}(i, booking)
	}
	wg.Wait()
	return views
}

// compose runs the uniform per-booking enrichment: target resolution,
// location overlay, price derivation and requester identity. Collaborator
// failures degrade to defaults.
func (bs *BookingService) compose(ctx context.Context, booking *models.Booking) *models.BookingView {
	target := bs.resolver.ResolveTarget(ctx, booking)

	view := &models.BookingView{
		Booking:            *booking,
		ServiceTitle:       target.Title,
		ServiceDescription: target.Description,
		CategoryName:       target.CategoryName,
		Price:              DerivePrice(target),
		AverageRating:      target.AverageRating,
		TotalRatings:       target.TotalRatings,
		ImageURL:           target.ImageURL,
		Location:           bs.locationInfo(ctx, booking.VenueID, target),
	}

	view.CustomerName = "Unknown Customer"
	view.CustomerEmail = "unknown@example.com"
	user, err := bs.users.GetUserByID(ctx, booking.UserID)
	if err != nil {
		bs.logger.Warn("user lookup failed",
			"operation", "compose",
			"booking_id", booking.BookingID,
			"user_id", booking.UserID,
			"error", err,
		)
	} else if user != nil {
		if name := user.DisplayName(); name != "" {
			view.CustomerName = name
		}
		if user.Email != "" {
			view.CustomerEmail = user.Email
		}
	}

	return view
}

// locationInfo overlays the location store onto the target's embedded form
// data. The overlay wins when present; missing fields get literal defaults.
func (bs *BookingService) locationInfo(ctx context.Context, serviceID string, target ServiceTarget) models.LocationInfo {
	info := models.LocationInfo{
		PinTitle: target.Title,
	}

	if addr, ok := target.FormData["address"].(string); ok {
		info.Address = addr
	}
	if city, ok := target.FormData["city"].(string); ok {
		info.City = city
	}
	if lat, ok := toFloat(target.FormData["latitude"]); ok {
		info.Latitude = lat
	}
	if lng, ok := toFloat(target.FormData["longitude"]); ok {
		info.Longitude = lng
	}
	if mapURL, ok := target.FormData["mapImageUrl"].(string); ok {
		info.MapImageURL = mapURL
	}

	location, err := bs.locations.FindByServiceID(ctx, serviceID)
	if err != nil {
		bs.logger.Warn("location lookup failed",
			"operation", "locationInfo",
			"service_id", serviceID,
			"error", err,
		)
		return info
	}
	if location == nil {
		return info
	}

	if location.Address != "" {
		info.Address = location.Address
	}
	if location.City != "" {
		info.City = location.City
	}
	info.Latitude = location.Latitude
	info.Longitude = location.Longitude
	return info
}
