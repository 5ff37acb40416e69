package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BookingRepo interface {
	CreateBooking(ctx context.Context, booking *Booking) (*Booking, error)
	GetByBookingID(ctx context.Context, bookingID string) (*Booking, error)
	ListBookings(ctx context.Context, q BookingQuery) ([]*Booking, int64, error)
	UpdateFields(ctx context.Context, bookingID string, fields map[string]interface{}) error
	EnsureBookingIndexes(ctx context.Context) error
}

// EnsureBookingIndexes creates the indexes the listing paths rely on.
func (mdb *MongodbRepo) EnsureBookingIndexes(ctx context.Context) error {
	col, err := mdb.GetCollection(ctx, DBName, BookingsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "bookingId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("booking_id_unique"),
		},
		// User-scoped listing, newest first
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().SetName("user_created_at_idx"),
		},
		// Search narrows bookings by resolved venue/vendor id sets
		{
			Keys:    bson.D{{Key: "venueId", Value: 1}},
			Options: options.Index().SetName("venue_id_idx"),
		},
	}

	_, err = col.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("error creating indexes: %v", err)
	}

	return nil
}

func (mdb *MongodbRepo) CreateBooking(ctx context.Context, booking *Booking) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, DBName, BookingsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	now := time.Now()
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	booking.CreatedAt = now
	booking.UpdatedAt = now
	if booking.ReferenceImages == nil {
		booking.ReferenceImages = []string{}
	}

	_, err = col.InsertOne(ctx, booking)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("booking id %s already exists", booking.BookingID)
		}
		return nil, fmt.Errorf("error inserting booking: %v", err)
	}

	return booking, nil
}

func (mdb *MongodbRepo) GetByBookingID(ctx context.Context, bookingID string) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, DBName, BookingsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var booking Booking
	err = col.FindOne(ctx, bson.M{"bookingId": bookingID, "isDeleted": false}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error finding booking %s: %v", bookingID, err)
	}

	return &booking, nil
}

func (mdb *MongodbRepo) ListBookings(ctx context.Context, q BookingQuery) ([]*Booking, int64, error) {
	col, err := mdb.GetCollection(ctx, DBName, BookingsColName)
	if err != nil {
		return nil, 0, fmt.Errorf("error getting collection: %v", err)
	}

	filter := bson.M{"isDeleted": false}
	if q.UserID != "" {
		filter["userId"] = q.UserID
	}
	if q.Status != "" {
		filter["bookingStatus"] = q.Status
	}
	if q.BookingType != "" {
		filter["bookingType"] = q.BookingType
	}
	if q.DateFrom != nil || q.DateTo != nil {
		dateFilter := bson.M{}
		if q.DateFrom != nil {
			dateFilter["$gte"] = *q.DateFrom
		}
		if q.DateTo != nil {
			dateFilter["$lte"] = *q.DateTo
		}
		filter["eventDate"] = dateFilter
	}
	if q.VenueIDs != nil {
		filter["venueId"] = bson.M{"$in": q.VenueIDs}
	}

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting bookings: %v", err)
	}

	skip := int64((q.Page - 1) * q.Limit)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(q.Limit))

	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error finding bookings: %v", err)
	}
	defer cursor.Close(ctx)

	var bookings []*Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, fmt.Errorf("error decoding bookings: %v", err)
	}

	return bookings, total, nil
}

// UpdateFields merges the given fields into a booking. bookingId and _id are
// never settable.
func (mdb *MongodbRepo) UpdateFields(ctx context.Context, bookingID string, fields map[string]interface{}) error {
	col, err := mdb.GetCollection(ctx, DBName, BookingsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	set := bson.M{"updatedAt": time.Now()}
	for key, value := range fields {
		if key == "bookingId" || key == "_id" {
			continue
		}
		set[key] = value
	}

	res, err := col.UpdateOne(ctx,
		bson.M{"bookingId": bookingID, "isDeleted": false},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("error updating booking %s: %v", bookingID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking %s not found", bookingID)
	}

	return nil
}
