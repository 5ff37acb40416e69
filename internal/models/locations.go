package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Location is an optional overlay keyed by the venue/vendor id. When present
// its coordinates take priority over whatever the service record embeds in
// formData.
type Location struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ServiceID string             `bson:"serviceId" json:"service_id"`
	Address   string             `bson:"address,omitempty" json:"address,omitempty"`
	City      string             `bson:"city,omitempty" json:"city,omitempty"`
	Latitude  float64            `bson:"latitude" json:"latitude"`
	Longitude float64            `bson:"longitude" json:"longitude"`
	IsActive  bool               `bson:"isActive" json:"is_active"`
}

type LocationRepo interface {
	FindByServiceID(ctx context.Context, serviceID string) (*Location, error)
}

// FindByServiceID returns nil (not an error) when no overlay exists; callers
// fall back to the service record's embedded coordinates.
func (mdb *MongodbRepo) FindByServiceID(ctx context.Context, serviceID string) (*Location, error) {
	col, err := mdb.GetCollection(ctx, DBName, LocationsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var location Location
	err = col.FindOne(ctx, bson.M{
		"serviceId": serviceID,
		"isActive":  bson.M{"$ne": false},
	}).Decode(&location)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error finding location for %s: %v", serviceID, err)
	}

	return &location, nil
}
