package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PriceEntry is one row of a provider-defined pricing list.
type PriceEntry struct {
	Name  string  `bson:"name,omitempty" json:"name,omitempty"`
	Price float64 `bson:"price" json:"price"`
}

// ServiceRecord is the shared shape of venue and vendor catalog documents.
// The booking subsystem only reads these; they are owned by the catalog
// subsystems. price is authoritative when present but often absent or zero,
// and formData is a freeform bag the providers fill in themselves.
type ServiceRecord struct {
	ID            primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Title         string                 `bson:"title,omitempty" json:"title,omitempty"`
	Name          string                 `bson:"name,omitempty" json:"name,omitempty"`
	Description   string                 `bson:"description,omitempty" json:"description,omitempty"`
	CategoryID    string                 `bson:"categoryId,omitempty" json:"category_id,omitempty"`
	Price         *float64               `bson:"price,omitempty" json:"price,omitempty"`
	FormData      map[string]interface{} `bson:"formData,omitempty" json:"form_data,omitempty"`
	Pricing       []PriceEntry           `bson:"pricing,omitempty" json:"pricing,omitempty"`
	AverageRating float64                `bson:"averageRating,omitempty" json:"average_rating,omitempty"`
	TotalRatings  int                    `bson:"totalRatings,omitempty" json:"total_ratings,omitempty"`
	ImageURL      string                 `bson:"imageUrl,omitempty" json:"image_url,omitempty"`
	IsDeleted     bool                   `bson:"isDeleted" json:"-"`
}

// DisplayName prefers title over name, either may be set depending on which
// subsystem created the record.
func (s *ServiceRecord) DisplayName() string {
	if s.Title != "" {
		return s.Title
	}
	return s.Name
}

type CatalogRepo interface {
	FindVenueByID(ctx context.Context, id string) (*ServiceRecord, error)
	FindVendorByID(ctx context.Context, id string) (*ServiceRecord, error)
	SearchVenueIDs(ctx context.Context, query string) ([]string, error)
	SearchVendorIDs(ctx context.Context, query string) ([]string, error)
	SearchServices(ctx context.Context, query string, limit int64) ([]*ServiceRecord, error)
}

// idFilter matches a weak string reference against _id, whether the stored id
// is an ObjectID or a plain string. Comparisons are never representation
// sensitive.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{oid, id}}}
	}
	return bson.M{"_id": id}
}

func (mdb *MongodbRepo) findServiceByID(ctx context.Context, colName, id string) (*ServiceRecord, error) {
	col, err := mdb.GetCollection(ctx, DBName, colName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	filter := idFilter(id)
	filter["isDeleted"] = bson.M{"$ne": true}

	var record ServiceRecord
	err = col.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error finding record %s in %s: %v", id, colName, err)
	}

	return &record, nil
}

func (mdb *MongodbRepo) FindVenueByID(ctx context.Context, id string) (*ServiceRecord, error) {
	return mdb.findServiceByID(ctx, VenuesColName, id)
}

func (mdb *MongodbRepo) FindVendorByID(ctx context.Context, id string) (*ServiceRecord, error) {
	return mdb.findServiceByID(ctx, VendorsColName, id)
}

// searchFilter builds a case-insensitive regex match over the free-text
// fields providers fill in, including the address/city embedded in formData.
func searchFilter(query string) bson.M {
	regex := bson.M{"$regex": query, "$options": "i"}
	return bson.M{
		"isDeleted": bson.M{"$ne": true},
		"$or": bson.A{
			bson.M{"title": regex},
			bson.M{"name": regex},
			bson.M{"description": regex},
			bson.M{"formData.address": regex},
			bson.M{"formData.city": regex},
		},
	}
}

func (mdb *MongodbRepo) searchServiceIDs(ctx context.Context, colName, query string) ([]string, error) {
	col, err := mdb.GetCollection(ctx, DBName, colName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := col.Find(ctx, searchFilter(query), opts)
	if err != nil {
		return nil, fmt.Errorf("error searching %s: %v", colName, err)
	}
	defer cursor.Close(ctx)

	ids := []string{}
	for cursor.Next(ctx) {
		var doc struct {
			ID interface{} `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		switch v := doc.ID.(type) {
		case primitive.ObjectID:
			ids = append(ids, v.Hex())
		case string:
			ids = append(ids, v)
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s search results: %v", colName, err)
	}

	return ids, nil
}

func (mdb *MongodbRepo) SearchVenueIDs(ctx context.Context, query string) ([]string, error) {
	return mdb.searchServiceIDs(ctx, VenuesColName, query)
}

func (mdb *MongodbRepo) SearchVendorIDs(ctx context.Context, query string) ([]string, error) {
	return mdb.searchServiceIDs(ctx, VendorsColName, query)
}

// SearchServices returns full catalog records matching the query across both
// the venues and vendors collections, for the catalog search endpoint.
func (mdb *MongodbRepo) SearchServices(ctx context.Context, query string, limit int64) ([]*ServiceRecord, error) {
	results := []*ServiceRecord{}
	for _, colName := range []string{VenuesColName, VendorsColName} {
		col, err := mdb.GetCollection(ctx, DBName, colName)
		if err != nil {
			return nil, fmt.Errorf("error getting collection: %v", err)
		}

		cursor, err := col.Find(ctx, searchFilter(query), options.Find().SetLimit(limit))
		if err != nil {
			return nil, fmt.Errorf("error searching %s: %v", colName, err)
		}

		var records []*ServiceRecord
		if err := cursor.All(ctx, &records); err != nil {
			return nil, fmt.Errorf("error decoding %s search results: %v", colName, err)
		}
		results = append(results, records...)
	}

	return results, nil
}
