package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Category struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string             `bson:"name" json:"name"`
}

type EventType struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string             `bson:"name" json:"name"`
}

type PhotographyType struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string             `bson:"name" json:"name"`
}

type CategoryRepo interface {
	FindCategoryByID(ctx context.Context, id string) (*Category, error)
}

type LookupRepo interface {
	FindEventTypeByID(ctx context.Context, id string) (*EventType, error)
	FindPhotographyTypeByID(ctx context.Context, id string) (*PhotographyType, error)
}

func (mdb *MongodbRepo) findLookupName(ctx context.Context, colName, id string) (string, error) {
	col, err := mdb.GetCollection(ctx, DBName, colName)
	if err != nil {
		return "", fmt.Errorf("error getting collection: %v", err)
	}

	var doc struct {
		Name string `bson:"name"`
	}
	err = col.FindOne(ctx, idFilter(id)).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", nil
		}
		return "", fmt.Errorf("error finding %s %s: %v", colName, id, err)
	}

	return doc.Name, nil
}

func (mdb *MongodbRepo) FindCategoryByID(ctx context.Context, id string) (*Category, error) {
	name, err := mdb.findLookupName(ctx, CategoriesColName, id)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, nil
	}
	return &Category{Name: name}, nil
}

func (mdb *MongodbRepo) FindEventTypeByID(ctx context.Context, id string) (*EventType, error) {
	name, err := mdb.findLookupName(ctx, EventTypesColName, id)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, nil
	}
	return &EventType{Name: name}, nil
}

func (mdb *MongodbRepo) FindPhotographyTypeByID(ctx context.Context, id string) (*PhotographyType, error) {
	name, err := mdb.findLookupName(ctx, PhotographyTypesColName, id)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, nil
	}
	return &PhotographyType{Name: name}, nil
}
