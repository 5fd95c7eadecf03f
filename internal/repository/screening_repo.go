package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"credit-engine/internal/model"
)

type ScreeningRepo interface {
	Create(ctx context.Context, s *model.Screening) error
	GetByID(ctx context.Context, id string) (*model.Screening, error)
	ListByEmployer(ctx context.Context, employerID string) ([]*model.Screening, error)
	SetClassification(ctx context.Context, id string, c *model.Classification) error
	SetStatus(ctx context.Context, id string, status model.ScreeningStatus) error
}

type screeningRepo struct {
	collection *mongo.Collection
}

func NewScreeningRepo(db *mongo.Database) ScreeningRepo {
	return &screeningRepo{collection: db.Collection("screenings")}
}

func (r *screeningRepo) Create(ctx context.Context, s *model.Screening) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	if s.Status == "" {
		s.Status = model.ScreeningOpen
	}
	_, err := r.collection.InsertOne(ctx, s)
	return err
}

func (r *screeningRepo) GetByID(ctx context.Context, id string) (*model.Screening, error) {
	var s model.Screening
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *screeningRepo) ListByEmployer(ctx context.Context, employerID string) ([]*model.Screening, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"employerId": employerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*model.Screening
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *screeningRepo) SetClassification(ctx context.Context, id string, c *model.Classification) error {
	now := time.Now()
	update := bson.M{"$set": bson.M{
		"classification": c,
		"classifiedAt":   now,
		"status":         model.ScreeningClassified,
	}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (r *screeningRepo) SetStatus(ctx context.Context, id string, status model.ScreeningStatus) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	return err
}
