package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"credit-engine/internal/model"
)

type ResponseRepo interface {
	GetByScreeningID(ctx context.Context, screeningID string) (*model.ResponseData, error)
	Upsert(ctx context.Context, resp *model.ResponseData) error
}

type responseRepo struct {
	collection *mongo.Collection
}

func NewResponseRepo(db *mongo.Database) ResponseRepo {
	return &responseRepo{collection: db.Collection("responses")}
}

func (r *responseRepo) GetByScreeningID(ctx context.Context, screeningID string) (*model.ResponseData, error) {
	var resp model.ResponseData
	err := r.collection.FindOne(ctx, bson.M{"screeningId": screeningID}).Decode(&resp)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Upsert writes the full response document keyed by screening ID. One
// response exists per (screening, questionnaire) pair, created on first
// answer and overwritten on every subsequent write.
func (r *responseRepo) Upsert(ctx context.Context, resp *model.ResponseData) error {
	resp.UpdatedAt = time.Now()
	if resp.CreatedAt.IsZero() {
		resp.CreatedAt = resp.UpdatedAt
	}

	filter := bson.M{"screeningId": resp.ScreeningID}
	update := bson.M{"$set": bson.M{
		"screeningId":      resp.ScreeningID,
		"questionnaireId":  resp.QuestionnaireID,
		"answers":          resp.Answers,
		"sectionStates":    resp.SectionStates,
		"currentSectionId": resp.CurrentSectionID,
		"isCompleted":      resp.IsCompleted,
		"updatedAt":        resp.UpdatedAt,
	}, "$setOnInsert": bson.M{
		"createdAt": resp.CreatedAt,
	}}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}
