package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"credit-engine/internal/model"
)

type QuestionnaireRepo interface {
	Create(ctx context.Context, q *model.Questionnaire) error
	GetByID(ctx context.Context, id string) (*model.Questionnaire, error)
	GetPublished(ctx context.Context, name string) (*model.Questionnaire, error)
	List(ctx context.Context) ([]*model.Questionnaire, error)
	Update(ctx context.Context, q *model.Questionnaire) error
	SetStatus(ctx context.Context, id string, status model.QuestionnaireStatus) error
}

type questionnaireRepo struct {
	collection *mongo.Collection
}

func NewQuestionnaireRepo(db *mongo.Database) QuestionnaireRepo {
	return &questionnaireRepo{collection: db.Collection("questionnaires")}
}

func (r *questionnaireRepo) Create(ctx context.Context, q *model.Questionnaire) error {
	now := time.Now()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = now
	}
	q.UpdatedAt = now
	if q.Status == "" {
		q.Status = model.QuestionnaireDraft
	}

	_, err := r.collection.InsertOne(ctx, q)
	return err
}

func (r *questionnaireRepo) GetByID(ctx context.Context, id string) (*model.Questionnaire, error) {
	var q model.Questionnaire
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&q); err != nil {
		return nil, err
	}
	return &q, nil
}

// GetPublished returns the highest published version for a questionnaire name
func (r *questionnaireRepo) GetPublished(ctx context.Context, name string) (*model.Questionnaire, error) {
	opts := options.FindOne().SetSort(bson.M{"version": -1})
	var q model.Questionnaire
	err := r.collection.FindOne(ctx, bson.M{"name": name, "status": model.QuestionnairePublished}, opts).Decode(&q)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *questionnaireRepo) List(ctx context.Context) ([]*model.Questionnaire, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*model.Questionnaire
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *questionnaireRepo) Update(ctx context.Context, q *model.Questionnaire) error {
	q.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": q.ID}, bson.M{"$set": q})
	return err
}

func (r *questionnaireRepo) SetStatus(ctx context.Context, id string, status model.QuestionnaireStatus) error {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}
