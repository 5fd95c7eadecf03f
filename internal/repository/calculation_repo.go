package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"credit-engine/internal/model"
)

type CalculationRepo interface {
	// Upsert is idempotent per (screeningId, targetGroup, year)
	Upsert(ctx context.Context, calc *model.CreditCalculation) error
	Get(ctx context.Context, screeningID, targetGroup string, year int) (*model.CreditCalculation, error)
	GetByScreening(ctx context.Context, screeningID string) ([]*model.CreditCalculation, error)
	SetStatus(ctx context.Context, screeningID, targetGroup string, year int, status model.CalculationStatus) error

	UpsertProgram(ctx context.Context, calc *model.ProgramCreditCalculation) error
	GetProgramsByScreening(ctx context.Context, screeningID string) ([]*model.ProgramCreditCalculation, error)
}

type calculationRepo struct {
	credits  *mongo.Collection
	programs *mongo.Collection
}

func NewCalculationRepo(db *mongo.Database) CalculationRepo {
	return &calculationRepo{
		credits:  db.Collection("credit_calculations"),
		programs: db.Collection("program_calculations"),
	}
}

func calcKey(screeningID, targetGroup string, year int) bson.M {
	return bson.M{"screeningId": screeningID, "targetGroup": targetGroup, "year": year}
}

func (r *calculationRepo) Upsert(ctx context.Context, calc *model.CreditCalculation) error {
	if calc.ID == "" {
		calc.ID = uuid.New().String()
	}
	calc.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"screeningId":           calc.ScreeningID,
		"targetGroup":           calc.TargetGroup,
		"year":                  calc.Year,
		"maxCreditAmount":       calc.MaxCreditAmount,
		"projectedCreditAmount": calc.ProjectedCreditAmount,
		"actualCreditAmount":    calc.ActualCreditAmount,
		"hoursWorked":           calc.HoursWorked,
		"wagesEarned":           calc.WagesEarned,
		"minimumHoursRequired":  calc.MinimumHoursRequired,
		"status":                calc.Status,
		"updatedAt":             calc.UpdatedAt,
	}, "$setOnInsert": bson.M{
		"_id":          calc.ID,
		"calculatedAt": calc.CalculatedAt,
	}}
	_, err := r.credits.UpdateOne(ctx, calcKey(calc.ScreeningID, calc.TargetGroup, calc.Year), update, options.Update().SetUpsert(true))
	return err
}

func (r *calculationRepo) Get(ctx context.Context, screeningID, targetGroup string, year int) (*model.CreditCalculation, error) {
	var calc model.CreditCalculation
	err := r.credits.FindOne(ctx, calcKey(screeningID, targetGroup, year)).Decode(&calc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &calc, nil
}

func (r *calculationRepo) GetByScreening(ctx context.Context, screeningID string) ([]*model.CreditCalculation, error) {
	cursor, err := r.credits.Find(ctx, bson.M{"screeningId": screeningID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*model.CreditCalculation
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *calculationRepo) SetStatus(ctx context.Context, screeningID, targetGroup string, year int, status model.CalculationStatus) error {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	_, err := r.credits.UpdateOne(ctx, calcKey(screeningID, targetGroup, year), update)
	return err
}

func (r *calculationRepo) UpsertProgram(ctx context.Context, calc *model.ProgramCreditCalculation) error {
	if calc.ID == "" {
		calc.ID = uuid.New().String()
	}

	filter := bson.M{"screeningId": calc.ScreeningID, "programCode": calc.ProgramCode}
	update := bson.M{"$set": bson.M{
		"screeningId":       calc.ScreeningID,
		"programCode":       calc.ProgramCode,
		"calculationMethod": calc.CalculationMethod,
		"rateApplied":       calc.RateApplied,
		"baseAmount":        calc.BaseAmount,
		"cappedAmount":      calc.CappedAmount,
		"finalCreditAmount": calc.FinalCreditAmount,
		"status":            calc.Status,
		"calculatedAt":      calc.CalculatedAt,
	}, "$setOnInsert": bson.M{
		"_id": calc.ID,
	}}
	_, err := r.programs.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *calculationRepo) GetProgramsByScreening(ctx context.Context, screeningID string) ([]*model.ProgramCreditCalculation, error) {
	cursor, err := r.programs.Find(ctx, bson.M{"screeningId": screeningID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*model.ProgramCreditCalculation
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
