package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"credit-engine/internal/model"
)

// ReferenceRepo loads and seeds the immutable reference tables the engine is
// constructed with: target group definitions and state program formulas.
type ReferenceRepo interface {
	LoadTargetGroups(ctx context.Context) (map[string]model.TargetGroupDefinition, error)
	LoadProgramFormulas(ctx context.Context) (map[string]model.ProgramFormula, error)
	SaveTargetGroup(ctx context.Context, def *model.TargetGroupDefinition) error
	SaveProgramFormula(ctx context.Context, f *model.ProgramFormula) error
}

type referenceRepo struct {
	groups   *mongo.Collection
	programs *mongo.Collection
}

func NewReferenceRepo(db *mongo.Database) ReferenceRepo {
	return &referenceRepo{
		groups:   db.Collection("target_groups"),
		programs: db.Collection("program_formulas"),
	}
}

func (r *referenceRepo) LoadTargetGroups(ctx context.Context) (map[string]model.TargetGroupDefinition, error) {
	cursor, err := r.groups.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var defs []model.TargetGroupDefinition
	if err = cursor.All(ctx, &defs); err != nil {
		return nil, err
	}

	table := make(map[string]model.TargetGroupDefinition, len(defs))
	for _, def := range defs {
		table[def.Code] = def
	}
	return table, nil
}

func (r *referenceRepo) LoadProgramFormulas(ctx context.Context) (map[string]model.ProgramFormula, error) {
	cursor, err := r.programs.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var formulas []model.ProgramFormula
	if err = cursor.All(ctx, &formulas); err != nil {
		return nil, err
	}

	table := make(map[string]model.ProgramFormula, len(formulas))
	for _, f := range formulas {
		table[f.ProgramCode] = f
	}
	return table, nil
}

func (r *referenceRepo) SaveTargetGroup(ctx context.Context, def *model.TargetGroupDefinition) error {
	filter := bson.M{"_id": def.Code}
	_, err := r.groups.ReplaceOne(ctx, filter, def, options.Replace().SetUpsert(true))
	return err
}

func (r *referenceRepo) SaveProgramFormula(ctx context.Context, f *model.ProgramFormula) error {
	filter := bson.M{"_id": f.ProgramCode}
	_, err := r.programs.ReplaceOne(ctx, filter, f, options.Replace().SetUpsert(true))
	return err
}
