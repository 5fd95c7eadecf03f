package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"credit-engine/internal/config"
	"credit-engine/internal/model"
	"credit-engine/internal/repository"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB)
	referenceRepo := repository.NewReferenceRepo(db)
	questionnaireRepo := repository.NewQuestionnaireRepo(db)

	// Reference tables
	for _, def := range model.DefaultTargetGroups() {
		def := def
		if err := referenceRepo.SaveTargetGroup(ctx, &def); err != nil {
			log.Fatalf("Failed to seed target group %s: %v", def.Code, err)
		}
	}

	formulas := []model.ProgramFormula{
		{
			ProgramCode: "CA-HIRE",
			Name:        "California New Employment Credit",
			Method:      model.MethodWagePercentage,
			Rate:        0.35,
			Cap:         10000,
		},
		{
			ProgramCode: "NY-FLAT",
			Name:        "New York Hire-a-Vet Credit",
			Method:      model.MethodFlatPerEmployee,
			FlatAmount:  2000,
		},
		{
			ProgramCode:   "TX-TIER",
			Name:          "Texas Workforce Tiered Credit",
			Method:        model.MethodTieredByHours,
			LowerTierRate: 0.2,
			UpperTierRate: 0.3,
			Cap:           8000,
			HoursRequired: 120,
		},
		{
			ProgramCode: "WA-TRAIN",
			Name:        "Washington Training Expenditure Credit",
			Method:      model.MethodPercentageOfExpenditure,
			Rate:        0.5,
			Cap:         5000,
		},
	}
	for i := range formulas {
		if err := referenceRepo.SaveProgramFormula(ctx, &formulas[i]); err != nil {
			log.Fatalf("Failed to seed program formula %s: %v", formulas[i].ProgramCode, err)
		}
	}

	// A published intake questionnaire to screen against
	q := model.Questionnaire{
		ID:      uuid.New().String(),
		Name:    "WOTC Intake",
		Version: 1,
		Status:  model.QuestionnairePublished,
		Sections: []model.QuestionnaireSection{
			{
				ID:           "veteran",
				Title:        "Veteran Status",
				TargetGroups: []string{"V", "V-DISAB"},
				Order:        1,
				GatingConfig: &model.GatingConfig{
					QuestionID:           "is_veteran",
					ApplicableAnswers:    []string{"yes"},
					NotApplicableAnswers: []string{"no"},
					SkipReasonKey:        "not_a_veteran",
				},
				Questions: []model.QuestionMetadata{
					{
						ID:       "is_veteran",
						Type:     model.QuestionTypeRadio,
						Label:    "Have you served in the U.S. Armed Forces?",
						Required: true,
						Options:  []string{"yes", "no"},
					},
					{
						ID:                 "vet_unemployed_6mo",
						Type:               model.QuestionTypeRadio,
						Label:              "Have you been unemployed for 6 months or more during the past year?",
						Required:           true,
						Options:            []string{"yes", "no"},
						TargetGroup:        "V",
						EligibilityTrigger: "yes",
						DisplayCondition: &model.DisplayCondition{
							SourceQuestionID: "is_veteran",
							Operator:         model.OpEquals,
							Value:            "yes",
						},
					},
					{
						ID:                 "vet_disability",
						Type:               model.QuestionTypeRadio,
						Label:              "Do you have a service-connected disability?",
						Required:           true,
						Options:            []string{"yes", "no"},
						TargetGroup:        "V-DISAB",
						EligibilityTrigger: "yes",
						DisplayCondition: &model.DisplayCondition{
							SourceQuestionID: "is_veteran",
							Operator:         model.OpEquals,
							Value:            "yes",
						},
					},
				},
			},
			{
				ID:           "benefits",
				Title:        "Public Assistance",
				TargetGroups: []string{"SNAP", "IV-A", "SSI"},
				Order:        2,
				Questions: []model.QuestionMetadata{
					{
						ID:                 "snap_received",
						Type:               model.QuestionTypeRadio,
						Label:              "Has your household received SNAP benefits in the last 6 months?",
						Required:           true,
						Options:            []string{"yes", "no"},
						TargetGroup:        "SNAP",
						EligibilityTrigger: "yes",
					},
					{
						ID:                 "tanf_received",
						Type:               model.QuestionTypeRadio,
						Label:              "Has your family received TANF assistance in the last 18 months?",
						Required:           true,
						Options:            []string{"yes", "no"},
						TargetGroup:        "IV-A",
						EligibilityTrigger: "yes",
					},
					{
						ID:                 "ssi_received",
						Type:               model.QuestionTypeRadio,
						Label:              "Have you received Supplemental Security Income in the last 60 days?",
						Required:           true,
						Options:            []string{"yes", "no"},
						TargetGroup:        "SSI",
						EligibilityTrigger: "yes",
					},
				},
			},
			{
				ID:           "justice",
				Title:        "Justice Involvement",
				TargetGroups: []string{"EX-FELON"},
				Order:        3,
				GatingConfig: &model.GatingConfig{
					QuestionID:           "has_conviction",
					ApplicableAnswers:    []string{"yes"},
					NotApplicableAnswers: []string{"no"},
					SkipReasonKey:        "no_conviction_history",
				},
				Questions: []model.QuestionMetadata{
					{
						ID:       "has_conviction",
						Type:     model.QuestionTypeRadio,
						Label:    "Have you been convicted of a felony?",
						Required: true,
						Options:  []string{"yes", "no"},
					},
					{
						ID:                 "conviction_recent",
						Type:               model.QuestionTypeRadio,
						Label:              "Was your conviction or release within the last year?",
						Required:           true,
						Options:            []string{"yes", "no"},
						TargetGroup:        "EX-FELON",
						EligibilityTrigger: "yes",
						DisplayCondition: &model.DisplayCondition{
							SourceQuestionID: "has_conviction",
							Operator:         model.OpEquals,
							Value:            "yes",
						},
					},
				},
			},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := questionnaireRepo.Create(ctx, &q); err != nil {
		log.Fatalf("Failed to insert questionnaire: %v", err)
	}

	fmt.Printf("Seeded %d target groups, %d program formulas and questionnaire '%s' (%s)\n",
		len(model.DefaultTargetGroups()), len(formulas), q.Name, q.ID)
}
