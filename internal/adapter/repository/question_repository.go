package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/archmich514/kiog/internal/domain/entities"
	"github.com/archmich514/kiog/internal/infrastructure/database"
)

// QuestionRepository reads the immutable master question catalog
type QuestionRepository struct {
	coll *mongo.Collection
}

// NewQuestionRepository creates a new question catalog repository
func NewQuestionRepository(db *database.MongoDB) *QuestionRepository {
	return &QuestionRepository{coll: db.Collection(database.CollectionQuestions)}
}

// ListBySlot retrieves a slot's question pool in catalog (id) order.
// Rotation ties break on this order, so it must be deterministic.
func (r *QuestionRepository) ListBySlot(ctx context.Context, slot entities.TimeSlot) ([]*entities.Question, error) {
	cursor, err := r.coll.Find(ctx,
		bson.M{"timeSlot": slot},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []*entities.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// SeedCatalog loads the master catalog, replacing any prior entries.
// Used by the seed tool only.
func (r *QuestionRepository) SeedCatalog(ctx context.Context, questions []*entities.Question) error {
	if len(questions) == 0 {
		return errors.New("catalog cannot be empty")
	}
	models := make([]mongo.WriteModel, 0, len(questions))
	for _, q := range questions {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": q.ID}).
			SetReplacement(q).
			SetUpsert(true))
	}
	_, err := r.coll.BulkWrite(ctx, models)
	return err
}

// CurrentQuestionsRepository stores each unit's active question set
type CurrentQuestionsRepository struct {
	coll *mongo.Collection
}

// NewCurrentQuestionsRepository creates a new current questions repository
func NewCurrentQuestionsRepository(db *database.MongoDB) *CurrentQuestionsRepository {
	return &CurrentQuestionsRepository{coll: db.Collection(database.CollectionCurrentQuestions)}
}

// Upsert replaces the unit's active question set. One document per unit;
// each slot trigger overwrites the previous slot's set.
func (r *CurrentQuestionsRepository) Upsert(ctx context.Context, cq *entities.CurrentQuestions) error {
	if cq == nil {
		return errors.New("current questions cannot be nil")
	}
	_, err := r.coll.ReplaceOne(ctx,
		bson.M{"_id": cq.UnitID},
		cq,
		options.Replace().SetUpsert(true),
	)
	return err
}

// FindByUnit retrieves the unit's active question set
func (r *CurrentQuestionsRepository) FindByUnit(ctx context.Context, unitID string) (*entities.CurrentQuestions, error) {
	var cq entities.CurrentQuestions
	if err := r.coll.FindOne(ctx, bson.M{"_id": unitID}).Decode(&cq); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &cq, nil
}
