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

// AnswerRepository handles answer data operations
type AnswerRepository struct {
	coll *mongo.Collection
}

// NewAnswerRepository creates a new answer repository
func NewAnswerRepository(db *database.MongoDB) *AnswerRepository {
	return &AnswerRepository{coll: db.Collection(database.CollectionAnswers)}
}

// Create inserts a new answer
func (r *AnswerRepository) Create(ctx context.Context, answer *entities.Answer) error {
	if answer == nil {
		return errors.New("answer cannot be nil")
	}
	_, err := r.coll.InsertOne(ctx, answer)
	return err
}

// FindByID retrieves an answer by id
func (r *AnswerRepository) FindByID(ctx context.Context, id string) (*entities.Answer, error) {
	var answer entities.Answer
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&answer); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &answer, nil
}

// FindByUnitAndDate retrieves a unit's answers for one day in creation order
func (r *AnswerRepository) FindByUnitAndDate(ctx context.Context, unitID, date string) ([]*entities.Answer, error) {
	cursor, err := r.coll.Find(ctx,
		bson.M{"unitId": unitID, "date": date},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var answers []*entities.Answer
	if err := cursor.All(ctx, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// AddPrediction appends the prediction and unions the predictor into
// viewedBy in a single update. $addToSet keeps viewedBy duplicate-free
// when a submission is replayed; the prediction list itself is append-only.
func (r *AnswerRepository) AddPrediction(ctx context.Context, answerID string, p entities.Prediction) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": answerID},
		bson.M{
			"$push":     bson.M{"predictions": p},
			"$addToSet": bson.M{"viewedBy": p.UserID},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// MarkViewed unions the viewer into viewedBy
func (r *AnswerRepository) MarkViewed(ctx context.Context, answerID, userID string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": answerID},
		bson.M{"$addToSet": bson.M{"viewedBy": userID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
