package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/archmich514/kiog/internal/domain/entities"
	"github.com/archmich514/kiog/internal/infrastructure/database"
)

// UnitRepository handles unit data operations
type UnitRepository struct {
	coll *mongo.Collection
}

// NewUnitRepository creates a new unit repository
func NewUnitRepository(db *database.MongoDB) *UnitRepository {
	return &UnitRepository{coll: db.Collection(database.CollectionUnits)}
}

// Create inserts a new unit
func (r *UnitRepository) Create(ctx context.Context, unit *entities.Unit) error {
	if unit == nil {
		return errors.New("unit cannot be nil")
	}
	_, err := r.coll.InsertOne(ctx, unit)
	return err
}

// FindByID retrieves a unit by its join code
func (r *UnitRepository) FindByID(ctx context.Context, id string) (*entities.Unit, error) {
	var unit entities.Unit
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&unit); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &unit, nil
}

// ListAll retrieves every unit
func (r *UnitRepository) ListAll(ctx context.Context) ([]*entities.Unit, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var units []*entities.Unit
	if err := cursor.All(ctx, &units); err != nil {
		return nil, err
	}
	return units, nil
}

// AddMember unions a member into the unit. $addToSet keeps the member
// list duplicate-free if a join request is replayed.
func (r *UnitRepository) AddMember(ctx context.Context, unitID, userID string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": unitID},
		bson.M{"$addToSet": bson.M{"members": userID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
