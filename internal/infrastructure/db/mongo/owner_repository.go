package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/travelstay/marketplace-api/internal/core/domain"
)

const ownersCollection = "owners"

// OwnerRecordRepository persists owner profiles in the owners collection.
type OwnerRecordRepository struct {
	coll *mongo.Collection
}

func NewOwnerRecordRepository(db *mongo.Database) *OwnerRecordRepository {
	return &OwnerRecordRepository{coll: db.Collection(ownersCollection)}
}

func (r *OwnerRecordRepository) Insert(ctx context.Context, rec *domain.OwnerRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{"email": rec.Email}
	if len(rec.Profile) > 0 {
		doc["profile"] = rec.Profile
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert owner record: %w", err)
	}
	return nil
}

// DeleteByEmail removes the owner record for an email. Deleting nothing is
// not an error; admin promotion treats the record as best-effort state.
func (r *OwnerRecordRepository) DeleteByEmail(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"email": email}); err != nil {
		return fmt.Errorf("delete owner record: %w", err)
	}
	return nil
}
