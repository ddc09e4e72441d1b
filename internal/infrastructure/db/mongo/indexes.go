package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureIndexes creates every index the repositories rely on. Called once at
// process start; the core never manages indexes at request time.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	if err := NewListingRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("listings indexes: %w", err)
	}
	if err := NewAuditRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("audit indexes: %w", err)
	}
	return nil
}
