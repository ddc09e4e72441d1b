package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/travelstay/marketplace-api/internal/core/domain"
	"github.com/travelstay/marketplace-api/internal/core/ports"
)

const listingsCollection = "listings"

// ListingRepository persists listings in the listings collection.
type ListingRepository struct {
	coll *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{coll: db.Collection(listingsCollection)}
}

type mongoListing struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	OwnerEmail    string             `bson:"owner_email"`
	City          string             `bson:"city,omitempty"`
	Title         string             `bson:"title,omitempty"`
	PricePerNight float64            `bson:"price_per_night,omitempty"`
	Status        string             `bson:"status,omitempty"`
	Fields        map[string]string  `bson:"fields,omitempty"`
	CreatedAt     time.Time          `bson:"created_at,omitempty"`
	UpdatedAt     time.Time          `bson:"updated_at,omitempty"`
}

func (ml mongoListing) toDomain() *domain.Listing {
	return &domain.Listing{
		ID:            ml.ID.Hex(),
		OwnerEmail:    ml.OwnerEmail,
		City:          ml.City,
		Title:         ml.Title,
		PricePerNight: ml.PricePerNight,
		Status:        domain.ListingStatus(ml.Status),
		Fields:        ml.Fields,
		CreatedAt:     ml.CreatedAt,
		UpdatedAt:     ml.UpdatedAt,
	}
}

// listingID parses the hex id. An unparseable id cannot reference any
// document, so it reads as not found rather than a client syntax error.
func listingID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrListingNotFound
	}
	return oid, nil
}

func (r *ListingRepository) Insert(ctx context.Context, l *domain.Listing) (*domain.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoListing{
		OwnerEmail:    l.OwnerEmail,
		City:          l.City,
		Title:         l.Title,
		PricePerNight: l.PricePerNight,
		Status:        string(l.Status),
		Fields:        l.Fields,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert listing: %w", err)
	}

	created := *l
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	oid, err := listingID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ml mongoListing
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&ml); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("find listing: %w", err)
	}
	return ml.toDomain(), nil
}

func (r *ListingRepository) FindByOwner(ctx context.Context, ownerEmail string) ([]*domain.Listing, error) {
	return r.findMany(ctx, bson.M{"owner_email": ownerEmail})
}

func (r *ListingRepository) FindAll(ctx context.Context) ([]*domain.Listing, error) {
	return r.findMany(ctx, bson.M{})
}

func (r *ListingRepository) findMany(ctx context.Context, filter bson.M) ([]*domain.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	defer cur.Close(ctx)

	var listings []*domain.Listing
	for cur.Next(ctx) {
		var ml mongoListing
		if err := cur.Decode(&ml); err != nil {
			return nil, fmt.Errorf("decode listing: %w", err)
		}
		listings = append(listings, ml.toDomain())
	}
	return listings, cur.Err()
}

// UpdateFields applies a strict partial update. When ownerEmail is non-empty
// the filter also requires the owner to match, so an edit against someone
// else's listing matches nothing and reads as not found.
func (r *ListingRepository) UpdateFields(ctx context.Context, id, ownerEmail string, patch ports.ListingPatch) error {
	oid, err := listingID(id)
	if err != nil {
		return err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.City != nil {
		set["city"] = *patch.City
	}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.PricePerNight != nil {
		set["price_per_night"] = *patch.PricePerNight
	}
	for k, v := range patch.Fields {
		set["fields."+k] = v
	}

	filter := bson.M{"_id": oid}
	if ownerEmail != "" {
		filter["owner_email"] = ownerEmail
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

// SetStatus writes a moderation label with upsert semantics: moderating a
// missing id creates a bare document holding just the status. The result
// reports matched vs upserted so the caller can tell the two apart.
func (r *ListingRepository) SetStatus(ctx context.Context, id string, status domain.ListingStatus) (*ports.StatusUpdate, error) {
	oid, err := listingID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": string(status), "updated_at": time.Now().UTC()}}
	opts := options.Update().SetUpsert(true)

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update, opts)
	if err != nil {
		return nil, fmt.Errorf("set listing status: %w", err)
	}

	out := &ports.StatusUpdate{Matched: res.MatchedCount > 0}
	if upserted, ok := res.UpsertedID.(primitive.ObjectID); ok {
		out.UpsertedID = upserted.Hex()
	}
	return out, nil
}

// Delete removes a listing, scoped to the owner when ownerEmail is non-empty.
func (r *ListingRepository) Delete(ctx context.Context, id, ownerEmail string) error {
	oid, err := listingID(id)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": oid}
	if ownerEmail != "" {
		filter["owner_email"] = ownerEmail
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

// TopCities groups listings by city, counting total and approved documents,
// ranked by total descending and truncated to limit.
func (r *ListingRepository) TopCities(ctx context.Context, limit int) ([]domain.CitySummary, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$city"},
			{Key: "total_listings", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "approved_listings", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$cond", Value: bson.A{
					bson.D{{Key: "$eq", Value: bson.A{"$status", string(domain.StatusApproved)}}},
					1,
					0,
				}},
			}}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total_listings", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate top cities: %w", err)
	}
	defer cur.Close(ctx)

	var summaries []domain.CitySummary
	if err := cur.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("decode top cities: %w", err)
	}
	return summaries, nil
}

// EnsureIndexes creates the lookup indexes listings queries rely on.
func (r *ListingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_email", Value: 1}}},
		{Keys: bson.D{{Key: "city", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
