package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/praaneshanandan/Investment-Approval/internal/core/domain"
	"github.com/praaneshanandan/Investment-Approval/internal/core/ports"
)

const collectionInvestments = "investment_requests"

type InvestmentRepository struct {
	col *mongo.Collection
}

func NewInvestmentRepository(db *mongo.Database) *InvestmentRepository {
	return &InvestmentRepository{col: db.Collection(collectionInvestments)}
}

// Create inserts a new investment request document.
func (r *InvestmentRepository) Create(ctx context.Context, req *domain.InvestmentRequest) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, req)
	return err
}

func (r *InvestmentRepository) FindByID(ctx context.Context, id string) (*domain.InvestmentRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var req domain.InvestmentRequest
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&req); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("find request: %w", err)
	}
	return &req, nil
}

func (r *InvestmentRepository) FindByOwnerID(ctx context.Context, ownerID string) ([]*domain.InvestmentRequest, error) {
	return r.findMany(ctx, bson.M{"owner_id": ownerID})
}

func (r *InvestmentRepository) FindByOwnerIDs(ctx context.Context, ownerIDs []string) ([]*domain.InvestmentRequest, error) {
	return r.findMany(ctx, bson.M{"owner_id": bson.M{"$in": ownerIDs}})
}

func (r *InvestmentRepository) FindByStatus(ctx context.Context, status domain.Status) ([]*domain.InvestmentRequest, error) {
	return r.findMany(ctx, bson.M{"status": string(status)})
}

func (r *InvestmentRepository) FindAll(ctx context.Context) ([]*domain.InvestmentRequest, error) {
	return r.findMany(ctx, bson.M{})
}

func (r *InvestmentRepository) findMany(ctx context.Context, filter bson.M) ([]*domain.InvestmentRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find requests: %w", err)
	}
	defer cur.Close(ctx)

	var requests []*domain.InvestmentRequest
	for cur.Next(ctx) {
		var req domain.InvestmentRequest
		if err := cur.Decode(&req); err != nil {
			return nil, fmt.Errorf("decode request: %w", err)
		}
		requests = append(requests, &req)
	}
	return requests, cur.Err()
}

// UpdateStatus applies a status transition as a compare-and-set: the filter
// matches on both the id and the expected current status, so two concurrent
// transitions on the same request cannot both succeed. On a miss the record
// is re-read to distinguish a lost race from a missing document.
func (r *InvestmentRepository) UpdateStatus(ctx context.Context, id string, t ports.StatusTransition) (*domain.InvestmentRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "status": string(t.From)}
	update := bson.M{"$set": bson.M{
		"status":         string(t.To),
		"moderator_id":   t.ModeratorID,
		"moderator_name": t.ModeratorName,
		"moderated_at":   t.ModeratedAt.UTC(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated domain.InvestmentRequest
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == nil {
		return &updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update status: %w", err)
	}

	// No document matched id+status. If the request still exists its status
	// changed underneath us; the caller may re-read and retry.
	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, domain.ErrConflict
}

// EnsureIndexes creates the lookup indexes for the list views.
func (r *InvestmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
