package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"civicapp-be/models"
)

// MongoIssueStore keeps issues in a MongoDB collection with per-record
// keyed operations. The issue id is the document _id.
type MongoIssueStore struct {
	collection *mongo.Collection
}

func NewMongoIssueStore(db *mongo.Database) *MongoIssueStore {
	return &MongoIssueStore{collection: db.Collection("issues")}
}

func (s *MongoIssueStore) Append(ctx context.Context, issue *models.Issue) error {
	_, err := s.collection.InsertOne(ctx, issue)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateID
	}
	if err != nil {
		return fmt.Errorf("insert issue: %w", err)
	}
	return nil
}

func (s *MongoIssueStore) FindByID(ctx context.Context, id string) (*models.Issue, error) {
	var issue models.Issue
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&issue)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find issue: %w", err)
	}
	return &issue, nil
}

func (s *MongoIssueStore) List(ctx context.Context, filter Filter) ([]*models.Issue, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "submittedAt", Value: -1}})
	if filter.Limit > 0 {
		findOptions.SetLimit(int64(filter.Limit))
	}

	cursor, err := s.collection.Find(ctx, mongoFilter(filter), findOptions)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	defer cursor.Close(ctx)

	var issues []*models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, fmt.Errorf("decode issues: %w", err)
	}
	return issues, nil
}

func (s *MongoIssueStore) Count(ctx context.Context, filter Filter) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, mongoFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("count issues: %w", err)
	}
	return count, nil
}

func (s *MongoIssueStore) Update(ctx context.Context, issue *models.Issue) error {
	next := issue.Clone()
	next.Version = issue.Version + 1

	result, err := s.collection.ReplaceOne(ctx,
		bson.M{"_id": issue.ID, "version": issue.Version}, next)
	if err != nil {
		return fmt.Errorf("update issue: %w", err)
	}
	if result.MatchedCount == 0 {
		// Distinguish a stale version from a deleted issue.
		count, err := s.collection.CountDocuments(ctx, bson.M{"_id": issue.ID})
		if err != nil {
			return fmt.Errorf("update issue: %w", err)
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	issue.Version = next.Version
	return nil
}

func (s *MongoIssueStore) Remove(ctx context.Context, id string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("remove issue: %w", err)
	}
	return nil
}

func mongoFilter(filter Filter) bson.M {
	query := bson.M{}

	if filter.Status != "" && filter.Status != "all" {
		query["status"] = filter.Status
	}
	if filter.Category != "" && filter.Category != "all" {
		query["category"] = filter.Category
	}
	switch filter.Worker {
	case "", "all":
	case "unassigned":
		query["assignedWorker"] = nil
	default:
		query["assignedWorker.id"] = filter.Worker
	}

	submittedAt := bson.M{}
	if !filter.Since.IsZero() {
		submittedAt["$gte"] = filter.Since
	}
	if !filter.Until.IsZero() {
		submittedAt["$lt"] = filter.Until
	}
	if len(submittedAt) > 0 {
		query["submittedAt"] = submittedAt
	}

	if filter.HasCoordinates {
		query["location.coordinates"] = bson.M{"$exists": true, "$ne": nil}
	}
	return query
}

// MongoWorkerStore is the worker directory backed by MongoDB.
type MongoWorkerStore struct {
	collection *mongo.Collection
}

func NewMongoWorkerStore(db *mongo.Database) *MongoWorkerStore {
	return &MongoWorkerStore{collection: db.Collection("workers")}
}

func (s *MongoWorkerStore) List(ctx context.Context) ([]*models.Worker, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	defer cursor.Close(ctx)

	var workers []*models.Worker
	if err := cursor.All(ctx, &workers); err != nil {
		return nil, fmt.Errorf("decode workers: %w", err)
	}
	return workers, nil
}

func (s *MongoWorkerStore) FindByID(ctx context.Context, id string) (*models.Worker, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoWorkerStore) FindByPhone(ctx context.Context, phone string) (*models.Worker, error) {
	return s.findOne(ctx, bson.M{"phone": phone})
}

func (s *MongoWorkerStore) findOne(ctx context.Context, query bson.M) (*models.Worker, error) {
	var worker models.Worker
	err := s.collection.FindOne(ctx, query).Decode(&worker)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find worker: %w", err)
	}
	return &worker, nil
}
