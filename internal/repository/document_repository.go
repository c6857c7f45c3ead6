package repository

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/noah-isme/studio-console-api/internal/models"
)

// DocumentRepository reads and patches documents in the hosted document store.
type DocumentRepository struct {
	client *firestore.Client
	logger *zap.Logger
}

// NewDocumentRepository constructs a document repository.
func NewDocumentRepository(client *firestore.Client, logger *zap.Logger) *DocumentRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentRepository{client: client, logger: logger}
}

// List returns every document of a collection with references flattened to their IDs.
func (r *DocumentRepository) List(ctx context.Context, collection string) ([]models.Document, error) {
	iter := r.client.Collection(collection).Documents(ctx)
	defer iter.Stop()

	docs := make([]models.Document, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", collection, err)
		}
		docs = append(docs, toDocument(snap))
	}
	return docs, nil
}

// ListUnprocessed returns up to limit notification documents whose processed flag is not true,
// oldest first. Documents missing the flag are included, so the filter runs client side.
func (r *DocumentRepository) ListUnprocessed(ctx context.Context, collection string, limit int) ([]models.Document, error) {
	iter := r.client.Collection(collection).OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	docs := make([]models.Document, 0)
	for limit <= 0 || len(docs) < limit {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list unprocessed %s: %w", collection, err)
		}
		doc := toDocument(snap)
		if processed, ok := doc.Bool("processed"); ok && processed {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Update merges fields into an existing document.
func (r *DocumentRepository) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	if _, err := r.client.Collection(collection).Doc(id).Set(ctx, fields, firestore.MergeAll); err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	r.logger.Debug("document updated", zap.String("collection", collection), zap.String("id", id))
	return nil
}

// UpdateMany applies the same patch to several documents in one batch.
func (r *DocumentRepository) UpdateMany(ctx context.Context, collection string, ids []string, fields map[string]interface{}) error {
	if len(ids) == 0 {
		return nil
	}
	bulk := r.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(ids))
	for _, id := range ids {
		job, err := bulk.Set(r.client.Collection(collection).Doc(id), fields, firestore.MergeAll)
		if err != nil {
			bulk.End()
			return fmt.Errorf("queue update %s/%s: %w", collection, id, err)
		}
		jobs = append(jobs, job)
	}
	bulk.End()
	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			return fmt.Errorf("update %s/%s: %w", collection, ids[i], err)
		}
	}
	return nil
}

// Ping reads at most one document to prove the store is reachable.
func (r *DocumentRepository) Ping(ctx context.Context, collection string) error {
	iter := r.client.Collection(collection).Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("ping %s: %w", collection, err)
	}
	return nil
}

func toDocument(snap *firestore.DocumentSnapshot) models.Document {
	data := snap.Data()
	for key, value := range data {
		data[key] = sanitize(value)
	}
	return models.NewDocument(snap.Ref.ID, data)
}

func sanitize(value interface{}) interface{} {
	switch v := value.(type) {
	case *firestore.DocumentRef:
		if v == nil {
			return nil
		}
		return v.ID
	case map[string]interface{}:
		for key, inner := range v {
			v[key] = sanitize(inner)
		}
		return v
	case []interface{}:
		for i, inner := range v {
			v[i] = sanitize(inner)
		}
		return v
	}
	return value
}
