package cache

import (
	"context"
	"errors"
	"time"

	perr "mgnrega/internal/platform/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultCollection holds cache documents
const DefaultCollection = "cache_blobs"

// blobDoc is the stored document, payload is the raw JSON text
type blobDoc struct {
	ID        string    `bson:"_id"`
	Payload   string    `bson:"payload"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// collection is the part of *mongo.Collection the persister uses
type collection interface {
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
	ReplaceOne(ctx context.Context, filter any, replacement any, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
}

// MongoPersister keeps the blob in one document keyed by namespace
type MongoPersister struct {
	coll      collection
	namespace string
	now       func() time.Time
}

// NewMongoPersister binds to coll; an empty namespace uses DefaultNamespace
func NewMongoPersister(coll *mongo.Collection, namespace string) *MongoPersister {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &MongoPersister{coll: coll, namespace: namespace, now: time.Now}
}

// Load returns the stored payload; no document is ErrNoBlob
func (m *MongoPersister) Load(ctx context.Context) ([]byte, error) {
	var doc blobDoc
	err := m.coll.FindOne(ctx, bson.M{"_id": m.namespace}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoBlob
	}
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "load cache document")
	}
	return []byte(doc.Payload), nil
}

// Save replaces the namespace document, inserting it the first time
func (m *MongoPersister) Save(ctx context.Context, blob []byte) error {
	doc := blobDoc{ID: m.namespace, Payload: string(blob), UpdatedAt: m.now().UTC()}
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": m.namespace}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "save cache document")
	}
	return nil
}
