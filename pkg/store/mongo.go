package store

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/tree"
)

// Default MongoDB names.
const (
	DefaultMongoDatabase   = "arbor"
	DefaultMongoCollection = "documents"
)

// mongoRecord is the stored shape. The tree is kept as its JSON encoding so
// it round-trips exactly; BSON would drop the nil/empty children distinction.
type mongoRecord struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Tree      string    `bson:"tree,omitempty"`
	Nodes     int       `bson:"nodes"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore keeps documents in a MongoDB collection.
// Timestamps are truncated to milliseconds by BSON.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and uses database db ([DefaultMongoDatabase]
// when empty).
func NewMongoStore(ctx context.Context, uri, db string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongodb")
	}
	if db == "" {
		db = DefaultMongoDatabase
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(db).Collection(DefaultMongoCollection),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Document, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	var rec mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.DocumentNotFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "get document %s", id)
	}

	root, err := decodeTree([]byte(rec.Tree))
	if err != nil {
		return nil, err
	}
	return &Document{
		ID:        rec.ID,
		Name:      rec.Name,
		Tree:      root,
		CreatedAt: rec.CreatedAt.UTC(),
		UpdatedAt: rec.UpdatedAt.UTC(),
	}, nil
}

func (s *MongoStore) Put(ctx context.Context, doc *Document) error {
	if err := validateDocument(doc); err != nil {
		return err
	}
	treeJSON, err := encodeTree(doc.Tree)
	if err != nil {
		return err
	}
	rec := mongoRecord{
		ID:        doc.ID,
		Name:      doc.Name,
		Tree:      string(treeJSON),
		Nodes:     tree.Count(doc.Tree),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "put document %s", doc.ID)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete document %s", id)
	}
	if res.DeletedCount == 0 {
		return errors.DocumentNotFound(id)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{"tree": 0})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list documents")
	}
	var recs []mongoRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list documents")
	}

	out := make([]Summary, 0, len(recs))
	for _, r := range recs {
		out = append(out, Summary{ID: r.ID, Name: r.Name, Nodes: r.Nodes, UpdatedAt: r.UpdatedAt.UTC()})
	}
	return out, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
