package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/akolanti/pdfchat/pkg/logger_i"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	usersCollection     = "users"
	documentsCollection = "pdf_files"
	chatsCollection     = "chats"
)

type MongoUserStore struct {
	collection *mongo.Collection
}

func NewMongoUserStore(collection *mongo.Collection) *MongoUserStore {
	return &MongoUserStore{collection: collection}
}

func (r *MongoUserStore) FindByName(ctx context.Context, username string) (commonModels.User, error) {
	var user commonModels.User
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return user, commonModels.ErrNotFound
	}
	return user, err
}

// Create relies on the unique username index created by NewMongoStores.
func (r *MongoUserStore) Create(ctx context.Context, user commonModels.User) error {
	_, err := r.collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return commonModels.ErrConflict
	}
	return err
}

type MongoDocumentStore struct {
	collection *mongo.Collection
}

func NewMongoDocumentStore(collection *mongo.Collection) *MongoDocumentStore {
	return &MongoDocumentStore{collection: collection}
}

func (r *MongoDocumentStore) Insert(ctx context.Context, doc commonModels.Document) error {
	_, err := r.collection.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return commonModels.ErrConflict
	}
	return err
}

func (r *MongoDocumentStore) FindOwned(ctx context.Context, id string, owner string) (commonModels.Document, error) {
	var doc commonModels.Document
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "owner": owner}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return doc, commonModels.ErrNotFound
	}
	return doc, err
}

func (r *MongoDocumentStore) ListByOwner(ctx context.Context, owner string, limit int) ([]commonModels.DocumentSummary, error) {
	opts := options.Find().
		SetProjection(bson.D{{Key: "_id", Value: 1}, {Key: "filename", Value: 1}}).
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(clampLimit(limit)))
	cursor, err := r.collection.Find(ctx, bson.M{"owner": owner}, opts)
	if err != nil {
		return nil, err
	}
	out := make([]commonModels.DocumentSummary, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoDocumentStore) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return commonModels.ErrNotFound
	}
	return nil
}

type MongoChatStore struct {
	collection *mongo.Collection
}

func NewMongoChatStore(collection *mongo.Collection) *MongoChatStore {
	return &MongoChatStore{collection: collection}
}

func (r *MongoChatStore) Insert(ctx context.Context, record commonModels.ChatRecord) error {
	_, err := r.collection.InsertOne(ctx, record)
	return err
}

func (r *MongoChatStore) ListByDocument(ctx context.Context, documentId string, user string, limit int) ([]commonModels.ChatRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(clampLimit(limit)))
	cursor, err := r.collection.Find(ctx, bson.M{"pdf_file_id": documentId, "user": user}, opts)
	if err != nil {
		return nil, err
	}
	out := make([]commonModels.ChatRecord, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoChatStore) DeleteByDocument(ctx context.Context, documentId string, user string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"pdf_file_id": documentId, "user": user})
	return err
}

func NewMongoStores(ctx context.Context, uri string, database string) (*Stores, error) {
	logger := logger_i.NewLogger("Mongo Store")

	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetConnectTimeout(config.MongoConnectTimeout))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, config.MongoConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		logger.Error("MongoDB is offline", "error", err)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(database)
	indexes := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{usersCollection, mongo.IndexModel{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{documentsCollection, mongo.IndexModel{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "created_at", Value: 1}}}},
		{chatsCollection, mongo.IndexModel{Keys: bson.D{{Key: "user", Value: 1}, {Key: "pdf_file_id", Value: 1}, {Key: "created_at", Value: 1}}}},
	}
	for _, idx := range indexes {
		if _, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, idx.model); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("creating index on %s: %w", idx.collection, err)
		}
	}

	logger.Info("MongoDB store init successfully", "database", database)
	return &Stores{
		Users:     NewMongoUserStore(db.Collection(usersCollection)),
		Documents: NewMongoDocumentStore(db.Collection(documentsCollection)),
		Chats:     NewMongoChatStore(db.Collection(chatsCollection)),
		Backend:   config.StoreBackendMongo,
		Close:     client.Disconnect,
	}, nil
}
