// Package store holds the record stores for users, document indexes and chat records.
package store

import (
	"context"

	"github.com/akolanti/pdfchat/internal/domain/commonModels"
)

type UserStore interface {
	FindByName(ctx context.Context, username string) (commonModels.User, error)
	// Create fails with commonModels.ErrConflict when the username is taken.
	Create(ctx context.Context, user commonModels.User) error
}

type DocumentStore interface {
	Insert(ctx context.Context, doc commonModels.Document) error
	// FindOwned returns commonModels.ErrNotFound for missing documents and for documents of other users.
	FindOwned(ctx context.Context, id string, owner string) (commonModels.Document, error)
	// ListByOwner is in creation order.
	ListByOwner(ctx context.Context, owner string, limit int) ([]commonModels.DocumentSummary, error)
	Delete(ctx context.Context, id string) error
}

type ChatStore interface {
	Insert(ctx context.Context, record commonModels.ChatRecord) error
	// ListByDocument is in creation order.
	ListByDocument(ctx context.Context, documentId string, user string, limit int) ([]commonModels.ChatRecord, error)
	DeleteByDocument(ctx context.Context, documentId string, user string) error
}

// Stores bundles one backend. Close releases its connections.
type Stores struct {
	Users     UserStore
	Documents DocumentStore
	Chats     ChatStore
	Backend   string
	Close     func(ctx context.Context) error
}
