package store

import (
	"context"
	"net/url"
	"sync"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/akolanti/pdfchat/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("In Memory Store")

type InMemoryUserStore struct {
	lock  *sync.RWMutex
	users map[string]commonModels.User
}

func InitUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		lock:  new(sync.RWMutex),
		users: make(map[string]commonModels.User),
	}
}

func (s *InMemoryUserStore) FindByName(ctx context.Context, username string) (commonModels.User, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	user, ok := s.users[username]
	if !ok {
		return commonModels.User{}, commonModels.ErrNotFound
	}
	return user, nil
}

func (s *InMemoryUserStore) Create(ctx context.Context, user commonModels.User) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.users[user.Username]; ok {
		return commonModels.ErrConflict
	}
	s.users[user.Username] = user
	return nil
}

type InMemoryDocumentStore struct {
	lock    *sync.RWMutex
	docs    map[string]commonModels.Document
	byOwner map[string][]string
}

func InitDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		lock:    new(sync.RWMutex),
		docs:    make(map[string]commonModels.Document),
		byOwner: make(map[string][]string),
	}
}

func (s *InMemoryDocumentStore) Insert(ctx context.Context, doc commonModels.Document) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.docs[doc.Id]; ok {
		return commonModels.ErrConflict
	}
	s.docs[doc.Id] = doc
	s.byOwner[doc.Owner] = append(s.byOwner[doc.Owner], doc.Id)
	inMemLogger.Debug("saved document", "id", doc.Id, "owner", doc.Owner)
	return nil
}

func (s *InMemoryDocumentStore) FindOwned(ctx context.Context, id string, owner string) (commonModels.Document, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	doc, ok := s.docs[id]
	if !ok || doc.Owner != owner {
		return commonModels.Document{}, commonModels.ErrNotFound
	}
	return doc, nil
}

func (s *InMemoryDocumentStore) ListByOwner(ctx context.Context, owner string, limit int) ([]commonModels.DocumentSummary, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	ids := s.byOwner[owner]
	out := make([]commonModels.DocumentSummary, 0, min(len(ids), clampLimit(limit)))
	for _, id := range ids {
		if len(out) == clampLimit(limit) {
			break
		}
		out = append(out, commonModels.DocumentSummary{Id: id, Filename: s.docs[id].Filename})
	}
	return out, nil
}

func (s *InMemoryDocumentStore) Delete(ctx context.Context, id string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return commonModels.ErrNotFound
	}
	delete(s.docs, id)
	ids := s.byOwner[doc.Owner]
	for i, v := range ids {
		if v == id {
			s.byOwner[doc.Owner] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

type InMemoryChatStore struct {
	lock  *sync.RWMutex
	chats map[string][]commonModels.ChatRecord
}

func InitChatStore() *InMemoryChatStore {
	return &InMemoryChatStore{
		lock:  new(sync.RWMutex),
		chats: make(map[string][]commonModels.ChatRecord),
	}
}

// chatKey escapes both parts so no user and document pair can build another pair's key.
func chatKey(documentId, user string) string {
	return "chats:" + url.QueryEscape(user) + ":" + url.QueryEscape(documentId)
}

func (s *InMemoryChatStore) Insert(ctx context.Context, record commonModels.ChatRecord) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	key := chatKey(record.DocumentId, record.AskedBy)
	s.chats[key] = append(s.chats[key], record)
	return nil
}

func (s *InMemoryChatStore) ListByDocument(ctx context.Context, documentId string, user string, limit int) ([]commonModels.ChatRecord, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	records := s.chats[chatKey(documentId, user)]
	n := min(len(records), clampLimit(limit))
	out := make([]commonModels.ChatRecord, n)
	copy(out, records[:n])
	return out, nil
}

func (s *InMemoryChatStore) DeleteByDocument(ctx context.Context, documentId string, user string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.chats, chatKey(documentId, user))
	return nil
}

// clampLimit treats a non-positive limit as the default list cap.
func clampLimit(limit int) int {
	if limit <= 0 {
		return config.ListLimit
	}
	return limit
}

func NewInMemoryStores() *Stores {
	return &Stores{
		Users:     InitUserStore(),
		Documents: InitDocumentStore(),
		Chats:     InitChatStore(),
		Backend:   config.StoreBackendMemory,
		Close:     func(ctx context.Context) error { return nil },
	}
}
