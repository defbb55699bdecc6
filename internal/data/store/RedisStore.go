package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/data/redisStore"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/akolanti/pdfchat/pkg/logger_i"
	"github.com/redis/go-redis/v9"
)

type RedisUserStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func NewRedisUserStore(s *redisStore.Store) *RedisUserStore {
	return &RedisUserStore{store: s, logger: logger_i.NewLogger("UserStore")}
}

func userKey(username string) string { return "user:" + username }

func (s *RedisUserStore) FindByName(ctx context.Context, username string) (commonModels.User, error) {
	var user commonModels.User
	raw, err := s.store.Get(ctx, userKey(username))
	if s.store.IsNil(err) {
		return user, commonModels.ErrNotFound
	} else if err != nil {
		return user, fmt.Errorf("reading user: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return user, fmt.Errorf("decoding user: %w", err)
	}
	return user, nil
}

func (s *RedisUserStore) Create(ctx context.Context, user commonModels.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	created, err := s.store.SetNX(ctx, userKey(user.Username), data)
	if err != nil {
		s.logger.WithTrace(ctx).Error("error saving user", "error", err)
		return fmt.Errorf("saving user: %w", err)
	}
	if !created {
		return commonModels.ErrConflict
	}
	return nil
}

// RedisDocumentStore keeps each index as JSON under doc:<id>, its filename under docname:<id>
// and the owner's ids in upload order in the list owner:<owner>:docs.
type RedisDocumentStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func NewRedisDocumentStore(s *redisStore.Store) *RedisDocumentStore {
	return &RedisDocumentStore{store: s, logger: logger_i.NewLogger("DocumentStore")}
}

func docKey(id string) string          { return "doc:" + id }
func docNameKey(id string) string      { return "docname:" + id }
func ownerDocsKey(owner string) string { return "owner:" + url.QueryEscape(owner) + ":docs" }

func (s *RedisDocumentStore) Insert(ctx context.Context, doc commonModels.Document) error {
	log := s.logger.WithTrace(ctx).With("document", doc.Id)
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	created, err := s.store.SetNX(ctx, docKey(doc.Id), data)
	if err != nil {
		log.Error("error saving document", "error", err)
		return fmt.Errorf("saving document: %w", err)
	}
	if !created {
		return commonModels.ErrConflict
	}
	err = s.store.Tx(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, docNameKey(doc.Id), doc.Filename, 0)
		pipe.RPush(ctx, ownerDocsKey(doc.Owner), doc.Id)
		return nil
	})
	if err != nil {
		log.Error("error indexing document owner", "error", err)
		_ = s.store.Del(ctx, docKey(doc.Id))
		return fmt.Errorf("saving document: %w", err)
	}
	log.Debug("Saved document successfully")
	return nil
}

func (s *RedisDocumentStore) find(ctx context.Context, id string) (commonModels.Document, error) {
	var doc commonModels.Document
	raw, err := s.store.Get(ctx, docKey(id))
	if s.store.IsNil(err) {
		return doc, commonModels.ErrNotFound
	} else if err != nil {
		return doc, fmt.Errorf("reading document: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return doc, fmt.Errorf("decoding document: %w", err)
	}
	return doc, nil
}

func (s *RedisDocumentStore) FindOwned(ctx context.Context, id string, owner string) (commonModels.Document, error) {
	doc, err := s.find(ctx, id)
	if err != nil {
		return commonModels.Document{}, err
	}
	if doc.Owner != owner {
		return commonModels.Document{}, commonModels.ErrNotFound
	}
	return doc, nil
}

func (s *RedisDocumentStore) ListByOwner(ctx context.Context, owner string, limit int) ([]commonModels.DocumentSummary, error) {
	ids, err := s.store.ListGetFirst(ctx, ownerDocsKey(owner), int64(clampLimit(limit)))
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = docNameKey(id)
	}
	names, err := s.store.MGet(ctx, keys...)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	out := make([]commonModels.DocumentSummary, 0, len(ids))
	for i, id := range ids {
		out = append(out, commonModels.DocumentSummary{Id: id, Filename: names[i]})
	}
	return out, nil
}

func (s *RedisDocumentStore) Delete(ctx context.Context, id string) error {
	doc, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.store.Tx(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, docKey(id), docNameKey(id))
		pipe.LRem(ctx, ownerDocsKey(doc.Owner), 0, id)
		return nil
	})
}

type RedisChatStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func NewRedisChatStore(s *redisStore.Store) *RedisChatStore {
	return &RedisChatStore{store: s, logger: logger_i.NewLogger("ChatStore")}
}

func (s *RedisChatStore) Insert(ctx context.Context, record commonModels.ChatRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding chat: %w", err)
	}
	if err := s.store.ListPush(ctx, chatKey(record.DocumentId, record.AskedBy), data); err != nil {
		s.logger.WithTrace(ctx).Error("error saving chat", "error", err)
		return fmt.Errorf("saving chat: %w", err)
	}
	return nil
}

func (s *RedisChatStore) ListByDocument(ctx context.Context, documentId string, user string, limit int) ([]commonModels.ChatRecord, error) {
	raw, err := s.store.ListGetFirst(ctx, chatKey(documentId, user), int64(clampLimit(limit)))
	if err != nil && !s.store.IsNil(err) {
		return nil, fmt.Errorf("reading chat history: %w", err)
	}
	out := make([]commonModels.ChatRecord, 0, len(raw))
	for _, item := range raw {
		var record commonModels.ChatRecord
		if err := json.Unmarshal([]byte(item), &record); err != nil {
			s.logger.WithTrace(ctx).Warn("skipping undecodable chat record", "error", err)
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

func (s *RedisChatStore) DeleteByDocument(ctx context.Context, documentId string, user string) error {
	return s.store.Del(ctx, chatKey(documentId, user))
}

// NewRedisStores opens one logical database per record kind.
func NewRedisStores(ctx context.Context, addr string, password string) (*Stores, error) {
	var opened []*redisStore.Store
	open := func(db int) (*redisStore.Store, error) {
		s, err := redisStore.NewRedisStore(ctx, addr, password, db)
		if err == nil {
			opened = append(opened, s)
		}
		return s, err
	}
	closeAll := func(context.Context) error {
		var errs []error
		for _, s := range opened {
			errs = append(errs, s.Close())
		}
		return errors.Join(errs...)
	}

	users, err := open(config.RedisUserStore)
	if err != nil {
		return nil, err
	}
	docs, err := open(config.RedisDocumentStore)
	if err != nil {
		_ = closeAll(ctx)
		return nil, err
	}
	chats, err := open(config.RedisChatStore)
	if err != nil {
		_ = closeAll(ctx)
		return nil, err
	}
	return &Stores{
		Users:     NewRedisUserStore(users),
		Documents: NewRedisDocumentStore(docs),
		Chats:     NewRedisChatStore(chats),
		Backend:   config.StoreBackendRedis,
		Close:     closeAll,
	}, nil
}
