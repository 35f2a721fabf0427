package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"findmystuff/internal/infrastructure/storage/port"
	account "findmystuff/internal/pkg/account/domain"
	conversation "findmystuff/internal/pkg/conversation/domain"
	posting "findmystuff/internal/pkg/posting/domain"
)

// FileStore keeps the whole database in one JSON document on disk. Every
// operation loads the file, mutates in memory and writes the file back via a
// temp file + rename so readers never observe a partial write.
//
// A single store-wide mutex serializes all operations. That closes the
// lost-update window between the read and the write-back of two overlapping
// mutations; the cost is that write throughput is bounded by full-file
// rewrites, which is fine for the single-process deployments this backend is
// meant for.
type FileStore struct {
	mu   sync.Mutex
	path string
}

type fileDB struct {
	Users         []account.User              `json:"users"`
	Postings      []posting.Posting           `json:"postings"`
	Conversations []conversation.Conversation `json:"conversations"`
}

// NewFileStore opens (or lazily creates) the store at path.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("filestore: path is required")
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("filestore: create dir: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

var _ port.Store = (*FileStore)(nil)

func (s *FileStore) Users() port.Collection[account.User] {
	return &fileCollection[account.User]{
		store: s,
		get:   func(db *fileDB) []account.User { return db.Users },
		set:   func(db *fileDB, v []account.User) { db.Users = v },
	}
}

func (s *FileStore) Postings() port.Collection[posting.Posting] {
	return &fileCollection[posting.Posting]{
		store: s,
		get:   func(db *fileDB) []posting.Posting { return db.Postings },
		set:   func(db *fileDB, v []posting.Posting) { db.Postings = v },
	}
}

func (s *FileStore) Conversations() port.Collection[conversation.Conversation] {
	return &fileCollection[conversation.Conversation]{
		store: s,
		get:   func(db *fileDB) []conversation.Conversation { return db.Conversations },
		set:   func(db *fileDB, v []conversation.Conversation) { db.Conversations = v },
	}
}

func (s *FileStore) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.load()
	return err
}

func (s *FileStore) Close(ctx context.Context) error { return nil }

// load reads the whole store. A missing file is an empty store, matching the
// behavior of writing the first record to a fresh deployment.
func (s *FileStore) load() (*fileDB, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &fileDB{}, nil
		}
		return nil, fmt.Errorf("filestore: read: %w", err)
	}
	var db fileDB
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("filestore: decode: %w", err)
	}
	return &db, nil
}

// save writes the whole store back atomically.
func (s *FileStore) save(db *fileDB) error {
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("filestore: encode: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".db-*.json")
	if err != nil {
		return fmt.Errorf("filestore: temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("filestore: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("filestore: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("filestore: rename: %w", err)
	}
	return nil
}

// fileCollection adapts one slice of the store file to the Collection
// contract. get/set point it at the right field of fileDB.
type fileCollection[T port.Entity] struct {
	store *FileStore
	get   func(*fileDB) []T
	set   func(*fileDB, []T)
}

func (c *fileCollection[T]) All(ctx context.Context) ([]T, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	db, err := c.store.load()
	if err != nil {
		return nil, err
	}
	items := c.get(db)
	out := make([]T, len(items))
	copy(out, items)
	return out, nil
}

func (c *fileCollection[T]) FindByID(ctx context.Context, id string) (T, error) {
	var zero T
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	db, err := c.store.load()
	if err != nil {
		return zero, err
	}
	for _, item := range c.get(db) {
		if item.EntityID() == id {
			return item, nil
		}
	}
	return zero, port.ErrNotFound
}

func (c *fileCollection[T]) Find(ctx context.Context, pred func(T) bool) ([]T, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	db, err := c.store.load()
	if err != nil {
		return nil, err
	}
	var out []T
	for _, item := range c.get(db) {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (c *fileCollection[T]) Insert(ctx context.Context, doc T) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	db, err := c.store.load()
	if err != nil {
		return err
	}
	c.set(db, append(c.get(db), doc))
	return c.store.save(db)
}

func (c *fileCollection[T]) Update(ctx context.Context, id string, doc T) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	db, err := c.store.load()
	if err != nil {
		return err
	}
	items := c.get(db)
	for i, item := range items {
		if item.EntityID() == id {
			items[i] = doc
			c.set(db, items)
			return c.store.save(db)
		}
	}
	return port.ErrNotFound
}

func (c *fileCollection[T]) Delete(ctx context.Context, id string) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	db, err := c.store.load()
	if err != nil {
		return err
	}
	items := c.get(db)
	for i, item := range items {
		if item.EntityID() == id {
			c.set(db, append(items[:i:i], items[i+1:]...))
			return c.store.save(db)
		}
	}
	return port.ErrNotFound
}
