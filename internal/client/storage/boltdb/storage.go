package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/bigschool/authkit/internal/client/storage"
)

// bucketSession единственный bucket: ключи сессии и кешированный профиль
var bucketSession = []byte("session")

// Storage represents the BoltDB-backed session store
type Storage struct {
	db *bbolt.DB
}

// Compile-time check that Storage implements storage.Store
var _ storage.Store = (*Storage)(nil)

// New opens (or creates) the BoltDB file at dbPath
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	// Инициализируем bucket заранее, чтобы операции чтения
	// не различали "нет bucket" и "нет ключа"
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create session bucket: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database file
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the value stored under key
func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSession).Get([]byte(key))
		if data == nil {
			return storage.ErrKeyNotFound
		}
		value = string(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set stores value under key
func (s *Storage) Set(ctx context.Context, key, value string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketSession).Put([]byte(key), []byte(value)); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
		return nil
	})
}

// Remove deletes key; deleting an absent key is a no-op
func (s *Storage) Remove(ctx context.Context, key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSession).Delete([]byte(key))
	})
}

// SetMany stores all pairs in a single transaction.
// BoltDB дает атомарность на уровне транзакции: пара токенов
// становится видимой целиком или не видимой вовсе.
func (s *Storage) SetMany(ctx context.Context, values map[string]string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		for key, value := range values {
			if err := bucket.Put([]byte(key), []byte(value)); err != nil {
				return fmt.Errorf("failed to save %s: %w", key, err)
			}
		}
		return nil
	})
}

// Clear drops all session state at once
func (s *Storage) Clear(ctx context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketSession); err != nil {
			return fmt.Errorf("failed to drop session bucket: %w", err)
		}
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	})
}
