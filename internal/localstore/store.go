// Package localstore persists the client's durable state: the bearer token,
// the chat session id and the per-user recent-activity log. It is the only
// state that survives process restarts.
package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/taskwire/client/domain"
)

const (
	credentialsBucket = "credentials"
	activityBucket    = "activity"

	// KeyToken is the well-known key the bearer token lives under.
	KeyToken = "token"
	// KeyChatSession is the well-known key for the chat session id.
	KeyChatSession = "chat_session_id"

	// MaxActivities bounds the per-user activity log.
	MaxActivities = 20
)

// Store wraps BoltDB behind the small key-value surface the client needs.
// Operations are synchronous and have no side effects beyond the store.
type Store struct {
	db *bolt.DB
}

// Open initializes the Bolt file and ensures the buckets exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range []string{credentialsBucket, activityBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Set stores a credential value under key.
func (s *Store) Set(key, value string) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(credentialsBucket)).Put([]byte(key), []byte(value))
	})
}

// Get returns the value under key, or "" when absent.
func (s *Store) Get(key string) string {
	if s == nil || s.db == nil {
		return ""
	}
	var value string
	_ = s.db.View(func(tx *bolt.Tx) error {
		if raw := tx.Bucket([]byte(credentialsBucket)).Get([]byte(key)); raw != nil {
			value = string(raw)
		}
		return nil
	})
	return value
}

// Delete removes the value under key. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(credentialsBucket)).Delete([]byte(key))
	})
}

// AppendActivity prepends event to userID's log, trimming it to MaxActivities.
func (s *Store) AppendActivity(userID int64, event domain.ActivityEvent) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(activityBucket))
		key := activityKey(userID)

		var events []domain.ActivityEvent
		if raw := bucket.Get(key); raw != nil {
			// A log that no longer parses starts over empty.
			_ = json.Unmarshal(raw, &events)
		}

		events = append([]domain.ActivityEvent{event}, events...)
		if len(events) > MaxActivities {
			events = events[:MaxActivities]
		}

		raw, err := json.Marshal(events)
		if err != nil {
			return err
		}
		return bucket.Put(key, raw)
	})
}

// RecentActivities returns userID's log, newest first.
func (s *Store) RecentActivities(userID int64) ([]domain.ActivityEvent, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	var events []domain.ActivityEvent
	err := s.db.View(func(tx *bolt.Tx) error {
		if raw := tx.Bucket([]byte(activityBucket)).Get(activityKey(userID)); raw != nil {
			return json.Unmarshal(raw, &events)
		}
		return nil
	})
	return events, err
}

// ReplaceActivities overwrites userID's log, e.g. when seeding from the server.
func (s *Store) ReplaceActivities(userID int64, events []domain.ActivityEvent) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if len(events) > MaxActivities {
		events = events[:MaxActivities]
	}
	raw, err := json.Marshal(events)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(activityBucket)).Put(activityKey(userID), raw)
	})
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func activityKey(userID int64) []byte {
	return []byte(fmt.Sprintf("activities/%d", userID))
}
