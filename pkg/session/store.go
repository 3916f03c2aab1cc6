package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// TokenStore is the client's persistent session storage. The access token is
// read from it on every call so a token written by a concurrent refresh is
// picked up by the next request. Writes are last-write-wins.
//
// The refresh cookie is kept here only so a new process can restore its
// cookie jar; it is never attached to requests by hand.
type TokenStore interface {
	AccessToken() (string, error)
	SetAccessToken(tok string) error
	RefreshCookie() (string, error)
	SetRefreshCookie(value string) error
	Clear() error
}

type MemoryStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) AccessToken() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access, nil
}

func (s *MemoryStore) SetAccessToken(tok string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = tok
	return nil
}

func (s *MemoryStore) RefreshCookie() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh, nil
}

func (s *MemoryStore) SetRefreshCookie(value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = value
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access, s.refresh = "", ""
	return nil
}

var (
	sessionBucket    = []byte("session")
	accessTokenKey   = []byte("accessToken")
	refreshCookieKey = []byte("refreshToken")
)

// BoltStore keeps the session in a bbolt file so it outlives the process.
type BoltStore struct {
	db *bolt.DB
}

func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init session store: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error { return s.db.Close() }

func (s *BoltStore) get(key []byte) (string, error) {
	var v string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionBucket)
		if b == nil {
			return errors.New("session bucket missing")
		}
		v = string(b.Get(key))
		return nil
	})
	return v, err
}

func (s *BoltStore) put(key []byte, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionBucket)
		if value == "" {
			return b.Delete(key)
		}
		return b.Put(key, []byte(value))
	})
}

func (s *BoltStore) AccessToken() (string, error)        { return s.get(accessTokenKey) }
func (s *BoltStore) SetAccessToken(tok string) error     { return s.put(accessTokenKey, tok) }
func (s *BoltStore) RefreshCookie() (string, error)      { return s.get(refreshCookieKey) }
func (s *BoltStore) SetRefreshCookie(value string) error { return s.put(refreshCookieKey, value) }

func (s *BoltStore) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionBucket)
		if err := b.Delete(accessTokenKey); err != nil {
			return err
		}
		return b.Delete(refreshCookieKey)
	})
}
