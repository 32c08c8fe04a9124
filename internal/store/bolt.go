package store

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var consentBucket = []byte("consent")

// Consent is a visitor's answer to the cookie banner.
type Consent struct {
	VisitorID string    `json:"visitor_id"`
	Decision  string    `json:"decision"`
	DecidedAt time.Time `json:"decided_at"`
}

type Store interface {
	SaveConsent(c Consent) error
	GetConsent(visitorID string) (*Consent, error)
	DeleteConsent(visitorID string) error
	Close() error
}

type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(consentBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating consent bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) SaveConsent(c Consent) error {
	if c.VisitorID == "" {
		return fmt.Errorf("saving consent: empty visitor id")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(c)
		if err != nil {
			return err
		}
		return tx.Bucket(consentBucket).Put([]byte(c.VisitorID), data)
	})
}

// GetConsent returns nil, nil when the visitor never answered.
func (s *BoltStore) GetConsent(visitorID string) (*Consent, error) {
	var c Consent
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(consentBucket).Get([]byte(visitorID))
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &c)
	})
	if err != nil {
		return nil, err
	}
	if c.VisitorID == "" {
		return nil, nil
	}
	return &c, nil
}

func (s *BoltStore) DeleteConsent(visitorID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(consentBucket).Delete([]byte(visitorID))
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
