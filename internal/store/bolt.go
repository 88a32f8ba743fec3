package store

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	documentsBucket   = []byte("documents")
	transcriptsBucket = []byte("transcripts")
)

const maxTranscriptTurns = 200

// TranscriptTurn is one archived exchange entry: user input, assistant text,
// and any tool activity that happened in between.
type TranscriptTurn struct {
	Role      string         `json:"role"`
	Text      string         `json:"text,omitempty"`
	ToolName  string         `json:"tool_name,omitempty"`
	ToolArgs  map[string]any `json:"tool_args,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

type Store interface {
	GetDocument(name string) ([]byte, error)
	PutDocument(name string, data []byte) error
	GetTranscript(handle string) ([]TranscriptTurn, error)
	AppendTranscript(handle string, turns []TranscriptTurn) error
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
		if _, err := tx.CreateBucketIfNotExists(documentsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(transcriptsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// GetDocument returns the raw JSON document, or nil when absent.
func (s *BoltStore) GetDocument(name string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(documentsBucket).Get([]byte(name))
		if v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	return data, err
}

// PutDocument replaces the document wholesale.
func (s *BoltStore) PutDocument(name string, data []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(documentsBucket).Put([]byte(name), data)
	})
}

func (s *BoltStore) GetTranscript(handle string) ([]TranscriptTurn, error) {
	var turns []TranscriptTurn
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(transcriptsBucket).Get([]byte(handle))
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &turns)
	})
	return turns, err
}

// AppendTranscript adds turns to the archive for a conversation handle,
// keeping only the most recent maxTranscriptTurns.
func (s *BoltStore) AppendTranscript(handle string, turns []TranscriptTurn) error {
	existing, err := s.GetTranscript(handle)
	if err != nil {
		existing = nil
	}
	all := append(existing, turns...)
	if len(all) > maxTranscriptTurns {
		all = all[len(all)-maxTranscriptTurns:]
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(all)
		if err != nil {
			return err
		}
		return tx.Bucket(transcriptsBucket).Put([]byte(handle), data)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
