package session

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

const handleFile = "onbo_conversation"

// ConversationCreator requests a new server-side conversation handle,
// seeded with the system prompt.
type ConversationCreator interface {
	CreateConversation(ctx context.Context, systemPrompt string) (string, error)
}

// Store persists the current conversation handle as a single plain-text
// file. At most one handle is active per local run. Persistence failures
// are treated as "no handle present", never as fatal errors.
type Store struct {
	path         string
	client       ConversationCreator
	systemPrompt string
}

func NewStore(dir string, client ConversationCreator, systemPrompt string) *Store {
	return &Store{
		path:         filepath.Join(dir, handleFile),
		client:       client,
		systemPrompt: systemPrompt,
	}
}

// Resolve returns the active conversation handle. An explicit non-empty
// override is returned verbatim with no persistence side effect. Otherwise
// a previously persisted handle is reused; failing that, a new conversation
// is created and its identifier persisted before returning.
func (s *Store) Resolve(ctx context.Context, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if handle := s.read(); handle != "" {
		return handle, nil
	}

	handle, err := s.client.CreateConversation(ctx, s.systemPrompt)
	if err != nil {
		return "", fmt.Errorf("creating conversation: %w", err)
	}

	if err := os.WriteFile(s.path, []byte(handle+"\n"), 0644); err != nil {
		// Degrade: the handle still works for this run, it just won't
		// survive a restart.
		log.Printf("session: could not persist conversation handle: %v", err)
	}
	return handle, nil
}

// Forget removes any persisted handle. Removing a handle that does not
// exist succeeds silently.
func (s *Store) Forget() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) read() string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
