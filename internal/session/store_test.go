package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCreator hands out sequential conversation ids and records how often
// it was asked.
type stubCreator struct {
	calls   int
	prompts []string
}

func (s *stubCreator) CreateConversation(_ context.Context, systemPrompt string) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, systemPrompt)
	return fmt.Sprintf("conv_%d", s.calls), nil
}

func TestResolveCreatesOnceAndPersists(t *testing.T) {
	dir := t.TempDir()
	creator := &stubCreator{}
	store := NewStore(dir, creator, "system prompt")

	first, err := store.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "conv_1", first)

	second, err := store.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, first, second, "second resolve reuses the persisted handle")
	assert.Equal(t, 1, creator.calls, "exactly one conversation created")

	// The new conversation was seeded with the full system prompt.
	require.Len(t, creator.prompts, 1)
	assert.Equal(t, "system prompt", creator.prompts[0])
}

func TestResolveSurvivesProcessRestart(t *testing.T) {
	dir := t.TempDir()
	creator := &stubCreator{}

	first, err := NewStore(dir, creator, "p").Resolve(context.Background(), "")
	require.NoError(t, err)

	// A new Store over the same directory models a fresh process.
	second, err := NewStore(dir, creator, "p").Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, creator.calls)
}

func TestForgetThenResolveYieldsFreshHandle(t *testing.T) {
	dir := t.TempDir()
	creator := &stubCreator{}
	store := NewStore(dir, creator, "p")

	first, err := store.Resolve(context.Background(), "")
	require.NoError(t, err)

	require.NoError(t, store.Forget())

	second, err := store.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, creator.calls)
}

func TestForgetIsIdempotent(t *testing.T) {
	store := NewStore(t.TempDir(), &stubCreator{}, "p")
	assert.NoError(t, store.Forget())
	assert.NoError(t, store.Forget())
}

func TestResolveOverrideBypassesPersistence(t *testing.T) {
	dir := t.TempDir()
	creator := &stubCreator{}
	store := NewStore(dir, creator, "p")

	handle, err := store.Resolve(context.Background(), "conv_external")
	require.NoError(t, err)
	assert.Equal(t, "conv_external", handle)
	assert.Zero(t, creator.calls)

	_, err = os.Stat(filepath.Join(dir, handleFile))
	assert.True(t, os.IsNotExist(err), "override must not be persisted")
}

func TestResolveTreatsCorruptFileAsValue(t *testing.T) {
	// Whitespace around the persisted handle is tolerated.
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, handleFile), []byte("  conv_x \n"), 0644))

	store := NewStore(dir, &stubCreator{}, "p")
	handle, err := store.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "conv_x", handle)
}
