package service

import (
	"context"
	"testing"
	"time"

	"github.com/liliang-cn/alfred/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSession(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	s := f.newSession(t)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, domain.ToneNeutral, s.ResponseTone)
	assert.Equal(t, domain.PageWelcome, s.CurrentPage)
	assert.Zero(t, s.InteractionCount)
	assert.Empty(t, s.UserName)
	assert.False(t, s.HasPDF())

	again, created, err := f.sessions.Ensure(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, s.ID, again.ID)

	other, created, err := f.sessions.Ensure(ctx, "unknown-id")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, "unknown-id", other.ID)

	for _, kind := range []domain.ConversationKind{domain.ConversationGeneral, domain.ConversationPDF} {
		msgs, err := f.chat.Messages(ctx, s.ID, kind)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, kind.SystemPrompt(), msgs[0].Content)
	}
}

func TestSetUserName(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	s := f.newSession(t)

	_, err := f.sessions.SetUserName(ctx, s.ID, "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyName)

	updated, err := f.sessions.SetUserName(ctx, s.ID, " Bruce ")
	require.NoError(t, err)
	assert.Equal(t, "Bruce", updated.UserName)

	_, err = f.sessions.SetUserName(ctx, "missing", "Bruce")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetTone(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	s := f.newSession(t)

	updated, err := f.sessions.SetTone(ctx, s.ID, domain.ToneFormal)
	require.NoError(t, err)
	assert.Equal(t, domain.ToneFormal, updated.ResponseTone)

	_, err = f.sessions.SetTone(ctx, s.ID, domain.Tone("Sarcastic"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedTone)

	got, err := f.sessions.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ToneFormal, got.ResponseTone)
}

func TestVisitPage(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	s := f.newSession(t)

	for _, page := range domain.Pages {
		require.NoError(t, f.sessions.VisitPage(ctx, s.ID, page))
		got, err := f.sessions.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, page, got.CurrentPage)
	}

	assert.ErrorIs(t, f.sessions.VisitPage(ctx, s.ID, domain.Page("admin")), domain.ErrInvalidRequest)
}

func TestPurgeIdle(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	s := f.newSession(t)

	n, err := f.sessions.PurgeIdle(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = f.sessions.PurgeIdle(ctx, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = f.sessions.Get(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
