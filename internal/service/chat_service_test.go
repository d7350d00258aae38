package service

import (
	"context"
	"testing"
	"time"

	"github.com/liliang-cn/alfred/internal/domain"
	"github.com/liliang-cn/alfred/internal/pdftext/pdftest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskGeneral(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	s := f.newSession(t)
	_, err := f.sessions.SetTone(ctx, s.ID, domain.ToneFriendly)
	require.NoError(t, err)

	resp, err := f.chat.Ask(ctx, s.ID, domain.ConversationGeneral, "Who are you?")
	require.NoError(t, err)
	assert.Equal(t, "At your service.", resp.Answer)
	assert.Equal(t, 1, resp.InteractionCount)

	require.Equal(t, 1, f.completer.callCount())
	sent := f.completer.calls[0]
	require.Len(t, sent, 2)
	assert.Equal(t, domain.RoleSystem, sent[0].Role)
	assert.Equal(t, "You are a helpful assistant named Alfred AI. "+domain.ToneFriendly.Instruction(), sent[0].Content)
	assert.Equal(t, "Who are you?", sent[1].Content)

	msgs, err := f.chat.Messages(ctx, s.ID, domain.ConversationGeneral)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, domain.RoleUser, msgs[1].Role)
	assert.Equal(t, "Who are you?", msgs[1].Content)
	assert.Equal(t, domain.RoleAssistant, msgs[2].Role)
	assert.Equal(t, "At your service.", msgs[2].Content)

	pdfMsgs, err := f.chat.Messages(ctx, s.ID, domain.ConversationPDF)
	require.NoError(t, err)
	assert.Len(t, pdfMsgs, 1)
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	f := newFixture(t, 0)
	s := f.newSession(t)

	_, err := f.chat.Ask(context.Background(), s.ID, domain.ConversationGeneral, "  \n")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.Zero(t, f.completer.callCount())
}

func TestAskFailureKeepsConversation(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	s := f.newSession(t)
	f.completer.err = errBoom

	_, err := f.chat.Ask(ctx, s.ID, domain.ConversationGeneral, "Hello")
	assert.ErrorIs(t, err, domain.ErrCompletionFailed)

	msgs, err := f.chat.Messages(ctx, s.ID, domain.ConversationGeneral)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	got, err := f.sessions.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.InteractionCount)
}

func TestAskPDFUsesContext(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	s := f.newSession(t)

	_, err := f.chat.Ask(ctx, s.ID, domain.ConversationPDF, "Summarise")
	assert.ErrorIs(t, err, domain.ErrNoPDF)
	assert.Zero(t, f.completer.callCount())

	_, err = f.analysis.UploadBytes(ctx, s.ID, "report.pdf", pdftest.Build("Quarterly   report"))
	require.NoError(t, err)

	_, err = f.chat.Ask(ctx, s.ID, domain.ConversationPDF, "Summarise")
	require.NoError(t, err)
	require.Equal(t, 1, f.completer.callCount())
	assert.Equal(t, "Quarterly report\n\nUser's question: Summarise", f.completer.calls[0][1].Content)

	msgs, err := f.chat.Messages(ctx, s.ID, domain.ConversationPDF)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "Summarise", msgs[1].Content)
}

func TestAskDebounce(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()
	s := f.newSession(t)

	_, err := f.chat.Ask(ctx, s.ID, domain.ConversationGeneral, "Hello")
	require.NoError(t, err)

	_, err = f.chat.Ask(ctx, s.ID, domain.ConversationGeneral, "Hello")
	assert.ErrorIs(t, err, domain.ErrDuplicateSubmission)
	assert.Equal(t, 1, f.completer.callCount())

	got, err := f.sessions.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.InteractionCount)

	// A different question, or another session, is not a duplicate.
	_, err = f.chat.Ask(ctx, s.ID, domain.ConversationGeneral, "Hello again")
	require.NoError(t, err)

	other := f.newSession(t)
	_, err = f.chat.Ask(ctx, other.ID, domain.ConversationGeneral, "Hello")
	require.NoError(t, err)
	assert.Equal(t, 3, f.completer.callCount())
}

func TestAskRetryAfterFailure(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()
	s := f.newSession(t)

	f.completer.err = errBoom
	_, err := f.chat.Ask(ctx, s.ID, domain.ConversationGeneral, "Hello")
	require.ErrorIs(t, err, domain.ErrCompletionFailed)

	f.completer.err = nil
	resp, err := f.chat.Ask(ctx, s.ID, domain.ConversationGeneral, "Hello")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.InteractionCount)
	assert.Equal(t, 2, f.completer.callCount())

	// The successful retry is now the recent submission.
	_, err = f.chat.Ask(ctx, s.ID, domain.ConversationGeneral, "Hello")
	assert.ErrorIs(t, err, domain.ErrDuplicateSubmission)
}

func TestClear(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	s := f.newSession(t)

	_, err := f.analysis.UploadBytes(ctx, s.ID, "a.pdf", pdftest.Build("Gotham"))
	require.NoError(t, err)
	for _, kind := range []domain.ConversationKind{domain.ConversationGeneral, domain.ConversationPDF} {
		_, err := f.chat.Ask(ctx, s.ID, kind, "Question about "+string(kind))
		require.NoError(t, err)
	}

	require.NoError(t, f.chat.Clear(ctx, s.ID, domain.ConversationPDF))
	got, err := f.sessions.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.InteractionCount)

	pdfMsgs, err := f.chat.Messages(ctx, s.ID, domain.ConversationPDF)
	require.NoError(t, err)
	assert.Equal(t, domain.InitialConversation(domain.ConversationPDF)[0].Content, pdfMsgs[0].Content)
	assert.Len(t, pdfMsgs, 1)

	general, err := f.chat.Messages(ctx, s.ID, domain.ConversationGeneral)
	require.NoError(t, err)
	assert.Len(t, general, 3)

	require.NoError(t, f.chat.Clear(ctx, s.ID, domain.ConversationGeneral))
	got, err = f.sessions.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Zero(t, got.InteractionCount)

	general, err = f.chat.Messages(ctx, s.ID, domain.ConversationGeneral)
	require.NoError(t, err)
	assert.Len(t, general, 1)

	assert.ErrorIs(t, f.chat.Clear(ctx, s.ID, domain.ConversationKind("other")), domain.ErrInvalidRequest)
}
