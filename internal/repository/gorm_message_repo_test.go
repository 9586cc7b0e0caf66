package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Gaurav220900/Social/internal/domain"
)

func TestFindOrCreateConversationPairOrder(t *testing.T) {
	t.Parallel()

	db := testDB(t)
	repo := NewGormMessageRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	c1, err := repo.FindOrCreateConversation(ctx, alice, bob)
	require.NoError(t, err)

	c2, err := repo.FindOrCreateConversation(ctx, bob, alice)
	require.NoError(t, err)

	require.Equal(t, c1.ID, c2.ID)

	var count int64
	require.NoError(t, db.Model(&domain.ConversationModel{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestConversationOtherMember(t *testing.T) {
	t.Parallel()

	db := testDB(t)
	repo := NewGormMessageRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	conv, err := repo.FindOrCreateConversation(ctx, alice, bob)
	require.NoError(t, err)

	require.Equal(t, bob, conv.OtherMember(alice))
	require.Equal(t, alice, conv.OtherMember(bob))
	require.Empty(t, conv.OtherMember("stranger"))
}

func sendMessage(t *testing.T, repo *GormMessageRepository, conversationID, sender, receiver, content string) *domain.Message {
	t.Helper()

	msg := &domain.Message{
		ConversationID: conversationID,
		SenderID:       sender,
		ReceiverID:     receiver,
		Content:        content,
	}
	require.NoError(t, repo.Create(context.Background(), msg))
	return msg
}

func TestMessageHistoryAscending(t *testing.T) {
	t.Parallel()

	db := testDB(t)
	repo := NewGormMessageRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	conv, err := repo.FindOrCreateConversation(ctx, alice, bob)
	require.NoError(t, err)

	sendMessage(t, repo, conv.ID, alice, bob, "one")
	sendMessage(t, repo, conv.ID, bob, alice, "two")
	sendMessage(t, repo, conv.ID, alice, bob, "three")

	history, err := repo.History(ctx, alice, bob)
	require.NoError(t, err)
	require.Len(t, history, 3)
	require.Equal(t, "one", history[0].Content)
	require.Equal(t, "three", history[2].Content)
	for i := 1; i < len(history); i++ {
		require.False(t, history[i].CreatedAt.Before(history[i-1].CreatedAt))
	}

	// Both viewers see the same thread.
	mirror, err := repo.History(ctx, bob, alice)
	require.NoError(t, err)
	require.Len(t, mirror, 3)
}

func TestMarkSeenIdempotent(t *testing.T) {
	t.Parallel()

	db := testDB(t)
	repo := NewGormMessageRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	conv, err := repo.FindOrCreateConversation(ctx, alice, bob)
	require.NoError(t, err)
	sendMessage(t, repo, conv.ID, alice, bob, "hi")
	sendMessage(t, repo, conv.ID, alice, bob, "there")

	count, err := repo.CountUnread(ctx, bob)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	require.NoError(t, repo.MarkSeen(ctx, bob, alice))
	count, err = repo.CountUnread(ctx, bob)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)

	require.NoError(t, repo.MarkSeen(ctx, bob, alice))
	count, err = repo.CountUnread(ctx, bob)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
}

func TestMarkSeenScopedToSender(t *testing.T) {
	t.Parallel()

	db := testDB(t)
	repo := NewGormMessageRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	convAB, err := repo.FindOrCreateConversation(ctx, alice, bob)
	require.NoError(t, err)
	convCB, err := repo.FindOrCreateConversation(ctx, carol, bob)
	require.NoError(t, err)
	sendMessage(t, repo, convAB.ID, alice, bob, "from alice")
	sendMessage(t, repo, convCB.ID, carol, bob, "from carol")

	require.NoError(t, repo.MarkSeen(ctx, bob, alice))

	count, err := repo.CountUnread(ctx, bob)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestCountUnreadSkipsPreReadMessages(t *testing.T) {
	t.Parallel()

	db := testDB(t)
	repo := NewGormMessageRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	conv, err := repo.FindOrCreateConversation(ctx, alice, bob)
	require.NoError(t, err)

	// Written as already read, as happens when the receiver has the
	// conversation open at send time.
	msg := &domain.Message{
		ConversationID: conv.ID,
		SenderID:       alice,
		ReceiverID:     bob,
		Content:        "seen live",
		Read:           true,
	}
	require.NoError(t, repo.Create(ctx, msg))

	count, err := repo.CountUnread(ctx, bob)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
}

func TestConversationsForNewestActivityFirst(t *testing.T) {
	t.Parallel()

	db := testDB(t)
	repo := NewGormMessageRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	convAB, err := repo.FindOrCreateConversation(ctx, alice, bob)
	require.NoError(t, err)
	convAC, err := repo.FindOrCreateConversation(ctx, alice, carol)
	require.NoError(t, err)

	sendMessage(t, repo, convAB.ID, alice, bob, "old thread")
	sendMessage(t, repo, convAC.ID, alice, carol, "new thread")

	conversations, err := repo.ConversationsFor(ctx, alice)
	require.NoError(t, err)
	require.Len(t, conversations, 2)
	require.Equal(t, convAC.ID, conversations[0].ID)

	last, err := repo.LastMessage(ctx, convAC.ID)
	require.NoError(t, err)
	require.NotNil(t, last)
	require.Equal(t, "new thread", last.Content)
}

func TestLastMessageEmptyConversation(t *testing.T) {
	t.Parallel()

	db := testDB(t)
	repo := NewGormMessageRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	conv, err := repo.FindOrCreateConversation(ctx, alice, bob)
	require.NoError(t, err)

	last, err := repo.LastMessage(ctx, conv.ID)
	require.NoError(t, err)
	require.Nil(t, last)
}

func TestCreateMessageUnknownConversation(t *testing.T) {
	t.Parallel()

	db := testDB(t)
	repo := NewGormMessageRepository(db)

	msg := &domain.Message{
		ConversationID: "missing",
		SenderID:       "a",
		ReceiverID:     "b",
		Content:        "hi",
	}
	err := repo.Create(context.Background(), msg)
	require.ErrorIs(t, err, ErrConversationNotFound)
}
