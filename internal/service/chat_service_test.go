package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Gaurav220900/Social/internal/domain"
	"github.com/Gaurav220900/Social/internal/realtime"
	"github.com/Gaurav220900/Social/internal/repository"
)

func TestSendDeliversToBothPartiesAndPushesUnread(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")

	aliceConn := f.connect(t, alice)
	// Bob is online but looking at a different conversation.
	bobConn := f.connect(t, bob)
	bobConn.Session().OpenConversation("someone-else")

	msg, err := f.chat.Send(ctx, alice, &domain.SendMessageRequest{ReceiverID: bob, Content: "hi"})
	require.NoError(t, err)
	require.False(t, msg.Read)

	// Bob sees the message and the bumped unread badge.
	require.Len(t, bobConn.eventsNamed(t, realtime.EventReceiveMessage), 1)
	require.Equal(t, int64(1), bobConn.lastUnreadCount(t))

	// Alice's own session gets the echo but no unread push.
	require.Len(t, aliceConn.eventsNamed(t, realtime.EventReceiveMessage), 1)
	require.Empty(t, aliceConn.eventsNamed(t, realtime.EventUnreadCount))

	var echoed domain.Message
	env := aliceConn.eventsNamed(t, realtime.EventReceiveMessage)[0]
	require.NoError(t, json.Unmarshal(env.Data, &echoed))
	require.Equal(t, "hi", echoed.Content)
	require.Equal(t, msg.ID, echoed.ID)
}

func TestSendEchoReachesSenderSecondTab(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")

	tabOne := f.connect(t, alice)
	tabTwo := f.connect(t, alice)

	_, err := f.chat.Send(ctx, alice, &domain.SendMessageRequest{ReceiverID: bob, Content: "hi"})
	require.NoError(t, err)

	require.Len(t, tabOne.eventsNamed(t, realtime.EventReceiveMessage), 1)
	require.Len(t, tabTwo.eventsNamed(t, realtime.EventReceiveMessage), 1)
}

func TestSendToOfflineReceiverStillPersists(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")

	_, err := f.chat.Send(ctx, alice, &domain.SendMessageRequest{ReceiverID: bob, Content: "hi"})
	require.NoError(t, err)

	// Bob reconnects later; the durable rows are authoritative.
	count, err := f.unread.UnreadCountFor(ctx, bob)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	history, err := f.chat.History(ctx, bob, alice)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "hi", history[0].Content)
}

func TestSendWhileReceiverHasConversationOpen(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")

	bobConn := f.connect(t, bob)
	bobConn.Session().OpenConversation(alice)

	msg, err := f.chat.Send(ctx, alice, &domain.SendMessageRequest{ReceiverID: bob, Content: "hi"})
	require.NoError(t, err)

	// Open conversation wins: born read, no unread push, message still
	// delivered live.
	require.True(t, msg.Read)
	require.Len(t, bobConn.eventsNamed(t, realtime.EventReceiveMessage), 1)
	require.Empty(t, bobConn.eventsNamed(t, realtime.EventUnreadCount))

	count, err := f.unread.UnreadCountFor(ctx, bob)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
}

func TestSendValidation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice")

	_, err := f.chat.Send(ctx, alice, &domain.SendMessageRequest{ReceiverID: alice, Content: "hi"})
	require.ErrorIs(t, err, ErrSelfMessage)

	_, err = f.chat.Send(ctx, alice, &domain.SendMessageRequest{ReceiverID: "missing", Content: "  "})
	require.ErrorIs(t, err, ErrEmptyContent)

	_, err = f.chat.Send(ctx, alice, &domain.SendMessageRequest{ReceiverID: "missing", Content: "hi"})
	require.ErrorIs(t, err, repository.ErrUserNotFound)

	// Nothing was persisted by any of the rejected sends.
	var count int64
	require.NoError(t, f.db.Model(&domain.MessageModel{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestSendRejectedWhenBlocked(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")

	require.NoError(t, f.social.Block(ctx, bob, alice))

	_, err := f.chat.Send(ctx, alice, &domain.SendMessageRequest{ReceiverID: bob, Content: "hi"})
	require.ErrorIs(t, err, ErrBlocked)
}

func TestMarkSeenPushesRecomputedCount(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")

	_, err := f.chat.Send(ctx, alice, &domain.SendMessageRequest{ReceiverID: bob, Content: "one"})
	require.NoError(t, err)
	_, err = f.chat.Send(ctx, alice, &domain.SendMessageRequest{ReceiverID: bob, Content: "two"})
	require.NoError(t, err)

	bobConn := f.connect(t, bob)
	require.NoError(t, f.unread.MarkSeen(ctx, bob, alice))
	require.Equal(t, int64(0), bobConn.lastUnreadCount(t))

	// Idempotent: same end state on the second call.
	require.NoError(t, f.unread.MarkSeen(ctx, bob, alice))
	count, err := f.unread.UnreadCountFor(ctx, bob)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
}

func TestUnreadPolicyCountsMessagesNotSenders(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")

	for _, content := range []string{"one", "two", "three"} {
		_, err := f.chat.Send(ctx, alice, &domain.SendMessageRequest{ReceiverID: bob, Content: content})
		require.NoError(t, err)
	}

	count, err := f.unread.UnreadCountFor(ctx, bob)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)
}

func TestListConversations(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")
	carol := f.addUser(t, "carol")

	_, err := f.chat.Send(ctx, alice, &domain.SendMessageRequest{ReceiverID: bob, Content: "to bob"})
	require.NoError(t, err)
	_, err = f.chat.Send(ctx, carol, &domain.SendMessageRequest{ReceiverID: alice, Content: "from carol"})
	require.NoError(t, err)

	conversations, err := f.chat.ListConversations(ctx, alice)
	require.NoError(t, err)
	require.Len(t, conversations, 2)

	// Newest activity first, with the partner and last message attached.
	require.Equal(t, "carol", conversations[0].Partner.Username)
	require.Equal(t, "from carol", conversations[0].LastMessage.Content)
	require.Equal(t, "bob", conversations[1].Partner.Username)
}

func TestFindOrCreateConversationService(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")

	c1, err := f.chat.FindOrCreateConversation(ctx, alice, bob)
	require.NoError(t, err)
	c2, err := f.chat.FindOrCreateConversation(ctx, bob, alice)
	require.NoError(t, err)
	require.Equal(t, c1.ID, c2.ID)

	_, err = f.chat.FindOrCreateConversation(ctx, alice, alice)
	require.ErrorIs(t, err, ErrSelfMessage)

	_, err = f.chat.FindOrCreateConversation(ctx, alice, "missing")
	require.ErrorIs(t, err, repository.ErrUserNotFound)
}
