package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Gaurav220900/Social/internal/domain"
)

func seedNotification(t *testing.T, repo *GormNotificationRepository, recipient, sender string, typ domain.NotificationType) *domain.Notification {
	t.Helper()

	n := &domain.Notification{
		RecipientID: recipient,
		SenderID:    sender,
		Type:        typ,
	}
	require.NoError(t, repo.Create(context.Background(), n))
	return n
}

func TestNotificationListNewestFirst(t *testing.T) {
	t.Parallel()

	db := testDB(t)
	repo := NewGormNotificationRepository(db)
	ctx := context.Background()
	bob := seedUser(t, db, "bob")
	alice := seedUser(t, db, "alice")

	seedNotification(t, repo, bob, alice, domain.NotificationLike)
	second := seedNotification(t, repo, bob, alice, domain.NotificationFollow)

	list, err := repo.ListForRecipient(ctx, bob, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID)
}

func TestNotificationMarkReadScopedToRecipient(t *testing.T) {
	t.Parallel()

	db := testDB(t)
	repo := NewGormNotificationRepository(db)
	ctx := context.Background()
	bob := seedUser(t, db, "bob")
	alice := seedUser(t, db, "alice")

	n := seedNotification(t, repo, bob, alice, domain.NotificationComment)

	err := repo.MarkRead(ctx, alice, n.ID)
	require.ErrorIs(t, err, ErrNotificationNotFound)

	require.NoError(t, repo.MarkRead(ctx, bob, n.ID))
	// Second call is still fine.
	require.NoError(t, repo.MarkRead(ctx, bob, n.ID))

	count, err := repo.CountUnread(ctx, bob)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
}

func TestNotificationMarkAllReadIdempotent(t *testing.T) {
	t.Parallel()

	db := testDB(t)
	repo := NewGormNotificationRepository(db)
	ctx := context.Background()
	bob := seedUser(t, db, "bob")
	alice := seedUser(t, db, "alice")

	seedNotification(t, repo, bob, alice, domain.NotificationLike)
	seedNotification(t, repo, bob, alice, domain.NotificationComment)

	require.NoError(t, repo.MarkAllRead(ctx, bob))
	require.NoError(t, repo.MarkAllRead(ctx, bob))

	count, err := repo.CountUnread(ctx, bob)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
}

func TestNotificationDelete(t *testing.T) {
	t.Parallel()

	db := testDB(t)
	repo := NewGormNotificationRepository(db)
	ctx := context.Background()
	bob := seedUser(t, db, "bob")
	alice := seedUser(t, db, "alice")

	n := seedNotification(t, repo, bob, alice, domain.NotificationFollow)

	err := repo.Delete(ctx, alice, n.ID)
	require.ErrorIs(t, err, ErrNotificationNotFound)

	require.NoError(t, repo.Delete(ctx, bob, n.ID))
	err = repo.Delete(ctx, bob, n.ID)
	require.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestNotificationReadStateIndependentOfMessages(t *testing.T) {
	t.Parallel()

	db := testDB(t)
	notifications := NewGormNotificationRepository(db)
	messages := NewGormMessageRepository(db)
	ctx := context.Background()
	bob := seedUser(t, db, "bob")
	alice := seedUser(t, db, "alice")

	conv, err := messages.FindOrCreateConversation(ctx, alice, bob)
	require.NoError(t, err)
	sendMessage(t, messages, conv.ID, alice, bob, "hi")
	seedNotification(t, notifications, bob, alice, domain.NotificationLike)

	require.NoError(t, messages.MarkSeen(ctx, bob, alice))

	count, err := notifications.CountUnread(ctx, bob)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}
