package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Gaurav220900/Social/internal/domain"
	"github.com/Gaurav220900/Social/internal/realtime"
)

func TestCreatePostBroadcasts(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")

	aliceConn := f.connect(t, alice)
	bobConn := f.connect(t, bob)

	post, err := f.posts.Create(ctx, alice, &domain.CreatePostRequest{Description: "hello world"})
	require.NoError(t, err)
	require.Equal(t, "alice", post.Author.Username)

	for _, conn := range []*fakeConn{aliceConn, bobConn} {
		pushes := conn.eventsNamed(t, realtime.EventNewPost)
		require.Len(t, pushes, 1)

		var payload domain.Post
		require.NoError(t, json.Unmarshal(pushes[0].Data, &payload))
		require.Equal(t, post.ID, payload.ID)
		require.Equal(t, "hello world", payload.Description)
	}
}

func TestToggleLikeNotifiesAuthorOnce(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")

	post, err := f.posts.Create(ctx, alice, &domain.CreatePostRequest{Description: "likeable"})
	require.NoError(t, err)

	resp, err := f.posts.ToggleLike(ctx, post.ID, bob)
	require.NoError(t, err)
	require.True(t, resp.Liked)
	require.Equal(t, int64(1), resp.Likes)

	// Unlike does not notify.
	resp, err = f.posts.ToggleLike(ctx, post.ID, bob)
	require.NoError(t, err)
	require.False(t, resp.Liked)

	list, err := f.notifications.List(ctx, alice, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, domain.NotificationLike, list[0].Type)
}

func TestSelfLikeNeverNotifies(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice")

	post, err := f.posts.Create(ctx, alice, &domain.CreatePostRequest{Description: "own post"})
	require.NoError(t, err)

	resp, err := f.posts.ToggleLike(ctx, post.ID, alice)
	require.NoError(t, err)
	require.True(t, resp.Liked)

	list, err := f.notifications.List(ctx, alice, 0)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestCommentNotifiesAuthor(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")

	post, err := f.posts.Create(ctx, alice, &domain.CreatePostRequest{Description: "discuss"})
	require.NoError(t, err)

	comment, err := f.posts.CreateComment(ctx, post.ID, bob, &domain.CreateCommentRequest{Content: "nice"})
	require.NoError(t, err)
	require.Equal(t, "bob", comment.Author.Username)

	// Commenting on your own post does not notify.
	_, err = f.posts.CreateComment(ctx, post.ID, alice, &domain.CreateCommentRequest{Content: "thanks"})
	require.NoError(t, err)

	list, err := f.notifications.List(ctx, alice, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, domain.NotificationComment, list[0].Type)

	comments, err := f.posts.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.Equal(t, "nice", comments[0].Content)
}

func TestFeedAndAuthorListing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")

	_, err := f.posts.Create(ctx, alice, &domain.CreatePostRequest{Description: "first"})
	require.NoError(t, err)
	_, err = f.posts.Create(ctx, bob, &domain.CreatePostRequest{Description: "second"})
	require.NoError(t, err)

	feed, err := f.posts.Feed(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	require.Equal(t, "second", feed[0].Description)
	require.Equal(t, "bob", feed[0].Author.Username)

	mine, err := f.posts.ListByAuthor(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "first", mine[0].Description)
}
