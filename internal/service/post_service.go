package service

import (
	"context"

	"github.com/Gaurav220900/Social/internal/domain"
	"github.com/Gaurav220900/Social/internal/realtime"
	"github.com/Gaurav220900/Social/internal/repository"
	"github.com/Gaurav220900/Social/pkg/log"
)

// postServiceImpl implements PostService.
type postServiceImpl struct {
	posts         repository.PostRepository
	users         repository.UserRepository
	router        *realtime.Router
	notifications NotificationService
}

// NewPostService creates a new post service.
func NewPostService(
	posts repository.PostRepository,
	users repository.UserRepository,
	router *realtime.Router,
	notifications NotificationService,
) PostService {
	return &postServiceImpl{
		posts:         posts,
		users:         users,
		router:        router,
		notifications: notifications,
	}
}

// Create persists a post and broadcasts it to every connected client.
func (s *postServiceImpl) Create(ctx context.Context, authorID string, req *domain.CreatePostRequest) (*domain.Post, error) {
	post := &domain.Post{
		AuthorID:    authorID,
		Description: req.Description,
		Image:       req.Image,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("failed to persist post")
		return nil, err
	}

	s.fillAuthors(ctx, post)
	s.router.Broadcast(realtime.EventNewPost, post)
	return post, nil
}

// Get returns one post with author and counts populated.
func (s *postServiceImpl) Get(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.fillAuthors(ctx, post)
	return post, nil
}

// Update edits a post, scoped to its author.
func (s *postServiceImpl) Update(ctx context.Context, authorID, id string, req *domain.UpdatePostRequest) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != authorID {
		return nil, repository.ErrPostNotFound
	}

	if req.Description != nil {
		post.Description = *req.Description
	}
	if req.Image != nil {
		post.Image = *req.Image
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	s.fillAuthors(ctx, post)
	return post, nil
}

// Delete removes a post, scoped to its author.
func (s *postServiceImpl) Delete(ctx context.Context, authorID, id string) error {
	return s.posts.Delete(ctx, authorID, id)
}

// Feed lists posts newest first.
func (s *postServiceImpl) Feed(ctx context.Context, limit, offset int) ([]*domain.Post, error) {
	posts, err := s.posts.Feed(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	s.fillAuthors(ctx, posts...)
	return posts, nil
}

// ListByAuthor lists a user's posts newest first.
func (s *postServiceImpl) ListByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error) {
	posts, err := s.posts.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	s.fillAuthors(ctx, posts...)
	return posts, nil
}

// ToggleLike flips the viewer's like on a post. A fresh like notifies the
// author; unliking and self-likes never do.
func (s *postServiceImpl) ToggleLike(ctx context.Context, postID, userID string) (*domain.LikeResponse, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	liked, likes, err := s.posts.ToggleLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	if liked {
		if err := s.notifications.Notify(ctx, post.AuthorID, userID, domain.NotificationLike, postID); err != nil {
			l := log.Ctx(ctx)
			l.Error().Err(err).Msg("failed to create like notification")
		}
	}
	return &domain.LikeResponse{Liked: liked, Likes: likes}, nil
}

// CreateComment persists a comment and notifies the post's author.
func (s *postServiceImpl) CreateComment(ctx context.Context, postID, authorID string, req *domain.CreateCommentRequest) (*domain.Comment, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  req.Content,
	}
	if err := s.posts.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	if err := s.notifications.Notify(ctx, post.AuthorID, authorID, domain.NotificationComment, postID); err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("failed to create comment notification")
	}

	if summaries, err := s.users.GetSummaries(ctx, []string{authorID}); err == nil {
		comment.Author = summaries[authorID]
	}
	return comment, nil
}

// ListComments lists a post's comments oldest first with authors populated.
func (s *postServiceImpl) ListComments(ctx context.Context, postID string) ([]*domain.Comment, error) {
	comments, err := s.posts.ListComments(ctx, postID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.AuthorID)
	}
	summaries, err := s.users.GetSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		c.Author = summaries[c.AuthorID]
	}
	return comments, nil
}

// fillAuthors attaches author summaries to posts, best effort.
func (s *postServiceImpl) fillAuthors(ctx context.Context, posts ...*domain.Post) {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.AuthorID)
	}
	summaries, err := s.users.GetSummaries(ctx, ids)
	if err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Msg("failed to load post authors")
		return
	}
	for _, p := range posts {
		p.Author = summaries[p.AuthorID]
	}
}

var _ PostService = (*postServiceImpl)(nil)
