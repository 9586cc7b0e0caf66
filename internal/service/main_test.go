package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Gaurav220900/Social/internal/cache"
	"github.com/Gaurav220900/Social/internal/domain"
	"github.com/Gaurav220900/Social/internal/realtime"
	"github.com/Gaurav220900/Social/internal/repository"
	"github.com/Gaurav220900/Social/pkg/token"
)

// fakeConn records every frame pushed to it so tests can assert on the
// event stream a client would observe.
type fakeConn struct {
	id      string
	session *realtime.Session

	mu     sync.Mutex
	frames [][]byte
	fail   bool
}

func newFakeConn(id, userID string) *fakeConn {
	return &fakeConn{id: id, session: realtime.NewSession(id, userID)}
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Session() *realtime.Session { return c.session }

func (c *fakeConn) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("stale handle")
	}
	c.frames = append(c.frames, data)
	return nil
}

// events decodes everything the connection received, in order.
func (c *fakeConn) events(t *testing.T) []realtime.Envelope {
	t.Helper()

	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]realtime.Envelope, 0, len(c.frames))
	for _, frame := range c.frames {
		var env realtime.Envelope
		require.NoError(t, json.Unmarshal(frame, &env))
		out = append(out, env)
	}
	return out
}

// eventsNamed filters the received stream down to one event type.
func (c *fakeConn) eventsNamed(t *testing.T, name string) []realtime.Envelope {
	t.Helper()

	var out []realtime.Envelope
	for _, env := range c.events(t) {
		if env.Event == name {
			out = append(out, env)
		}
	}
	return out
}

func (c *fakeConn) lastUnreadCount(t *testing.T) int64 {
	t.Helper()

	pushes := c.eventsNamed(t, realtime.EventUnreadCount)
	require.NotEmpty(t, pushes)
	var data realtime.UnreadCountData
	require.NoError(t, json.Unmarshal(pushes[len(pushes)-1].Data, &data))
	return data.Count
}

// fixture wires the full service stack over an in-memory database and a
// fresh presence registry.
type fixture struct {
	db            *gorm.DB
	registry      *realtime.Registry
	router        *realtime.Router
	userRepo      repository.UserRepository
	messageRepo   repository.MessageRepository
	unread        *UnreadAccountant
	chat          ChatService
	notifications NotificationService
	social        SocialService
	posts         PostService
	users         UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.UserModel{},
		&domain.FollowModel{},
		&domain.MessageModel{},
		&domain.ConversationModel{},
		&domain.NotificationModel{},
		&domain.PostModel{},
		&domain.CommentModel{},
		&domain.LikeModel{},
	))

	registry := realtime.NewRegistry()
	router := realtime.NewRouter(registry)

	userRepo := repository.NewGormUserRepository(db)
	followRepo := repository.NewGormFollowRepository(db)
	messageRepo := repository.NewGormMessageRepository(db)
	notificationRepo := repository.NewGormNotificationRepository(db)
	postRepo := repository.NewGormPostRepository(db)

	unread := NewUnreadAccountant(messageRepo, router)
	notifications := NewNotificationService(notificationRepo, userRepo, postRepo, router)
	tokens := token.NewManager("test-secret", time.Hour, "social-test")

	return &fixture{
		db:            db,
		registry:      registry,
		router:        router,
		userRepo:      userRepo,
		messageRepo:   messageRepo,
		unread:        unread,
		chat:          NewChatService(messageRepo, userRepo, registry, router, unread),
		notifications: notifications,
		social:        NewSocialService(followRepo, userRepo, cache.Noop{}, notifications),
		posts:         NewPostService(postRepo, userRepo, router, notifications),
		users:         NewUserService(userRepo, followRepo, cache.Noop{}, time.Minute, tokens),
	}
}

// addUser inserts a user directly and returns its id.
func (f *fixture) addUser(t *testing.T, username string) string {
	t.Helper()

	user := &domain.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "x",
	}
	require.NoError(t, f.userRepo.Create(context.Background(), user))
	return user.ID
}

// connect registers a live fake connection for the user.
func (f *fixture) connect(t *testing.T, userID string) *fakeConn {
	t.Helper()

	conn := newFakeConn(uuid.New().String(), userID)
	f.registry.Register(userID, conn)
	return conn
}
