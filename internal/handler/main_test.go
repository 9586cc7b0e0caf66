package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Gaurav220900/Social/internal/cache"
	"github.com/Gaurav220900/Social/internal/config"
	"github.com/Gaurav220900/Social/internal/domain"
	"github.com/Gaurav220900/Social/internal/realtime"
	"github.com/Gaurav220900/Social/internal/repository"
	"github.com/Gaurav220900/Social/internal/service"
	"github.com/Gaurav220900/Social/pkg/middleware"
	"github.com/Gaurav220900/Social/pkg/response"
	"github.com/Gaurav220900/Social/pkg/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testApp wires the full HTTP surface over an in-memory database.
type testApp struct {
	engine   *gin.Engine
	registry *realtime.Registry
	chat     service.ChatService
	unread   *service.UnreadAccountant
	users    repository.UserRepository
	tokens   *token.Manager
}

func newTestApp(t *testing.T) *testApp {
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

	tokens := token.NewManager("test-secret", time.Hour, "social-test")
	authMW := middleware.NewAuthMiddleware(tokens)

	unread := service.NewUnreadAccountant(messageRepo, router)
	notifications := service.NewNotificationService(notificationRepo, userRepo, postRepo, router)
	chat := service.NewChatService(messageRepo, userRepo, registry, router, unread)
	social := service.NewSocialService(followRepo, userRepo, cache.Noop{}, notifications)
	posts := service.NewPostService(postRepo, userRepo, router, notifications)
	users := service.NewUserService(userRepo, followRepo, cache.Noop{}, time.Minute, tokens)

	wsCfg := config.WebSocketConfig{
		PingInterval:   30 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 4096,
		SendBuffer:     256,
	}

	engine := gin.New()
	NewUserHandler(users, social, posts, authMW).RegisterRoutes(engine)
	NewMessageHandler(chat, unread, authMW).RegisterRoutes(engine)
	NewNotificationHandler(notifications, authMW).RegisterRoutes(engine)
	NewPostHandler(posts, authMW).RegisterRoutes(engine)
	NewWSHandler(registry, unread, tokens, wsCfg).RegisterRoutes(engine)

	return &testApp{
		engine:   engine,
		registry: registry,
		chat:     chat,
		unread:   unread,
		users:    userRepo,
		tokens:   tokens,
	}
}

// addUser inserts a user with the password "secret123" and returns its id
// and a valid access token.
func (app *testApp) addUser(t *testing.T, username string) (string, string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: string(hashed),
	}
	require.NoError(t, app.users.Create(context.Background(), user))

	accessToken, _, err := app.tokens.Generate(user.ID, user.Email, user.Username)
	require.NoError(t, err)
	return user.ID, accessToken
}

// request performs an HTTP request against the engine and decodes the
// response envelope.
func (app *testApp) request(t *testing.T, method, path, tok string, body interface{}) (int, response.Response) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	w := httptest.NewRecorder()
	app.engine.ServeHTTP(w, req)

	var envelope response.Response
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	}
	return w.Code, envelope
}

// dataAs re-marshals the envelope's data field into out.
func dataAs(t *testing.T, envelope response.Response, out interface{}) {
	t.Helper()

	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}
