package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/moonbase-api/internal/config"
	"github.com/noah-isme/moonbase-api/internal/database"
	"github.com/noah-isme/moonbase-api/internal/dto"
	"github.com/noah-isme/moonbase-api/internal/handler"
	"github.com/noah-isme/moonbase-api/internal/middleware"
	"github.com/noah-isme/moonbase-api/internal/repository"
	"github.com/noah-isme/moonbase-api/internal/router"
	"github.com/noah-isme/moonbase-api/internal/service"
	"github.com/noah-isme/moonbase-api/internal/utils"
)

const testSecret = "handler-test-secret"

type testApp struct {
	app *fiber.App
	db  *gorm.DB
}

func setupApp(t *testing.T) testApp {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.ConnectSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	validate := utils.NewValidator()
	logger := zerolog.New(io.Discard)

	users := repository.NewUserRepository(db)
	classrooms := repository.NewClassroomRepository(db)
	exercises := repository.NewExerciseRepository(db)
	tests := repository.NewTestCaseRepository(db)
	submissions := repository.NewSubmissionRepository(db)

	activity := service.NewActivityService(repository.NewActivityLogRepository(db), validate, logger)
	events := service.NewNATSEventPublisher(nil, "", logger)

	cfg := config.Config{
		AppName:         "Moonbase Test",
		AppEnv:          "test",
		JWTSecret:       testSecret,
		JWTCookieName:   "access_token",
		LoginRateLimit:  100,
		LoginRateWindow: time.Minute,
	}

	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler: handler.NewAuthHandler(
			service.NewAuthService(users, validate, service.TokenConfig{Secret: testSecret, TTL: time.Hour}, logger),
			handler.CookieConfig{Name: cfg.JWTCookieName},
			logger,
		),
		ClassroomHandler:  handler.NewClassroomHandler(service.NewClassroomService(classrooms, validate, activity, nil, 0, logger), logger),
		ExerciseHandler:   handler.NewExerciseHandler(service.NewExerciseService(exercises, classrooms, validate, logger), logger),
		TestCaseHandler:   handler.NewTestCaseHandler(service.NewTestCaseService(tests, exercises, validate, logger), logger),
		SubmissionHandler: handler.NewSubmissionHandler(service.NewSubmissionService(submissions, exercises, validate, activity, events, logger), logger),
		ActivityHandler:   handler.NewActivityHandler(activity, logger),
		JWTMiddleware:     middleware.JWTProtected(middleware.JWTConfig{Secret: testSecret, CookieName: cfg.JWTCookieName}),
		HealthProbes: []handler.HealthProbe{{
			Name:     "database",
			Critical: true,
			Check:    func(ctx context.Context) error { return database.Ping(ctx, db) },
		}},
	})

	return testApp{app: app, db: db}
}

func (a testApp) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// register signs up a user and returns a bearer token for it.
func (a testApp) register(t *testing.T, username, role string) string {
	t.Helper()

	resp := a.request(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username":  username,
		"email":     username + "@example.com",
		"full_name": strings.ToUpper(username[:1]) + username[1:],
		"password":  "correct-horse",
		"role":      role,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = a.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": "correct-horse",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var auth dto.AuthResponse
	decodeResponse(t, resp, &auth)
	require.NotEmpty(t, auth.AccessToken)
	return auth.AccessToken
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, target), string(body))
}

func errorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	var payload utils.ErrorResponse
	decodeResponse(t, resp, &payload)
	return payload.Error
}
