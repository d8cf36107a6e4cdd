package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/contractor-site-backend/config"
	"github.com/rpupo63/contractor-site-backend/database"
)

const (
	testSecret = "test-secret"
	testIssuer = "contractor-site"
)

type testEnv struct {
	db      database.Database
	handler http.Handler
	token   string
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	db := database.New(gdb)
	require.NoError(t, db.Migrate(context.Background()))

	cfg := &config.Config{
		HTTP:  config.HTTP{AcceptedOrigins: []string{"https://www.example.com"}},
		Admin: config.Admin{JWTSecret: testSecret, Issuer: testIssuer},
	}
	opts = append([]Option{withConfig(cfg), withStartupTime(time.Now())}, opts...)

	token, err := IssueAdminToken(testSecret, testIssuer, "owner@example.com", time.Hour)
	require.NoError(t, err)

	return &testEnv{db: db, handler: newRouter(db, opts...), token: token}
}

func (e *testEnv) request(t *testing.T, method, path string, body any, admin bool) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
