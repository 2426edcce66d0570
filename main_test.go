package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"livraria/internal/logger"
	"livraria/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *repositories.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	store, err := repositories.NewGORMStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store
}

func TestNewApp_Routes(t *testing.T) {
	app := newApp(newTestStore(t), nil, logger.Discard())

	tests := []struct {
		target string
		status int
		body   string
	}{
		{"/health", http.StatusOK, `"status":"healthy"`},
		{"/api/v1/books", http.StatusOK, `"total":0`},
		{"/api/v1/books/tags", http.StatusOK, `"Aventura"`},
		{"/api/v1/books/categories", http.StatusOK, `[]`},
		{"/api/v1/books/unknown", http.StatusNotFound, ""},
		{"/api/v1/orders/unknown", http.StatusNotFound, ""},
		{"/nope", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.target, nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.body != "" {
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Contains(t, string(body), tt.body)
			}
		})
	}
}
