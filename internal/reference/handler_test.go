package reference

import (
	"alizia-planner/internal/middleware"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(handler *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler(zerolog.Nop()))
	router.POST("/references/refresh", handler.Refresh)
	return router
}

// TestRefresh_Success tests that a refresh bypasses the cached copy
func TestRefresh_Success(t *testing.T) {
	source := &fakeSource{}
	catalog := NewCatalog(source, newCache(t), time.Minute, zerolog.Nop())
	_, err := catalog.Load(context.Background())
	require.NoError(t, err)
	router := setupRouter(NewHandler(catalog))

	req := httptest.NewRequest(http.MethodPost, "/references/refresh", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(2), source.calls.Load())
	var data Data
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	assert.Len(t, data.Subjects, 1)
}

// TestRefresh_SourceFailure tests the error mapping of a failed fetch
func TestRefresh_SourceFailure(t *testing.T) {
	source := &fakeSource{failOn: "nuclei"}
	router := setupRouter(NewHandler(NewCatalog(source, newCache(t), time.Minute, zerolog.Nop())))

	req := httptest.NewRequest(http.MethodPost, "/references/refresh", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
