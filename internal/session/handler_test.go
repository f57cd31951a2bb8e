package session

import (
	"alizia-planner/internal/domain"
	apperrors "alizia-planner/internal/errors"
	"alizia-planner/internal/middleware"
	"alizia-planner/internal/reference"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mock implementation of the Service interface
type MockService struct {
	mock.Mock
}

func (m *MockService) Open(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockService) Close() {
	m.Called()
}

func (m *MockService) Snapshot() View {
	args := m.Called()
	return args.Get(0).(View)
}

func (m *MockService) Notices() []Notice {
	args := m.Called()
	if args.Get(0) == nil {
		return []Notice{}
	}
	return args.Get(0).([]Notice)
}

func (m *MockService) Send(ctx context.Context, text string) (domain.ChatMessage, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(domain.ChatMessage), args.Error(1)
}

func (m *MockService) Rename(ctx context.Context, name string) (*domain.Document, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockService) RenameClass(ctx context.Context, subjectID int64, classNumber int, title string) (*domain.Document, error) {
	args := m.Called(ctx, subjectID, classNumber, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockService) Generate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockService) Publish(ctx context.Context) (*domain.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockService) Wait(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockReferences struct {
	mock.Mock
}

func (m *MockReferences) Load(ctx context.Context) (*reference.Data, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reference.Data), args.Error(1)
}

func setupRouter(handler *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler(zerolog.Nop()))
	router.POST("/sessions/:kind/open/:id", handler.Open)
	router.DELETE("/sessions/:kind", handler.Close)
	router.GET("/sessions/:kind", handler.Show)
	router.POST("/sessions/:kind/chat", handler.Chat)
	router.PATCH("/sessions/:kind/name", handler.Rename)
	router.PATCH("/sessions/:kind/classes", handler.RenameClass)
	router.POST("/sessions/:kind/generate", handler.Generate)
	router.POST("/sessions/:kind/publish", handler.Publish)
	return router
}

func newHandlerWithMocks() (*Handler, *MockService, *MockService, *MockReferences) {
	coordination := new(MockService)
	plans := new(MockService)
	refs := new(MockReferences)
	handler := NewHandler(map[domain.Kind]Service{
		domain.KindCoordination: coordination,
		domain.KindLessonPlan:   plans,
	}, refs, zerolog.Nop())
	return handler, coordination, plans, refs
}

func doJSON(router *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestOpen_Success tests opening a coordination document
func TestOpen_Success(t *testing.T) {
	handler, coordination, _, _ := newHandlerWithMocks()
	router := setupRouter(handler)

	doc := coordinationDoc(3, "Proyectos")
	coordination.On("Open", mock.Anything, int64(3)).Return(nil)
	coordination.On("Snapshot").Return(View{Kind: domain.KindCoordination, State: StateReady, Version: 1, Document: doc})
	coordination.On("Notices").Return(nil)

	w := doJSON(router, http.MethodPost, "/sessions/coordination/open/3", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp SnapshotResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, StateReady, resp.State)
	require.NotNil(t, resp.Coordination)
	assert.Equal(t, "01/03/2025", resp.Coordination.StartDate)
	assert.Len(t, resp.Coordination.Unassigned, 1)
	assert.Nil(t, resp.LessonPlan)
	coordination.AssertExpectations(t)
}

// TestOpen_NotFoundStatus tests the error mapping when the document does not exist
func TestOpen_NotFoundStatus(t *testing.T) {
	handler, coordination, _, _ := newHandlerWithMocks()
	router := setupRouter(handler)

	coordination.On("Open", mock.Anything, int64(9)).Return(apperrors.NotFound("document not found", nil))

	w := doJSON(router, http.MethodPost, "/sessions/coordination/open/9", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.NoticeNotFound)
}

// TestOpen_InvalidID tests a malformed document id
func TestOpen_InvalidID(t *testing.T) {
	handler, coordination, _, _ := newHandlerWithMocks()
	router := setupRouter(handler)

	w := doJSON(router, http.MethodPost, "/sessions/coordination/open/abc", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	coordination.AssertNotCalled(t, "Open", mock.Anything, mock.Anything)
}

// TestShow_UnknownKind tests a kind that has no session
func TestShow_UnknownKind(t *testing.T) {
	handler, _, _, _ := newHandlerWithMocks()
	router := setupRouter(handler)

	w := doJSON(router, http.MethodGet, "/sessions/syllabus", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestShow_LessonPlanResolvesNames tests the lesson plan projection
func TestShow_LessonPlanResolvesNames(t *testing.T) {
	handler, _, plans, refs := newHandlerWithMocks()
	router := setupRouter(handler)

	plan := lessonPlan(4, true)
	plan.Moments.Apertura.Activities = []int64{8}
	plans.On("Snapshot").Return(View{Kind: domain.KindLessonPlan, State: StateReady, Document: plan})
	plans.On("Notices").Return([]Notice{{Message: apperrors.NoticeGenerateFailed}})
	refs.On("Load", mock.Anything).Return(&reference.Data{
		Categories: []domain.Category{{ID: 1, Name: "Números"}},
		Activities: []domain.Activity{{ID: 8, Name: "Lluvia de ideas"}},
	}, nil)

	w := doJSON(router, http.MethodGet, "/sessions/lesson-plan", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp SnapshotResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.LessonPlan)
	assert.Equal(t, []string{"Números"}, resp.LessonPlan.Categories)
	assert.Equal(t, []string{"Lluvia de ideas"}, resp.LessonPlan.Moments[0].Activities)
	require.Len(t, resp.Notices, 1)
	assert.Equal(t, apperrors.NoticeGenerateFailed, resp.Notices[0].Message)
	assert.NotNil(t, resp.Chat)
}

// TestShow_LessonPlanWithoutReferences tests the id fallbacks
func TestShow_LessonPlanWithoutReferences(t *testing.T) {
	handler, _, plans, refs := newHandlerWithMocks()
	router := setupRouter(handler)

	plans.On("Snapshot").Return(View{Kind: domain.KindLessonPlan, State: StateReady, Document: lessonPlan(4, true)})
	plans.On("Notices").Return(nil)
	refs.On("Load", mock.Anything).Return(nil, apperrors.Network("unreachable", nil))

	w := doJSON(router, http.MethodGet, "/sessions/lesson_plan", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp SnapshotResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Cat 1"}, resp.LessonPlan.Categories)
}

// TestRender_WithoutLoader tests rendering with no reference source at all
func TestRender_WithoutLoader(t *testing.T) {
	plans := new(MockService)
	plans.On("Snapshot").Return(View{Kind: domain.KindLessonPlan, State: StateReady, Document: lessonPlan(4, true)})
	plans.On("Notices").Return(nil)

	resp := Render(context.Background(), plans, nil, zerolog.Nop())

	require.NotNil(t, resp.LessonPlan)
	assert.Nil(t, resp.Coordination)
	assert.Equal(t, []string{"Cat 1"}, resp.LessonPlan.Categories)
	assert.NotNil(t, resp.Chat)
	assert.Empty(t, resp.Notices)
	plans.AssertExpectations(t)
}

// TestClose_Success tests closing the session
func TestClose_Success(t *testing.T) {
	handler, coordination, _, _ := newHandlerWithMocks()
	router := setupRouter(handler)

	coordination.On("Close").Return()

	w := doJSON(router, http.MethodDelete, "/sessions/coordination", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	coordination.AssertExpectations(t)
}

// TestChat_Success tests sending a chat message
func TestChat_Success(t *testing.T) {
	handler, coordination, _, _ := newHandlerWithMocks()
	router := setupRouter(handler)

	reply := domain.NewChatMessage(domain.RoleAssistant, "Hecho")
	coordination.On("Send", mock.Anything, "Agregá una clase").Return(reply, nil)

	w := doJSON(router, http.MethodPost, "/sessions/coordination/chat", ChatRequest{Message: "Agregá una clase"})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Hecho", resp.Reply.Content)
	assert.False(t, resp.Failed)
}

// TestChat_FailureReturnsFixedReply tests that a failed send still answers
func TestChat_FailureReturnsFixedReply(t *testing.T) {
	handler, coordination, _, _ := newHandlerWithMocks()
	router := setupRouter(handler)

	reply := domain.NewChatMessage(domain.RoleAssistant, "Error al procesar el mensaje")
	coordination.On("Send", mock.Anything, "Hola").Return(reply, &ChatError{Err: apperrors.Network("timeout", nil)})

	w := doJSON(router, http.MethodPost, "/sessions/coordination/chat", ChatRequest{Message: "Hola"})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Failed)
	assert.Equal(t, "Error al procesar el mensaje", resp.Reply.Content)
}

// TestChat_Busy tests the rejection while a generation runs
func TestChat_Busy(t *testing.T) {
	handler, coordination, _, _ := newHandlerWithMocks()
	router := setupRouter(handler)

	coordination.On("Send", mock.Anything, "Hola").Return(domain.ChatMessage{}, ErrBusy)

	w := doJSON(router, http.MethodPost, "/sessions/coordination/chat", ChatRequest{Message: "Hola"})

	assert.Equal(t, http.StatusConflict, w.Code)
}

// TestChat_InvalidInput tests a missing message
func TestChat_InvalidInput(t *testing.T) {
	handler, coordination, _, _ := newHandlerWithMocks()
	router := setupRouter(handler)

	w := doJSON(router, http.MethodPost, "/sessions/coordination/chat", struct{}{})

	// 422 for validation errors (missing message)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	coordination.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

// TestRename_Success tests renaming the open document
func TestRename_Success(t *testing.T) {
	handler, coordination, _, _ := newHandlerWithMocks()
	router := setupRouter(handler)

	doc := coordinationDoc(3, "Proyectos")
	doc.Name = "Nuevo"
	coordination.On("Rename", mock.Anything, "Nuevo").Return(doc, nil)

	w := doJSON(router, http.MethodPatch, "/sessions/coordination/name", RenameRequest{Name: "Nuevo"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Nuevo"`)
}

// TestRenameClass_Success tests renaming a class
func TestRenameClass_Success(t *testing.T) {
	handler, coordination, _, _ := newHandlerWithMocks()
	router := setupRouter(handler)

	coordination.On("RenameClass", mock.Anything, int64(10), 2, "Porcentajes").Return(coordinationDoc(3, "Proyectos"), nil)

	w := doJSON(router, http.MethodPatch, "/sessions/coordination/classes", RenameClassRequest{SubjectID: 10, ClassNumber: 2, Title: "Porcentajes"})

	assert.Equal(t, http.StatusOK, w.Code)
	coordination.AssertExpectations(t)
}

// TestRenameClass_InvalidInput tests a missing subject
func TestRenameClass_InvalidInput(t *testing.T) {
	handler, _, _, _ := newHandlerWithMocks()
	router := setupRouter(handler)

	w := doJSON(router, http.MethodPatch, "/sessions/coordination/classes", map[string]any{"class_number": 2})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

// TestGenerate_Accepted tests starting a regeneration
func TestGenerate_Accepted(t *testing.T) {
	handler, _, plans, refs := newHandlerWithMocks()
	router := setupRouter(handler)

	plans.On("Generate", mock.Anything).Return(nil)
	plans.On("Snapshot").Return(View{Kind: domain.KindLessonPlan, State: StateNeedsGeneration, Busy: true, Document: lessonPlan(4, false)})
	plans.On("Notices").Return(nil)
	refs.On("Load", mock.Anything).Return(&reference.Data{}, nil)

	w := doJSON(router, http.MethodPost, "/sessions/lesson-plan/generate", nil)

	assert.Equal(t, http.StatusAccepted, w.Code)
	var resp SnapshotResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Busy)
	assert.Equal(t, StateNeedsGeneration, resp.State)
}

// TestPublish_AlreadyPublished tests the one-way status rule
func TestPublish_AlreadyPublished(t *testing.T) {
	handler, coordination, _, _ := newHandlerWithMocks()
	router := setupRouter(handler)

	coordination.On("Publish", mock.Anything).Return(nil, apperrors.UnprocessableEntity("El documento ya está publicado", nil))

	w := doJSON(router, http.MethodPost, "/sessions/coordination/publish", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

// TestPublish_Success tests publishing the open document
func TestPublish_Success(t *testing.T) {
	handler, coordination, _, _ := newHandlerWithMocks()
	router := setupRouter(handler)

	doc := coordinationDoc(3, "Proyectos")
	doc.Status = domain.StatusPublished
	coordination.On("Publish", mock.Anything).Return(doc, nil)

	w := doJSON(router, http.MethodPost, "/sessions/coordination/publish", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"published"`)
}
