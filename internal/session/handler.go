package session

import (
	"alizia-planner/internal/domain"
	"alizia-planner/internal/errors"
	"alizia-planner/internal/projection"
	"alizia-planner/internal/reference"
	"alizia-planner/internal/utils"
	"context"
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ReferenceLoader provides the names used to render lesson plans.
type ReferenceLoader interface {
	Load(ctx context.Context) (*reference.Data, error)
}

type Handler struct {
	sessions   map[domain.Kind]Service
	references ReferenceLoader
	logger     zerolog.Logger
}

func NewHandler(sessions map[domain.Kind]Service, references ReferenceLoader, logger zerolog.Logger) *Handler {
	return &Handler{sessions: sessions, references: references, logger: logger}
}

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

type RenameRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}

type RenameClassRequest struct {
	SubjectID   int64  `json:"subject_id" binding:"required,gt=0"`
	ClassNumber int    `json:"class_number" binding:"required,gt=0"`
	Title       string `json:"title" binding:"max=255"`
}

// SnapshotResponse is the session view plus the display projections of
// its document.
type SnapshotResponse struct {
	View
	Notices      []Notice                   `json:"notices"`
	Coordination *projection.DocumentView   `json:"coordination,omitempty"`
	LessonPlan   *projection.LessonPlanView `json:"lesson_plan,omitempty"`
}

type ChatResponse struct {
	Reply  domain.ChatMessage `json:"reply"`
	Failed bool               `json:"failed"`
}

func (h *Handler) session(c *gin.Context) (Service, bool) {
	kind, err := domain.ParseKind(c.Param("kind"))
	if err != nil {
		c.Error(errors.NotFound(err.Error(), nil))
		return nil, false
	}
	s, ok := h.sessions[kind]
	if !ok {
		c.Error(errors.NotFound("no session for "+string(kind), nil))
		return nil, false
	}
	return s, true
}

func (h *Handler) Open(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	id, err := utils.ParamID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	if err := s.Open(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, h.snapshot(c.Request.Context(), s))
}

func (h *Handler) Close(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.Close()
	c.Status(http.StatusNoContent)
}

func (h *Handler) Show(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.snapshot(c.Request.Context(), s))
}

func (h *Handler) Chat(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var input ChatRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	reply, err := s.Send(c.Request.Context(), input.Message)
	var chatErr *ChatError
	if stderrors.As(err, &chatErr) {
		// The failure text is the reply the user sees.
		c.JSON(http.StatusOK, ChatResponse{Reply: reply, Failed: true})
		return
	}
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ChatResponse{Reply: reply})
}

func (h *Handler) Rename(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var input RenameRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}
	doc, err := s.Rename(c.Request.Context(), input.Name)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) RenameClass(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var input RenameClassRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}
	doc, err := s.RenameClass(c.Request.Context(), input.SubjectID, input.ClassNumber, input.Title)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) Generate(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Generate(c.Request.Context()); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusAccepted, h.snapshot(c.Request.Context(), s))
}

func (h *Handler) Publish(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	doc, err := s.Publish(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) snapshot(ctx context.Context, s Service) SnapshotResponse {
	return Render(ctx, s, h.references, h.logger)
}

// Render drains the notices of s and builds the display projections of its
// document. Without reference data, lesson plan names fall back to their ids.
func Render(ctx context.Context, s Service, references ReferenceLoader, logger zerolog.Logger) SnapshotResponse {
	resp := SnapshotResponse{View: s.Snapshot(), Notices: s.Notices()}
	if resp.Chat == nil {
		resp.Chat = []domain.ChatMessage{}
	}
	doc := resp.Document
	if doc == nil {
		return resp
	}

	if doc.Kind != domain.KindLessonPlan {
		resp.Coordination = projection.BuildDocumentView(doc)
		return resp
	}

	var categories, activities map[int64]string
	if references != nil {
		data, err := references.Load(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("reference data unavailable")
		} else {
			categories = data.CategoryNames().Map()
			activities = data.ActivityNames().Map()
		}
	}
	resp.LessonPlan = projection.BuildLessonPlanView(doc, categories, activities)
	return resp
}
