package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/phamduyan/tutorvoice/domain/repositories"
	"github.com/phamduyan/tutorvoice/usecase"
)

// Handler owns the HTTP surface. All collaborators are injected so tests can
// substitute mock adapters.
type Handler struct {
	conversations *usecase.ConversationService
	store         repositories.SessionStore
	tts           repositories.TextToSpeech
	logger        *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(
	conversations *usecase.ConversationService,
	store repositories.SessionStore,
	tts repositories.TextToSpeech,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		conversations: conversations,
		store:         store,
		tts:           tts,
		logger:        logger,
	}
}

// Register initializes all API routes
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.health)
	e.GET("/", h.index)

	api := e.Group("/api")
	api.POST("/process-audio", h.processAudio)
	api.POST("/process-text", h.processText)
	api.POST("/session", h.createSession)
	api.GET("/session/:id", h.getSession)
	api.DELETE("/session/:id", h.deleteSession)
}

func (h *Handler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "tutorvoice",
	})
}

// index returns the session list and voice catalog the frontend renders.
func (h *Handler) index(c echo.Context) error {
	sessions, err := h.store.GetAllSessions(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, IndexResponse{
		Sessions: sessions,
		Voices:   h.tts.Voices(),
	})
}

func (h *Handler) processAudio(c echo.Context) error {
	file, err := c.FormFile("audio")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "audio file is required"})
	}
	if file.Size == 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "audio file is empty"})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read audio upload"})
	}
	defer src.Close()

	sessionRef := c.FormValue("session_id")
	voice := c.FormValue("voice")

	turn, err := h.conversations.ProcessAudio(c.Request().Context(), sessionRef, file.Filename, src, voice)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, TurnResponse{
		Success:           true,
		SessionID:         turn.SessionID,
		UserText:          turn.UserText,
		AssistantResponse: turn.AssistantText,
		AudioURL:          turn.AudioURL,
	})
}

func (h *Handler) processText(c echo.Context) error {
	var req ProcessTextRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if req.Text == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "text is required"})
	}

	turn, err := h.conversations.ProcessText(c.Request().Context(), req.SessionID, req.Text, req.Voice)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, TurnResponse{
		Success:           true,
		SessionID:         turn.SessionID,
		UserText:          turn.UserText,
		AssistantResponse: turn.AssistantText,
		AudioURL:          turn.AudioURL,
	})
}

func (h *Handler) createSession(c echo.Context) error {
	var req CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	ctx := c.Request().Context()
	id, err := h.store.CreateSession(ctx, req.Title)
	if err != nil {
		return h.fail(c, err)
	}

	session, err := h.store.GetSession(ctx, id)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, SessionCreatedResponse{
		Success:   true,
		SessionID: id,
		Title:     session.Title,
	})
}

func (h *Handler) getSession(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid session id"})
	}

	ctx := c.Request().Context()
	if _, err := h.store.GetSession(ctx, id); err != nil {
		return h.fail(c, err)
	}

	messages, err := h.store.GetSessionHistory(ctx, id)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, SessionHistoryResponse{
		Success:   true,
		SessionID: id,
		Messages:  messages,
	})
}

func (h *Handler) deleteSession(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid session id"})
	}

	if err := h.store.DeleteSession(c.Request().Context(), id); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, SessionDeletedResponse{
		Success: true,
		Message: fmt.Sprintf("deleted session %d", id),
	})
}

// fail maps a fault kind to the HTTP status the client should see.
func (h *Handler) fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch repositories.KindOf(err) {
	case repositories.FaultInvalidInput:
		status = http.StatusBadRequest
	case repositories.FaultNotFound:
		status = http.StatusNotFound
	case repositories.FaultNoSpeech:
		status = http.StatusUnprocessableEntity
	case repositories.FaultUpstream:
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.Error(err))
	} else {
		h.logger.Warn("Request rejected", zap.Int("status", status), zap.Error(err))
	}

	return c.JSON(status, ErrorResponse{Error: err.Error()})
}
