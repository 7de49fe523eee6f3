package handlers

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"sparrow-backend/internal/llm"
	"sparrow-backend/internal/models"
	"sparrow-backend/internal/services"
	"sparrow-backend/internal/session"
)

type SessionsHandler struct {
	svc *services.WorkspaceService
}

func NewSessionsHandler(svc *services.WorkspaceService) *SessionsHandler {
	return &SessionsHandler{svc: svc}
}

// CreateSession godoc
// @Summary     Start a chat session
// @Description Creates a chat session together with a starter project (index.html, styles.css, script.js).
// @Tags        sessions
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.CreateSessionRequest false "Project name (optional)"
// @Success     201 {object} models.SessionResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /sessions [post]
func (h *SessionsHandler) CreateSession(c *gin.Context) {
	var req models.CreateSessionRequest
	// body is optional
	_ = c.ShouldBindJSON(&req)

	chat, project, err := h.svc.CreateSession(c.Request.Context(), strings.TrimSpace(req.ProjectName))
	if err != nil {
		respondError(c, err, "create session")
		return
	}
	c.JSON(http.StatusCreated, models.SessionResponse{Session: chat, Project: project})
}

// ListSessions godoc
// @Summary     List chat sessions
// @Description Lists stored chat sessions, most recently active first.
// @Tags        sessions
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.SessionListResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /sessions [get]
func (h *SessionsHandler) ListSessions(c *gin.Context) {
	list, err := h.svc.ListSessions(c.Request.Context())
	if err != nil {
		respondError(c, err, "list sessions")
		return
	}
	c.JSON(http.StatusOK, models.SessionListResponse{Sessions: list})
}

// GetSession godoc
// @Summary     Get a chat session
// @Description Returns the transcript and the current project of a session.
// @Tags        sessions
// @Produce     json
// @Security    Bearer
// @Param       session_id path string true "Session ID"
// @Success     200 {object} models.SessionResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /sessions/{session_id} [get]
func (h *SessionsHandler) GetSession(c *gin.Context) {
	chat, project, err := h.svc.GetSession(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		respondError(c, err, "get session")
		return
	}
	c.JSON(http.StatusOK, models.SessionResponse{Session: chat, Project: project})
}

// SendMessage godoc
// @Summary     Send a chat message
// @Description Runs one chat turn. Rate limits are retried with backoff; a failed turn still answers 200 with outcome "fatal_error" and an apology reply, and leaves the project untouched.
// @Tags        sessions
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       session_id path string true "Session ID"
// @Param       request body models.SendMessageRequest true "Message text and optional image"
// @Success     200 {object} models.TurnResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /sessions/{session_id}/messages [post]
func (h *SessionsHandler) SendMessage(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	in := session.Input{Text: req.Text}
	if req.Image != nil {
		img, err := decodeImage(req.Image)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid image", Message: err.Error()})
			return
		}
		in.Image = img
	}

	turn, project, err := h.svc.SendMessage(c.Request.Context(), c.Param("session_id"), in)
	if err != nil {
		respondError(c, err, "send message")
		return
	}
	c.JSON(http.StatusOK, models.TurnResponse{
		Outcome: string(turn.Outcome),
		User:    turn.User,
		Notices: turn.Notices,
		Reply:   turn.Reply,
		Files:   turn.Files,
		Project: project,
	})
}

func decodeImage(a *models.ImageAttachment) (*llm.Image, error) {
	mimeType, data := a.MimeType, a.Data
	if rest, ok := strings.CutPrefix(data, "data:"); ok {
		if head, payload, found := strings.Cut(rest, ","); found {
			data = payload
			if mimeType == "" {
				mimeType = strings.TrimSuffix(head, ";base64")
			}
		}
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(raw)
	}
	return &llm.Image{MimeType: mimeType, Data: raw}, nil
}
