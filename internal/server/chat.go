package server

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campuslab/campusite/internal/chat"
	"github.com/campuslab/campusite/internal/store"
)

const sessionCookieName = "session_id"

// ChatHandler exposes the chatbot pipeline and transcript endpoints.
type ChatHandler struct {
	Service *chat.Service
	Store   *store.Store
	Logger  *log.Logger
}

func (h *ChatHandler) Register(e *echo.Echo) {
	e.POST("/chat", h.chat)
	e.GET("/chat_history", h.history)
	e.POST("/clear_chat", h.clear)
}

func (h *ChatHandler) chat(c echo.Context) error {
	sessionID, created := chat.ResolveSession(
		c.Request().Header.Get("Session-Id"),
		sessionCookie(c),
		c.RealIP(),
		time.Now(),
	)
	if created {
		// hand the fresh id back so the client can reuse it
		c.Response().Header().Set("Session-Id", sessionID)
		c.SetCookie(&http.Cookie{
			Name: sessionCookieName, Value: sessionID,
			Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode,
		})
	}

	var req ChatRequest
	// a malformed body behaves like an empty message, not a 400
	_ = c.Bind(&req)

	reply, err := h.Service.Handle(c.Request().Context(), chat.Request{
		SessionID:  sessionID,
		ClientAddr: c.RealIP(),
		Message:    req.Message,
	})
	if errors.Is(err, chat.ErrRateLimited) {
		return c.JSON(http.StatusTooManyRequests, ChatResponse{Reply: reply})
	}
	return c.JSON(http.StatusOK, ChatResponse{Reply: reply})
}

func (h *ChatHandler) history(c echo.Context) error {
	sessionID := resolveExisting(c)
	if sessionID == "" {
		return c.JSON(http.StatusOK, HistoryResponse{History: []store.Turn{}})
	}
	turns, err := h.Store.History(c.Request().Context(), sessionID)
	if err != nil {
		h.Logger.Printf("history read failed for session %s: %v", sessionID, err)
		return c.JSON(http.StatusOK, HistoryResponse{History: []store.Turn{}})
	}
	return c.JSON(http.StatusOK, HistoryResponse{History: turns})
}

func (h *ChatHandler) clear(c echo.Context) error {
	sessionID := resolveExisting(c)
	if sessionID == "" {
		return c.JSON(http.StatusOK, ClearResponse{Success: true})
	}
	if err := h.Store.ClearHistory(c.Request().Context(), sessionID); err != nil {
		h.Logger.Printf("failed to clear chat for session %s: %v", sessionID, err)
		return c.JSON(http.StatusOK, ClearResponse{Success: false})
	}
	h.Logger.Printf("cleared chat history for session %s", sessionID)
	return c.JSON(http.StatusOK, ClearResponse{Success: true})
}

// resolveExisting returns the session carried by the request, never
// synthesizing a new one. History and clear are no-ops for fresh clients.
func resolveExisting(c echo.Context) string {
	if s := strings.TrimSpace(c.Request().Header.Get("Session-Id")); s != "" {
		return s
	}
	return sessionCookie(c)
}

func sessionCookie(c echo.Context) string {
	if ck, err := c.Cookie(sessionCookieName); err == nil {
		return strings.TrimSpace(ck.Value)
	}
	return ""
}
