package server

import (
	"html"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/campuslab/campusite/internal/store"
)

var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// ContactHandler records contact form submissions.
type ContactHandler struct {
	Store  *store.Store
	Logger *log.Logger
}

func (h *ContactHandler) Register(e *echo.Echo) {
	e.POST("/contact", h.submit)
}

func (h *ContactHandler) submit(c echo.Context) error {
	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, ContactResponse{Success: false, Message: "Please fill all fields!"})
	}

	sub := store.ContactSubmission{
		FirstName: html.EscapeString(strings.TrimSpace(req.FirstName)),
		LastName:  html.EscapeString(strings.TrimSpace(req.LastName)),
		Email:     html.EscapeString(strings.TrimSpace(req.Email)),
		Message:   html.EscapeString(strings.TrimSpace(req.Message)),
	}

	if sub.FirstName == "" || sub.LastName == "" || sub.Email == "" || sub.Message == "" {
		return c.JSON(http.StatusOK, ContactResponse{Success: false, Message: "Please fill all fields!"})
	}
	if !emailPattern.MatchString(sub.Email) {
		return c.JSON(http.StatusOK, ContactResponse{Success: false, Message: "Please enter a valid email address."})
	}

	if err := h.Store.InsertContact(c.Request().Context(), sub); err != nil {
		h.Logger.Printf("failed to save contact submission: %v", err)
		return c.JSON(http.StatusOK, ContactResponse{Success: false, Message: "Error saving message. Try again later."})
	}
	return c.JSON(http.StatusOK, ContactResponse{Success: true, Message: "Thank you! Your message has been submitted."})
}
