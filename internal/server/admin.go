package server

import (
	"crypto/subtle"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/campuslab/campusite/config"
	"github.com/campuslab/campusite/internal/runtime"
	"github.com/campuslab/campusite/internal/store"
)

const authTokenTTL = 12 * time.Hour

// AdminHandler serves the admin login and dashboard API.
type AdminHandler struct {
	Cfg    *config.Config
	Store  *store.Store
	Logger *log.Logger
}

func (h *AdminHandler) Register(e *echo.Echo) {
	e.POST("/login", h.login)
	e.POST("/logout", h.logout)

	g := e.Group("/dashboard", runtime.EchoAuthMiddleware([]byte(h.Cfg.General.JWTSecret)))
	g.GET("", h.dashboard)
}

func (h *AdminHandler) login(c echo.Context) error {
	var req AdminLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if !h.credentialsValid(req.Username, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
	}

	tok, err := runtime.SignJWT(req.Username, []byte(h.Cfg.General.JWTSecret), authTokenTTL)
	if err != nil {
		h.Logger.Printf("token signing failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}
	c.SetCookie(&http.Cookie{
		Name: "auth", Value: tok,
		Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode,
		Expires: time.Now().Add(authTokenTTL),
	})
	return c.JSON(http.StatusOK, map[string]any{"success": true, "token": tok})
}

func (h *AdminHandler) logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{Name: "auth", Value: "", Path: "/", MaxAge: -1})
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// credentialsValid accepts either a bcrypt hash or a plaintext dev password
// in the configuration.
func (h *AdminHandler) credentialsValid(username, password string) bool {
	site := h.Cfg.Site
	if site.AdminUsername == "" || site.AdminPassword == "" {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(site.AdminUsername)) != 1 {
		return false
	}
	if strings.HasPrefix(site.AdminPassword, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(site.AdminPassword), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(site.AdminPassword)) == 1
}

func (h *AdminHandler) dashboard(c echo.Context) error {
	contacts, err := h.Store.CountContacts(c.Request().Context())
	if err != nil {
		h.Logger.Printf("contact count failed: %v", err)
		contacts = 0
	}
	return c.JSON(http.StatusOK, map[string]any{
		"notifications": []map[string]string{
			{"type": "Announcement", "title": "Happy Ganesh Chaturthi!", "message": "May this festival bring wisdom, strength, and joy to the whole campus.", "date": "2025-09-01"},
			{"type": "Event", "title": "NSS E-Waste Collection Drive", "message": "Old mobiles, chargers, batteries, wires? Bring them to Wing A, near Admin. Ongoing.", "date": "2025-09-02"},
			{"type": "Competition", "title": "WebWay Full Stack Competition", "message": "Participate now! Don't miss out!", "date": "2025-09-05"},
		},
		"events": []map[string]string{
			{"name": "Robotics Workshop", "date": "2025-09-10", "time": "10:00 AM - 4:00 PM", "venue": "Lab 101"},
			{"name": "Annual Tech Fest", "date": "2025-09-20", "time": "9:00 AM - 6:00 PM", "venue": "Main Auditorium"},
			{"name": "Cultural Night", "date": "2025-09-25", "time": "6:00 PM - 10:00 PM", "venue": "Open Ground"},
		},
		"top_students": []map[string]string{
			{"name": "Alice Sharma", "event": "Robotics Winner", "photo": "https://randomuser.me/api/portraits/women/65.jpg"},
			{"name": "Priya Singh", "event": "Chess Champion", "photo": "https://randomuser.me/api/portraits/men/75.jpg"},
			{"name": "Neha Patil", "event": "Dance Competition", "photo": "https://randomuser.me/api/portraits/women/45.jpg"},
		},
		"achievements": []map[string]string{
			{"title": "Robotics Club", "desc": "Won 1st place in inter-college robotics competition"},
			{"title": "Debate Team", "desc": "Secured 2nd position at National Debate Championship"},
			{"title": "Eco Club", "desc": "Organized successful tree plantation drive across campus"},
		},
		"stats": map[string]int{
			"Active Activities":   60,
			"Student Members":     2100,
			"Annual Fests":        22,
			"Contact Submissions": contacts,
		},
	})
}
