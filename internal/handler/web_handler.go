// Package handler provides the HTTP layer for Zettel.
package handler

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/prn-tf/zettel-notes/internal/config"
	"github.com/prn-tf/zettel-notes/internal/domain"
	"github.com/prn-tf/zettel-notes/internal/i18n"
	"github.com/prn-tf/zettel-notes/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// WebHandler serves the HTML surface: signup, login, and the note list.
type WebHandler struct {
	users     *service.UserService
	sessions  *service.SessionService
	notes     *service.NoteService
	bundle    *i18n.Bundle
	session   config.SessionConfig
	locale    config.LocaleConfig
	templates *template.Template
	logger    zerolog.Logger
}

// WebConfig contains configuration for the web handler.
type WebConfig struct {
	UserService    *service.UserService
	SessionService *service.SessionService
	NoteService    *service.NoteService
	Bundle         *i18n.Bundle
	Session        config.SessionConfig
	Locale         config.LocaleConfig
	Logger         zerolog.Logger
}

// NewWebHandler creates a new web handler.
func NewWebHandler(cfg WebConfig) (*WebHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &WebHandler{
		users:     cfg.UserService,
		sessions:  cfg.SessionService,
		notes:     cfg.NoteService,
		bundle:    cfg.Bundle,
		session:   cfg.Session,
		locale:    cfg.Locale,
		templates: tmpl,
		logger:    cfg.Logger.With().Str("handler", "web").Logger(),
	}, nil
}

// =============================================================================
// Template Data Structs
// =============================================================================

// PageData contains common page data.
type PageData struct {
	Title   string
	Message string
}

// SignupPageData contains signup page data.
type SignupPageData struct {
	PageData
	SignupTitle string
	Signup      string
	Login       string
	Username    string
	Password    string
}

// LoginPageData contains login page data.
type LoginPageData struct {
	PageData
	LoginTitle string
	Login      string
	Signup     string
	Username   string
	Password   string
}

// HomePageData contains the note list page data.
type HomePageData struct {
	PageData
	User             string
	Notes            []*domain.Note
	Logout           string
	NewNote          string
	PlaceholderTitle string
	PlaceholderNote  string
	Add              string
	Delete           string
	DeleteAll        string
}

// =============================================================================
// Route Registration
// =============================================================================

// RegisterRoutes registers all web routes.
// Protected routes sit behind the RequireSession gate.
func (h *WebHandler) RegisterRoutes(r chi.Router) {
	r.Get("/signup", h.handleSignupPage)
	r.Get("/signup-fail", h.handleSignupFail)
	r.Post("/signup", h.handleSignup)

	r.Get("/login", h.handleLoginPage)
	r.Get("/login-fail", h.handleLoginFail)
	r.Post("/login", h.handleLogin)

	r.Get("/lng/{lang}", h.handleLanguage)

	r.Group(func(r chi.Router) {
		r.Use(RequireSession(h.sessions, h.session.CookieName))

		r.Get("/logout", h.handleLogout)
		r.Get("/", h.handleHome)
		r.Post("/", h.handleCreateNote)
		r.Post("/delete/{id}", h.handleDeleteNote)
		r.Post("/delete_all", h.handleDeleteAll)
	})
}

// =============================================================================
// Signup Handlers
// =============================================================================

func (h *WebHandler) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	h.renderSignup(w, r, "")
}

func (h *WebHandler) handleSignupFail(w http.ResponseWriter, r *http.Request) {
	lang := h.bundle.Language(r, h.locale.CookieName)
	h.renderSignup(w, r, h.bundle.T(lang, "signup-fail"))
}

func (h *WebHandler) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/signup-fail", http.StatusFound)
		return
	}

	_, err := h.users.Signup(r.Context(), service.SignupInput{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	})
	if err != nil {
		if errors.Is(err, service.ErrInternalError) {
			h.renderServerError(w, r)
			return
		}
		// Duplicate username or invalid credentials shape.
		http.Redirect(w, r, "/signup-fail", http.StatusFound)
		return
	}

	// Signup does not establish a session; the user logs in next.
	http.Redirect(w, r, "/login", http.StatusFound)
}

// =============================================================================
// Login / Logout Handlers
// =============================================================================

func (h *WebHandler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	// Visiting the login page while authenticated switches the client
	// back to anonymous.
	if cookie, err := r.Cookie(h.session.CookieName); err == nil {
		h.sessions.Logout(r.Context(), cookie.Value)
		h.clearSessionCookie(w)
	}

	h.renderLogin(w, r, "")
}

func (h *WebHandler) handleLoginFail(w http.ResponseWriter, r *http.Request) {
	lang := h.bundle.Language(r, h.locale.CookieName)
	h.renderLogin(w, r, h.bundle.T(lang, "login-fail"))
}

func (h *WebHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/login-fail", http.StatusFound)
		return
	}

	output, err := h.sessions.Login(r.Context(), service.LoginInput{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	})
	if err != nil {
		if errors.Is(err, service.ErrInternalError) {
			h.renderServerError(w, r)
			return
		}
		// User not found or wrong password: one generic failure page,
		// we do not reveal which.
		http.Redirect(w, r, "/login-fail", http.StatusFound)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.session.CookieName,
		Value:    output.Session.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.session.CookieSecure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.session.CookieMaxAge / time.Second),
	})

	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *WebHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.session.CookieName); err == nil {
		h.sessions.Logout(r.Context(), cookie.Value)
	}

	h.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *WebHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.session.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// =============================================================================
// Note Handlers
// =============================================================================

func (h *WebHandler) handleHome(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	notes, err := h.notes.ListByAuthor(r.Context(), user.Username)
	if err != nil {
		h.logger.Error().Err(err).Str("username", user.Username).Msg("failed to list notes")
		h.renderServerError(w, r)
		return
	}

	h.renderHome(w, r, user.Username, notes, "")
}

func (h *WebHandler) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	_, err := h.notes.Create(r.Context(), service.CreateNoteInput{
		Title:  r.FormValue("title"),
		Body:   r.FormValue("body"),
		Author: user.Username,
	})
	if err != nil {
		if domain.IsValidationError(err) {
			// Validation failures re-render the page with a message;
			// the request pipeline continues normally.
			notes, listErr := h.notes.ListByAuthor(r.Context(), user.Username)
			if listErr != nil {
				h.renderServerError(w, r)
				return
			}
			h.renderHome(w, r, user.Username, notes, h.validationMessage(r, err))
			return
		}
		h.logger.Error().Err(err).Str("username", user.Username).Msg("failed to create note")
		h.renderServerError(w, r)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *WebHandler) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid note ID", http.StatusBadRequest)
		return
	}

	// Delete is scoped to the owner; a missing (or foreign) note is a
	// best-effort no-op rather than an error page.
	if err := h.notes.Delete(r.Context(), id, user.Username); err != nil {
		if !errors.Is(err, domain.ErrNoteNotFound) {
			h.logger.Error().Err(err).Int64("note_id", id).Msg("failed to delete note")
			h.renderServerError(w, r)
			return
		}
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *WebHandler) handleDeleteAll(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if _, err := h.notes.DeleteAll(r.Context(), user.Username); err != nil {
		h.logger.Error().Err(err).Str("username", user.Username).Msg("failed to delete all notes")
		h.renderServerError(w, r)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// =============================================================================
// Locale Handler
// =============================================================================

func (h *WebHandler) handleLanguage(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	if h.bundle.Supported(lang) {
		http.SetCookie(w, &http.Cookie{
			Name:   h.locale.CookieName,
			Value:  lang,
			Path:   "/",
			MaxAge: int(h.locale.CookieMaxAge / time.Second),
		})
		h.logger.Info().Str("lang", lang).Msg("switched language")
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// =============================================================================
// Rendering Helpers
// =============================================================================

func (h *WebHandler) renderSignup(w http.ResponseWriter, r *http.Request, message string) {
	lang := h.bundle.Language(r, h.locale.CookieName)
	data := SignupPageData{
		PageData: PageData{
			Title:   h.bundle.T(lang, "app-title"),
			Message: message,
		},
		SignupTitle: h.bundle.T(lang, "signup-title"),
		Signup:      h.bundle.T(lang, "signup-button"),
		Login:       h.bundle.T(lang, "login-button"),
		Username:    h.bundle.T(lang, "username-placeholder"),
		Password:    h.bundle.T(lang, "password-placeholder"),
	}
	h.render(w, "signup.html", data)
}

func (h *WebHandler) renderLogin(w http.ResponseWriter, r *http.Request, message string) {
	lang := h.bundle.Language(r, h.locale.CookieName)
	data := LoginPageData{
		PageData: PageData{
			Title:   h.bundle.T(lang, "app-title"),
			Message: message,
		},
		LoginTitle: h.bundle.T(lang, "login-title"),
		Login:      h.bundle.T(lang, "login-button"),
		Signup:     h.bundle.T(lang, "signup-button"),
		Username:   h.bundle.T(lang, "username-placeholder"),
		Password:   h.bundle.T(lang, "password-placeholder"),
	}
	h.render(w, "login.html", data)
}

func (h *WebHandler) renderHome(w http.ResponseWriter, r *http.Request, username string, notes []*domain.Note, message string) {
	lang := h.bundle.Language(r, h.locale.CookieName)
	data := HomePageData{
		PageData: PageData{
			Title:   h.bundle.T(lang, "app-title"),
			Message: message,
		},
		User:             username,
		Notes:            notes,
		Logout:           h.bundle.T(lang, "logout-button"),
		NewNote:          h.bundle.T(lang, "new-note"),
		PlaceholderTitle: h.bundle.T(lang, "placeholder-title"),
		PlaceholderNote:  h.bundle.T(lang, "placeholder-note"),
		Add:              h.bundle.T(lang, "add-note-button"),
		Delete:           h.bundle.T(lang, "delete-note-button"),
		DeleteAll:        h.bundle.T(lang, "delete-all-button"),
	}
	h.render(w, "home.html", data)
}

// validationMessage maps a note validation error to its localized message.
func (h *WebHandler) validationMessage(r *http.Request, err error) string {
	lang := h.bundle.Language(r, h.locale.CookieName)
	switch {
	case errors.Is(err, domain.ErrDuplicateTitle):
		return h.bundle.T(lang, "note-exists")
	case errors.Is(err, domain.ErrTitleTooLong), errors.Is(err, domain.ErrTitleRequired):
		return h.bundle.T(lang, "title-bounds")
	case errors.Is(err, domain.ErrNoteBodyTooLong), errors.Is(err, domain.ErrBodyRequired):
		return h.bundle.T(lang, "note-bounds")
	default:
		return err.Error()
	}
}

func (h *WebHandler) render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error().Err(err).Str("template", name).Msg("failed to render template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *WebHandler) renderServerError(w http.ResponseWriter, r *http.Request) {
	lang := h.bundle.Language(r, h.locale.CookieName)
	http.Error(w, h.bundle.T(lang, "server-error"), http.StatusInternalServerError)
}
