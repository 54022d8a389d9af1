package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/zettel-notes/internal/config"
	"github.com/prn-tf/zettel-notes/internal/domain"
	"github.com/prn-tf/zettel-notes/internal/i18n"
	"github.com/prn-tf/zettel-notes/internal/repository"
	"github.com/prn-tf/zettel-notes/internal/service"
	"github.com/prn-tf/zettel-notes/internal/session"
)

// fakeUserRepo is an in-memory repository.UserRepository for handler tests.
type fakeUserRepo struct {
	users  map[string]*domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User), nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	if _, exists := f.users[user.Username]; exists {
		return domain.ErrUserAlreadyExists
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if u, exists := f.users[username]; exists {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, exists := f.users[username]
	return exists, nil
}

func (f *fakeUserRepo) List(ctx context.Context, opts repository.ListOptions) ([]*domain.User, error) {
	var result []*domain.User
	for _, u := range f.users {
		result = append(result, u)
	}
	return result, nil
}

// fakeNoteRepo is an in-memory repository.NoteRepository for handler tests.
type fakeNoteRepo struct {
	notes  []*domain.Note
	nextID int64
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{nextID: 1}
}

func (f *fakeNoteRepo) Create(ctx context.Context, note *domain.Note) error {
	for _, n := range f.notes {
		if n.Author == note.Author && n.Title == note.Title {
			return domain.ErrDuplicateTitle
		}
	}
	note.ID = f.nextID
	f.nextID++
	f.notes = append(f.notes, note)
	return nil
}

func (f *fakeNoteRepo) ListByAuthor(ctx context.Context, author string) ([]*domain.Note, error) {
	var result []*domain.Note
	for _, n := range f.notes {
		if n.Author == author {
			result = append(result, n)
		}
	}
	return result, nil
}

func (f *fakeNoteRepo) ExistsByTitle(ctx context.Context, author, title string) (bool, error) {
	for _, n := range f.notes {
		if n.Author == author && n.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNoteRepo) DeleteByID(ctx context.Context, id int64, author string) error {
	for i, n := range f.notes {
		if n.ID == id && n.Author == author {
			f.notes = append(f.notes[:i], f.notes[i+1:]...)
			return nil
		}
	}
	return domain.ErrNoteNotFound
}

func (f *fakeNoteRepo) DeleteAllByAuthor(ctx context.Context, author string) (int64, error) {
	var kept []*domain.Note
	var count int64
	for _, n := range f.notes {
		if n.Author == author {
			count++
			continue
		}
		kept = append(kept, n)
	}
	f.notes = kept
	return count, nil
}

// fakeHealth always reports healthy.
type fakeHealth struct{}

func (fakeHealth) Ping(ctx context.Context) error { return nil }
func (fakeHealth) Close() error                   { return nil }

// newTestServer wires the full router over fake repositories.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	logger := zerolog.Nop()
	bundle, err := i18n.NewBundle("de")
	require.NoError(t, err)

	sessionCfg := config.SessionConfig{CookieName: "session"}
	localeCfg := config.LocaleConfig{Default: "de", CookieName: "lang"}

	users := service.NewUserService(newFakeUserRepo(), logger)
	sessions := service.NewSessionService(users, session.NewStore(), logger)
	notes := service.NewNoteService(newFakeNoteRepo(), logger)

	web, err := NewWebHandler(WebConfig{
		UserService:    users,
		SessionService: sessions,
		NoteService:    notes,
		Bundle:         bundle,
		Session:        sessionCfg,
		Locale:         localeCfg,
		Logger:         logger,
	})
	require.NoError(t, err)

	return NewRouter(RouterConfig{Web: web, Health: fakeHealth{}, Logger: logger})
}

func postForm(t *testing.T, srv http.Handler, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, srv http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

// signupAndLogin registers a user and returns the session cookie.
func signupAndLogin(t *testing.T, srv http.Handler, username, password string) *http.Cookie {
	t.Helper()

	form := url.Values{"username": {username}, "password": {password}}

	rec := postForm(t, srv, "/signup", form)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))

	rec = postForm(t, srv, "/login", form)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))

	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" && c.Value != "" {
			return c
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

// =============================================================================
// Tests
// =============================================================================

func TestRouter_UnauthenticatedRedirects(t *testing.T) {
	srv := newTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/"},
		{http.MethodPost, "/"},
		{http.MethodPost, "/delete/1"},
		{http.MethodPost, "/delete_all"},
		{http.MethodGet, "/logout"},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			req := httptest.NewRequest(p.method, p.path, nil)
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "/login", rec.Header().Get("Location"))
		})
	}
}

func TestRouter_SignupLoginFlow(t *testing.T) {
	srv := newTestServer(t)

	cookie := signupAndLogin(t, srv, "alice", "correct horse battery")

	rec := get(t, srv, "/", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice")
}

func TestRouter_SignupAcceptsShortPassword(t *testing.T) {
	srv := newTestServer(t)
	form := url.Values{"username": {"alice"}, "password": {"pw1"}}

	// No password length policy: signup and login succeed with any
	// non-empty password.
	rec := postForm(t, srv, "/signup", form)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = postForm(t, srv, "/login", form)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestRouter_SignupDuplicateUsername(t *testing.T) {
	srv := newTestServer(t)
	form := url.Values{"username": {"alice"}, "password": {"correct horse battery"}}

	rec := postForm(t, srv, "/signup", form)
	require.Equal(t, http.StatusFound, rec.Code)

	rec = postForm(t, srv, "/signup", form)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/signup-fail", rec.Header().Get("Location"))

	// The failure page carries the localized message.
	rec = get(t, srv, "/signup-fail")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Benutzer ist bereits registriert.")
}

func TestRouter_LoginFailures(t *testing.T) {
	srv := newTestServer(t)
	signupAndLogin(t, srv, "alice", "correct horse battery")

	tests := []struct {
		name string
		form url.Values
	}{
		{
			name: "wrong password",
			form: url.Values{"username": {"alice"}, "password": {"wrong password"}},
		},
		{
			name: "unknown user",
			form: url.Values{"username": {"mallory"}, "password": {"whatever123"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postForm(t, srv, "/login", tt.form)
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "/login-fail", rec.Header().Get("Location"))

			for _, c := range rec.Result().Cookies() {
				if c.Name == "session" && c.Value != "" {
					t.Error("failed login must not set a session cookie")
				}
			}
		})
	}
}

func TestRouter_Logout(t *testing.T) {
	srv := newTestServer(t)
	cookie := signupAndLogin(t, srv, "alice", "correct horse battery")

	rec := get(t, srv, "/logout", cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	// The old token is dead.
	rec = get(t, srv, "/", cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRouter_NoteLifecycle(t *testing.T) {
	srv := newTestServer(t)
	cookie := signupAndLogin(t, srv, "alice", "correct horse battery")

	rec := postForm(t, srv, "/", url.Values{
		"title": {"Groceries"},
		"body":  {"Milk, eggs, bread"},
	}, cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))

	rec = get(t, srv, "/", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Groceries")
	assert.Contains(t, rec.Body.String(), "Milk, eggs, bread")

	t.Run("duplicate title shows message", func(t *testing.T) {
		rec := postForm(t, srv, "/", url.Values{
			"title": {"Groceries"},
			"body":  {"another list"},
		}, cookie)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Eine Notiz mit diesem Titel existiert bereits.")
	})

	t.Run("title too long shows message", func(t *testing.T) {
		rec := postForm(t, srv, "/", url.Values{
			"title": {strings.Repeat("a", domain.MaxTitleLength+1)},
			"body":  {"body"},
		}, cookie)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Der Titel darf höchstens 30 Zeichen lang sein.")
	})

	t.Run("body too long shows message", func(t *testing.T) {
		rec := postForm(t, srv, "/", url.Values{
			"title": {"Another"},
			"body":  {strings.Repeat("b", domain.MaxBodyLength+1)},
		}, cookie)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Die Notiz darf höchstens 500 Zeichen lang sein.")
	})

	t.Run("delete is a redirect even for missing notes", func(t *testing.T) {
		rec := postForm(t, srv, "/delete/999", url.Values{}, cookie)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("delete all clears the list", func(t *testing.T) {
		rec := postForm(t, srv, "/delete_all", url.Values{}, cookie)
		require.Equal(t, http.StatusFound, rec.Code)

		rec = get(t, srv, "/", cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "Milk, eggs, bread")
	})
}

func TestRouter_OwnershipIsolation(t *testing.T) {
	srv := newTestServer(t)
	alice := signupAndLogin(t, srv, "alice", "correct horse battery")
	bob := signupAndLogin(t, srv, "bob", "correct horse battery")

	rec := postForm(t, srv, "/", url.Values{
		"title": {"Secret"},
		"body":  {"alice's note"},
	}, alice)
	require.Equal(t, http.StatusFound, rec.Code)

	// Bob sees his own empty list.
	rec = get(t, srv, "/", bob)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Secret")

	// Bob cannot delete alice's note; it survives.
	rec = postForm(t, srv, "/delete/1", url.Values{}, bob)
	assert.Equal(t, http.StatusFound, rec.Code)

	rec = get(t, srv, "/", alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Secret")

	// Bob may reuse alice's title.
	rec = postForm(t, srv, "/", url.Values{
		"title": {"Secret"},
		"body":  {"bob's note"},
	}, bob)
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestRouter_LanguageSwitch(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/lng/en")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	var langCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "lang" {
			langCookie = c
		}
	}
	require.NotNil(t, langCookie)
	assert.Equal(t, "en", langCookie.Value)

	// The cookie drives page language.
	rec = get(t, srv, "/login", langCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "My Notes")

	// Unsupported languages set no cookie.
	rec = get(t, srv, "/lng/xx")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestRouter_LoginPageDropsExistingSession(t *testing.T) {
	srv := newTestServer(t)
	cookie := signupAndLogin(t, srv, "alice", "correct horse battery")

	rec := get(t, srv, "/login", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The old session was destroyed server-side.
	rec = get(t, srv, "/", cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRouter_Health(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
