package router_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-event-sharing/config"
	"github.com/oksasatya/go-event-sharing/internal/container"
	repo "github.com/oksasatya/go-event-sharing/internal/domain/repository"
	"github.com/oksasatya/go-event-sharing/internal/infrastructure/memory"
	"github.com/oksasatya/go-event-sharing/internal/router"
	"github.com/oksasatya/go-event-sharing/pkg/helpers"
	"github.com/oksasatya/go-event-sharing/pkg/validation"
)

type app struct {
	t       *testing.T
	c       *container.Container
	engine  *gin.Engine
	cookies []*http.Cookie
}

func newApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	cfg := config.Load()
	cfg.DBDriver = "memory"
	cfg.SessionDriver = "memory"
	cfg.CookieDomain = ""
	cfg.DebugMetricsEnabled = false
	cfg.HTTPLogEnabled = false
	cfg.RequestTimeout = 5 * time.Second

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	c := &container.Container{
		Config:   cfg,
		Logger:   logger,
		Store:    memory.NewStore(),
		Sessions: memory.NewSessionStore(),
	}
	c.Wire()

	r, err := router.New(c)
	require.NoError(t, err)
	return &app{t: t, c: c, engine: r}
}

func (a *app) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	a.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, ck := range a.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	a.keepCookies(w.Result().Cookies())
	return w
}

func (a *app) keepCookies(set []*http.Cookie) {
	for _, ck := range set {
		kept := a.cookies[:0]
		for _, old := range a.cookies {
			if old.Name != ck.Name {
				kept = append(kept, old)
			}
		}
		a.cookies = kept
		if ck.MaxAge >= 0 && ck.Value != "" {
			a.cookies = append(a.cookies, &http.Cookie{Name: ck.Name, Value: ck.Value})
		}
	}
}

func (a *app) signupAndLogin(username string) {
	a.t.Helper()
	w := a.do(http.MethodPost, "/signup", url.Values{
		"username":        {username},
		"email":           {username + "@example.com"},
		"password":        {"secret123"},
		"passwordConfirm": {"secret123"},
	})
	require.Equal(a.t, http.StatusFound, w.Code)

	w = a.do(http.MethodPost, "/login", url.Values{"username": {username}, "password": {"secret123"}})
	require.Equal(a.t, http.StatusFound, w.Code)
	require.Equal(a.t, "/", w.Header().Get("Location"))
}

func (a *app) createEvent(title, date string, categories ...string) *httptest.ResponseRecorder {
	a.t.Helper()
	return a.do(http.MethodPost, "/events/create", url.Values{
		"title":      {title},
		"date":       {date},
		"time":       {"19:30"},
		"place":      {"Town hall"},
		"details":    {"Bring friends"},
		"categories": categories,
	})
}

func location(w *httptest.ResponseRecorder) string {
	return w.Header().Get("Location")
}

func TestHealthz(t *testing.T) {
	a := newApp(t)
	w := a.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestHomeAndStatic(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "EventShare")

	w = a.do(http.MethodGet, "/static/img/photo.svg", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSignupValidation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		password string
		confirm  string
		field    string
	}{
		{name: "short username", username: "ab", email: "ab@example.com", password: "secret123", confirm: "secret123", field: "username"},
		{name: "malformed email", username: "ann", email: "not-an-email", password: "secret123", confirm: "secret123", field: "email"},
		{name: "short password", username: "ann", email: "ann@example.com", password: "abc", confirm: "abc", field: "password"},
		{name: "confirmation mismatch", username: "ann", email: "ann@example.com", password: "secret123", confirm: "different", field: "passwordConfirm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newApp(t)

			w := a.do(http.MethodPost, "/signup", url.Values{
				"username":        {tt.username},
				"email":           {tt.email},
				"password":        {tt.password},
				"passwordConfirm": {tt.confirm},
			})
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "<li>"+tt.field+" ")
			assert.Contains(t, w.Body.String(), `value="`+tt.email+`"`)
			assert.NotContains(t, w.Body.String(), tt.password)

			_, err := a.c.Store.Users().GetByUsername(context.Background(), tt.username)
			assert.ErrorIs(t, err, repo.ErrNotFound)
		})
	}
}

func TestSignupCreatesExactlyOneUser(t *testing.T) {
	a := newApp(t)
	form := url.Values{
		"username":        {"ann"},
		"email":           {"ann@example.com"},
		"password":        {"secret123"},
		"passwordConfirm": {"secret123"},
	}

	w := a.do(http.MethodPost, "/signup", form)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", location(w))

	users, err := a.c.Store.Users().SearchByPattern(context.Background(), "ann", 10)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	w = a.do(http.MethodPost, "/signup", form)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "is already taken")
}

func TestLoginFailureFlashes(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodPost, "/login", url.Values{"username": {"ghost"}, "password": {"nope123"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", location(w))

	w = a.do(http.MethodGet, "/login", nil)
	assert.Contains(t, w.Body.String(), "Invalid username or password.")

	w = a.do(http.MethodGet, "/login", nil)
	assert.NotContains(t, w.Body.String(), "Invalid username or password.")
}

func TestLoggedInUserIsRedirectedFromLogin(t *testing.T) {
	a := newApp(t)
	a.signupAndLogin("ann")

	w := a.do(http.MethodGet, "/login", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/users/ann", location(w))

	w = a.do(http.MethodGet, "/logout", nil)
	assert.Equal(t, "/", location(w))

	w = a.do(http.MethodGet, "/login", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMissingProfileRedirectsToError(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodGet, "/users/nobody", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/error", location(w))

	w = a.do(http.MethodGet, "/error", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Not found.")
}

func TestCreateEventRequiresLogin(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodGet, "/events/create", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", location(w))

	w = a.createEvent("Jazz night", "2025-05-10", "Music")
	assert.Equal(t, "/login", location(w))
}

func TestEventLifecycle(t *testing.T) {
	a := newApp(t)
	a.signupAndLogin("ann")

	w := a.do(http.MethodGet, "/events/create", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = a.createEvent("Jazz night", "2025-05-10", "Music", "Music", " ")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", location(w))

	w = a.createEvent("Jazz night", "2025-05-10", "Music")
	assert.Equal(t, "/error", location(w))

	w = a.createEvent("No tags", "2025-05-10")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.createEvent("Bad date", "10/05/2025", "Music")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/categories/Music?isPartial=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Jazz night")
	assert.NotContains(t, w.Body.String(), "<!doctype html>")

	w = a.do(http.MethodGet, "/categories/Music", nil)
	assert.Contains(t, w.Body.String(), "<!doctype html>")

	w = a.do(http.MethodGet, "/date/2025-05-10", nil)
	assert.Contains(t, w.Body.String(), "Events on 2025-05-10")
	assert.Contains(t, w.Body.String(), "Jazz night")

	w = a.do(http.MethodGet, "/search/events?title=jazz&isPartial=true", nil)
	assert.Contains(t, w.Body.String(), "Jazz night")

	w = a.do(http.MethodGet, "/users/ann/myEvents", nil)
	assert.Contains(t, w.Body.String(), "Jazz night")

	w = a.do(http.MethodPost, "/events/Jazz%20night/edit", url.Values{
		"date":  {"2025-05-11"},
		"time":  {"20:00"},
		"place": {"Park"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/events/Jazz%20night", location(w))

	w = a.do(http.MethodPost, "/events/Jazz%20night/like", nil)
	require.Equal(t, http.StatusFound, w.Code)
	w = a.do(http.MethodPost, "/events/Jazz%20night/like", nil)
	require.Equal(t, http.StatusFound, w.Code)

	w = a.do(http.MethodPost, "/events/Jazz%20night/chat", url.Values{"text": {"see you there"}})
	require.Equal(t, http.StatusFound, w.Code)

	w = a.do(http.MethodGet, "/events/Jazz%20night", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Park")
	assert.Contains(t, body, "♥ 1")
	assert.Contains(t, body, "see you there")

	bucket, err := a.c.Store.Categories().ListEvents(context.Background(), "Music", 0)
	require.NoError(t, err)
	require.Len(t, bucket, 1)
	assert.Equal(t, "Park", bucket[0].Place)
	assert.Equal(t, 1, bucket[0].Likes)

	w = a.do(http.MethodPost, "/events/Jazz%20night/delete", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", location(w))

	w = a.do(http.MethodGet, "/events/Jazz%20night", nil)
	assert.Equal(t, "/error", location(w))
}

func TestOnlyOwnerMayEdit(t *testing.T) {
	a := newApp(t)
	a.signupAndLogin("ann")
	require.Equal(t, http.StatusFound, a.createEvent("Jazz night", "2025-05-10", "Music").Code)

	a.cookies = nil
	a.signupAndLogin("bob")

	w := a.do(http.MethodGet, "/events/Jazz%20night/edit", nil)
	assert.Equal(t, "/error", location(w))

	w = a.do(http.MethodPost, "/events/Jazz%20night/delete", nil)
	assert.Equal(t, "/error", location(w))

	w = a.do(http.MethodGet, "/users/ann/edit", nil)
	assert.Equal(t, "/error", location(w))

	_, err := a.c.Store.Events().GetByTitle(context.Background(), "Jazz night")
	assert.NoError(t, err)
}

func TestTitleWithSlash(t *testing.T) {
	a := newApp(t)
	a.signupAndLogin("ann")
	require.Equal(t, http.StatusFound, a.createEvent("AC/DC tribute", "2025-06-01", "Music").Code)

	w := a.do(http.MethodGet, "/events/"+url.PathEscape("AC/DC tribute"), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "AC/DC tribute")
}

func TestProfileEdit(t *testing.T) {
	a := newApp(t)
	a.signupAndLogin("ann")

	w := a.do(http.MethodGet, "/users/ann/edit", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodPost, "/users/ann/edit", url.Values{"email": {"not-an-email"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/users/ann/edit", url.Values{"email": {"ann@example.com"}, "age": {"200"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/users/ann/edit", url.Values{
		"email":     {"ann@example.org"},
		"firstName": {"Ann"},
		"lastName":  {"Lee"},
		"age":       {"31"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/users/ann", location(w))

	w = a.do(http.MethodGet, "/users/ann", nil)
	assert.Contains(t, w.Body.String(), "Ann Lee")
}

func TestUserSearch(t *testing.T) {
	a := newApp(t)
	a.signupAndLogin("ann")

	w := a.do(http.MethodGet, "/search/users?name=AN&isPartial=true", nil)
	assert.Contains(t, w.Body.String(), "ann")
	assert.NotContains(t, w.Body.String(), "<!doctype html>")

	w = a.do(http.MethodGet, "/search/users?name=an", nil)
	assert.Contains(t, w.Body.String(), "<!doctype html>")
}

func TestCalendar(t *testing.T) {
	a := newApp(t)
	w := a.do(http.MethodGet, "/date?month=2025-05", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "May 2025")
	assert.Contains(t, w.Body.String(), "/date/2025-05-31")
}

func TestSessionCookieIsSigned(t *testing.T) {
	a := newApp(t)
	a.signupAndLogin("ann")

	a.cookies = []*http.Cookie{{Name: helpers.SessionCookie, Value: "forged"}}
	w := a.do(http.MethodGet, "/events/create", nil)
	assert.Equal(t, "/login", location(w))
}
