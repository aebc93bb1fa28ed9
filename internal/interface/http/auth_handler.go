package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-event-sharing/internal/application"
	"github.com/oksasatya/go-event-sharing/internal/interface/middleware"
	"github.com/oksasatya/go-event-sharing/pkg/helpers"
)

const loginFailedMessage = "Invalid username or password."

type AuthHandler struct {
	R       *Renderer
	Auth    *application.AuthService
	Users   *application.UserService
	Cookies *helpers.Manager
}

func NewAuthHandler(r *Renderer, auth *application.AuthService, users *application.UserService, cookies *helpers.Manager) *AuthHandler {
	return &AuthHandler{R: r, Auth: auth, Users: users, Cookies: cookies}
}

func profilePath(username string) string {
	return "/users/" + url.PathEscape(username)
}

// GetLogin GET /login
func (h *AuthHandler) GetLogin(c *gin.Context) {
	if id := middleware.CurrentIdentity(c); id != nil {
		h.R.Redirect(c, profilePath(id.Username))
		return
	}
	h.R.Page(c, http.StatusOK, "login", gin.H{"title": "Log in"})
}

// PostLogin POST /login
func (h *AuthHandler) PostLogin(c *gin.Context) {
	var in application.LoginInput
	if err := c.ShouldBind(&in); err != nil {
		h.Cookies.SetFlash(c, loginFailedMessage)
		h.R.Redirect(c, "/login")
		return
	}

	token, exp, err := h.Auth.Login(c.Request.Context(), in.Username, in.Password)
	if errors.Is(err, application.ErrInvalidCredentials) {
		h.Cookies.SetFlash(c, loginFailedMessage)
		h.R.Redirect(c, "/login")
		return
	}
	if err != nil {
		h.R.Fail(c, err)
		return
	}

	h.Cookies.SetSession(c, token, exp)
	h.R.Redirect(c, "/")
}

// GetSignup GET /signup
func (h *AuthHandler) GetSignup(c *gin.Context) {
	if id := middleware.CurrentIdentity(c); id != nil {
		h.R.Redirect(c, profilePath(id.Username))
		return
	}
	h.R.Page(c, http.StatusOK, "signup", gin.H{"title": "Sign up", "form": application.SignupInput{}})
}

// PostSignup POST /signup
func (h *AuthHandler) PostSignup(c *gin.Context) {
	var in application.SignupInput
	if err := c.ShouldBind(&in); err != nil {
		h.signupFailed(c, in, application.NewValidationError(err))
		return
	}

	if _, err := h.Users.Signup(c.Request.Context(), in); err != nil {
		if verr, ok := validationErrors(err); ok {
			h.signupFailed(c, in, verr)
			return
		}
		h.R.Fail(c, err)
		return
	}

	h.R.Redirect(c, "/login")
}

func (h *AuthHandler) signupFailed(c *gin.Context, in application.SignupInput, verr *application.ValidationError) {
	in.Password, in.PasswordConfirm = "", ""
	h.R.Page(c, http.StatusBadRequest, "signup", gin.H{
		"title":  "Sign up",
		"form":   in,
		"errors": verr.Errors,
	})
}

// Logout GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := h.Cookies.Session(c); token != "" {
		if err := h.Auth.Logout(c.Request.Context(), token); err != nil && h.R.Logger != nil {
			h.R.Logger.WithError(err).Warn("delete session failed")
		}
	}
	h.Cookies.Clear(c)
	h.R.Redirect(c, "/")
}
