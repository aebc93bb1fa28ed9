package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-event-sharing/internal/application"
	"github.com/oksasatya/go-event-sharing/internal/interface/middleware"
)

type UserHandler struct {
	R     *Renderer
	Users *application.UserService
}

func NewUserHandler(r *Renderer, users *application.UserService) *UserHandler {
	return &UserHandler{R: r, Users: users}
}

// Profile GET /users/:username
func (h *UserHandler) Profile(c *gin.Context) {
	username := c.Param("username")
	p, err := h.Users.GetProfile(c.Request.Context(), username)
	if err != nil {
		h.R.Fail(c, err)
		return
	}
	h.R.Page(c, http.StatusOK, "users/profile", gin.H{
		"title":   p.Username,
		"profile": p,
		"isOwner": middleware.CurrentIdentity(c).Is(p.Username),
	})
}

// GetEdit GET /users/:username/edit
func (h *UserHandler) GetEdit(c *gin.Context) {
	p, ok := h.owned(c)
	if !ok {
		return
	}
	form := application.UpdateProfileInput{Email: p.Email, FirstName: p.FirstName, LastName: p.LastName}
	if p.Age != nil {
		form.Age = strconv.Itoa(*p.Age)
	}
	h.R.Page(c, http.StatusOK, "users/edit", gin.H{"title": "Edit profile", "profile": p, "form": form})
}

// PostEdit POST /users/:username/edit
func (h *UserHandler) PostEdit(c *gin.Context) {
	p, ok := h.owned(c)
	if !ok {
		return
	}

	var in application.UpdateProfileInput
	if err := c.ShouldBind(&in); err != nil {
		h.editFailed(c, p, in, application.NewValidationError(err))
		return
	}
	avatar, done := formUpload(c, "avatar")
	defer done()
	in.Avatar = avatar

	updated, err := h.Users.UpdateProfile(c.Request.Context(), middleware.CurrentIdentity(c), p.Username, in)
	if err != nil {
		if verr, ok := validationErrors(err); ok {
			h.editFailed(c, p, in, verr)
			return
		}
		h.R.Fail(c, err)
		return
	}
	h.R.Redirect(c, profilePath(updated.Username))
}

func (h *UserHandler) editFailed(c *gin.Context, p *application.Profile, in application.UpdateProfileInput, verr *application.ValidationError) {
	in.Avatar = nil
	h.R.Page(c, http.StatusBadRequest, "users/edit", gin.H{
		"title":   "Edit profile",
		"profile": p,
		"form":    in,
		"errors":  verr.Errors,
	})
}

// owned loads the profile in the path and checks it belongs to the identity.
func (h *UserHandler) owned(c *gin.Context) (*application.Profile, bool) {
	id := middleware.CurrentIdentity(c)
	if id == nil {
		h.R.Fail(c, application.ErrUnauthenticated)
		return nil, false
	}
	p, err := h.Users.GetProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.R.Fail(c, err)
		return nil, false
	}
	if !id.Is(p.Username) {
		h.R.Fail(c, application.ErrForbidden)
		return nil, false
	}
	return p, true
}

// MyEvents GET /users/:username/myEvents
func (h *UserHandler) MyEvents(c *gin.Context) {
	events, err := h.Users.UserEvents(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.R.Fail(c, err)
		return
	}
	h.R.Fragment(c, "partials/events", gin.H{"events": events})
}

// Search GET /search/users?name=&isPartial=
func (h *UserHandler) Search(c *gin.Context) {
	name := c.Query("name")
	users, err := h.Users.SearchUsers(c.Request.Context(), name)
	if err != nil {
		h.R.Fail(c, err)
		return
	}
	if isPartial(c) {
		h.R.Fragment(c, "partials/users", gin.H{"users": users})
		return
	}
	h.R.Page(c, http.StatusOK, "search/search", gin.H{"title": name, "users": users})
}
