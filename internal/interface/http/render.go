package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-event-sharing/internal/application"
	"github.com/oksasatya/go-event-sharing/internal/interface/middleware"
	"github.com/oksasatya/go-event-sharing/pkg/helpers"
)

// Renderer renders pages with the shared layout data and maps service
// errors to redirects.
type Renderer struct {
	Cookies *helpers.Manager
	Logger  *logrus.Logger
}

func NewRenderer(cookies *helpers.Manager, logger *logrus.Logger) *Renderer {
	return &Renderer{Cookies: cookies, Logger: logger}
}

// Page renders a full page. The identity and any pending flash message are added to data.
func (r *Renderer) Page(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["identity"] = middleware.CurrentIdentity(c)
	if _, ok := data["flash"]; !ok {
		data["flash"] = r.Cookies.PopFlash(c)
	}
	c.HTML(status, name, data)
}

// Fragment renders a partial without the layout.
func (r *Renderer) Fragment(c *gin.Context, name string, data gin.H) {
	c.HTML(http.StatusOK, name, data)
}

func (r *Renderer) Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// Fail handles a service error that has no form to go back to.
func (r *Renderer) Fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrUnauthenticated):
		r.Redirect(c, "/login")
	case errors.Is(err, application.ErrForbidden),
		errors.Is(err, application.ErrNotFound),
		errors.Is(err, application.ErrDuplicateTitle):
		r.Cookies.SetFlash(c, capitalize(err.Error())+".")
		r.Redirect(c, "/error")
	default:
		if r.Logger != nil {
			helpers.LogError(r.Logger, "request failed", err, logrus.Fields{
				"request_id": c.GetString("request_id"),
				"path":       c.Request.URL.Path,
			})
		}
		r.Page(c, http.StatusInternalServerError, "error", gin.H{
			"title":   "Error",
			"message": "Something went wrong on our side. Please try again.",
		})
	}
}

// validationErrors reports whether err is a form validation failure.
func validationErrors(err error) (*application.ValidationError, bool) {
	var verr *application.ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

func isPartial(c *gin.Context) bool {
	b, _ := strconv.ParseBool(c.Query("isPartial"))
	return b
}

// formUpload opens an optional uploaded file. The returned func closes it.
func formUpload(c *gin.Context, field string) (*application.Upload, func()) {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil || fh.Size == 0 {
		return nil, func() {}
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}
	}
	return &application.Upload{Filename: fh.Filename, Reader: f}, closer(f)
}

func closer(f multipart.File) func() {
	return func() { _ = f.Close() }
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
