package handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-event-sharing/internal/application"
	"github.com/oksasatya/go-event-sharing/internal/domain/entity"
	"github.com/oksasatya/go-event-sharing/internal/interface/middleware"
)

type EventHandler struct {
	R      *Renderer
	Events *application.EventService
	Now    func() time.Time
}

func NewEventHandler(r *Renderer, events *application.EventService) *EventHandler {
	return &EventHandler{R: r, Events: events, Now: time.Now}
}

func eventPath(title string) string {
	return "/events/" + url.PathEscape(title)
}

// GetCreate GET /events/create
func (h *EventHandler) GetCreate(c *gin.Context) {
	h.createForm(c, http.StatusOK, application.CreateEventInput{}, nil)
}

// PostCreate POST /events/create
func (h *EventHandler) PostCreate(c *gin.Context) {
	var in application.CreateEventInput
	if err := c.ShouldBind(&in); err != nil {
		h.createForm(c, http.StatusBadRequest, in, application.NewValidationError(err))
		return
	}
	photo, done := formUpload(c, "photo")
	defer done()
	in.Photo = photo

	if _, err := h.Events.CreateEvent(c.Request.Context(), middleware.CurrentIdentity(c), in); err != nil {
		if verr, ok := validationErrors(err); ok {
			h.createForm(c, http.StatusBadRequest, in, verr)
			return
		}
		h.R.Fail(c, err)
		return
	}
	h.R.Redirect(c, "/")
}

func (h *EventHandler) createForm(c *gin.Context, status int, in application.CreateEventInput, verr *application.ValidationError) {
	cats, err := h.Events.ListCategories(c.Request.Context())
	if err != nil {
		h.R.Fail(c, err)
		return
	}
	in.Photo = nil
	data := gin.H{"title": "New event", "form": in, "categories": cats}
	if verr != nil {
		data["errors"] = verr.Errors
	}
	h.R.Page(c, status, "events/create", data)
}

// Detail GET /events/:eventId
func (h *EventHandler) Detail(c *gin.Context) {
	d, err := h.Events.GetEvent(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		h.R.Fail(c, err)
		return
	}
	id := middleware.CurrentIdentity(c)
	hasVoted := false
	if id != nil {
		u := entity.User{VotedEvents: id.VotedEvents}
		hasVoted = u.HasVoted(d.Event.Title)
	}
	h.R.Page(c, http.StatusOK, "events/details", gin.H{
		"title":    d.Event.Title,
		"event":    d.Event,
		"messages": d.Messages,
		"isOwner":  id.Is(d.Event.User),
		"hasVoted": hasVoted,
	})
}

// GetEdit GET /events/:eventId/edit
func (h *EventHandler) GetEdit(c *gin.Context) {
	ev, err := h.Events.GetOwnedEvent(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("eventId"))
	if err != nil {
		h.R.Fail(c, err)
		return
	}
	form := application.UpdateEventInput{Date: ev.Date, Time: ev.Time, Place: ev.Place, Details: ev.Details}
	h.R.Page(c, http.StatusOK, "events/edit", gin.H{"title": "Edit " + ev.Title, "event": ev, "form": form})
}

// PostEdit POST /events/:eventId/edit
func (h *EventHandler) PostEdit(c *gin.Context) {
	id := middleware.CurrentIdentity(c)
	ev, err := h.Events.GetOwnedEvent(c.Request.Context(), id, c.Param("eventId"))
	if err != nil {
		h.R.Fail(c, err)
		return
	}

	var in application.UpdateEventInput
	if err := c.ShouldBind(&in); err != nil {
		h.editFailed(c, ev, in, application.NewValidationError(err))
		return
	}
	upload, done := formUpload(c, "upload")
	defer done()
	in.Upload = upload

	updated, err := h.Events.UpdateEvent(c.Request.Context(), id, ev.Title, in)
	if err != nil {
		if verr, ok := validationErrors(err); ok {
			h.editFailed(c, ev, in, verr)
			return
		}
		h.R.Fail(c, err)
		return
	}
	h.R.Redirect(c, eventPath(updated.Title))
}

func (h *EventHandler) editFailed(c *gin.Context, ev *entity.Event, in application.UpdateEventInput, verr *application.ValidationError) {
	in.Upload = nil
	h.R.Page(c, http.StatusBadRequest, "events/edit", gin.H{
		"title":  "Edit " + ev.Title,
		"event":  ev,
		"form":   in,
		"errors": verr.Errors,
	})
}

// Delete POST /events/:eventId/delete
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.Events.DeleteEvent(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("eventId")); err != nil {
		h.R.Fail(c, err)
		return
	}
	h.R.Redirect(c, "/")
}

// Like POST /events/:eventId/like
func (h *EventHandler) Like(c *gin.Context) {
	ev, err := h.Events.LikeEvent(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("eventId"))
	if err != nil {
		h.R.Fail(c, err)
		return
	}
	h.R.Redirect(c, eventPath(ev.Title))
}

// Chat POST /events/:eventId/chat
func (h *EventHandler) Chat(c *gin.Context) {
	title := c.Param("eventId")
	_, err := h.Events.PostMessage(c.Request.Context(), middleware.CurrentIdentity(c), title, c.PostForm("text"))
	if verr, ok := validationErrors(err); ok {
		fe := verr.Errors[0]
		h.R.Cookies.SetFlash(c, capitalize(fe.Field)+" "+fe.Message+".")
		h.R.Redirect(c, eventPath(title))
		return
	}
	if err != nil {
		h.R.Fail(c, err)
		return
	}
	h.R.Redirect(c, eventPath(title))
}

// Categories GET /categories
func (h *EventHandler) Categories(c *gin.Context) {
	cats, err := h.Events.ListCategories(c.Request.Context())
	if err != nil {
		h.R.Fail(c, err)
		return
	}
	h.R.Page(c, http.StatusOK, "categories/all", gin.H{"title": "Categories", "categories": cats})
}

// CategoryEvents GET /categories/:categoryName
func (h *EventHandler) CategoryEvents(c *gin.Context) {
	name := c.Param("categoryName")
	limit := 0
	if isPartial(c) {
		limit = application.PartialCategoryLimit
	}
	events, err := h.Events.EventsByCategory(c.Request.Context(), name, limit)
	if err != nil {
		h.R.Fail(c, err)
		return
	}
	h.list(c, name, events)
}

// Calendar GET /date
func (h *EventHandler) Calendar(c *gin.Context) {
	cal := application.BuildCalendar(c.Query("month"), h.Now())
	h.R.Page(c, http.StatusOK, "events/calendar", gin.H{"title": cal.Title, "calendar": cal})
}

// ByDate GET /date/:selectedDate
func (h *EventHandler) ByDate(c *gin.Context) {
	date := c.Param("selectedDate")
	events, err := h.Events.EventsByDate(c.Request.Context(), date)
	if err != nil {
		h.R.Fail(c, err)
		return
	}
	h.list(c, "Events on "+date, events)
}

// Search GET /search/events?title=&isPartial=
func (h *EventHandler) Search(c *gin.Context) {
	pattern := c.Query("title")
	events, err := h.Events.SearchEvents(c.Request.Context(), pattern)
	if err != nil {
		h.R.Fail(c, err)
		return
	}
	h.list(c, "Search: "+pattern, events)
}

func (h *EventHandler) list(c *gin.Context, title string, events []entity.Event) {
	if isPartial(c) {
		h.R.Fragment(c, "partials/events", gin.H{"events": events})
		return
	}
	h.R.Page(c, http.StatusOK, "events/events", gin.H{"title": title, "events": events})
}
