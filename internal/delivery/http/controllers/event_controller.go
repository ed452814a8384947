package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"eventbooking/internal/delivery/http/helpers"
	"eventbooking/internal/delivery/http/middleware"
	"eventbooking/internal/domain"
)

// maxImageUploadBytes caps the multipart form size for event creation.
const maxImageUploadBytes = 10 << 20

// dateOnlyLayout is the accepted format for the date query filter.
const dateOnlyLayout = "2006-01-02"

type EventController struct {
	Logger     *slog.Logger
	Service    domain.EventService
	ImageStore domain.ImageStore
}

func NewEventController(logger *slog.Logger, svc domain.EventService, store domain.ImageStore) *EventController {
	return &EventController{
		Logger:     logger,
		Service:    svc,
		ImageStore: store,
	}
}

// ListEventsSuccessResponse is the success response envelope for GET /events (200).
type ListEventsSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEvents godoc
// @Summary List events with availability
// @Description Lists all events with available_seats computed live as capacity minus booking count. Optional filters: location (case-insensitive substring) and date (YYYY-MM-DD, matches the calendar date regardless of stored time-of-day). Blank filters are ignored. Ordered by event date ascending.
// @Tags events
// @Produce json
// @Param location query string false "Location substring filter"
// @Param date query string false "Date filter (YYYY-MM-DD)"
// @Success 200 {object} controllers.ListEventsSuccessResponse "data is an array of events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (malformed date)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	filter := domain.EventFilter{
		Location: strings.TrimSpace(r.URL.Query().Get("location")),
	}
	if s := strings.TrimSpace(r.URL.Query().Get("date")); s != "" {
		d, err := time.Parse(dateOnlyLayout, s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "date must be formatted YYYY-MM-DD")
			return
		}
		filter.Date = &d
	}
	events, err := c.Service.ListEvents(r.Context(), filter)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not list events")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEventSuccessResponse is the success response envelope for GET /events/{eventID} (200).
type GetEventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetEvent godoc
// @Summary Get an event by ID
// @Description Returns the stored event row as-is. available_seats here is the stored column (set at creation), not the live derived value from the listing.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.GetEventSuccessResponse "data contains the event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	event, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not get event")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListMyEventsSuccessResponse is the success response envelope for GET /events/my-events (200).
type ListMyEventsSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListMyEvents godoc
// @Summary List events owned by the current user
// @Description Returns events where the authenticated user is the organizer, ordered by date descending. Raw stored rows; no availability computation. Requires Bearer token.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListMyEventsSuccessResponse "data is an array of events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized (no credential)"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (invalid or expired credential)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/my-events [get]
func (c *EventController) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	events, err := c.Service.ListMyEvents(r.Context(), identity.UserID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not list events")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// AttendeeReportResponse is the data payload for GET /events/{eventID}/attendees (200).
type AttendeeReportResponse struct {
	Report     *domain.AttendeeReport `json:"report"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// AttendeeReportSuccessResponse is the success response envelope for GET /events/{eventID}/attendees (200).
type AttendeeReportSuccessResponse struct {
	Data  AttendeeReportResponse `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// GetAttendees godoc
// @Summary Attendee roster and revenue for an owned event
// @Description Returns the attendees (name, email, booking date, status) of an event the caller organizes, plus total revenue (attendee count times event price). Responds 403 whether the event does not exist or belongs to someone else; the two cases are indistinguishable. Use page and page_size query params.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.AttendeeReportSuccessResponse "data contains report and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/attendees [get]
func (c *EventController) GetAttendees(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params := helpers.ParsePagination(r)
	report, err := c.Service.GetAttendeeReport(r.Context(), eventID, identity.UserID, params)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not load attendees")
		return
	}
	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, report.TotalAttendees)
	helpers.WriteJSONSuccess(w, http.StatusOK, AttendeeReportResponse{Report: report, Pagination: meta})
}

// CreateEventResponse is the data payload for POST /events (201).
type CreateEventResponse struct {
	ID string `json:"id"`
}

// CreateEventSuccessResponse is the success response envelope for POST /events (201).
type CreateEventSuccessResponse struct {
	Data  CreateEventResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Creates an event from a multipart form. Required fields: title, date (RFC 3339 or YYYY-MM-DD). Optional: description, location, price, mode (physical|virtual, default physical), meeting_link, capacity (default 100), and a single image file. available_seats is initialized to capacity. The authenticated user becomes the organizer.
// @Tags events
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Event title"
// @Param date formData string true "Event date"
// @Param description formData string false "Description"
// @Param location formData string false "Location"
// @Param price formData number false "Ticket price"
// @Param mode formData string false "physical or virtual"
// @Param meeting_link formData string false "Meeting link for virtual events"
// @Param capacity formData int false "Seat capacity (default 100)"
// @Param image formData file false "Cover image"
// @Success 201 {object} controllers.CreateEventSuccessResponse "data contains the new event id"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (organizer role required)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "expected multipart form data")
		return
	}

	in := domain.CreateEventInput{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Location:    strings.TrimSpace(r.FormValue("location")),
		Mode:        strings.TrimSpace(strings.ToLower(r.FormValue("mode"))),
		MeetingLink: strings.TrimSpace(r.FormValue("meeting_link")),
	}
	if in.Title == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "title is required")
		return
	}
	dateStr := strings.TrimSpace(r.FormValue("date"))
	if dateStr == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "date is required")
		return
	}
	date, err := parseEventDate(dateStr)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "date must be RFC 3339 or YYYY-MM-DD")
		return
	}
	in.Date = date

	if s := r.FormValue("price"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "price must be a non-negative number")
			return
		}
		in.Price = v
	}
	if s := r.FormValue("capacity"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "capacity must be a non-negative integer")
			return
		}
		in.Capacity = v
	}

	var storedName string
	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		storedName, err = c.ImageStore.Save(file, header.Filename)
		if err != nil {
			c.Logger.ErrorContext(r.Context(), "image upload failed", "filename", header.Filename, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not store image")
			return
		}
		in.ImageURL = c.ImageStore.URL(requestScheme(r), r.Host, storedName)
	case errors.Is(err, http.ErrMissingFile):
		// No image uploaded; the service falls back to a placeholder URL.
	default:
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid image upload")
		return
	}

	event, err := c.Service.CreateEvent(r.Context(), in, identity)
	if err != nil {
		// A rejected create must not leave the uploaded image behind.
		if storedName != "" {
			if removeErr := c.ImageStore.Remove(storedName); removeErr != nil {
				c.Logger.ErrorContext(r.Context(), "orphaned image cleanup failed", "filename", storedName, "err", removeErr)
			}
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "organizer role required")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not create event")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, CreateEventResponse{ID: event.ID})
}

// DeleteEventResponse is the data payload for DELETE /events/{eventID} (200).
type DeleteEventResponse struct {
	Status string `json:"status"`
}

// DeleteEventSuccessResponse is the success response envelope for DELETE /events/{eventID} (200).
type DeleteEventSuccessResponse struct {
	Data  DeleteEventResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes an event. The owning organizer may delete it; admins may delete any event. When nothing is deleted the response is a single 404, whether the event is missing or owned by someone else.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.DeleteEventSuccessResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized (no credential)"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (invalid or expired credential)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (missing or not owned)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), eventID, identity); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not delete event")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteEventResponse{Status: "deleted"})
}

// AnnounceRequest is the request body for POST /events/{eventID}/announce.
type AnnounceRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Validate implements Validator.
func (a AnnounceRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(a.Subject) == "" {
		errs = append(errs, "subject is required")
	}
	if strings.TrimSpace(a.Message) == "" {
		errs = append(errs, "message is required")
	}
	return errs
}

// AnnounceSuccessResponse is the success response envelope for POST /events/{eventID}/announce (200).
type AnnounceSuccessResponse struct {
	Data  *domain.AnnouncementResult `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// Announce godoc
// @Summary Email an announcement to an event's attendees
// @Description Sends the subject and message to every attendee of an event the caller organizes. Responds 403 whether the event does not exist or belongs to someone else. Returns the sent count and any failed addresses.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body AnnounceRequest true "Announcement subject and message"
// @Success 200 {object} controllers.AnnounceSuccessResponse "data contains sent count and failed list"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/announce [post]
func (c *EventController) Announce(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req AnnounceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	result, err := c.Service.AnnounceToAttendees(r.Context(), eventID, identity.UserID, req.Subject, req.Message)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not send announcement")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// parseEventDate accepts RFC 3339 timestamps or bare YYYY-MM-DD dates.
func parseEventDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(dateOnlyLayout, s)
}

// requestScheme resolves the request scheme, honoring a proxy's
// X-Forwarded-Proto header.
func requestScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
