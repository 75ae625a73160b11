package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	LogEvent(w http.ResponseWriter, r *http.Request)
	GetLogs(w http.ResponseWriter, r *http.Request)
	GetHistory(w http.ResponseWriter, r *http.Request)
	GetMonthlyPresence(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	eventService attendance.EventService
}

func NewAttendanceHandler(eventService attendance.EventService) AttendanceHandler {
	return &attendanceHandlerImpl{
		eventService: eventService,
	}
}

// LogEvent implements AttendanceHandler.
func (h *attendanceHandlerImpl) LogEvent(w http.ResponseWriter, r *http.Request) {
	var req attendance.LogEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode attendance log request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.eventService.LogEvent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance logged", result)
}

// GetLogs implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetLogs(w http.ResponseWriter, r *http.Request) {
	filter := attendance.LogFilter{}

	if v := r.URL.Query().Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := r.URL.Query().Get("date"); v != "" {
		filter.Date = &v
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "limit must be a number", nil)
			return
		}
		filter.Limit = limit
	}

	logs, err := h.eventService.GetLogs(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, logs)
}

// GetHistory implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetHistory(w http.ResponseWriter, r *http.Request) {
	employeeCode := chi.URLParam(r, "employeeCode")

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "limit must be a number", nil)
			return
		}
		limit = parsed
	}

	history, err := h.eventService.GetHistory(r.Context(), employeeCode, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, history)
}

// GetMonthlyPresence implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMonthlyPresence(w http.ResponseWriter, r *http.Request) {
	employeeCode := chi.URLParam(r, "employeeCode")

	yearStr := r.URL.Query().Get("year")
	monthStr := r.URL.Query().Get("month")
	if yearStr == "" || monthStr == "" {
		response.BadRequest(w, "year and month are required", nil)
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		response.BadRequest(w, "year must be a number", nil)
		return
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		response.BadRequest(w, "month must be a number", nil)
		return
	}

	monthly, err := h.eventService.GetMonthlyPresence(r.Context(), employeeCode, year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, monthly)
}

// Update implements AttendanceHandler.
func (h *attendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode attendance update request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.eventService.UpdateLog(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Delete implements AttendanceHandler.
func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.eventService.DeleteLog(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance event deleted", nil)
}
