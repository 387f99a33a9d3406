package api

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tasktrackhq/tasktrack-api/internal/api/shared"
	"github.com/tasktrackhq/tasktrack-api/internal/domain"
	"github.com/tasktrackhq/tasktrack-api/internal/service"
	"github.com/tasktrackhq/tasktrack-api/internal/store"
)

// allowedTaskListParams is the exact set of query parameters GET /tasks
// accepts. Anything else is rejected rather than silently ignored, so a
// typo like "staus=completed" cannot masquerade as an unfiltered listing.
var allowedTaskListParams = map[string]bool{
	"status":   true,
	"priority": true,
	"category": true,
	"due_from": true,
	"due_to":   true,
}

// TaskHandler handles task API requests. Every route operates within the
// authenticated caller's ownership scope.
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req TaskCreateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	priority, err := domain.ParseTaskPriority(req.Priority)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	view, err := h.taskService.Create(r.Context(), userID, service.TaskCreateInput{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     priority,
		DueDate:      req.DueDate,
		CategoryName: req.CategoryName,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewTaskResponse(view))
}

// List handles GET /tasks. All filters are optional and combine with AND.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if unknown := unknownQueryParams(r); len(unknown) > 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Unknown query parameter(s): "+strings.Join(unknown, ", "))
		return
	}

	filter, ok := h.parseTaskFilter(w, r)
	if !ok {
		return
	}

	views, err := h.taskService.List(r.Context(), userID, filter)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskListResponse(views))
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	taskID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	view, err := h.taskService.Get(r.Context(), taskID, userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(view))
}

// Update handles PUT /tasks/{id}. Only fields present in the payload are
// applied; pointer fields in the request type carry the presence bit.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	taskID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req TaskUpdateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	in := service.TaskUpdateInput{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		CategoryName: req.CategoryName,
	}
	if req.Status != nil {
		status, err := domain.ParseTaskStatus(*req.Status)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		in.Status = &status
	}
	if req.Priority != nil {
		// Empty-means-medium is a create-time default; an update that
		// names the field must name a real priority.
		if *req.Priority == "" {
			respondServiceError(w, r, fmt.Errorf("%w: %q", domain.ErrInvalidTaskPriority, ""))
			return
		}
		priority, err := domain.ParseTaskPriority(*req.Priority)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		in.Priority = &priority
	}

	view, err := h.taskService.Update(r.Context(), taskID, userID, in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(view))
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	taskID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	deleted, err := h.taskService.Delete(r.Context(), taskID, userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if !deleted {
		respondServiceError(w, r, store.ErrTaskNotFound)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}

// unknownQueryParams returns the sorted names of query parameters outside
// the allowed filter set.
func unknownQueryParams(r *http.Request) []string {
	var unknown []string
	for name := range r.URL.Query() {
		if !allowedTaskListParams[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// parseTaskFilter builds a store.TaskFilter from validated query values.
// On a bad value it writes the error response and reports false.
func (h *TaskHandler) parseTaskFilter(w http.ResponseWriter, r *http.Request) (store.TaskFilter, bool) {
	var filter store.TaskFilter
	q := r.URL.Query()

	if raw := q.Get("status"); raw != "" {
		status, err := domain.ParseTaskStatus(raw)
		if err != nil {
			respondServiceError(w, r, err)
			return filter, false
		}
		filter.Status = &status
	}
	if raw := q.Get("priority"); raw != "" {
		priority, err := domain.ParseTaskPriority(raw)
		if err != nil {
			respondServiceError(w, r, err)
			return filter, false
		}
		filter.Priority = &priority
	}
	if raw := q.Get("category"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithFieldError(w, r, http.StatusUnprocessableEntity,
				"category must be a valid UUID", "category")
			return filter, false
		}
		filter.CategoryID = &categoryID
	}
	if raw := q.Get("due_from"); raw != "" {
		t, ok := parseFilterTime(w, r, "due_from", raw)
		if !ok {
			return filter, false
		}
		filter.DueDateFrom = &t
	}
	if raw := q.Get("due_to"); raw != "" {
		t, ok := parseFilterTime(w, r, "due_to", raw)
		if !ok {
			return filter, false
		}
		filter.DueDateTo = &t
	}

	return filter, true
}

// parseFilterTime accepts RFC 3339 timestamps and bare dates. A bare date
// is interpreted as midnight UTC, which keeps both bounds inclusive for
// whole-day ranges on the lower end.
func parseFilterTime(w http.ResponseWriter, r *http.Request, name, raw string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	shared.RespondWithFieldError(w, r, http.StatusUnprocessableEntity,
		name+" must be an RFC 3339 timestamp or YYYY-MM-DD date", name)
	return time.Time{}, false
}
