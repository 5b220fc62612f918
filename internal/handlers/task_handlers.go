package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"planner/internal/handlers/dto"
	"planner/internal/logger"
	"planner/internal/service"
)

type TaskHandler struct {
	taskService TaskService
}

func NewTaskHandler(taskService TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// GetTasks serves GET /tasks: every task, pool first, in canonical order.
func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN: list tasks")

	tasks, err := h.taskService.ListTasks(r.Context())
	if err != nil {
		if !handleBusinessError(w, err) {
			logger.Error("HTTP: service error", err, zap.String("operation", "list_tasks"))
			responseWithError(w, http.StatusInternalServerError, service.CodeStorage, err.Error())
		}
		return
	}

	logger.Info("HTTP_OUT: tasks listed",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)))
	responseWithJSON(w, http.StatusOK, tasks)
}

// PostTask serves POST /tasks.
func (h *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN: create task")

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: wrong content type",
			zap.String("received", r.Header.Get("Content-Type")))
		responseWithError(w, http.StatusUnsupportedMediaType, service.CodeValidation,
			"Content-Type must be application/json")
		return
	}

	var request dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: malformed JSON", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, service.CodeValidation,
			"invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	created, err := h.taskService.CreateTask(r.Context(), service.CreateTaskInput{
		Title:       request.Title,
		Description: request.Description,
		Date:        request.Date,
		TimeHours:   request.TimeHours,
		Priority:    request.Priority,
		Category:    request.Category,
		Deadline:    request.Deadline,
	})
	if err != nil {
		if !handleBusinessError(w, err) {
			logger.Error("HTTP: service error", err, zap.String("operation", "create_task"))
			responseWithError(w, http.StatusInternalServerError, service.CodeStorage, err.Error())
		}
		return
	}

	logger.Info("HTTP_OUT: task created",
		zap.Int64("task_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))
	responseWithJSON(w, http.StatusCreated, created)
}

// UpdateTaskByID serves PUT /tasks/{id} with partial-patch semantics.
func (h *TaskHandler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN: update task")

	id, ok := taskID(w, r)
	if !ok {
		return
	}

	var request dto.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: malformed JSON", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, service.CodeValidation,
			"invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	updated, err := h.taskService.UpdateTask(r.Context(), id, request.ToPatch())
	if err != nil {
		if !handleBusinessError(w, err) {
			logger.Error("HTTP: service error", err, zap.String("operation", "update_task"))
			responseWithError(w, http.StatusInternalServerError, service.CodeStorage, err.Error())
		}
		return
	}

	logger.Info("HTTP_OUT: task updated",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)))
	responseWithJSON(w, http.StatusOK, updated)
}

// DeleteTaskByID serves DELETE /tasks/{id}.
func (h *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN: delete task")

	id, ok := taskID(w, r)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), id); err != nil {
		if !handleBusinessError(w, err) {
			logger.Error("HTTP: service error", err, zap.String("operation", "delete_task"))
			responseWithError(w, http.StatusInternalServerError, service.CodeStorage, err.Error())
		}
		return
	}

	logger.Info("HTTP_OUT: task deleted",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)))
	responseWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: health check")
	responseWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		logger.Warn("HTTP: bad task id",
			zap.String("id", idParam),
			zap.Error(err))
		responseWithError(w, http.StatusBadRequest, service.CodeValidation,
			"task id must be an integer")
		return 0, false
	}
	return id, true
}
