package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/charity-task-api/internal/dto"
	apierrors "github.com/yukikurage/charity-task-api/internal/errors"
	"github.com/yukikurage/charity-task-api/internal/middleware"
	"github.com/yukikurage/charity-task-api/internal/models"
	"github.com/yukikurage/charity-task-api/internal/services"
	"github.com/yukikurage/charity-task-api/internal/utils"
)

const taskDateLayout = "2006-01-02"

type TaskHandler struct {
	taskService      *services.TaskService
	relevanceService *services.RelevanceService
}

func NewTaskHandler(taskService *services.TaskService, relevanceService *services.RelevanceService) *TaskHandler {
	return &TaskHandler{
		taskService:      taskService,
		relevanceService: relevanceService,
	}
}

// ListTasks returns the tasks relevant to the current user.
// scope narrows the listing to owned, assigned or eligible tasks.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	scope, err := services.ParseScope(c.Query("scope"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	params := utils.GetPaginationParams(c)

	tasks, err := h.relevanceService.List(c.Request.Context(), userID, scope)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	page := utils.Paginate(tasks, params)
	c.JSON(http.StatusOK, dto.ToTaskListResponse(page, string(scope), params, int64(len(tasks))))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), userID, taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask posts a new task under the caller's charity
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title        string  `json:"title" binding:"required"`
		Description  string  `json:"description"`
		Date         *string `json:"date"`
		GenderLimit  *string `json:"gender_limit"`
		AgeLimitFrom *int    `json:"age_limit_from"`
		AgeLimitTo   *int    `json:"age_limit_to"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	date, err := parseTaskDate(req.Date)
	if err != nil {
		apierrors.BadRequest(c, "date must be YYYY-MM-DD or RFC3339")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), userID, services.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Date:         date,
		GenderLimit:  req.GenderLimit,
		AgeLimitFrom: req.AgeLimitFrom,
		AgeLimitTo:   req.AgeLimitTo,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// RequestTask asks to be assigned to a Pending task
func (h *TaskHandler) RequestTask(c *gin.Context) {
	userID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	task, err := h.taskService.RequestTask(c.Request.Context(), userID, taskID)
	h.respondTask(c, task, err)
}

// RespondTask approves or rejects the request on a Waiting task
func (h *TaskHandler) RespondTask(c *gin.Context) {
	userID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	type RespondTaskRequest struct {
		Decision string `json:"decision" binding:"required"`
	}

	var req RespondTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.RespondTask(c.Request.Context(), userID, taskID, req.Decision)
	h.respondTask(c, task, err)
}

// CompleteTask marks an Assigned task as Done
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	userID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	task, err := h.taskService.CompleteTask(c.Request.Context(), userID, taskID)
	h.respondTask(c, task, err)
}

func (h *TaskHandler) respondTask(c *gin.Context, task *models.Task, err error) {
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// taskRequest reads the caller and the task ID set by RequireTaskID.
func taskRequest(c *gin.Context) (uint64, uint64, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return 0, 0, false
	}
	taskID, ok := middleware.GetTaskID(c)
	if !ok {
		apierrors.BadRequest(c, "Invalid task ID")
		return 0, 0, false
	}
	return userID, taskID, true
}

func parseTaskDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	if t, err := time.Parse(taskDateLayout, *value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
