package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager-api/internal/dto"
	apierrors "github.com/yukikurage/task-manager-api/internal/errors"
	"github.com/yukikurage/task-manager-api/internal/services"
	"github.com/yukikurage/task-manager-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the current user's tasks
// Supports completed, sortBy=field:asc|desc, limit and skip
func (h *TaskHandler) ListTasks(c *gin.Context) {
	user, _, ok := currentSession(c)
	if !ok {
		return
	}

	params := utils.GetTaskListParams(c)

	tasks, err := h.taskService.ListTasks(c.Request.Context(), services.ListTasksInput{
		Owner:     user.ID,
		Completed: params.Completed,
		Sort:      params.Sort,
		Limit:     params.Limit,
		Skip:      params.Skip,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetTask returns a task owned by the current user
func (h *TaskHandler) GetTask(c *gin.Context) {
	user, _, ok := currentSession(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task owned by the current user
func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, _, ok := currentSession(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Description string `json:"description"`
		Completed   *bool  `json:"completed"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		Description: req.Description,
		Completed:   req.Completed,
		Owner:       user.ID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask updates description and/or completed
// Any other key rejects the whole request
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	user, _, ok := currentSession(c)
	if !ok {
		return
	}

	// Parse raw JSON to detect which fields were sent
	var rawReq map[string]json.RawMessage
	if !bindUpdates(c, &rawReq) {
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), c.Param("id"), user.ID, rawReq)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task and returns it
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	user, _, ok := currentSession(c)
	if !ok {
		return
	}

	task, err := h.taskService.DeleteTask(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}
