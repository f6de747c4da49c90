package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"task-tracker/internal/service"
)

type TaskController struct {
	tasks *service.TaskService
	log   *zap.SugaredLogger
}

func NewTaskController(tasks *service.TaskService, log *zap.SugaredLogger) *TaskController {
	return &TaskController{tasks: tasks, log: log}
}

type bulkUpdateRequest struct {
	TaskIDs []string               `json:"taskIds"`
	Updates *service.BulkTaskPatch `json:"updates"`
}

type bulkDeleteTasksRequest struct {
	TaskIDs []string `json:"taskIds"`
}

func (tc *TaskController) List(c *gin.Context) {
	tasks, err := tc.tasks.List(c.Request.Context())
	if err != nil {
		respondError(c, tc.log, err, "Failed to fetch tasks")
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (tc *TaskController) Get(c *gin.Context) {
	task, err := tc.tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, tc.log, err, "Failed to fetch task")
		return
	}
	c.JSON(http.StatusOK, task)
}

func (tc *TaskController) Create(c *gin.Context) {
	var input service.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	task, err := tc.tasks.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, tc.log, err, "Failed to create task")
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (tc *TaskController) Update(c *gin.Context) {
	var patch service.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	task, err := tc.tasks.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, tc.log, err, "Failed to update task")
		return
	}
	c.JSON(http.StatusOK, task)
}

func (tc *TaskController) Delete(c *gin.Context) {
	task, err := tc.tasks.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, tc.log, err, "Failed to delete task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully", "task": task})
}

func (tc *TaskController) ClearAll(c *gin.Context) {
	n, err := tc.tasks.ClearAll(c.Request.Context())
	if err != nil {
		respondError(c, tc.log, err, "Failed to clear tasks")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All tasks cleared successfully", "deletedCount": n})
}

func (tc *TaskController) ByStatus(c *gin.Context) {
	tasks, err := tc.tasks.ByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		respondError(c, tc.log, err, "Failed to fetch tasks by status")
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (tc *TaskController) ByCategory(c *gin.Context) {
	tasks, err := tc.tasks.ByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, tc.log, err, "Failed to fetch tasks by category")
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (tc *TaskController) Today(c *gin.Context) {
	tasks, err := tc.tasks.Today(c.Request.Context())
	if err != nil {
		respondError(c, tc.log, err, "Failed to fetch today's tasks")
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (tc *TaskController) Search(c *gin.Context) {
	tasks, err := tc.tasks.Search(c.Request.Context(), service.SearchQuery{
		Text:     c.Query("q"),
		Status:   c.Query("status"),
		Category: c.Query("category"),
		DueDate:  c.Query("dueDate"),
	})
	if err != nil {
		respondError(c, tc.log, err, "Failed to search tasks")
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (tc *TaskController) BulkUpdate(c *gin.Context) {
	var req bulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if len(req.TaskIDs) == 0 {
		badRequest(c, "Task IDs array is required")
		return
	}
	if req.Updates == nil {
		badRequest(c, "Updates object is required")
		return
	}
	n, err := tc.tasks.BulkUpdate(c.Request.Context(), req.TaskIDs, *req.Updates)
	if err != nil {
		respondError(c, tc.log, err, "Failed to update tasks")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       fmt.Sprintf("%d tasks updated successfully", n),
		"modifiedCount": n,
	})
}

func (tc *TaskController) BulkDelete(c *gin.Context) {
	var req bulkDeleteTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	n, err := tc.tasks.BulkDelete(c.Request.Context(), req.TaskIDs)
	if err != nil {
		respondError(c, tc.log, err, "Failed to delete tasks")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      fmt.Sprintf("%d tasks deleted successfully", n),
		"deletedCount": n,
	})
}

func (tc *TaskController) Stats(c *gin.Context) {
	stats, err := tc.tasks.Stats(c.Request.Context())
	if err != nil {
		respondError(c, tc.log, err, "Failed to fetch task statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}
