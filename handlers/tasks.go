package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"todo-backend/models"
	"todo-backend/service"
)

// Tasks is the task orchestrator the handlers drive.
type Tasks interface {
	Create(ctx context.Context, in models.TaskInput) (models.Task, error)
	Update(ctx context.Context, id int64, in models.TaskInput) (models.Task, error)
	List(ctx context.Context, completed bool, page, size int) ([]models.Task, models.Pagination, error)
	Delete(ctx context.Context, id int64) error
}

type TaskHandler struct {
	tasks       Tasks
	log         *slog.Logger
	maxPageSize int
}

type listQuery struct {
	Completed bool `form:"completed"`
	Page      int  `form:"page,default=0" binding:"min=0"`
	Size      int  `form:"size,default=5" binding:"min=1"`
}

const msgInvalidBody = "Invalid request body"

// Create handles POST /api/v1/tasks.
func (h *TaskHandler) Create(c *gin.Context) {
	var in models.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, msgInvalidBody)
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Success("Task created successfully", task))
}

// Update handles PUT /api/v1/tasks/:id.
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	var in models.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, msgInvalidBody)
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Success("Task updated successfully", task))
}

// List handles GET /api/v1/tasks?completed=&page=&size=.
func (h *TaskHandler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, queryError(err))
		return
	}
	if q.Size > h.maxPageSize {
		h.badRequest(c, fmt.Sprintf("size must be <= %d", h.maxPageSize))
		return
	}

	tasks, p, err := h.tasks.List(c.Request.Context(), q.Completed, q.Page, q.Size)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Paged("Tasks retrieved successfully", tasks, p))
}

// Delete handles DELETE /api/v1/tasks/:id.
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Success[any]("Task deleted successfully", nil))
}

func (h *TaskHandler) taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.badRequest(c, "invalid task id")
		return 0, false
	}
	return id, true
}

// fail answers business errors with 400 and their message. Anything else is
// a server fault and its details stay in the log.
func (h *TaskHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, service.ErrRequiredField) || errors.Is(err, service.ErrNotFound) {
		h.badRequest(c, err.Error())
		return
	}

	h.log.Error("request failed",
		"rid", RequestIDFrom(c),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"err", err,
	)
	c.JSON(http.StatusInternalServerError, models.Failure("internal error"))
}

func (h *TaskHandler) badRequest(c *gin.Context, msg string) {
	h.log.Warn("bad request", "rid", RequestIDFrom(c), "msg", msg)
	c.JSON(http.StatusBadRequest, models.Failure(msg))
}

func queryError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid query parameters"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be >= %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(msgs, "; ")
}
