package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todo/api/transport"
	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/pkg/httpcontext"
	taskUC "github.com/fastygo/todo/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List tasks
// @Tags todos
// @Router /api/todos [get]
func (h *TaskHandler) ListTasks(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListTasks(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, tasks)
}

// @Summary Create task
// @Tags todos
// @Router /api/todos [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	req, err := transport.DecodeCreate(ctx.PostBody())
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	created, err := h.uc.CreateTask(stdCtx, req.Task)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, created)
}

// @Summary Get task
// @Tags todos
// @Router /api/todos/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.GetTask(stdCtx, taskID(ctx))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, task)
}

// @Summary Update task
// @Tags todos
// @Router /api/todos/{id} [patch]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	req, err := transport.DecodeUpdate(ctx.PostBody())
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	updated, err := h.uc.UpdateTask(stdCtx, taskID(ctx), req.Patch())
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, updated)
}

// @Summary Delete task
// @Tags todos
// @Router /api/todos/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id := taskID(ctx)
	if id == "" {
		h.respondError(ctx, stdCtx, domain.ErrTaskNotFound)
		return
	}
	if err := h.uc.DeleteTask(stdCtx, id); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondNoContent(ctx)
}

func taskID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue("id").(string)
	return id
}
