package handler

import (
	"net/http"
	"strconv"
	"time"

	"Seva_Community/internal/service"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	svc *service.TaskService
}

type TaskCreateReq struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    int        `json:"priority"`
	DueAt       *time.Time `json:"due_at"`
}

type TaskStatusReq struct {
	Status int `json:"status" binding:"min=0,max=2"`
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
		return
	}

	var req TaskCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	task, err := h.svc.CreateTask(userID, c.Param("id"), req.Title, req.Description, req.Priority, req.DueAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Get(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("taskID"), 10, 64)
	task, err := h.svc.GetTask(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, task)
}

// List 页码分页，?status= 缺省为全部；带 last_id/last_ts 时走游标分页
func (h *TaskHandler) List(c *gin.Context) {
	if c.Query("last_id") != "" || c.Query("last_ts") != "" {
		h.listCursor(c)
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))
	status := -1
	if s := c.Query("status"); s != "" {
		status, _ = strconv.Atoi(s)
	}

	list, err := h.svc.ListByCommunity(c.Param("id"), status, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *TaskHandler) listCursor(c *gin.Context) {
	lastID, _ := strconv.ParseUint(c.Query("last_id"), 10, 64)
	lastTS, _ := strconv.ParseInt(c.Query("last_ts"), 10, 64)
	size, _ := strconv.Atoi(c.Query("size"))

	list, nextID, nextTS, err := h.svc.ListByCommunityCursor(c.Param("id"), lastID, lastTS, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list, "next_last_id": nextID, "next_last_ts": nextTS})
}

func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	var req TaskStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	id, _ := strconv.ParseUint(c.Param("taskID"), 10, 64)
	if err := h.svc.UpdateStatus(id, req.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// Delete 幂等删除
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
		return
	}

	id, _ := strconv.ParseUint(c.Param("taskID"), 10, 64)
	if err := h.svc.DeleteTask(userID, id); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
