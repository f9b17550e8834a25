package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"Seva_Community/internal/repository/mysql"
	"Seva_Community/internal/service"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	svc *service.EventService
}

type EventCreateReq struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	EndsAt      time.Time `json:"ends_at"`
	Capacity    int       `json:"capacity"`
}

func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

func (h *EventHandler) Create(c *gin.Context) {
	var req EventCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	e, err := h.svc.CreateEvent(c.Param("id"), req.Title, req.Description, req.Location, req.StartsAt, req.EndsAt, req.Capacity)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *EventHandler) Get(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("eventID"), 10, 64)
	e, err := h.svc.GetEvent(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *EventHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.ListByCommunity(c.Param("id"), page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *EventHandler) Cancel(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("eventID"), 10, 64)
	if err := h.svc.CancelEvent(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// Register 报名/取消报名，action 二选一
func (h *EventHandler) Register(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
		return
	}

	var req struct {
		Action string `json:"action" binding:"required,oneof=register unregister"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	id, _ := strconv.ParseUint(c.Param("eventID"), 10, 64)
	var (
		changed bool
		err     error
	)
	if req.Action == "register" {
		changed, err = h.svc.Register(c.Request.Context(), id, userID)
	} else {
		changed, err = h.svc.Unregister(c.Request.Context(), id, userID)
	}
	if err != nil {
		if errors.Is(err, mysql.ErrEventFull) {
			c.JSON(http.StatusConflict, gin.H{"msg": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

func (h *EventHandler) IsRegistered(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
		return
	}

	id, _ := strconv.ParseUint(c.Param("eventID"), 10, 64)
	registered, err := h.svc.IsRegistered(c.Request.Context(), id, userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"registered": registered})
}

// ListRegistrations 游标分页报名列表
func (h *EventHandler) ListRegistrations(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("eventID"), 10, 64)
	cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))

	rows, next, err := h.svc.ListRegistrations(c.Request.Context(), id, cursor, limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": rows, "next_cursor": next})
}
