package handler

import (
	"net/http"

	"Seva_Community/internal/service"

	"github.com/gin-gonic/gin"
)

type BroadcastHandler struct {
	svc *service.BroadcastService
}

type BroadcastReq struct {
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

func NewBroadcastHandler(svc *service.BroadcastService) *BroadcastHandler {
	return &BroadcastHandler{svc: svc}
}

// Send 群发邮件给社区全部 active 成员
func (h *BroadcastHandler) Send(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
		return
	}

	var req BroadcastReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	sent, failed, err := h.svc.Send(c.Request.Context(), c.Param("id"), actorID, req.Subject, req.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": sent, "failed": failed})
}
