package handler

import (
	"net/http"
	"strconv"

	"Seva_Community/internal/service"

	"github.com/gin-gonic/gin"
)

type DonationHandler struct {
	svc *service.DonationService
}

type DonationReq struct {
	DonorName   string `json:"donor_name" binding:"required"`
	DonorEmail  string `json:"donor_email"`
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
	Method      string `json:"method" binding:"omitempty,oneof=upi card cash cheque"`
	Note        string `json:"note"`
}

func NewDonationHandler(svc *service.DonationService) *DonationHandler {
	return &DonationHandler{svc: svc}
}

func (h *DonationHandler) Record(c *gin.Context) {
	var req DonationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	d, err := h.svc.Record(c.Request.Context(), c.Param("id"), req.DonorName, req.DonorEmail, req.AmountCents, req.Method, req.Note)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DonationHandler) Total(c *gin.Context) {
	total, err := h.svc.TotalFor(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_cents": total})
}

// List 游标分页捐赠明细
func (h *DonationHandler) List(c *gin.Context) {
	cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))

	rows, next, err := h.svc.ListByCommunity(c.Request.Context(), c.Param("id"), cursor, limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": rows, "next_cursor": next})
}
