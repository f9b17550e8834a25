package handler

import (
	"errors"
	"net/http"

	"Seva_Community/internal/model"
	"Seva_Community/internal/service"

	"github.com/gin-gonic/gin"
)

type MembershipHandler struct {
	svc *service.MembershipService
}

type ApplicationReq struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func NewMembershipHandler(svc *service.MembershipService) *MembershipHandler {
	return &MembershipHandler{svc: svc}
}

// Submit 提交入会申请，登录与否均可
func (h *MembershipHandler) Submit(c *gin.Context) {
	var req ApplicationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	userID, _ := currentUserID(c)
	app, err := h.svc.SubmitApplication(c.Param("id"), userID, req.Name, req.Email, req.Phone, req.Message)
	if err != nil {
		c.JSON(membershipStatus(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, applicationView(app))
}

// ListApplications 按社区列申请，?status= 可选过滤
func (h *MembershipHandler) ListApplications(c *gin.Context) {
	list, err := h.svc.ListApplications(c.Param("id"), c.Query("status"))
	if err != nil {
		c.JSON(membershipStatus(err), gin.H{"msg": err.Error()})
		return
	}
	views := make([]gin.H, 0, len(list))
	for _, a := range list {
		views = append(views, applicationView(a))
	}
	c.JSON(http.StatusOK, gin.H{"list": views})
}

func (h *MembershipHandler) GetApplication(c *gin.Context) {
	app, err := h.svc.GetApplication(c.Param("appID"))
	if err != nil {
		c.JSON(membershipStatus(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, applicationView(app))
}

// Approve 审批通过，重复请求幂等
func (h *MembershipHandler) Approve(c *gin.Context) {
	reviewerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
		return
	}

	app, err := h.svc.Approve(c.Request.Context(), c.Param("appID"), reviewerID)
	if err != nil {
		c.JSON(membershipStatus(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, applicationView(app))
}

// Reject 驳回，对已通过的申请会撤销成员资格
func (h *MembershipHandler) Reject(c *gin.Context) {
	reviewerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
		return
	}

	app, err := h.svc.Reject(c.Request.Context(), c.Param("appID"), reviewerID)
	if err != nil {
		c.JSON(membershipStatus(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, applicationView(app))
}

// ListMembers ?role= ?status= ?search= 均可选
func (h *MembershipHandler) ListMembers(c *gin.Context) {
	list, err := h.svc.ListMembers(c.Param("id"), c.Query("role"), c.Query("status"), c.Query("search"))
	if err != nil {
		c.JSON(membershipStatus(err), gin.H{"msg": err.Error()})
		return
	}
	views := make([]gin.H, 0, len(list))
	for _, m := range list {
		views = append(views, memberView(m))
	}
	c.JSON(http.StatusOK, gin.H{"list": views})
}

func (h *MembershipHandler) RemoveMember(c *gin.Context) {
	operatorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
		return
	}

	if err := h.svc.RemoveMember(c.Request.Context(), c.Param("id"), c.Param("memberID"), operatorID); err != nil {
		c.JSON(membershipStatus(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func membershipStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidApplicationID):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrApplicationNotFound),
		errors.Is(err, service.ErrCommunityNotFound),
		errors.Is(err, service.ErrMemberNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateApplication),
		errors.Is(err, service.ErrApplicationRejected):
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

func applicationView(a *model.Application) gin.H {
	return gin.H{
		"id":           a.ID,
		"community_id": a.CommunityID,
		"user_id":      a.UserID,
		"name":         a.Name,
		"email":        a.Email,
		"phone":        a.Phone,
		"message":      a.Message,
		"status":       a.Status,
		"applied_at":   a.AppliedAt,
		"reviewed_at":  a.ReviewedAt,
		"reviewed_by":  a.ReviewedBy,
	}
}

func memberView(m *model.Member) gin.H {
	return gin.H{
		"id":           m.ID,
		"community_id": m.CommunityID,
		"user_id":      m.UserID,
		"email":        m.Email,
		"full_name":    m.FullName,
		"phone":        m.Phone,
		"role":         m.Role,
		"status":       m.Status,
		"is_lead":      m.IsLead,
		"joined_at":    m.JoinedAt,
	}
}
