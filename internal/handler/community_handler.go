package handler

import (
	"errors"
	"net/http"
	"strconv"

	"Seva_Community/internal/model"
	"Seva_Community/internal/service"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	svc     *service.CommunityService
	userSvc *service.UserService
}

type CommunityCreateReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
}

type CommunityUpdateReq struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	LogoURL       *string `json:"logo_url"`
	CoverImageURL *string `json:"cover_image_url"`
	Status        *string `json:"status"`
}

func NewCommunityHandler(svc *service.CommunityService, userSvc *service.UserService) *CommunityHandler {
	return &CommunityHandler{svc: svc, userSvc: userSvc}
}

func (h *CommunityHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
		return
	}

	var req CommunityCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	owner, err := h.userSvc.GetUser(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
		return
	}

	community, err := h.svc.CreateCommunity(owner, req.Name, req.Description, req.LogoURL)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrSlugTaken) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, communityView(community))
}

func (h *CommunityHandler) Get(c *gin.Context) {
	community, err := h.svc.GetCommunity(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, communityView(community))
}

func (h *CommunityHandler) GetBySlug(c *gin.Context) {
	community, err := h.svc.GetBySlug(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, communityView(community))
}

func (h *CommunityHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list := h.svc.ListCommunities(c.Query("status"), c.Query("owner_id"), c.Query("search"), page, size)
	views := make([]gin.H, 0, len(list))
	for _, cm := range list {
		views = append(views, communityView(cm))
	}
	c.JSON(http.StatusOK, gin.H{"list": views})
}

func (h *CommunityHandler) Update(c *gin.Context) {
	var req CommunityUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	community, err := h.svc.UpdateCommunity(c.Param("id"), model.CommunityPatch{
		Name:          req.Name,
		Description:   req.Description,
		LogoURL:       req.LogoURL,
		CoverImageURL: req.CoverImageURL,
		Status:        req.Status,
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, communityView(community))
}

func (h *CommunityHandler) Archive(c *gin.Context) {
	if err := h.svc.ArchiveCommunity(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *CommunityHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteCommunity(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func communityView(cm *model.Community) gin.H {
	return gin.H{
		"id":              cm.ID,
		"slug":            cm.Slug,
		"name":            cm.Name,
		"description":     cm.Description,
		"owner_id":        cm.OwnerID,
		"logo_url":        cm.LogoURL,
		"cover_image_url": cm.CoverImageURL,
		"status":          cm.Status,
		"member_count":    cm.MemberCount,
		"donation_total":  cm.DonationTotal,
		"created_at":      cm.CreatedAt,
	}
}
