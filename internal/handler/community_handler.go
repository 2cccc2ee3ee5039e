package handler

import (
	"errors"
	"net/http"
	"strconv"

	"Mod_Community/internal/service"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	svc      *service.CommunityService
	transfer *service.TransferService
}

type TransferReq struct {
	CommunityID    uint64 `json:"community_id" binding:"required"`
	TargetPersonID uint64 `json:"target_person_id" binding:"required"`
}

func NewCommunityHandler() *CommunityHandler {
	return &CommunityHandler{
		svc:      service.NewCommunityService(),
		transfer: service.NewTransferService(),
	}
}

// Transfer 把社区所有权移交给另一位现任版主
func (h *CommunityHandler) Transfer(c *gin.Context) {
	var req TransferReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	uid := userIDFromCtx(c)
	resp, err := h.transfer.Transfer(c.Request.Context(), uid, req.CommunityID, req.TargetPersonID)
	if err != nil {
		c.JSON(transferStatus(err), gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// transferStatus 各失败条件固定映射一个状态码
func transferStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrCommunityNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, service.ErrRosterEmpty), errors.Is(err, service.ErrTransferBusy):
		return http.StatusConflict
	case errors.Is(err, service.ErrTargetNotModerator):
		return http.StatusUnprocessableEntity
	default:
		// ErrDuplicateModerator / ErrReadAfterCommit / 其他存储错误
		return http.StatusInternalServerError
	}
}

// Get 社区详情 + 版主名单
func (h *CommunityHandler) Get(c *gin.Context) {
	idStr := c.Param("id")
	communityID, _ := strconv.ParseUint(idStr, 10, 64)

	resp, err := h.svc.GetCommunityView(c.Request.Context(), communityID)
	if err != nil {
		if errors.Is(err, service.ErrCommunityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *CommunityHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.ListCommunities(page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"list": list})
}

// TransferLog 社区的所有权转移审计记录
func (h *CommunityHandler) TransferLog(c *gin.Context) {
	idStr := c.Param("id")
	communityID, _ := strconv.ParseUint(idStr, 10, 64)
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.ListTransferLog(communityID, page, size)
	if err != nil {
		if errors.Is(err, service.ErrCommunityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"list": list})
}

func userIDFromCtx(c *gin.Context) uint64 {
	if v, ok := c.Get("user_id"); ok {
		if id, ok2 := v.(uint64); ok2 {
			return id
		}
	}
	return 0
}
