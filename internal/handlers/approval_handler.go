package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ricolabs/procure-api/internal/middleware"
	"github.com/ricolabs/procure-api/internal/models"
	"github.com/ricolabs/procure-api/internal/repository"
	"github.com/ricolabs/procure-api/internal/services"
)

type ApprovalHandler struct {
	approvalService *services.ApprovalService
}

func NewApprovalHandler(approvalService *services.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService}
}

// @Summary Apply Approval Action
// @Description Approve or reject an agreement or invoice. Role-gated; appends an audit record atomically with the state change.
// @Tags Approvals
// @Accept json
// @Produce json
// @Param request body services.ActionInput true "Action"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /actions [post]
func (h *ApprovalHandler) Action(c *gin.Context) {
	var input services.ActionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action payload: " + err.Error()})
		return
	}
	input.ApproverID = middleware.GetUserID(c)

	// The acting role must match the caller's own role; admins may act as
	// any role.
	callerRole := middleware.GetUserRole(c)
	if input.Role == "" {
		input.Role = callerRole
	} else if input.Role != callerRole && callerRole != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot act as role " + input.Role})
		return
	}

	if err := h.approvalService.ApplyAction(c.Request.Context(), &input); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Action applied",
		"id":      input.TargetID,
		"action":  input.Action,
	})
}

// @Summary Pending Approvals
// @Description Get the review queue for the caller's role
// @Tags Approvals
// @Produce json
// @Success 200 {object} services.PendingApprovals
// @Security BearerAuth
// @Router /approvals/pending [get]
func (h *ApprovalHandler) Pending(c *gin.Context) {
	pending, err := h.approvalService.Pending(c.Request.Context(), middleware.GetUserRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pending)
}

type LimitUpdateRequest struct {
	LimitAmount int64 `json:"limit_amount" binding:"required"`
}

// @Summary Update Daily Limit
// @Description Upsert a category's daily spend limit. CFO only; records the change in the approval log.
// @Tags Approvals
// @Accept json
// @Produce json
// @Param category_id path int true "Category ID"
// @Param request body LimitUpdateRequest true "New Limit"
// @Success 200 {object} models.DailyLimit
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /limits/{category_id} [put]
func (h *ApprovalHandler) UpdateLimit(c *gin.Context) {
	categoryID, err := strconv.ParseUint(c.Param("category_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category id"})
		return
	}

	var req LimitUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Limit amount is required"})
		return
	}

	limit, err := h.approvalService.UpdateDailyLimit(c.Request.Context(), uint(categoryID), req.LimitAmount, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"limit": limit})
}

// @Summary List Approval Logs
// @Description Get the append-only audit trail, newest first
// @Tags Approvals
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /approvals/logs [get]
func (h *ApprovalHandler) Logs(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))

	logs, total, err := h.approvalService.Logs(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs": logs,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}
