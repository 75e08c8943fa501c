package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ricolabs/procure-api/internal/services"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// @Summary Health Check
// @Description Checks if the API is running
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "procure-api",
		"version": "1.0.0",
	})
}

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// @Summary Login
// @Description Authenticates a user
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login Credentials"
// @Success 200 {object} services.LoginResult
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

type ReferenceHandler struct {
	referenceService *services.ReferenceService
}

func NewReferenceHandler(referenceService *services.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService}
}

// @Summary List Vendors
// @Description Get all vendors ordered by name
// @Tags Reference
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /vendors [get]
func (h *ReferenceHandler) Vendors(c *gin.Context) {
	vendors, err := h.referenceService.Vendors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vendors": vendors})
}

// @Summary List Categories
// @Description Get all active spend categories
// @Tags Reference
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /categories [get]
func (h *ReferenceHandler) Categories(c *gin.Context) {
	categories, err := h.referenceService.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// @Summary List Category Limits
// @Description Get every category with its optional daily limit
// @Tags Reference
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /limits [get]
func (h *ReferenceHandler) Limits(c *gin.Context) {
	limits, err := h.referenceService.CategoryLimits(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"limits": limits})
}
