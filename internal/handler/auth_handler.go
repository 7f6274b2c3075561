package handler

import (
	"errors"
	"net/http"

	"gradepay/config"
	"gradepay/internal/auth"
	"gradepay/internal/domain"
	"gradepay/internal/middleware"
	"gradepay/internal/models"
	"gradepay/internal/repository"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	cfg      *config.Config
	users    *repository.UserRepository
	wallets  *repository.WalletRepository
	partners *repository.PartnerRepository
}

func NewAuthHandler(cfg *config.Config, users *repository.UserRepository, wallets *repository.WalletRepository, partners *repository.PartnerRepository) *AuthHandler {
	return &AuthHandler{cfg: cfg, users: users, wallets: wallets, partners: partners}
}

// Register creates a user and their zero-balance wallet in one step.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		FirstName string `json:"first_name" binding:"required"`
		LastName  string `json:"last_name" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=8"`
		Role      string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Role {
	case domain.RoleStudent, domain.RoleLecturer, domain.RolePartner:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash error"})
		return
	}
	user := &models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
	}
	if err := h.users.Create(user); err != nil {
		if errors.Is(err, domain.ErrDuplicateOperation) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	if _, err := h.wallets.Create(user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet creation failed"})
		return
	}

	access, err := auth.GenerateAccessToken(&h.cfg.JWT, user.ID, user.Email, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
		return
	}
	refresh, _ := auth.GenerateRefreshToken(&h.cfg.JWT, user.ID)
	c.JSON(http.StatusCreated, gin.H{
		"user":          user,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.users.GetByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	access, err := auth.GenerateAccessToken(&h.cfg.JWT, user.ID, user.Email, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
		return
	}
	refresh, _ := auth.GenerateRefreshToken(&h.cfg.JWT, user.ID)
	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

// Me returns the authenticated user's profile, with partner details if any.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)
	user, err := h.users.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	resp := gin.H{"user": user}
	if user.Role == domain.RolePartner {
		if p, err := h.partners.GetByUserID(userID); err == nil {
			resp["partner"] = p
		}
	}
	c.JSON(http.StatusOK, resp)
}
