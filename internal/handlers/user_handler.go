package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"nirmaan-backend/config"
	"nirmaan-backend/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserCreateRequest struct {
	Name     string `json:"name" binding:"required"`
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type userData struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Login     string `json:"login"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// CreateUserHandler registers an account. Only super_admin reaches this route.
func CreateUserHandler(c *gin.Context) {
	var req UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Name, login, password and role are required")
		return
	}

	if !models.ValidRole(req.Role) {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Invalid role '%s'", req.Role))
		return
	}

	var count int64
	if err := config.DB.Model(&models.User{}).Where("login = ?", req.Login).Count(&count).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if count > 0 {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Login '%s' is already taken", req.Login))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user := models.User{
		Name:         req.Name,
		Login:        req.Login,
		PasswordHash: string(hash),
		Role:         req.Role,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return writeAuditLog(tx, c, "User", "Create", user.ID)
	})
	if err != nil {
		slog.Error("Failed to create user", "login", req.Login, "error", err)
		respondError(c, http.StatusInternalServerError, "An error occurred while creating user")
		return
	}

	respond(c, http.StatusCreated, userData{
		ID:        user.ID,
		Name:      user.Name,
		Login:     user.Login,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}, "User created successfully")
}

// ListUsersHandler returns all accounts, paginated.
func ListUsersHandler(c *gin.Context) {
	var total int64
	if err := config.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var users []models.User
	if err := config.DB.Scopes(Paginate(c)).Order("id").Find(&users).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "An error occurred while fetching users")
		return
	}

	list := make([]userData, len(users))
	for i, u := range users {
		list[i] = userData{
			ID:        u.ID,
			Name:      u.Name,
			Login:     u.Login,
			Role:      u.Role,
			CreatedAt: u.CreatedAt.Format(time.RFC3339),
		}
	}

	respond(c, http.StatusOK, CreatePaginatedResponse(c, list, total), "Users fetched successfully")
}
