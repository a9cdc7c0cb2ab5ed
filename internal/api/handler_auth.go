package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"campus-laundry-backend/internal/model"
	"campus-laundry-backend/internal/store"
)

type loginRequest struct {
	StudentID string `json:"student_id"`
	Password  string `json:"password"`
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// Login handles POST /api/auth/login. Database accounts are tried first;
// legacy plaintext rows still compare directly. The seeded demo accounts
// remain usable when the database has no matching user.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.StudentID == "" || req.Password == "" {
		respondValidation(c, "Student ID and password are required")
		return
	}
	ctx := c.Request.Context()

	user, err := h.store.UserByStudentID(ctx, req.StudentID)
	if err == nil {
		ok := false
		if isBcryptHash(user.Password) {
			ok = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) == nil
		} else {
			ok = req.Password == user.Password
		}
		if ok {
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"message": "Login successful",
				"data": gin.H{
					"token": "mock-jwt-token",
					"user":  user,
				},
			})
			return
		}
	} else if !errors.Is(err, store.ErrUserNotFound) {
		respondError(c, err)
		return
	}

	if seed, ok := h.resolver.SeedPasswordMatches(req.StudentID, req.Password); ok {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Login successful",
			"data": gin.H{
				"token": "mock-jwt-token",
				"user":  seed.AsUser(),
			},
		})
		return
	}

	c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid student ID or password"})
}

type registerRequest struct {
	StudentID string `json:"student_id"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.StudentID == "" || req.Password == "" || req.Name == "" || req.Email == "" {
		respondValidation(c, "Student ID, password, name and email are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.store.CreateUser(c.Request.Context(), model.User{
		StudentID: req.StudentID,
		Password:  string(hash),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"data":    gin.H{"user": user},
	})
}
