package controllers

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"restora/pkg/resp"
	"restora/repository"
	"restora/utils"
)

type AuthController struct {
	Repo      repository.UserRepository
	JWTSecret string
	JWTTTL    time.Duration
}

func NewAuthController(repo repository.UserRepository, secret string, ttl time.Duration) *AuthController {
	return &AuthController{Repo: repo, JWTSecret: secret, JWTTTL: ttl}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /auth/login
// Passwords are opaque demo strings compared as-is; hardening them is an
// explicit non-goal of this system.
func (a *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "email and password are required")
		return
	}

	user, err := a.Repo.FindByEmail(strings.ToLower(req.Email))
	if err != nil {
		resp.Unauthorized(c, "invalid credentials")
		return
	}
	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(req.Password)) != 1 {
		resp.Unauthorized(c, "invalid credentials")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, a.JWTSecret, a.JWTTTL)
	if err != nil {
		resp.ServerError(c, err)
		return
	}

	resp.OK(c, gin.H{"token": token, "user": user})
}
