package handlers

import (
	"net/http"

	"eisenhower-board/internal/auth"

	"github.com/gin-gonic/gin"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token string `json:"token"`
}

// TokenIssuer is satisfied by *auth.Signer.
type TokenIssuer interface {
	GenerateToken(subject string) (string, error)
}

type AuthHandler struct {
	issuer       TokenIssuer
	passwordHash string
}

func NewAuthHandler(issuer TokenIssuer, passwordHash string) *AuthHandler {
	return &AuthHandler{issuer: issuer, passwordHash: passwordHash}
}

// Login handles POST /api/login. The board has a single shared password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "パスワードを入力してください")
		return
	}
	if err := auth.CheckPassword(h.passwordHash, req.Password); err != nil {
		respondError(c, http.StatusUnauthorized, "パスワードが正しくありません")
		return
	}
	token, err := h.issuer.GenerateToken("board")
	if err != nil {
		respondError(c, http.StatusInternalServerError, "トークンの発行に失敗しました")
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: token})
}
