package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	authUtils "civicapp-be/utils"
)

// AuthController issues admin bearer tokens. Login is demo-mode by
// default: any non-empty credentials are accepted unless an
// ADMIN_PASSWORD_HASH is configured outside mock mode.
type AuthController struct {
	jwtSecret    string
	passwordHash string
	mockMode     bool
}

func NewAuthController(jwtSecret, passwordHash string, mockMode bool) *AuthController {
	return &AuthController{jwtSecret: jwtSecret, passwordHash: passwordHash, mockMode: mockMode}
}

// AdminLogin handles the dashboard login
func (a *AuthController) AdminLogin(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter both username and password"})
		return
	}

	if !a.mockMode && a.passwordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(a.passwordHash), []byte(input.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
	}

	token, err := authUtils.GenerateToken(input.Username, a.jwtSecret)
	if err != nil {
		log.WithError(err).Error("token generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"username":  input.Username,
			"loginTime": time.Now().UTC(),
		},
	})
}
