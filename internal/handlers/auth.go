package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hrdesk/hrdesk-backend/internal/requestdata"
	"github.com/hrdesk/hrdesk-backend/internal/services"
	"github.com/hrdesk/hrdesk-backend/internal/types"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "request body must be JSON")
		return
	}
	user := &types.User{Email: req.Email, Password: req.Password, Name: req.Name}
	if err := ah.authService.RegisterUser(c.Request.Context(), user); err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "request body must be JSON")
		return
	}
	accessToken, refreshToken, err := ah.authService.LoginUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"code": "unauthorized", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"expiresIn":    int(ah.authService.GetAccessTTL().Seconds()),
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (ah *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		badRequest(c, "refreshToken is required")
		return
	}
	ctx := c.Request.Context()
	if rd := requestdata.GetRequestData(ctx); rd != nil {
		rd.RefreshToken = req.RefreshToken
	} else {
		ctx = requestdata.WithRequestData(ctx, &requestdata.RequestData{RefreshToken: req.RefreshToken})
	}
	accessToken, refreshToken, err := ah.authService.RefreshUser(ctx)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"code": "unauthorized", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"expiresIn":    int(ah.authService.GetAccessTTL().Seconds()),
	})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.LogoutUser(c.Request.Context()); err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"loggedOut": true})
}
