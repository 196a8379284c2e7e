package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/cv-studio/internal/application/usecase/auth"
	"github.com/khoahotran/cv-studio/pkg/apperror"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

type AuthHandler struct {
	loginUseCase *auth.LoginUseCase
	logger       logger.Logger
}

func NewAuthHandler(loginUC *auth.LoginUseCase, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		loginUseCase: loginUC,
		logger:       log,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid login body", err))
		return
	}

	output, err := h.loginUseCase.Execute(c.Request.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": output.AccessToken,
	})
}
