package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/crateyy/internal/application"
	"github.com/oksasatya/crateyy/internal/interface/middleware"
	"github.com/oksasatya/crateyy/pkg/helpers"
	"github.com/oksasatya/crateyy/pkg/response"
	"github.com/oksasatya/crateyy/pkg/validation"
)

type AuthHandler struct {
	Svc     *application.IdentityService
	Logger  *logrus.Logger
	Cookies *helpers.CookieJar
}

func NewAuthHandler(svc *application.IdentityService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"omitempty,role"`
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Role     string `json:"role" binding:"omitempty,role"`
}

// Login POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	sess, err := h.Svc.StartSession(c.Request.Context(), u)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Cookies.SetSession(c, sess.Token, sess.ExpiresAt)
	response.Success(c, http.StatusOK, u.Public(), "login successful", gin.H{"expires_at": sess.ExpiresAt})
}

// Register POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, u.Public(), "registered", nil)
}

// CurrentUser GET /api/current_user (auth required)
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.FindByID(c.Request.Context(), uid)
	if err != nil {
		// a session for a user that no longer resolves is no session at all
		h.Cookies.Clear(c)
		response.Error[any](c, http.StatusUnauthorized, "not logged in", nil)
		return
	}
	response.Success(c, http.StatusOK, u.Public(), "current user", nil)
}

// Logout GET /api/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Svc.EndSession(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	h.Cookies.Clear(c)
	response.Success(c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}
