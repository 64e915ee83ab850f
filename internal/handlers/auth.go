package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/huangang/quill/internal/config"
	"github.com/huangang/quill/internal/middleware"
	"github.com/huangang/quill/internal/models"
	"github.com/huangang/quill/internal/services"
	"github.com/huangang/quill/internal/utils"
	"github.com/huangang/quill/pkg/response"
)

const refreshTokenCookie = "refreshToken"

// SessionResponse is the body of every session endpoint.
type SessionResponse struct {
	User *models.UserDTO `json:"user"`
	Auth bool            `json:"auth"`
}

type AuthHandler struct {
	authService *services.AuthService
	cookie      config.CookieConfig
}

func NewAuthHandler(authService *services.AuthService, cookie config.CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
	}
}

// Register godoc
// @Summary Create an account and start a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterRequest true "Registration"
// @Success 201 {object} SessionResponse
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, utils.ValidationMessage(err))
		return
	}

	session, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setSessionCookies(c, session.Tokens)
	c.JSON(http.StatusCreated, SessionResponse{User: session.User.DTO(), Auth: true})
}

// Login godoc
// @Summary Log in with username and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginRequest true "Credentials"
// @Success 200 {object} SessionResponse
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, utils.ValidationMessage(err))
		return
	}

	session, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setSessionCookies(c, session.Tokens)
	c.JSON(http.StatusOK, SessionResponse{User: session.User.DTO(), Auth: true})
}

// Logout godoc
// @Summary End the current session
// @Tags Auth
// @Success 200 {object} SessionResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie(refreshTokenCookie)

	if err := h.authService.Logout(c.Request.Context(), middleware.GetUserID(c), refreshToken); err != nil {
		response.Error(c, err)
		return
	}

	h.clearSessionCookies(c)
	c.JSON(http.StatusOK, SessionResponse{User: nil, Auth: false})
}

// Refresh godoc
// @Summary Rotate the session tokens using the refresh cookie
// @Tags Auth
// @Success 200 {object} SessionResponse
// @Router /refresh [get]
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, _ := c.Cookie(refreshTokenCookie)

	session, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setSessionCookies(c, session.Tokens)
	c.JSON(http.StatusOK, SessionResponse{User: session.User.DTO(), Auth: true})
}

// GetCurrentUser returns the current logged-in user
// GET /me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, err := h.authService.GetUserByID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, SessionResponse{User: user.DTO(), Auth: true})
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, tokens *services.TokenPair) {
	maxAge := int(h.cookie.MaxAge.Seconds())
	h.writeCookie(c, middleware.AccessTokenCookie, tokens.AccessToken, maxAge)
	h.writeCookie(c, refreshTokenCookie, tokens.RefreshToken, maxAge)
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	h.writeCookie(c, middleware.AccessTokenCookie, "", -1)
	h.writeCookie(c, refreshTokenCookie, "", -1)
}

func (h *AuthHandler) writeCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(sameSiteMode(h.cookie.SameSite))
	c.SetCookie(name, value, maxAge, h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}

func sameSiteMode(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	case "lax":
		return http.SameSiteLaxMode
	default:
		return http.SameSiteDefaultMode
	}
}
