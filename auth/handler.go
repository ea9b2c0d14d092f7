package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/a-ems/aems/errors"
	"github.com/a-ems/aems/server"
	"github.com/a-ems/aems/validation"
)

// Handler exposes the authentication service over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler creates the HTTP handler for the auth service.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// MountRoutes registers the auth endpoints under /api/auth.
func (h *Handler) MountRoutes(r gin.IRouter) {
	grp := r.Group("/api/auth")
	grp.POST("/login", h.Login)
	grp.POST("/register", h.Register)
	grp.POST("/refresh", h.Refresh)
	grp.POST("/mfa/verify", h.VerifyMFA)

	authed := grp.Group("")
	authed.Use(h.RequireAuth())
	authed.POST("/logout", h.Logout)
	authed.PUT("/password", h.ChangePassword)
	authed.GET("/mfa/setup", h.SetupMFA)
	authed.GET("/me", h.Me)
}

// RequireAuth verifies the bearer access token and attaches the
// Principal to the request context.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			server.RespondWithError(c, errors.Authentication("Missing authorization header."))
			c.Abort()
			return
		}

		claims, err := h.svc.Tokens().VerifyAccess(token)
		if err != nil {
			server.RespondWithError(c, tokenError(err))
			c.Abort()
			return
		}

		p := Principal{
			UserID:   claims.UserID(),
			Email:    claims.Email,
			Role:     claims.Role,
			TenantID: claims.TenantID,
		}
		c.Request = c.Request.WithContext(ContextWithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

type loginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.svc.Login(c.Request.Context(), LoginRequest{
		Email:      req.Email,
		Password:   req.Password,
		RememberMe: req.RememberMe,
	})
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, result)
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Role      string `json:"role" validate:"omitempty,oneof=admin manager user viewer"`
	TenantID  string `json:"tenant_id"`
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.svc.Register(c.Request.Context(), RegisterRequest{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		TenantID:  req.TenantID,
	})
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, user)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh handles POST /api/auth/refresh.
func (h *Handler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !bindAndValidate(c, &req) {
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, pair)
}

type verifyMFARequest struct {
	MFAToken string `json:"mfa_token" validate:"required"`
	Code     string `json:"code" validate:"required"`
}

// VerifyMFA handles POST /api/auth/mfa/verify.
func (h *Handler) VerifyMFA(c *gin.Context) {
	var req verifyMFARequest
	if !bindAndValidate(c, &req) {
		return
	}

	pair, err := h.svc.VerifyMFA(c.Request.Context(), req.MFAToken, req.Code)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, pair)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// ChangePassword handles PUT /api/auth/password.
func (h *Handler) ChangePassword(c *gin.Context) {
	p, ok := PrincipalFromContext(c.Request.Context())
	if !ok {
		server.RespondWithError(c, errors.Authentication(""))
		return
	}

	var req changePasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), p.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(c *gin.Context) {
	p, ok := PrincipalFromContext(c.Request.Context())
	if !ok {
		server.RespondWithError(c, errors.Authentication(""))
		return
	}

	if err := h.svc.Logout(c.Request.Context(), p.UserID); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}

// SetupMFA handles GET /api/auth/mfa/setup. The secret and backup codes
// in the response are shown once and cannot be retrieved again.
func (h *Handler) SetupMFA(c *gin.Context) {
	p, ok := PrincipalFromContext(c.Request.Context())
	if !ok {
		server.RespondWithError(c, errors.Authentication(""))
		return
	}

	setup, err := h.svc.SetupMFA(c.Request.Context(), p.UserID)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, setup)
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(c *gin.Context) {
	p, ok := PrincipalFromContext(c.Request.Context())
	if !ok {
		server.RespondWithError(c, errors.Authentication(""))
		return
	}

	user, err := h.svc.CurrentUser(c.Request.Context(), p.UserID)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, user)
}

func bindAndValidate(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		server.RespondWithError(c, errors.Validation("request body is not valid JSON"))
		return false
	}
	if err := validation.Validate(req); err != nil {
		server.RespondWithError(c, err)
		return false
	}
	return true
}
