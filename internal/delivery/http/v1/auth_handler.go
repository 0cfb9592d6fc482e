package v1

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"job-board-backend/internal/delivery/http/response"
	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

const authCookieName = "auth_token"

// LoginGuard locks out repeated failed logins. Optional.
type LoginGuard interface {
	Blocked(ctx context.Context, email, ip string) (bool, time.Duration, error)
	RecordFailure(ctx context.Context, email, ip string) (bool, error)
	Clear(ctx context.Context, email, ip string) error
}

type AuthHandler struct {
	authUC       domain.AuthUsecase
	guard        LoginGuard
	secureCookie bool
}

func NewAuthHandler(public, protected *gin.RouterGroup, authUC domain.AuthUsecase, guard LoginGuard, secureCookie bool) {
	handler := &AuthHandler{authUC: authUC, guard: guard, secureCookie: secureCookie}

	publicAuth := public.Group("/auth")
	{
		publicAuth.POST("/register/candidate", handler.RegisterCandidate)
		publicAuth.POST("/register/company", handler.RegisterCompany)
		publicAuth.POST("/login", handler.Login)
		publicAuth.POST("/forgot-password", handler.ForgotPassword)
		publicAuth.POST("/reset-password/:token", handler.ResetPassword)
	}

	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.GET("/me", handler.Me)
		protectedAuth.POST("/logout", handler.Logout)
	}
}

type RegisterCandidateRequest struct {
	Name            string `json:"name" binding:"required,min=2,max=100,valid_name"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,strong_password"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

type RegisterCompanyRequest struct {
	CompanyName     string `json:"company_name" binding:"required,min=2,max=150"`
	TaxID           string `json:"cnpj" binding:"required,cnpj"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,strong_password"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password" binding:"required,strong_password"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

// RegisterCandidate godoc
// @Summary      Register a candidate
// @Description  Create a candidate account with an empty profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterCandidateRequest  true  "Candidate account"
// @Success      201   {object}  response.Response{data=domain.User}
// @Failure      400   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /auth/register/candidate [post]
func (h *AuthHandler) RegisterCandidate(c *gin.Context) {
	var req RegisterCandidateRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authUC.RegisterCandidate(c, domain.RegisterCandidateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Account created", user)
}

// RegisterCompany godoc
// @Summary      Register a company
// @Description  Create a company account, its profile and a free plan subscription
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterCompanyRequest  true  "Company account"
// @Success      201   {object}  response.Response{data=domain.User}
// @Failure      400   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /auth/register/company [post]
func (h *AuthHandler) RegisterCompany(c *gin.Context) {
	var req RegisterCompanyRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authUC.RegisterCompany(c, domain.RegisterCompanyInput{
		CompanyName: req.CompanyName,
		TaxID:       req.TaxID,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Account created", user)
}

// Login godoc
// @Summary      Log in
// @Description  Exchange credentials for a session token. The token is also set as an HttpOnly cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  response.Response{data=domain.AuthResult}
// @Failure      400   {object}  response.Response
// @Failure      401   {object}  response.Response
// @Failure      429   {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	ip := c.ClientIP()
	if h.guard != nil {
		blocked, retryAfter, err := h.guard.Blocked(c, req.Email, ip)
		if err != nil {
			logger.Log.Warn("Login guard unavailable", "error", err)
		}
		if blocked {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			response.Error(c, http.StatusTooManyRequests, "Too many failed login attempts. Please try again later.", apperror.KindRateLimited)
			return
		}
	}

	result, err := h.authUC.Login(c, req.Email, req.Password)
	if err != nil {
		if h.guard != nil && apperror.Is(err, apperror.KindUnauthorized) {
			if _, gerr := h.guard.RecordFailure(c, req.Email, ip); gerr != nil {
				logger.Log.Warn("Failed to record login failure", "error", gerr)
			}
		}
		c.Error(err)
		return
	}
	if h.guard != nil {
		if err := h.guard.Clear(c, req.Email, ip); err != nil {
			logger.Log.Warn("Failed to clear login failures", "error", err)
		}
	}

	maxAge := int(time.Until(result.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookieName, result.Token, maxAge, "/", "", h.secureCookie, true)

	response.Success(c, http.StatusOK, "Login successful", result)
}

// Logout godoc
// @Summary      Log out
// @Description  Clear the session cookie
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/logout [post]
// @Security     BearerAuth
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookieName, "", -1, "/", "", h.secureCookie, true)
	response.Success(c, http.StatusOK, "Logged out", nil)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUC.GetCurrentUser(c, currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Current user", user)
}

// ForgotPassword godoc
// @Summary      Request a password reset
// @Description  Always answers the same way so registered emails cannot be discovered
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      ForgotPasswordRequest  true  "Account email"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authUC.ForgotPassword(c, req.Email); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "If the email is registered, a reset link has been sent", nil)
}

// ResetPassword godoc
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token  path      string                true  "Reset token"
// @Param        body   body      ResetPasswordRequest  true  "New password"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Router       /auth/reset-password/{token} [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authUC.ResetPassword(c, c.Param("token"), req.Password); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Password updated", nil)
}
