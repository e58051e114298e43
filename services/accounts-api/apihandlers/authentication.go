package apihandlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	mw "github.com/OdamboMichael/ims.xp/pkg/apihelpers/middlewares"
	jwthandling "github.com/OdamboMichael/ims.xp/pkg/jwt-handling"
	emailTypes "github.com/OdamboMichael/ims.xp/pkg/messaging/types"
	usermanagement "github.com/OdamboMichael/ims.xp/pkg/user-management"
	userTypes "github.com/OdamboMichael/ims.xp/pkg/user-management/types"
	umUtils "github.com/OdamboMichael/ims.xp/pkg/user-management/utils"
)

func (h *HttpEndpoints) AddAccountsAPI(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/login", mw.RequirePayload(), h.loginWithEmail)
		authGroup.POST("/register", mw.RequirePayload(), h.registerInstitutionAccount)

		authGroup.POST("/verify-pin", mw.RequirePayload(), h.verifyPin)
		authGroup.POST("/step-up-otp", mw.RequirePayload(), h.requestStepUpOtp)
		authGroup.POST("/step-up-otp/verify", mw.RequirePayload(), h.verifyStepUpOtp)

		authGroup.POST("/pin-reset/initiate", mw.RequirePayload(), h.initiatePinReset)
		authGroup.POST("/pin-reset/complete", mw.RequirePayload(), h.completePinReset)

		authGroup.POST("/token/renew", mw.GetAndValidateUserJWTWithIgnoringExpiration(h.tokenSignKey, h.globalInfosDBConn), h.renewToken)
		authGroup.GET("/token/validate", mw.GetAndValidateUserJWT(h.tokenSignKey, h.globalInfosDBConn), h.validateToken)
		authGroup.POST("/logout", mw.GetAndValidateUserJWT(h.tokenSignKey, h.globalInfosDBConn), h.logout)
	}

	userGroup := rg.Group("/user")
	userGroup.Use(mw.GetAndValidateUserJWT(h.tokenSignKey, h.globalInfosDBConn))
	{
		userGroup.GET("", h.getUserInfos)
		userGroup.GET("/login-history", h.getLoginHistory)
		userGroup.PUT("/profile", mw.RequirePayload(), h.updateProfile)
		userGroup.PUT("/security-settings", mw.RequirePayload(), h.updateSecuritySettings)
		userGroup.PUT("/institution", mw.RequireRole(userTypes.ROLE_ADMIN), mw.RequirePayload(), h.updateInstitution)
		userGroup.POST("/resend-email-verification", h.resendEmailVerification)
		userGroup.POST("/verify-email", mw.RequirePayload(), h.verifyEmail)
		userGroup.DELETE("", h.deleteAccount)
	}
}

type LoginWithEmailReq struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	InstanceID string `json:"instanceId"`
}

type TokenResponse struct {
	AccessToken string         `json:"accessToken"`
	ExpiresAt   int64          `json:"expiresAt"`
	User        userTypes.User `json:"user"`
}

// tokenLifetimeFor derives the token lifetime from the per-user session
// timeout, falling back to the service default.
func (h *HttpEndpoints) tokenLifetimeFor(user userTypes.User) time.Duration {
	if user.SecurityPolicy.SessionTimeout > 0 {
		return time.Duration(user.SecurityPolicy.SessionTimeout) * time.Minute
	}
	return h.tokenExpiresIn
}

func (h *HttpEndpoints) prepTokenResponse(instanceID string, user userTypes.User) (*TokenResponse, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	lifetime := h.tokenLifetimeFor(user)
	token, err := jwthandling.GenerateNewUserToken(
		lifetime,
		user.ID.Hex(),
		instanceID,
		user.Profile.InstitutionID.Hex(),
		user.Profile.Role,
		user.Profile.EmailVerified,
		sessionID,
		h.tokenSignKey,
	)
	if err != nil {
		return nil, err
	}

	return &TokenResponse{
		AccessToken: token,
		ExpiresAt:   time.Now().Add(lifetime).Unix(),
		User:        user,
	}, nil
}

func (h *HttpEndpoints) loginWithEmail(c *gin.Context) {
	var req LoginWithEmailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Email == "" || req.Password == "" || req.InstanceID == "" {
		slog.Error("missing required fields")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	if !h.isInstanceAllowed(req.InstanceID) {
		slog.Error("instance not allowed", slog.String("instanceID", req.InstanceID))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid instance id"})
		return
	}

	result, err := usermanagement.Login(usermanagement.LoginRequest{
		InstanceID: req.InstanceID,
		AccountID:  req.Email,
		Password:   req.Password,
		Origin:     c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})
	if err != nil {
		switch {
		case errors.Is(err, usermanagement.ErrTooManyAttempts):
			slog.Warn("login attempt while locked out", slog.String("instanceID", req.InstanceID))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "too many failed login attempts, try again later"})
		case errors.Is(err, usermanagement.ErrAccountInactive):
			slog.Warn("login attempt on inactive account", slog.String("instanceID", req.InstanceID))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "account deactivated"})
		default:
			slog.Warn("login attempt rejected", slog.String("instanceID", req.InstanceID), slog.String("email", umUtils.BlurEmailAddress(req.Email)), slog.String("error", err.Error()))
			randomWait(5, 10)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		}
		return
	}

	if result.Status == usermanagement.LOGIN_STATUS_AWAITING_STEP_UP {
		c.JSON(http.StatusOK, gin.H{
			"status":       string(result.Status),
			"pendingToken": result.PendingToken,
		})
		return
	}

	resp, err := h.prepTokenResponse(req.InstanceID, result.User)
	if err != nil {
		slog.Error("failed to prepare token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if result.User.SecurityPolicy.LoginNotifications {
		go h.sendSimpleEmail(
			req.InstanceID,
			result.User.ID.Hex(),
			[]string{result.User.Account.AccountID},
			emailTypes.EMAIL_TYPE_LOGIN_NOTIFICATION,
			result.User.Account.PreferredLanguage,
			map[string]string{"origin": c.ClientIP()},
			true,
		)
	}

	c.JSON(http.StatusOK, gin.H{
		"status": string(result.Status),
		"token":  resp,
	})
}

type VerifyPinReq struct {
	PendingToken string `json:"pendingToken"`
	Pin          string `json:"pin"`
	InstanceID   string `json:"instanceId"`
}

func (h *HttpEndpoints) verifyPin(c *gin.Context) {
	var req VerifyPinReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.PendingToken == "" || req.Pin == "" || !h.isInstanceAllowed(req.InstanceID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	result, err := usermanagement.VerifyPin(req.InstanceID, req.PendingToken, req.Pin, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, usermanagement.ErrInvalidPin) {
			randomWait(2, 5)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid PIN"})
			return
		}
		slog.Warn("pin verification failed", slog.String("instanceID", req.InstanceID), slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login transaction not found or expired"})
		return
	}

	resp, err := h.prepTokenResponse(req.InstanceID, result.User)
	if err != nil {
		slog.Error("failed to prepare token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if result.User.SecurityPolicy.LoginNotifications {
		go h.sendSimpleEmail(
			req.InstanceID,
			result.User.ID.Hex(),
			[]string{result.User.Account.AccountID},
			emailTypes.EMAIL_TYPE_LOGIN_NOTIFICATION,
			result.User.Account.PreferredLanguage,
			map[string]string{"origin": c.ClientIP()},
			true,
		)
	}

	c.JSON(http.StatusOK, gin.H{
		"status": string(result.Status),
		"token":  resp,
	})
}

type StepUpOtpReq struct {
	PendingToken string `json:"pendingToken"`
	InstanceID   string `json:"instanceId"`
}

func (h *HttpEndpoints) requestStepUpOtp(c *gin.Context) {
	var req StepUpOtpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.PendingToken == "" || !h.isInstanceAllowed(req.InstanceID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	err := usermanagement.RequestStepUpOTP(req.InstanceID, req.PendingToken, c.ClientIP(), func(user userTypes.User, code string) error {
		h.sendSimpleEmail(
			req.InstanceID,
			user.ID.Hex(),
			[]string{user.Account.AccountID},
			emailTypes.EMAIL_TYPE_AUTH_VERIFICATION_CODE,
			user.Account.PreferredLanguage,
			map[string]string{"verificationCode": code},
			false,
		)
		return nil
	})
	if err != nil {
		slog.Warn("step-up code request failed", slog.String("instanceID", req.InstanceID), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not send verification code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "verification code sent"})
}

type VerifyStepUpOtpReq struct {
	PendingToken string `json:"pendingToken"`
	Code         string `json:"code"`
	InstanceID   string `json:"instanceId"`
}

func (h *HttpEndpoints) verifyStepUpOtp(c *gin.Context) {
	var req VerifyStepUpOtpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.PendingToken == "" || req.Code == "" || !h.isInstanceAllowed(req.InstanceID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	result, err := usermanagement.VerifyStepUpOTP(req.InstanceID, req.PendingToken, req.Code, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, usermanagement.ErrPendingAuthNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "login transaction not found or expired"})
			return
		}
		randomWait(2, 5)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid verification code"})
		return
	}

	resp, err := h.prepTokenResponse(req.InstanceID, result.User)
	if err != nil {
		slog.Error("failed to prepare token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": string(result.Status),
		"token":  resp,
	})
}

func (h *HttpEndpoints) validateToken(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.UserClaims)
	c.JSON(http.StatusOK, gin.H{"tokenInfos": token})
}

func (h *HttpEndpoints) renewToken(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.UserClaims)

	user, err := h.accountDBConn.GetUser(token.InstanceID, token.Subject)
	if err != nil {
		slog.Warn("user for token not found", slog.String("instanceID", token.InstanceID), slog.String("userID", token.Subject))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	if !user.IsActive() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account deactivated"})
		return
	}

	resp, err := h.prepTokenResponse(token.InstanceID, user)
	if err != nil {
		slog.Error("failed to prepare token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	// the old token is not valid anymore
	oldToken := c.MustGet("token").(string)
	if expiresAt := token.ExpiresAt; expiresAt != nil {
		if err := h.globalInfosDBConn.AddBlockedJwt(oldToken, expiresAt.Time); err != nil {
			slog.Warn("could not block replaced token", slog.String("error", err.Error()))
		}
	}

	c.JSON(http.StatusOK, gin.H{"token": resp})
}

func (h *HttpEndpoints) logout(c *gin.Context) {
	token := c.MustGet("token").(string)
	claims := c.MustGet("validatedToken").(*jwthandling.UserClaims)

	expiresAt := time.Now().Add(h.tokenExpiresIn)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := h.globalInfosDBConn.AddBlockedJwt(token, expiresAt); err != nil {
		slog.Error("failed to block token on logout", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
