package apihandlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	jwthandling "github.com/OdamboMichael/ims.xp/pkg/jwt-handling"
	emailsending "github.com/OdamboMichael/ims.xp/pkg/messaging/email-sending"
	emailTypes "github.com/OdamboMichael/ims.xp/pkg/messaging/types"
	usermanagement "github.com/OdamboMichael/ims.xp/pkg/user-management"
	userTypes "github.com/OdamboMichael/ims.xp/pkg/user-management/types"
)

const (
	signupRateLimitWindow = 5 * 60 // to count the new signups, seconds

	loginHistoryDefaultLimit = 50
)

type RegisterReq struct {
	InstanceID  string                `json:"instanceId"`
	Email       string                `json:"email"`
	Password    string                `json:"password"`
	Pin         string                `json:"pin"`
	Locale      string                `json:"locale"`
	Institution userTypes.Institution `json:"institution"`
}

func (h *HttpEndpoints) registerInstitutionAccount(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.isInstanceAllowed(req.InstanceID) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid instance id"})
		return
	}

	// simple rate limit against signup floods
	newUserCount, err := h.accountDBConn.CountRecentlyCreatedUsers(req.InstanceID, signupRateLimitWindow)
	if err != nil {
		slog.Error("failed to count recently created users", slog.String("error", err.Error()))
	} else if h.maxNewUsersPer5Minutes > 0 && newUserCount >= int64(h.maxNewUsersPer5Minutes) {
		slog.Warn("signup rate limit reached", slog.String("instanceID", req.InstanceID))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "try again later"})
		return
	}

	user, err := usermanagement.RegisterInstitutionAccount(usermanagement.RegistrationRequest{
		InstanceID:  req.InstanceID,
		Email:       req.Email,
		Password:    req.Password,
		Pin:         req.Pin,
		Role:        userTypes.ROLE_ADMIN, // first account of an institution
		Locale:      req.Locale,
		Origin:      c.ClientIP(),
		Institution: req.Institution,
	}, func(u userTypes.User, code string) error {
		h.sendSimpleEmail(
			req.InstanceID,
			u.ID.Hex(),
			[]string{u.Account.AccountID},
			emailTypes.EMAIL_TYPE_VERIFY_EMAIL,
			u.Account.PreferredLanguage,
			map[string]string{"verificationCode": code},
			false,
		)
		return nil
	})
	if err != nil {
		slog.Warn("registration failed", slog.String("instanceID", req.InstanceID), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// the welcome email is not time critical, the messaging job picks it up
	if err := emailsending.QueueEmailByTemplate(
		h.messagingDBConn,
		req.InstanceID,
		[]string{user.Account.AccountID},
		emailTypes.EMAIL_TYPE_WELCOME,
		user.Account.PreferredLanguage,
		nil,
		true,
	); err != nil {
		slog.Error("failed to queue welcome email", slog.String("error", err.Error()))
	}

	resp, err := h.prepTokenResponse(req.InstanceID, user)
	if err != nil {
		slog.Error("failed to prepare token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": resp})
}

func (h *HttpEndpoints) updateInstitution(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.UserClaims)

	var inst userTypes.Institution
	if err := c.ShouldBindJSON(&inst); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := inst.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// admins can only edit their own institution
	if inst.ID.Hex() != token.InstitutionID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
		return
	}

	if err := h.institutionDBConn.UpdateInstitution(token.InstanceID, inst); err != nil {
		slog.Error("failed to update institution", slog.String("instanceID", token.InstanceID), slog.String("institutionID", inst.ID.Hex()), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not update institution"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "institution updated"})
}

func (h *HttpEndpoints) getUserInfos(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.UserClaims)

	user, err := h.accountDBConn.GetUser(token.InstanceID, token.Subject)
	if err != nil {
		slog.Warn("user not found", slog.String("instanceID", token.InstanceID), slog.String("userID", token.Subject))
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	institution, err := h.institutionDBConn.GetInstitutionByID(token.InstanceID, user.Profile.InstitutionID.Hex())
	if err != nil {
		slog.Warn("institution not found", slog.String("instanceID", token.InstanceID), slog.String("institutionID", user.Profile.InstitutionID.Hex()))
		c.JSON(http.StatusOK, gin.H{"user": user})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "institution": institution})
}

type ProfileUpdateReq struct {
	Phone      string `json:"phone"`
	JobTitle   string `json:"jobTitle"`
	Department string `json:"department"`
}

func (h *HttpEndpoints) updateProfile(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.UserClaims)

	var req ProfileUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot bind profile"})
		return
	}

	user, err := h.accountDBConn.GetUser(token.InstanceID, token.Subject)
	if err != nil {
		slog.Error("user not found", slog.String("instanceID", token.InstanceID), slog.String("userID", token.Subject), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user not found"})
		return
	}

	user.Profile.Phone = req.Phone
	user.Profile.JobTitle = req.JobTitle
	user.Profile.Department = req.Department

	user, err = h.accountDBConn.ReplaceUser(token.InstanceID, user)
	if err != nil {
		slog.Error("cannot update user", slog.String("instanceID", token.InstanceID), slog.String("userID", token.Subject), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": user.Profile})
}

func (h *HttpEndpoints) getLoginHistory(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.UserClaims)

	history, err := usermanagement.GetLoginHistory(token.InstanceID, token.Subject, loginHistoryDefaultLimit)
	if err != nil {
		slog.Error("failed to fetch login history", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"loginHistory": history})
}

func (h *HttpEndpoints) updateSecuritySettings(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.UserClaims)

	var policy userTypes.SecurityPolicy
	if err := c.ShouldBindJSON(&policy); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := usermanagement.UpdateSecurityPolicy(token.InstanceID, token.Subject, policy); err != nil {
		slog.Warn("security settings update rejected", slog.String("instanceID", token.InstanceID), slog.String("userID", token.Subject), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "security settings updated"})
}

func (h *HttpEndpoints) resendEmailVerification(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.UserClaims)

	err := usermanagement.RequestEmailVerification(token.InstanceID, token.Subject, c.ClientIP(), func(user userTypes.User, code string) error {
		h.sendSimpleEmail(
			token.InstanceID,
			user.ID.Hex(),
			[]string{user.Account.AccountID},
			emailTypes.EMAIL_TYPE_VERIFY_EMAIL,
			user.Account.PreferredLanguage,
			map[string]string{"verificationCode": code},
			false,
		)
		return nil
	})
	if err != nil {
		slog.Warn("email verification request failed", slog.String("instanceID", token.InstanceID), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not send verification code"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "verification code sent"})
}

type VerifyEmailReq struct {
	Code string `json:"code"`
}

func (h *HttpEndpoints) verifyEmail(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.UserClaims)

	var req VerifyEmailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := usermanagement.ConfirmEmail(token.InstanceID, token.Subject, req.Code); err != nil {
		randomWait(2, 5)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid verification code"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "email verified"})
}

func (h *HttpEndpoints) deleteAccount(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.UserClaims)

	err := usermanagement.DeleteAccount(token.InstanceID, token.Subject, func(user userTypes.User) error {
		h.sendSimpleEmail(
			token.InstanceID,
			user.ID.Hex(),
			[]string{user.Account.AccountID},
			emailTypes.EMAIL_TYPE_ACCOUNT_DELETED,
			user.Account.PreferredLanguage,
			nil,
			false,
		)
		return nil
	})
	if err != nil {
		slog.Error("account deletion failed", slog.String("instanceID", token.InstanceID), slog.String("userID", token.Subject), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete account"})
		return
	}

	// invalidate the current token
	rawToken := c.MustGet("token").(string)
	if token.ExpiresAt != nil {
		if err := h.globalInfosDBConn.AddBlockedJwt(rawToken, token.ExpiresAt.Time); err != nil {
			slog.Warn("could not block token after account deletion", slog.String("error", err.Error()))
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}
