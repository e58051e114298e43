package apihandlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	emailTypes "github.com/OdamboMichael/ims.xp/pkg/messaging/types"
	usermanagement "github.com/OdamboMichael/ims.xp/pkg/user-management"
	userTypes "github.com/OdamboMichael/ims.xp/pkg/user-management/types"
	umUtils "github.com/OdamboMichael/ims.xp/pkg/user-management/utils"
)

type InitiatePinResetReq struct {
	Email      string `json:"email"`
	InstanceID string `json:"instanceId"`
}

func (h *HttpEndpoints) initiatePinReset(c *gin.Context) {
	var req InitiatePinResetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Email == "" || !h.isInstanceAllowed(req.InstanceID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	err := usermanagement.InitiatePinReset(req.InstanceID, req.Email, c.ClientIP(), func(user userTypes.User, code string) error {
		h.sendSimpleEmail(
			req.InstanceID,
			user.ID.Hex(),
			[]string{user.Account.AccountID},
			emailTypes.EMAIL_TYPE_PIN_RESET,
			user.Account.PreferredLanguage,
			map[string]string{"verificationCode": code},
			false,
		)
		return nil
	})
	if err != nil {
		// same response for unknown identities, to avoid account enumeration
		slog.Warn("pin reset initiation failed", slog.String("instanceID", req.InstanceID), slog.String("error", err.Error()))
		randomWait(2, 5)
	}
	c.JSON(http.StatusOK, gin.H{"message": "if the account exists, a code was sent"})
}

type CompletePinResetReq struct {
	Email      string `json:"email"`
	Code       string `json:"code"`
	NewPin     string `json:"newPin"`
	InstanceID string `json:"instanceId"`
}

func (h *HttpEndpoints) completePinReset(c *gin.Context) {
	var req CompletePinResetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Email == "" || req.Code == "" || req.NewPin == "" || !h.isInstanceAllowed(req.InstanceID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	err := usermanagement.CompletePinReset(req.InstanceID, req.Email, req.Code, req.NewPin)
	if err != nil {
		switch {
		case errors.Is(err, usermanagement.ErrOtpNotFound), errors.Is(err, usermanagement.ErrOtpExpiredOrUsed):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "verification code expired or already used"})
		case errors.Is(err, usermanagement.ErrInvalidCode):
			randomWait(2, 5)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid verification code"})
		default:
			slog.Warn("pin reset completion failed", slog.String("instanceID", req.InstanceID), slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not reset PIN"})
		}
		return
	}

	if user, err := h.accountDBConn.GetUserByAccountID(req.InstanceID, umUtils.SanitizeEmail(req.Email)); err == nil {
		go h.sendSimpleEmail(
			req.InstanceID,
			user.ID.Hex(),
			[]string{user.Account.AccountID},
			emailTypes.EMAIL_TYPE_PIN_CHANGED,
			user.Account.PreferredLanguage,
			nil,
			true,
		)
	}

	c.JSON(http.StatusOK, gin.H{"message": "PIN updated"})
}
