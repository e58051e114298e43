package apihandlers

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	mrand "math/rand"
	"time"

	emailsending "github.com/OdamboMichael/ims.xp/pkg/messaging/email-sending"
)

func (h *HttpEndpoints) isInstanceAllowed(instanceID string) bool {
	for _, id := range h.allowedInstanceIDs {
		if id == instanceID {
			return true
		}
	}
	return false
}

func (h *HttpEndpoints) sendSimpleEmail(
	instanceID string, userID string, to []string, messageType string, lang string, payload map[string]string, useLowPrio bool,
) {
	err := emailsending.SendInstantEmailByTemplate(
		instanceID,
		userID,
		to,
		messageType,
		lang,
		payload,
		useLowPrio,
	)
	if err != nil {
		slog.Error("failed to send email", slog.String("error", err.Error()))
		return
	}
}

// randomWait slows down rejection responses so timing does not leak whether
// the identity exists.
func randomWait(minTimeSec int, maxTimeSec int) {
	time.Sleep(time.Duration(mrand.Intn(maxTimeSec-minTimeSec)+minTimeSec) * time.Second)
}

// generateSessionID creates a unique session ID using crypto/rand
func generateSessionID() (string, error) {
	bytes := make([]byte, 16) // 32 character hex string
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
