package main

import (
	"log/slog"
	"time"

	emailsending "github.com/OdamboMichael/ims.xp/pkg/messaging/email-sending"
	messagingTypes "github.com/OdamboMichael/ims.xp/pkg/messaging/types"
)

const (
	OUTGOING_EMAILS_BATCH_SIZE = 10

	MAX_FAILED_ATTEMPTS_BEFORE_STOP = 100
)

func main() {
	slog.Info("Starting messaging job")
	start := time.Now()

	handleOutgoingEmails()

	slog.Info("Messaging job completed", slog.String("duration", time.Since(start).String()))
}

func checkIfOutgoingEmailShouldBeSent(email messagingTypes.OutgoingEmail) bool {
	if len(email.To) < 1 || len(email.To[0]) < 1 {
		slog.Error("no recipients found", slog.String("messageType", email.MessageType))
		return false
	}
	return true
}

func handleOutgoingEmails() {
	for _, instanceID := range conf.InstanceIDs {
		slog.Debug("Start handling outgoing emails for instance", slog.String("instanceID", instanceID))

		sent := 0
		failed := 0
		for {
			if failed > MAX_FAILED_ATTEMPTS_BEFORE_STOP {
				slog.Error("Too many failed attempts, stopping outgoing emails for instance", slog.String("instanceID", instanceID))
				break
			}

			outgoingEmails, err := messagingDBService.FetchOutgoingEmails(instanceID, OUTGOING_EMAILS_BATCH_SIZE)
			if err != nil {
				slog.Error("Failed to fetch outgoing emails", slog.String("instanceID", instanceID), slog.String("error", err.Error()))
				break
			}

			if len(outgoingEmails) == 0 {
				break
			}

			progress := 0
			for _, email := range outgoingEmails {
				// detect emails that should not be sent - remove from db if so
				if !checkIfOutgoingEmailShouldBeSent(email) {
					failed++
					if err := messagingDBService.DeleteOutgoingEmail(instanceID, email.ID.Hex()); err != nil {
						slog.Error("Failed to delete outgoing email", slog.String("messageType", email.MessageType), slog.String("error", err.Error()))
					} else {
						progress++
					}
					continue
				}

				if err := emailsending.SendOutgoingEmail(&email); err != nil {
					failed++
					slog.Error("Failed to send email", slog.String("instanceID", instanceID), slog.String("messageType", email.MessageType), slog.String("error", err.Error()))
					continue
				}

				if err := messagingDBService.DeleteOutgoingEmail(instanceID, email.ID.Hex()); err != nil {
					slog.Error("Failed to remove sent email from queue", slog.String("messageType", email.MessageType), slog.String("error", err.Error()))
				}
				if _, err := messagingDBService.AddToSentEmails(instanceID, "", email.MessageType); err != nil {
					slog.Error("Failed to record sent email", slog.String("messageType", email.MessageType), slog.String("error", err.Error()))
				}
				sent++
				progress++
			}

			// everything left in the queue failed to send, retry on the next run
			if progress == 0 {
				break
			}
		}
		slog.Info("Outgoing emails processed", slog.String("instanceID", instanceID), slog.Int("sent", sent), slog.Int("failed", failed))
	}
}
