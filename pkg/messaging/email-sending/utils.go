package emailsending

import (
	"encoding/base64"

	messageDB "github.com/OdamboMichael/ims.xp/pkg/db/messaging"
	emailtemplates "github.com/OdamboMichael/ims.xp/pkg/messaging/email-templates"
	messagingTypes "github.com/OdamboMichael/ims.xp/pkg/messaging/types"
)

func prepOutgoingEmail(
	messageDB *messageDB.MessagingDBService,
	instanceID string,
	messageType string,
	lang string,
	payload map[string]string,
	to []string,
	useLowPrio bool,
) (*messagingTypes.OutgoingEmail, error) {
	templateDef, err := messageDB.GetEmailTemplateByMessageType(instanceID, messageType)
	if err != nil {
		return nil, err
	}

	translation := emailtemplates.GetTemplateTranslation(*templateDef, lang)

	decodedTemplate, err := base64.StdEncoding.DecodeString(translation.TemplateDef)
	if err != nil {
		return nil, err
	}

	if payload == nil {
		payload = map[string]string{}
	}
	for k, v := range GlobalTemplateInfos {
		payload[k] = v
	}

	payload["language"] = lang
	templateName := instanceID + messageType + lang
	content, err := emailtemplates.ResolveTemplate(
		templateName,
		string(decodedTemplate),
		payload,
	)
	if err != nil {
		return nil, err
	}

	outgoingEmail := messagingTypes.OutgoingEmail{
		MessageType:     messageType,
		To:              to,
		HeaderOverrides: templateDef.HeaderOverrides,
		Subject:         translation.Subject,
		Content:         content,
		HighPrio:        !useLowPrio,
	}
	return &outgoingEmail, nil
}
