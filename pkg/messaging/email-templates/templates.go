package emailtemplates

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"strings"

	messagingTypes "github.com/OdamboMichael/ims.xp/pkg/messaging/types"
)

func ResolveTemplate(tempName string, templateDef string, contentInfos map[string]string) (content string, err error) {
	if strings.TrimSpace(templateDef) == "" {
		return "", errors.New("empty template `" + tempName)
	}
	tmpl, err := template.New(tempName).Parse(templateDef)
	if err != nil {
		err = fmt.Errorf("error when parsing template %s: %v", tempName, err)
		return "", err
	}
	var tpl bytes.Buffer

	err = tmpl.Execute(&tpl, contentInfos)
	if err != nil {
		err = fmt.Errorf("error during executing template %s: %v", tempName, err)
		return "", err
	}
	return tpl.String(), nil
}

func GetTemplateTranslation(tDef messagingTypes.EmailTemplate, lang string) messagingTypes.LocalizedTemplate {
	var defaultTranslation messagingTypes.LocalizedTemplate
	for _, tr := range tDef.Translations {
		if tr.Lang == lang {
			return tr
		} else if tr.Lang == tDef.DefaultLanguage {
			defaultTranslation = tr
		}
	}
	return defaultTranslation
}

func CheckAllTranslationsParsable(tDef messagingTypes.EmailTemplate) error {
	if len(tDef.Translations) == 0 {
		return errors.New("error when decoding template: translation list is empty")
	}

	for _, tr := range tDef.Translations {
		decoded, err := base64.StdEncoding.DecodeString(tr.TemplateDef)
		if err != nil {
			return fmt.Errorf("error when decoding template %s (%s): %v", tDef.MessageType, tr.Lang, err)
		}
		if _, err := template.New(tDef.MessageType + tr.Lang).Parse(string(decoded)); err != nil {
			return fmt.Errorf("error when parsing template %s (%s): %v", tDef.MessageType, tr.Lang, err)
		}
	}
	return nil
}
