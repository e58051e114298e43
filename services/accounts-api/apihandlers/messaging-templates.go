package apihandlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/OdamboMichael/ims.xp/pkg/apihelpers/middlewares"
	jwthandling "github.com/OdamboMichael/ims.xp/pkg/jwt-handling"
	emailtemplates "github.com/OdamboMichael/ims.xp/pkg/messaging/email-templates"
	messagingTypes "github.com/OdamboMichael/ims.xp/pkg/messaging/types"
	userTypes "github.com/OdamboMichael/ims.xp/pkg/user-management/types"
)

// Email templates are managed per instance by institution admins.
func (h *HttpEndpoints) AddMessagingTemplatesAPI(rg *gin.RouterGroup) {
	templatesGroup := rg.Group("/messaging/email-templates")
	templatesGroup.Use(mw.GetAndValidateUserJWT(h.tokenSignKey, h.globalInfosDBConn))
	templatesGroup.Use(mw.RequireRole(userTypes.ROLE_ADMIN))
	{
		templatesGroup.GET("", h.getEmailTemplates)
		templatesGroup.GET("/:messageType", h.getEmailTemplate)
		templatesGroup.PUT("", mw.RequirePayload(), h.saveEmailTemplate)
		templatesGroup.DELETE("/:messageType", h.deleteEmailTemplate)
	}
}

func (h *HttpEndpoints) getEmailTemplates(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.UserClaims)

	templates, err := h.messagingDBConn.GetEmailTemplates(token.InstanceID)
	if err != nil {
		slog.Error("error getting email templates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error getting email templates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

func (h *HttpEndpoints) getEmailTemplate(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.UserClaims)
	messageType := c.Param("messageType")

	template, err := h.messagingDBConn.GetEmailTemplateByMessageType(token.InstanceID, messageType)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": template})
}

func (h *HttpEndpoints) saveEmailTemplate(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.UserClaims)

	var template messagingTypes.EmailTemplate
	if err := c.ShouldBindJSON(&template); err != nil {
		slog.Error("error parsing request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "error parsing request body"})
		return
	}

	if err := emailtemplates.CheckAllTranslationsParsable(template); err != nil {
		slog.Error("error parsing template", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "error while checking template validity"})
		return
	}

	slog.Info("saving email template", slog.String("instanceID", token.InstanceID), slog.String("userID", token.Subject), slog.String("messageType", template.MessageType))

	savedTemplate, err := h.messagingDBConn.SaveEmailTemplate(token.InstanceID, template)
	if err != nil {
		slog.Error("error saving email template", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error saving email template"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": savedTemplate})
}

func (h *HttpEndpoints) deleteEmailTemplate(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.UserClaims)
	messageType := c.Param("messageType")

	slog.Info("deleting email template", slog.String("instanceID", token.InstanceID), slog.String("userID", token.Subject), slog.String("messageType", messageType))

	if err := h.messagingDBConn.DeleteEmailTemplate(token.InstanceID, messageType); err != nil {
		slog.Error("error deleting email template", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error deleting email template"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "template deleted"})
}
