package messaging

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	messagingTypes "github.com/OdamboMichael/ims.xp/pkg/messaging/types"
)

func (messagingDBService *MessagingDBService) GetEmailTemplates(instanceID string) ([]messagingTypes.EmailTemplate, error) {
	ctx, cancel := messagingDBService.getContext()
	defer cancel()

	var emailTemplates []messagingTypes.EmailTemplate
	cursor, err := messagingDBService.collectionEmailTemplates(instanceID).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	if err = cursor.All(ctx, &emailTemplates); err != nil {
		return nil, err
	}
	return emailTemplates, nil
}

func (messagingDBService *MessagingDBService) GetEmailTemplateByMessageType(instanceID string, messageType string) (*messagingTypes.EmailTemplate, error) {
	ctx, cancel := messagingDBService.getContext()
	defer cancel()

	filter := bson.M{"messageType": messageType}

	var emailTemplate messagingTypes.EmailTemplate
	err := messagingDBService.collectionEmailTemplates(instanceID).FindOne(ctx, filter).Decode(&emailTemplate)
	if err != nil {
		return nil, err
	}
	return &emailTemplate, nil
}

// save email template (if id is empty, insert, else update)
func (messagingDBService *MessagingDBService) SaveEmailTemplate(instanceID string, emailTemplate messagingTypes.EmailTemplate) (messagingTypes.EmailTemplate, error) {
	ctx, cancel := messagingDBService.getContext()
	defer cancel()

	if emailTemplate.ID.IsZero() {
		emailTemplate.ID = primitive.NewObjectID()
		res, err := messagingDBService.collectionEmailTemplates(instanceID).InsertOne(ctx, emailTemplate)
		if err != nil {
			return messagingTypes.EmailTemplate{}, err
		}
		emailTemplate.ID = res.InsertedID.(primitive.ObjectID)
		return emailTemplate, nil
	}

	filter := bson.M{"_id": emailTemplate.ID}
	upsert := false
	after := options.After
	opt := options.FindOneAndReplaceOptions{Upsert: &upsert, ReturnDocument: &after}
	err := messagingDBService.collectionEmailTemplates(instanceID).FindOneAndReplace(ctx, filter, emailTemplate, &opt).Decode(&emailTemplate)
	if err != nil {
		return messagingTypes.EmailTemplate{}, err
	}
	return emailTemplate, nil
}

func (messagingDBService *MessagingDBService) DeleteEmailTemplate(instanceID string, messageType string) error {
	ctx, cancel := messagingDBService.getContext()
	defer cancel()

	filter := bson.M{"messageType": messageType}
	_, err := messagingDBService.collectionEmailTemplates(instanceID).DeleteOne(ctx, filter)
	return err
}
