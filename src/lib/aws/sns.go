package aws

import (
	"context"
	"errors"
	"log"

	"brs/src/lib"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSPublishSMS sends a plain-text SMS directly to a phone number.
// Used as the fallback channel for booking alerts.
func SNSPublishSMS(phoneNumber string, message string) error {
	if phoneNumber == "" {
		return errors.New("no recipient phone number configured")
	}
	client := lib.AWSGetSNSClient()
	if client == nil {
		return errors.New("SNS client is not available")
	}
	output, err := client.Publish(context.Background(), &sns.PublishInput{
		PhoneNumber: aws.String(phoneNumber),
		Message:     aws.String(message),
	})
	if err != nil {
		log.Printf("Error publishing SMS to %s: %s\n", phoneNumber, err.Error())
		return err
	}
	log.Printf("Published SMS with id: %s\n", aws.ToString(output.MessageId))
	return nil
}
