package aws

import (
	"context"
	"errors"
	"log"

	"brs/src/lib"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

func SQSProduceMessage(queue string, body string) error {
	client := lib.AWSGetSQSClient()
	if client == nil {
		return errors.New("SQS client is not available")
	}
	qurl, err := client.GetQueueUrl(context.TODO(), &sqs.GetQueueUrlInput{
		QueueName: aws.String(queue),
	})
	if err != nil {
		log.Printf("Failed to retrieve queue URL for %s: %s\n", queue, err.Error())
		return err
	}
	output, err := client.SendMessage(context.Background(), &sqs.SendMessageInput{
		QueueUrl:    qurl.QueueUrl,
		MessageBody: aws.String(body),
	})
	if err != nil {
		log.Printf("Error sending message to queue %s: %s\n", queue, err.Error())
		return err
	}
	log.Printf("Sent message [%s] to queue %s\n", aws.ToString(output.MessageId), queue)
	return nil
}
