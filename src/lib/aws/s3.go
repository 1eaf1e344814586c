package aws

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"brs/src/lib"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func agreementsBucket() string {
	return os.Getenv("S3_AGREEMENTS_BUCKET")
}

// S3PublicURL builds the stable public URL persisted on agreements
// (signature_url, pdf_url). The bucket serves these objects publicly.
func S3PublicURL(key string) string {
	region := os.Getenv("AWS_REGION")
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", agreementsBucket(), region, key)
}

func S3UploadBlob(key string, body []byte, contentType string) (*string, error) {
	client := lib.AWSGetS3Client()
	if client == nil {
		return nil, errors.New("S3 client is not available")
	}
	_, err := client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(agreementsBucket()),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Printf("Could not put object to S3 bucket: %s\n", err.Error())
		return nil, err
	}
	url := S3PublicURL(key)
	return &url, nil
}

// S3DownloadBlob returns nil bytes without error when the key does not exist.
func S3DownloadBlob(key string) ([]byte, error) {
	client := lib.AWSGetS3Client()
	if client == nil {
		return nil, errors.New("S3 client is not available")
	}
	result, err := client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(agreementsBucket()),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, nil
		}
		return nil, err
	}
	defer result.Body.Close()
	body, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func S3ListKeys(prefix string) ([]string, error) {
	client := lib.AWSGetS3Client()
	if client == nil {
		return nil, errors.New("S3 client is not available")
	}
	output, err := client.ListObjectsV2(context.TODO(), &s3.ListObjectsV2Input{
		Bucket: aws.String(agreementsBucket()),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		log.Printf("[S3] Error retrieving objects: %s\n", err.Error())
		return nil, err
	}
	keys := make([]string, 0, len(output.Contents))
	for _, object := range output.Contents {
		keys = append(keys, aws.ToString(object.Key))
	}
	return keys, nil
}
