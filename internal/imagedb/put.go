package imagedb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// NewImage describes a freshly uploaded image record.
type NewImage struct {
	ID     string `dynamodbav:"id"`
	Farmer string `dynamodbav:"farmerName"`
	Crop   string `dynamodbav:"cropName"`
	S3Key  string `dynamodbav:"s3Key"`
}

// CreateImage writes the metadata record for an uploaded image. The
// timestamp is stamped here so the record sorts correctly on both
// indexes. Detection and review attributes are deliberately left
// absent; the projector defaults them on read.
func (s *Store) CreateImage(ctx context.Context, rec NewImage) error {
	item, err := attributevalue.MarshalMap(struct {
		NewImage
		Timestamp string `dynamodbav:"timestamp"`
	}{
		NewImage:  rec,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.config.Table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	return err
}
