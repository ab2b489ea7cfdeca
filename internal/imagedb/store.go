package imagedb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the subset of the DynamoDB client the store uses.
// *dynamodb.Client satisfies it.
type DynamoAPI interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// Store provides DynamoDB operations over the image record table.
type Store struct {
	client DynamoAPI
	config Config
}

// New creates a new Store instance.
func New(client DynamoAPI, config Config) *Store {
	config.validate()
	return &Store{
		client: client,
		config: config,
	}
}

// Page is one page of projected results plus the continuation token.
// An empty NextCursor means no more pages.
type Page struct {
	Images     []Image
	NextCursor string
}

// List retrieves one page of image records matching the filter set,
// newest first. The retrieval strategy depends on which of farmer and
// crop are selected:
//
//   - neither:       one bounded table scan
//   - crop only:     one bounded query on the crop index
//   - farmer only:   one bounded query on the farmer index
//   - farmer + crop: the farmer index walked page by page with crop
//     equality applied in the application layer, since no composite
//     index exists
//
// Store errors propagate unchanged; the store does not retry.
func (s *Store) List(ctx context.Context, f Filters, limit int, cursor string) (Page, error) {
	limit = clampLimit(limit)
	startKey := DecodeCursor(cursor)
	filter := f.filterExpression()

	var (
		rows    []map[string]types.AttributeValue
		lastKey map[string]types.AttributeValue
	)

	switch {
	case f.FarmerSelected() && f.CropSelected():
		var err error
		rows, lastKey, err = s.listFarmerCrop(ctx, f, limit, startKey, filter)
		if err != nil {
			return Page{}, err
		}

	case f.FarmerSelected():
		out, err := s.client.Query(ctx, s.indexQuery(s.config.FarmerIndex, "farmerName", f.Farmer, filter, int32(limit), startKey, ""))
		if err != nil {
			return Page{}, err
		}
		rows, lastKey = out.Items, out.LastEvaluatedKey

	case f.CropSelected():
		out, err := s.client.Query(ctx, s.indexQuery(s.config.CropIndex, "cropName", f.Crop, filter, int32(limit), startKey, ""))
		if err != nil {
			return Page{}, err
		}
		rows, lastKey = out.Items, out.LastEvaluatedKey

	default:
		out, err := s.client.Scan(ctx, s.scanInput(filter, int32(limit), startKey, ""))
		if err != nil {
			return Page{}, err
		}
		rows, lastKey = out.Items, out.LastEvaluatedKey
	}

	images := make([]Image, 0, len(rows))
	for _, row := range rows {
		images = append(images, projectImage(row))
	}
	return Page{Images: images, NextCursor: EncodeCursor(lastKey)}, nil
}

// listFarmerCrop queries the farmer index and applies crop equality in
// the application layer. DynamoDB applies Limit before filter
// evaluation, so a single bounded query can return zero matches even
// when matches exist deeper in the index; pages are fetched until
// enough matches accumulate or the index is exhausted.
//
// The returned continuation key reflects index position, not match
// position: a resumed request continues the same per-page walk. The
// page size experienced by the caller is therefore not uniform across
// requests.
func (s *Store) listFarmerCrop(ctx context.Context, f Filters, limit int, startKey map[string]types.AttributeValue, filter nonKeyFilter) ([]map[string]types.AttributeValue, map[string]types.AttributeValue, error) {
	var collected []map[string]types.AttributeValue

	for {
		out, err := s.client.Query(ctx, s.indexQuery(s.config.FarmerIndex, "farmerName", f.Farmer, filter, s.config.WalkPageSize, startKey, ""))
		if err != nil {
			return nil, nil, err
		}

		for _, item := range out.Items {
			if NormalizeCrop(itemString(item, "cropName")) == f.Crop {
				collected = append(collected, item)
			}
		}

		startKey = out.LastEvaluatedKey
		if len(collected) >= limit || startKey == nil {
			break
		}
	}

	if len(collected) > limit {
		collected = collected[:limit]
	}
	return collected, startKey, nil
}

// indexQuery builds a newest-first query against one of the GSIs. The
// key attribute carries the key condition; only non-key predicates go
// in the filter expression. A limit or projection of zero value is
// omitted from the input.
func (s *Store) indexQuery(index, keyAttr, keyValue string, filter nonKeyFilter, limit int32, startKey map[string]types.AttributeValue, projection string) *dynamodb.QueryInput {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(s.config.Table),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String("#k = :k"),
		ExpressionAttributeNames: mergeExprNames(
			map[string]string{"#k": keyAttr},
			filter.Names,
		),
		ExpressionAttributeValues: mergeExprValues(
			map[string]types.AttributeValue{":k": &types.AttributeValueMemberS{Value: keyValue}},
			filter.Values,
		),
		ScanIndexForward:  aws.Bool(false),
		ExclusiveStartKey: startKey,
	}
	if !filter.empty() {
		in.FilterExpression = aws.String(filter.Expression)
	}
	if limit > 0 {
		in.Limit = aws.Int32(limit)
	}
	if projection != "" {
		in.ProjectionExpression = aws.String(projection)
	}
	return in
}

// scanInput builds a table scan with the non-key filter applied.
func (s *Store) scanInput(filter nonKeyFilter, limit int32, startKey map[string]types.AttributeValue, projection string) *dynamodb.ScanInput {
	in := &dynamodb.ScanInput{
		TableName:         aws.String(s.config.Table),
		ExclusiveStartKey: startKey,
	}
	if !filter.empty() {
		in.FilterExpression = aws.String(filter.Expression)
		in.ExpressionAttributeNames = filter.Names
		in.ExpressionAttributeValues = filter.Values
	}
	if limit > 0 {
		in.Limit = aws.Int32(limit)
	}
	if projection != "" {
		in.ProjectionExpression = aws.String(projection)
	}
	return in
}
