package imagedb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UpdateFields is the whitelisted set of editable record attributes.
// A nil pointer leaves the stored attribute untouched; the update
// writes only the fields that are present (partial update, never a
// full replace).
type UpdateFields struct {
	PlantingDate *string `json:"plantingDate"`
	Crop         *string `json:"crop"`
	CropStage    *string `json:"cropStage"`

	PestDetected *bool   `json:"pestDetected"`
	PestName     *string `json:"pestName"`
	PestStage    *string `json:"pestStage"`

	DiseaseDetected *bool   `json:"diseaseDetected"`
	DiseaseName     *string `json:"diseaseName"`
	DiseaseStage    *string `json:"diseaseStage"`

	GoldStandard *bool   `json:"goldStandard"`
	Remarks      *string `json:"remarks"`
}

// UpdateImage applies a partial update to one record. It returns
// ErrMissingID for a blank id and ErrNoFields when no recognized field
// is present, in both cases without touching the store. On success the
// provided fields plus the audit attributes are written; the write is
// unconditional (last-writer-wins, no optimistic concurrency token).
func (s *Store) UpdateImage(ctx context.Context, id string, fields UpdateFields, updatedBy string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrMissingID
	}

	b := newUpdateBuilder()
	b.setString("plantingDate", fields.PlantingDate)
	b.setString("cropName", fields.Crop)
	b.setString("cropStage", fields.CropStage)
	b.setBool("pestPresent", fields.PestDetected)
	b.setString("pestName", fields.PestName)
	b.setString("pestStage", fields.PestStage)
	b.setBool("diseasePresent", fields.DiseaseDetected)
	b.setString("diseaseName", fields.DiseaseName)
	b.setString("diseaseStage", fields.DiseaseStage)
	b.setBool("isGoldStandard", fields.GoldStandard)
	b.setString("remarks", fields.Remarks)

	if b.empty() {
		return ErrNoFields
	}

	// Audit attribution rides along with every accepted edit.
	now := time.Now().UTC().Format(time.RFC3339)
	b.setString("lastUpdatedAt", &now)
	if updatedBy != "" {
		b.setString("lastUpdatedBy", &updatedBy)
	}

	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.config.Table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:          aws.String("SET " + strings.Join(b.sets, ", ")),
		ExpressionAttributeNames:  b.names,
		ExpressionAttributeValues: b.values,
	})
	return err
}

// updateBuilder accumulates SET clauses with generated placeholders.
type updateBuilder struct {
	sets   []string
	names  map[string]string
	values map[string]types.AttributeValue
}

func newUpdateBuilder() *updateBuilder {
	return &updateBuilder{
		names:  map[string]string{},
		values: map[string]types.AttributeValue{},
	}
}

func (b *updateBuilder) empty() bool { return len(b.sets) == 0 }

func (b *updateBuilder) add(attr string, v types.AttributeValue) {
	nameKey := fmt.Sprintf("#f%d", len(b.sets))
	valueKey := fmt.Sprintf(":f%d", len(b.sets))
	b.names[nameKey] = attr
	b.values[valueKey] = v
	b.sets = append(b.sets, nameKey+" = "+valueKey)
}

func (b *updateBuilder) setString(attr string, v *string) {
	if v == nil {
		return
	}
	b.add(attr, &types.AttributeValueMemberS{Value: strings.TrimSpace(*v)})
}

func (b *updateBuilder) setBool(attr string, v *bool) {
	if v == nil {
		return
	}
	b.add(attr, &types.AttributeValueMemberBOOL{Value: *v})
}
