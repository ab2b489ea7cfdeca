package imagedb

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Image is the wire-level shape of one reviewed image record. Every
// optional stored attribute has an explicit default here so records
// written before a schema field existed still render sensibly.
type Image struct {
	Key string `json:"key"`

	Farmer          string `json:"farmer"`
	Crop            string `json:"crop"`
	WeatherLocation string `json:"weatherLocation"`

	CreatedAt    string `json:"createdAt"`
	PlantingDate string `json:"plantingDate"`

	PestDetected    bool `json:"pestDetected"`
	DiseaseDetected bool `json:"diseaseDetected"`
	IsGoldStandard  bool `json:"isGoldStandard"`

	PestName     string `json:"pestName"`
	PestStage    string `json:"pestStage"`
	DiseaseName  string `json:"diseaseName"`
	DiseaseStage string `json:"diseaseStage"`
	CropStage    string `json:"cropStage"`

	Remarks string `json:"remarks"`

	// S3Key is the object storage key for the image blob.
	S3Key string `json:"s3Key"`

	// ImageURL is the time-limited access URL, resolved after projection.
	ImageURL string `json:"imageUrl"`
}

// projectImage maps a raw stored item to the wire shape. Wrong-typed or
// absent attributes default rather than error.
func projectImage(item map[string]types.AttributeValue) Image {
	// Legacy records store the object key under imageUrl rather than s3Key.
	storageKey := itemString(item, "imageUrl")
	if storageKey == "" {
		storageKey = itemString(item, "s3Key")
	}

	createdAt := itemString(item, "timestamp")
	if createdAt == "" {
		createdAt = time.Now().UTC().Format(time.RFC3339)
	}

	return Image{
		Key:             itemString(item, "id"),
		Farmer:          itemString(item, "farmerName"),
		Crop:            itemString(item, "cropName"),
		WeatherLocation: itemString(item, "weatherLocation"),
		CreatedAt:       createdAt,
		PlantingDate:    itemString(item, "plantingDate"),
		PestDetected:    itemBool(item, "pestPresent"),
		DiseaseDetected: itemBool(item, "diseasePresent"),
		IsGoldStandard:  itemBool(item, "isGoldStandard"),
		PestName:        itemString(item, "pestName"),
		PestStage:       itemString(item, "pestStage"),
		DiseaseName:     itemString(item, "diseaseName"),
		DiseaseStage:    itemString(item, "diseaseStage"),
		CropStage:       itemString(item, "cropStage"),
		Remarks:         itemString(item, "remarks"),
		S3Key:           storageKey,
	}
}

// itemString extracts a string attribute, returning "" for a missing
// or wrong-typed value.
func itemString(item map[string]types.AttributeValue, name string) string {
	if v, ok := item[name].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

// itemBool extracts a boolean attribute, returning false for a missing
// or wrong-typed value.
func itemBool(item map[string]types.AttributeValue, name string) bool {
	if v, ok := item[name].(*types.AttributeValueMemberBOOL); ok {
		return v.Value
	}
	return false
}
