package imagedb

// Config holds table and index configuration for the Store.
type Config struct {
	// Table is the DynamoDB table holding image records.
	// Default: "crop_images"
	Table string

	// FarmerIndex is the GSI keyed by farmerName, sorted by timestamp.
	// Default: "GSI_FarmerNameTimestamp"
	FarmerIndex string

	// CropIndex is the GSI keyed by cropName, sorted by timestamp.
	// Default: "GSI_CropNameTimestamp"
	CropIndex string

	// WalkPageSize is the internal page size used when the farmer index
	// is walked with crop equality applied in the application layer. It
	// is deliberately decoupled from the caller's requested page size:
	// DynamoDB applies Limit before filters, so small pages make the
	// accumulation loop issue many more round trips.
	// Default: 200
	WalkPageSize int32
}

// DefaultConfig returns the table and index names the service deploys with.
func DefaultConfig() Config {
	return Config{
		Table:        "crop_images",
		FarmerIndex:  "GSI_FarmerNameTimestamp",
		CropIndex:    "GSI_CropNameTimestamp",
		WalkPageSize: 200,
	}
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	if c.Table == "" {
		c.Table = "crop_images"
	}
	if c.FarmerIndex == "" {
		c.FarmerIndex = "GSI_FarmerNameTimestamp"
	}
	if c.CropIndex == "" {
		c.CropIndex = "GSI_CropNameTimestamp"
	}
	if c.WalkPageSize < 1 {
		c.WalkPageSize = 200
	}
}
