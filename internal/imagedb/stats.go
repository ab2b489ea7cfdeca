package imagedb

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Stats holds aggregate counts over a filtered record set.
type Stats struct {
	Total    int `json:"total"`
	Verified int `json:"verified"`
}

// Stats computes total and verified counts under the same strategy
// selection as List, but walks every page to exhaustion: statistics
// must reflect the full filtered set, not one page. Only an explicit
// isGoldStandard of true counts as verified.
//
// The backing store is eventually consistent under concurrent writes;
// the counts are a full-precision snapshot of a possibly stale read.
func (s *Store) Stats(ctx context.Context, f Filters) (Stats, error) {
	filter := f.filterExpression()
	var stats Stats

	// countRows tallies one page, applying any key-dimension equality
	// the chosen strategy could not push into a key condition.
	countRows := func(rows []map[string]types.AttributeValue, needCrop, needFarmer string) {
		for _, item := range rows {
			if needFarmer != "" && strings.TrimSpace(itemString(item, "farmerName")) != needFarmer {
				continue
			}
			if needCrop != "" && NormalizeCrop(itemString(item, "cropName")) != needCrop {
				continue
			}
			stats.Total++
			if itemBool(item, "isGoldStandard") {
				stats.Verified++
			}
		}
	}

	var startKey map[string]types.AttributeValue

	switch {
	case f.FarmerSelected():
		// Crop equality, if present, is applied per page in the
		// application layer; there is no farmer+crop index.
		for {
			out, err := s.client.Query(ctx, s.indexQuery(s.config.FarmerIndex, "farmerName", f.Farmer, filter, 0, startKey, "id, cropName, isGoldStandard"))
			if err != nil {
				return Stats{}, err
			}
			countRows(out.Items, f.Crop, "")
			startKey = out.LastEvaluatedKey
			if startKey == nil {
				break
			}
		}

	case f.CropSelected():
		for {
			out, err := s.client.Query(ctx, s.indexQuery(s.config.CropIndex, "cropName", f.Crop, filter, 0, startKey, "id, isGoldStandard"))
			if err != nil {
				return Stats{}, err
			}
			countRows(out.Items, "", "")
			startKey = out.LastEvaluatedKey
			if startKey == nil {
				break
			}
		}

	default:
		// Unfiltered scan. Farmer and crop equality are applied in the
		// application layer defensively should both somehow be present
		// without a dedicated index path.
		for {
			out, err := s.client.Scan(ctx, s.scanInput(filter, 0, startKey, "id, cropName, farmerName, isGoldStandard, pestPresent, diseasePresent"))
			if err != nil {
				return Stats{}, err
			}
			countRows(out.Items, f.Crop, f.Farmer)
			startKey = out.LastEvaluatedKey
			if startKey == nil {
				break
			}
		}
	}

	return stats, nil
}
