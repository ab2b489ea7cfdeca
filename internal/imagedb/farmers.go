package imagedb

import (
	"context"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// FarmerStats is one farmer's record counts.
type FarmerStats struct {
	Farmer   string `json:"farmer"`
	Total    int    `json:"total"`
	Verified int    `json:"verified"`
}

// Directory holds per-farmer counts plus the global totals.
type Directory struct {
	Overall Stats         `json:"overall"`
	Farmers []FarmerStats `json:"farmers"`
}

// FarmerDirectory scans the full table, reading only farmer name and
// gold-standard flag, and aggregates per-farmer and overall counts.
// Records with a blank farmer name are excluded. Farmers are returned
// sorted by name ascending, case-sensitive.
//
// This is the most expensive read in the system (a full-table scan)
// and is intended for infrequent directory population.
func (s *Store) FarmerDirectory(ctx context.Context) (*Directory, error) {
	byName := make(map[string]*FarmerStats)
	dir := &Directory{}

	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Scan(ctx, s.scanInput(nonKeyFilter{}, 0, startKey, "farmerName, isGoldStandard"))
		if err != nil {
			return nil, err
		}

		for _, item := range out.Items {
			farmer := strings.TrimSpace(itemString(item, "farmerName"))
			if farmer == "" {
				continue
			}
			verified := itemBool(item, "isGoldStandard")

			dir.Overall.Total++
			if verified {
				dir.Overall.Verified++
			}

			cur, ok := byName[farmer]
			if !ok {
				cur = &FarmerStats{Farmer: farmer}
				byName[farmer] = cur
			}
			cur.Total++
			if verified {
				cur.Verified++
			}
		}

		startKey = out.LastEvaluatedKey
		if startKey == nil {
			break
		}
	}

	dir.Farmers = make([]FarmerStats, 0, len(byName))
	for _, fs := range byName {
		dir.Farmers = append(dir.Farmers, *fs)
	}
	sort.Slice(dir.Farmers, func(i, j int) bool {
		return dir.Farmers[i].Farmer < dir.Farmers[j].Farmer
	})

	return dir, nil
}
