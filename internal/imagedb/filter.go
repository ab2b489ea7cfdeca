package imagedb

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	// DefaultLimit is the page size when the caller does not ask for one.
	DefaultLimit = 50

	// MaxLimit caps the page size a caller can request.
	MaxLimit = 200
)

// Filters holds the normalized filter set for one request.
//
// Crop and Farmer are key-condition material: when selected they drive
// the index choice and never appear in a filter expression. The
// tri-state booleans are non-key filters evaluated server-side after
// key-condition matching. A nil tri-state means "unfiltered".
type Filters struct {
	Crop   string
	Farmer string

	Pest    *bool
	Disease *bool
	Gold    *bool
}

// ParseFilters normalizes raw query parameters into a filter set.
func ParseFilters(q url.Values) Filters {
	return Filters{
		Crop:    NormalizeCrop(q.Get("crop")),
		Farmer:  NormalizeFarmer(q.Get("farmer")),
		Pest:    parseTriState(q.Get("pestDetected")),
		Disease: parseTriState(q.Get("diseaseDetected")),
		Gold:    parseTriState(q.Get("goldStandard")),
	}
}

// NormalizeCrop trims and lower-cases a crop value. Empty and "all"
// mean "no crop filter" and normalize to "".
func NormalizeCrop(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "all" {
		return ""
	}
	return v
}

// NormalizeFarmer trims a farmer name, preserving case. Empty and
// "all" (any case) mean "no farmer filter" and normalize to "".
func NormalizeFarmer(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "all") {
		return ""
	}
	return v
}

// ParseLimit parses a requested page size, defaulting to DefaultLimit
// and clamping to [1, MaxLimit].
func ParseLimit(raw string) int {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultLimit
	}
	return clampLimit(limit)
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// parseTriState maps the literal strings "true"/"false" to a boolean
// filter value. Anything else, including absence, means unfiltered.
func parseTriState(v string) *bool {
	switch v {
	case "true":
		t := true
		return &t
	case "false":
		f := false
		return &f
	}
	return nil
}

// CropSelected reports whether a crop filter is active.
func (f Filters) CropSelected() bool { return f.Crop != "" }

// FarmerSelected reports whether a farmer filter is active.
func (f Filters) FarmerSelected() bool { return f.Farmer != "" }

// nonKeyFilter is a DynamoDB filter expression over the attributes that
// are never part of a key condition.
type nonKeyFilter struct {
	Expression string
	Names      map[string]string
	Values     map[string]types.AttributeValue
}

func (n nonKeyFilter) empty() bool { return n.Expression == "" }

// filterExpression builds the non-key filter for the tri-state flags.
// A goldStandard=false filter must match records where the attribute is
// absent as well as explicitly false.
func (f Filters) filterExpression() nonKeyFilter {
	var parts []string
	names := map[string]string{}
	values := map[string]types.AttributeValue{}

	if f.Pest != nil {
		parts = append(parts, "#pp = :pp")
		names["#pp"] = "pestPresent"
		values[":pp"] = &types.AttributeValueMemberBOOL{Value: *f.Pest}
	}
	if f.Disease != nil {
		parts = append(parts, "#dp = :dp")
		names["#dp"] = "diseasePresent"
		values[":dp"] = &types.AttributeValueMemberBOOL{Value: *f.Disease}
	}
	if f.Gold != nil {
		names["#gs"] = "isGoldStandard"
		if *f.Gold {
			parts = append(parts, "#gs = :gst")
			values[":gst"] = &types.AttributeValueMemberBOOL{Value: true}
		} else {
			parts = append(parts, "(attribute_not_exists(#gs) OR #gs = :gsf)")
			values[":gsf"] = &types.AttributeValueMemberBOOL{Value: false}
		}
	}

	if len(parts) == 0 {
		return nonKeyFilter{}
	}
	return nonKeyFilter{
		Expression: strings.Join(parts, " AND "),
		Names:      names,
		Values:     values,
	}
}

// mergeExprNames merges multiple expression attribute name maps.
func mergeExprNames(maps ...map[string]string) map[string]string {
	result := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			result[k] = v
		}
	}
	return result
}

// mergeExprValues merges multiple expression attribute value maps.
func mergeExprValues(maps ...map[string]types.AttributeValue) map[string]types.AttributeValue {
	result := make(map[string]types.AttributeValue)
	for _, m := range maps {
		for k, v := range m {
			result[k] = v
		}
	}
	return result
}
