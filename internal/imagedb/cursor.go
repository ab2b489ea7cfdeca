package imagedb

import (
	"encoding/base64"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// cursorAttr is the serialized form of a single key attribute. DynamoDB
// key attributes are limited to string, number, and binary types, so a
// tagged struct covers every key shape an index can return.
type cursorAttr struct {
	S *string `json:"s,omitempty"`
	N *string `json:"n,omitempty"`
	B []byte  `json:"b,omitempty"`
}

// EncodeCursor serializes a LastEvaluatedKey into an opaque URL-safe
// token. An empty key yields an empty token (no more pages).
func EncodeCursor(lastKey map[string]types.AttributeValue) string {
	if len(lastKey) == 0 {
		return ""
	}

	attrs := make(map[string]cursorAttr, len(lastKey))
	for name, av := range lastKey {
		switch v := av.(type) {
		case *types.AttributeValueMemberS:
			attrs[name] = cursorAttr{S: &v.Value}
		case *types.AttributeValueMemberN:
			attrs[name] = cursorAttr{N: &v.Value}
		case *types.AttributeValueMemberB:
			attrs[name] = cursorAttr{B: v.Value}
		default:
			// Not a valid key attribute type; the position is not resumable.
			return ""
		}
	}

	buf, err := json.Marshal(attrs)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

// DecodeCursor deserializes a pagination token back into an
// ExclusiveStartKey. Any malformed or stale token decodes to nil,
// which restarts pagination from the beginning rather than failing
// the request.
func DecodeCursor(token string) map[string]types.AttributeValue {
	if token == "" {
		return nil
	}

	buf, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil
	}

	var attrs map[string]cursorAttr
	if err := json.Unmarshal(buf, &attrs); err != nil {
		return nil
	}
	if len(attrs) == 0 {
		return nil
	}

	key := make(map[string]types.AttributeValue, len(attrs))
	for name, a := range attrs {
		switch {
		case a.S != nil:
			key[name] = &types.AttributeValueMemberS{Value: *a.S}
		case a.N != nil:
			key[name] = &types.AttributeValueMemberN{Value: *a.N}
		case len(a.B) > 0:
			key[name] = &types.AttributeValueMemberB{Value: a.B}
		default:
			return nil
		}
	}
	return key
}
