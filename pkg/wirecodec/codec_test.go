package wirecodec

import (
	"encoding/json"
	"math"
	"math/big"
	"testing"

	"studio-backend/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wireDocument = `{
  "creators": [
    ["cr1", {"id": "cr1", "name": "Ada", "avatarUrl": "https://example.com/a.png"}]
  ],
  "categories": [
    ["c1", {"id": "c1", "categoryLabel": "Essays", "order": 0, "nftRequirement": 2, "postIds": ["p1"]}]
  ],
  "posts": [
    ["p1", {"id": "p1", "postLabel": "First", "content": "hello", "creatorId": "cr1", "categoryId": "c1", "nftRequirement": 0, "timestamp": 1699999999999}]
  ]
}`

func TestEntryUnmarshalRequiresPairShape(t *testing.T) {
	var e Entry
	err := json.Unmarshal([]byte(`["id"]`), &e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected [id, fields]")
}

func TestDecodeWireDocument(t *testing.T) {
	var payload Payload
	require.NoError(t, json.Unmarshal([]byte(wireDocument), &payload))

	g := Decode(payload)
	require.Len(t, g.Creators, 1)
	require.Len(t, g.Categories, 1)
	require.Len(t, g.Posts, 1)

	assert.Equal(t, "Ada", g.Creators["cr1"].Name)
	assert.Equal(t, int64(2), g.Categories["c1"].NFTRequirement)
	assert.Equal(t, []string{"p1"}, g.Categories["c1"].PostIDs)
	assert.Equal(t, int64(1_699_999_999_999), g.Posts["p1"].Timestamp)
	assert.Equal(t, "c1", g.Posts["p1"].CategoryID)
}

func TestRoundTripPreservesGraph(t *testing.T) {
	var payload Payload
	require.NoError(t, json.Unmarshal([]byte(wireDocument), &payload))

	g := Decode(payload)
	encoded := Encode(g)

	// Serialize and re-decode the encoded payload, then compare graphs.
	data, err := json.Marshal(encoded)
	require.NoError(t, err)
	var again Payload
	require.NoError(t, json.Unmarshal(data, &again))
	assert.True(t, g.Equal(Decode(again)))
}

func TestUnknownFieldsPassThrough(t *testing.T) {
	doc := `{
  "creators": [["cr1", {"id": "cr1", "name": "Ada", "walletAddress": "0xabc", "badges": [1, 2]}]],
  "categories": [],
  "posts": []
}`
	var payload Payload
	require.NoError(t, json.Unmarshal([]byte(doc), &payload))

	g := Decode(payload)
	creator := g.Creators["cr1"]
	require.NotNil(t, creator.Extra)
	assert.Equal(t, "0xabc", creator.Extra["walletAddress"])

	encoded := Encode(g)
	require.Len(t, encoded.Creators, 1)
	assert.Equal(t, "0xabc", encoded.Creators[0].Fields["walletAddress"])
	assert.Contains(t, encoded.Creators[0].Fields, "badges")
}

func TestBigIntegersClampOnDecode(t *testing.T) {
	doc := `{
  "creators": [],
  "categories": [["c1", {"id": "c1", "categoryLabel": "L", "order": 0, "nftRequirement": 99999999999999999999999999, "postIds": []}]],
  "posts": []
}`
	var payload Payload
	require.NoError(t, json.Unmarshal([]byte(doc), &payload))

	// The raw wire value keeps every digit.
	raw, ok := payload.Categories[0].Fields["nftRequirement"].(*big.Int)
	require.True(t, ok)
	expected, _ := new(big.Int).SetString("99999999999999999999999999", 10)
	assert.Zero(t, raw.Cmp(expected))

	// The typed graph clamps to the nearest representable value.
	g := Decode(payload)
	assert.Equal(t, int64(math.MaxInt64), g.Categories["c1"].NFTRequirement)
}

func TestBigIntegerExtraSurvivesRoundTrip(t *testing.T) {
	doc := `{
  "creators": [["cr1", {"id": "cr1", "name": "Ada", "ledgerBalance": 99999999999999999999999999}]],
  "categories": [],
  "posts": []
}`
	var payload Payload
	require.NoError(t, json.Unmarshal([]byte(doc), &payload))

	g := Decode(payload)
	encoded := Encode(g)
	data, err := json.Marshal(encoded)
	require.NoError(t, err)
	assert.Contains(t, string(data), "99999999999999999999999999",
		"unmapped big integers must keep all digits through a round trip")
}

func TestFractionalValuesClampAtInt64Bounds(t *testing.T) {
	// float64 has no exact representation of MaxInt64; the nearest value is
	// 2^63, which must clamp instead of overflowing the conversion.
	payload := Payload{
		Categories: []Entry{{ID: "c1", Fields: map[string]any{
			"id":             "c1",
			"categoryLabel":  "L",
			"nftRequirement": math.Ldexp(1, 63),
			"order":          -math.Ldexp(1, 63),
		}}},
	}
	g := Decode(payload)
	assert.Equal(t, int64(math.MaxInt64), g.Categories["c1"].NFTRequirement)
	assert.Equal(t, int64(math.MinInt64), g.Categories["c1"].Order)
}

func TestUnrepresentableNumberStaysNumeric(t *testing.T) {
	// 1e400 is neither a base-10 integer nor representable as float64. It
	// must stay a numeric token so re-marshalling emits it unchanged.
	doc := `{
  "creators": [["cr1", {"id": "cr1", "name": "Ada", "supply": 1e400}]],
  "categories": [],
  "posts": []
}`
	var payload Payload
	require.NoError(t, json.Unmarshal([]byte(doc), &payload))

	supply, ok := payload.Creators[0].Fields["supply"].(json.Number)
	require.True(t, ok, "fallback must keep the json.Number, not a string")
	assert.Equal(t, "1e400", supply.String())

	data, err := json.Marshal(Encode(Decode(payload)))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"supply":1e400`)
}

func TestEntryMarshalShape(t *testing.T) {
	e := Entry{ID: "x", Fields: map[string]any{"id": "x"}}
	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `["x", {"id": "x"}]`, string(data))
}

func TestDecodeToleratesMalformedFieldTypes(t *testing.T) {
	// Wrong types decode to zero values; the validator rejects them later.
	payload := Payload{
		Posts: []Entry{{ID: "p1", Fields: map[string]any{
			"id":        "p1",
			"timestamp": "not-a-number",
			"postIds":   42,
		}}},
	}
	g := Decode(payload)
	assert.Equal(t, int64(0), g.Posts["p1"].Timestamp)
}

func TestEncodeEmptyGraph(t *testing.T) {
	encoded := Encode(core.NewGraph())
	assert.Empty(t, encoded.Creators)
	assert.Empty(t, encoded.Categories)
	assert.Empty(t, encoded.Posts)
}
