package payload

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMalformedInputIsEmpty(t *testing.T) {
	cases := []string{"", "not json", "[1,2,3]", `"just a string"`, "{broken"}
	for _, raw := range cases {
		p := Decode(raw)
		require.NotNil(t, p, "raw=%q", raw)
		assert.True(t, p.Empty(), "raw=%q", raw)
		assert.False(t, p.HasContent(), "raw=%q", raw)
	}
}

func TestDecodeKnownFields(t *testing.T) {
	raw := `{
		"title": "Engraving",
		"customization_type": "TEXT",
		"text": "Happy Birthday",
		"rule_id": "rule-1:comp-2",
		"component_id": "comp-2"
	}`
	p := Decode(raw)
	assert.Equal(t, "Engraving", p.Title)
	assert.Equal(t, "TEXT", p.Type)
	assert.Equal(t, "Happy Birthday", p.Text)
	assert.Equal(t, "rule-1:comp-2", p.RuleID)
	assert.Equal(t, "comp-2", p.ComponentID)
	assert.True(t, p.HasContent())
}

func TestDecodeToleratesNumericIDs(t *testing.T) {
	p := Decode(`{"selected_option_id": 42, "rule_id": 7}`)
	assert.Equal(t, "42", p.SelectedOptionID)
	assert.Equal(t, "7", p.RuleID)
}

func TestRoundTripPreservesUnknownKeys(t *testing.T) {
	raw := `{
		"title": "Photos",
		"legacy_field": "kept",
		"nested": {"a": 1},
		"photos": [{"preview_url": "/uploads/temp/a.png", "filename": "a.png"}]
	}`
	p := Decode(raw)
	require.NotNil(t, p.Extra)
	assert.Equal(t, "kept", p.Extra["legacy_field"])

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(Encode(p)), &out))
	assert.Equal(t, "kept", out["legacy_field"])
	assert.Equal(t, map[string]interface{}{"a": float64(1)}, out["nested"])

	photos, ok := out["photos"].([]interface{})
	require.True(t, ok)
	require.Len(t, photos, 1)
	entry := photos[0].(map[string]interface{})
	assert.Equal(t, "/uploads/temp/a.png", entry["preview_url"])
	assert.Equal(t, "a.png", entry["filename"])
}

func TestDecodeOptionsAndArtworks(t *testing.T) {
	raw := `{
		"options": [{"id": "o1", "label": "Red"}, {"id": "o2", "label": "Blue"}, "garbage"],
		"final_artwork": {"preview_url": "p.png", "high_quality_url": "hq.png"},
		"final_artworks": [{"preview_url": "a.png"}]
	}`
	p := Decode(raw)
	require.Len(t, p.Options, 2)
	assert.Equal(t, "Red", p.Options[0].Label)
	require.NotNil(t, p.FinalArtwork)
	assert.Equal(t, "hq.png", p.FinalArtwork.HighQualityURL)
	require.Len(t, p.FinalArtworks, 1)
	assert.Equal(t, "a.png", p.FinalArtworks[0].PreviewURL)
}

func TestFindLayoutIDSearchesNestedState(t *testing.T) {
	p := Decode(`{
		"editor_state": {
			"canvas": {"objects": [{"templateId": "tpl-9"}]}
		}
	}`)
	assert.Equal(t, "tpl-9", p.FindLayoutID())

	explicit := Decode(`{"layout_id": "lay-1", "editor_state": {"template_id": "tpl-2"}}`)
	assert.Equal(t, "lay-1", explicit.FindLayoutID())

	none := Decode(`{"text": "hello"}`)
	assert.Equal(t, "", none.FindLayoutID())
}

func TestEncodeEmptyPayload(t *testing.T) {
	p := &Payload{}
	assert.Equal(t, "{}", Encode(p))
}
