package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zh-extractor/internal/keygen"
)

var rows = []keygen.Row{
	{Key: "DRAW_CARD_ITEM_INSUFFICIENT", Value: "抽卡道具不足", Pos: "DrawView.cs---12"},
	{Key: "DRAW_TOTAL_COUNT", Value: "累计抽取{0}次, \"好\"", Pos: "DrawView.cs---40"},
}

func TestWriteFile_CSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "csv")

	path, err := WriteFile(dir, "Draw", rows, CSV)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Draw.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("\xef\xbb\xbf")), "missing BOM")

	records, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"key", "value", "pos"},
		{"DRAW_CARD_ITEM_INSUFFICIENT", "抽卡道具不足", "DrawView.cs---12"},
		{"DRAW_TOTAL_COUNT", "累计抽取{0}次, \"好\"", "DrawView.cs---40"},
	}, records)
}

func TestWriteFile_EmptyTableHasHeader(t *testing.T) {
	path, err := WriteFile(t.TempDir(), "Empty", nil, "")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\xef\xbb\xbfkey,value,pos\n", string(data))
}

func TestWriteFile_JSON(t *testing.T) {
	path, err := WriteFile(t.TempDir(), "Draw", rows, JSON)
	require.NoError(t, err)
	assert.Equal(t, "Draw.json", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "抽卡道具不足")

	var got []map[string]string
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "DRAW_TOTAL_COUNT", got[1]["key"])
	assert.Equal(t, "DrawView.cs---40", got[1]["pos"])
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, JSON, f)

	_, err = ParseFormat("xlsx")
	assert.ErrorContains(t, err, "unknown export format")
}
