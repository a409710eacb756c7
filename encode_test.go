package performance

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/PaesslerAG/jsonpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// googlSnapshot computes the snapshot of GOOGL plus an unpriced MSFT position.
func googlSnapshot(t *testing.T) *PortfolioSnapshot {
	t.Helper()
	in := googlInput(TWR)
	in.Activities = append(in.Activities, trade("2023-01-03", Buy, msft, "2", "100", "0", "0"))
	s, err := ComputeSnapshot(context.Background(), in, Options{})
	require.NoError(t, err)
	return s
}

func TestEncodeSnapshot_JSONPath(t *testing.T) {
	s := googlSnapshot(t)
	var buf bytes.Buffer
	require.NoError(t, EncodeSnapshot(&buf, s))

	var doc any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	tests := []struct {
		path string
		want any
	}{
		{"$.calculationType", "TWR"},
		{"$.baseCurrency", "CHF"},
		{"$.windowFrom", "2023-01-03"},
		{"$.windowTo", "2023-07-10"},
		{"$.currentValueInBaseCurrency", "103.10483"},
		{"$.totalInvestment", "89.12"},
		{"$.hasErrors", true},
		{"$.errors[0].kind", "MISSING_PRICE"},
		{"$.errors[0].asset.symbol", "MSFT"},
		{"$.errors[0].date", "2023-07-10"},
		{"$.positions[0].asset.symbol", "GOOGL"},
		{"$.positions[0].valueInBaseCurrency", "103.10483"},
		{"$.positions[0].netPerformanceWithCurrencyEffectMap.max", "19.851974"},
		{"$.positions[1].investment", nil},
		{"$.positions[1].hasErrors", true},
		{"$.activitiesCount", float64(2)},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := jsonpath.Get(tt.path, doc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	warnings, err := jsonpath.Get("$.warnings", doc)
	assert.Error(t, err, "no warnings, no key")
	assert.Nil(t, warnings)
}

func TestEncodeSnapshot_RoundTrip(t *testing.T) {
	s := googlSnapshot(t)
	var buf bytes.Buffer
	require.NoError(t, EncodeSnapshot(&buf, s))
	first := buf.String()

	got, err := DecodeSnapshot(&buf)
	require.NoError(t, err)
	assert.True(t, s.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, s.Window, got.Window)
	assertDecimal(t, "103.10483", got.CurrentValueInBaseCurrency)
	assert.Equal(t, s.Errors, got.Errors)
	require.Len(t, got.Positions, 2)
	assert.False(t, got.Positions[1].Investment.Valid)

	buf.Reset()
	require.NoError(t, EncodeSnapshot(&buf, got))
	assert.Equal(t, first, buf.String(), "decoding then encoding is stable")
}

func TestEncodeSnapshot_EmptyLists(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeSnapshot(&buf, &PortfolioSnapshot{}))
	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, []any{}, doc["errors"])
	assert.Equal(t, []any{}, doc["positions"])
	assert.Equal(t, []any{}, doc["historicalData"])
	assert.Equal(t, "", doc["windowFrom"])
}

func TestSnapshotMsgpack(t *testing.T) {
	s := googlSnapshot(t)
	data, err := MarshalSnapshotMsgpack(s)
	require.NoError(t, err)

	again, err := MarshalSnapshotMsgpack(s)
	require.NoError(t, err)
	assert.Equal(t, data, again, "sorted keys give identical bytes")

	got, err := UnmarshalSnapshotMsgpack(data)
	require.NoError(t, err)

	want, err := json.Marshal(s)
	require.NoError(t, err)
	gotJSON, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(gotJSON))

	_, err = UnmarshalSnapshotMsgpack([]byte{0xc1})
	assert.Error(t, err)
}
