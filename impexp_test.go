package performance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportPrices(t *testing.T) {
	tests := []struct {
		name                         string
		doc                          string
		listPath, datePath, pricePath string
	}{
		{
			name:      "list of quotes",
			doc:       `{"symbol":"GOOGL","quotes":[{"t":"2023-01-03","close":89.12},{"t":"2023-07-10","close":116.45}]}`,
			listPath:  "$.quotes[*]",
			datePath:  "$.t",
			pricePath: "$.close",
		},
		{
			name:      "unix timestamps and string prices",
			doc:       `{"chart":{"result":[{"ts":1672704000,"c":"89.12"},{"ts":1688947200,"c":"116.45"}]}}`,
			listPath:  "$.chart.result[*]",
			datePath:  "$.ts",
			pricePath: "$.c",
		},
		{
			name:      "RFC 3339 dates",
			doc:       `[{"at":"2023-01-03T21:00:00Z","p":{"last":89.12}},{"at":"2023-07-10T21:00:00Z","p":{"last":116.45}}]`,
			listPath:  "$[*]",
			datePath:  "$.at",
			pricePath: "$.p.last",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prices := NewMarketPrices()
			n, err := ImportPrices(prices, strings.NewReader(tt.doc), googl, tt.listPath, tt.datePath, tt.pricePath)
			require.NoError(t, err)
			assert.Equal(t, 2, n)

			p, ok := prices.Get(googl, day("2023-01-03"))
			require.True(t, ok)
			assertDecimal(t, "89.12", p)
			p, ok = prices.Get(googl, day("2023-07-10"))
			require.True(t, ok)
			assertDecimal(t, "116.45", p)
		})
	}
}

func TestImportPrices_SingleQuote(t *testing.T) {
	prices := NewMarketPrices()
	n, err := ImportPrices(prices, strings.NewReader(`{"last":{"date":"2023-07-10","price":116.45}}`), googl, "$.last", "$.date", "$.price")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestImportPrices_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{"quotes":`},
		{"missing list", `{"other":[]}`},
		{"missing date", `{"quotes":[{"close":1}]}`},
		{"bad date", `{"quotes":[{"t":"10/07/2023","close":1}]}`},
		{"bad price", `{"quotes":[{"t":"2023-07-10","close":"n/a"}]}`},
		{"object price", `{"quotes":[{"t":"2023-07-10","close":{}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportPrices(NewMarketPrices(), strings.NewReader(tt.doc), googl, "$.quotes[*]", "$.t", "$.close")
			assert.Error(t, err)
		})
	}
}
