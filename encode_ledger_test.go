package performance

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeActivities(t *testing.T) {
	jsonl := `
{"date":"2023-01-03","type":"BUY","dataSource":"YAHOO","symbol":"GOOGL","currency":"USD","quantity":1,"unitPrice":89.12,"fee":1,"feeInBaseCurrency":0.9238,"tags":["tech"]}

{"date":"2023-03-01","type":"DIVIDEND","dataSource":"YAHOO","symbol":"GOOGL","currency":"USD","quantity":"1","unitPrice":"2.5"}
{"date":"2023-04-01","type":"SELL","dataSource":"MANUAL","symbol":"FLAT","currency":"EUR","quantity":"1","unitPrice":"120000"}
`
	activities, err := DecodeActivities(strings.NewReader(jsonl))
	require.NoError(t, err)
	require.Len(t, activities, 3)

	a := activities[0]
	assert.Equal(t, day("2023-01-03"), a.Date)
	assert.Equal(t, Buy, a.Type)
	assert.Equal(t, googl, a.Asset)
	assert.Equal(t, "USD", a.Currency())
	assertMoney(t, "89.12", a.UnitPrice)
	assertMoney(t, "1", a.Fee)
	assertMoney(t, "0.9238", a.FeeInBaseCurrency)
	assert.Equal(t, []string{"tech"}, a.Tags)

	assert.Equal(t, Dividend, activities[1].Type)
	assert.True(t, activities[1].Fee.IsZero())
	assert.Equal(t, AssetID{DataSource: Manual, Symbol: "FLAT"}, activities[2].Asset)
	assert.Equal(t, "EUR", activities[2].Currency())
}

func TestDecodeActivities_Errors(t *testing.T) {
	tests := []struct {
		name  string
		jsonl string
		want  string
	}{
		{"not json", `{"date":`, "line 1"},
		{"unknown type", `{"date":"2023-01-03","type":"SPLIT","symbol":"GOOGL"}`, `unknown activity type "SPLIT"`},
		{"no type", `{"date":"2023-01-03","symbol":"GOOGL"}`, "unknown activity type"},
		{"invalid date", `{"date":"03/01/2023","type":"BUY","symbol":"GOOGL"}`, "line 1"},
		{"negative quantity", "\n" + `{"date":"2023-01-03","type":"BUY","symbol":"GOOGL","currency":"USD","quantity":-1,"unitPrice":1}`, "line 2"},
		{"unknown currency", `{"date":"2023-01-03","type":"BUY","symbol":"GOOGL","currency":"ABC","quantity":1,"unitPrice":1}`, "ABC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeActivities(strings.NewReader(tt.jsonl))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEncodeActivities_Stable(t *testing.T) {
	jsonl := `{"date":"2023-01-03","type":"BUY","dataSource":"YAHOO","symbol":"GOOGL","currency":"USD","quantity":"1","unitPrice":"89.12","fee":"1","feeInBaseCurrency":"0.9238","tags":["tech"]}
{"date":"2023-03-01","type":"DIVIDEND","dataSource":"YAHOO","symbol":"GOOGL","currency":"USD","quantity":"1","unitPrice":"2.5"}
{"date":"2023-04-01","type":"INTEREST","symbol":"CASH","currency":"CHF","quantity":"1","unitPrice":"3.2"}
`
	activities, err := DecodeActivities(strings.NewReader(jsonl))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeActivities(&buf, activities))
	assert.Equal(t, jsonl, buf.String())
}
