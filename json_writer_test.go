package performance

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestJsonObjectWriter(t *testing.T) {
	tests := []struct {
		name  string
		build func(w *jsonObjectWriter)
		want  string
	}{
		{
			name:  "empty object",
			build: func(w *jsonObjectWriter) {},
			want:  `{}`,
		},
		{
			name: "insertion order",
			build: func(w *jsonObjectWriter) {
				w.Append("z", 1).Append("a", "hello")
			},
			want: `{"z":1,"a":"hello"}`,
		},
		{
			name: "optional fields",
			build: func(w *jsonObjectWriter) {
				w.Append("a", 0).Optional("b", "").Optional("c", 0).Optional("d", "hello")
			},
			want: `{"a":0,"d":"hello"}`,
		},
		{
			name: "embed",
			build: func(w *jsonObjectWriter) {
				w.Append("a", 1).Embed(json.RawMessage(` {"c":3,"d":4} `)).Embed([]byte(`{}`)).Append("b", 2)
			},
			want: `{"a":1,"c":3,"d":4,"b":2}`,
		},
		{
			name: "prefix from",
			build: func(w *jsonObjectWriter) {
				w.Append("a", 1).PrefixFrom("window", struct {
					From string `json:"from"`
					To   string `json:"to"`
				}{"2023-01-03", "2023-07-10"})
			},
			want: `{"a":1,"windowFrom":"2023-01-03","windowTo":"2023-07-10"}`,
		},
		{
			name: "decimals keep every digit",
			build: func(w *jsonObjectWriter) {
				w.Append("v", decimal.RequireFromString("0.30666517055655296230"))
			},
			want: `{"v":"0.3066651705565529623"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w jsonObjectWriter
			tt.build(&w)
			got, err := w.MarshalJSON()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestJsonObjectWriter_Errors(t *testing.T) {
	var w jsonObjectWriter
	w.Append("a", 1).Embed([]byte(`[1,2]`)).Append("b", 2)
	if _, err := w.MarshalJSON(); err == nil {
		t.Errorf("embedding an array should fail")
	}

	var v jsonObjectWriter
	v.Append("f", func() {})
	if _, err := v.MarshalJSON(); err == nil {
		t.Errorf("marshaling a func should fail")
	}
}
