package date

import "testing"

func TestAppend(t *testing.T) {
	h := new(History[string])
	d1, v1 := New(2025, 07, 01), "25 Jul 1"
	d2, v2 := New(2024, 07, 01), "24 Jul 1"

	// Appending two values in reverse order must keep the history sorted.

	if h.Len() != 0 {
		t.Errorf("History.Len() = %v want 0", h.Len())
	}

	h.Append(d1, v1)
	if h.Len() != 1 {
		t.Errorf("Append(d1, v1).Len() = %v want 1", h.Len())
	}

	h.Append(d2, v2)
	if h.Len() != 2 {
		t.Errorf("Append(d2, v2).Len() = %v want 2", h.Len())
	}

	if h.days[0] != d2 || h.days[1] != d1 {
		t.Errorf("history days = %v want [%v %v]", h.days, d2, d1)
	}
	if h.values[0] != v2 || h.values[1] != v1 {
		t.Errorf("history values = %v want [%v %v]", h.values, v2, v1)
	}

	h.Append(d1, "replaced")
	if got, _ := h.Get(d1); got != "replaced" || h.Len() != 2 {
		t.Errorf("Append(d1) on existing day: Get() = %q, Len() = %d", got, h.Len())
	}
}

func TestValueAsOf(t *testing.T) {
	var h History[float64]
	h.Append(New(2025, 1, 2), 10).Append(New(2025, 1, 6), 12)

	testCases := []struct {
		name   string
		on     Date
		want   float64
		wantOK bool
	}{
		{"before first", New(2025, 1, 1), 0, false},
		{"exact first", New(2025, 1, 2), 10, true},
		{"gap", New(2025, 1, 4), 10, true},
		{"exact last", New(2025, 1, 6), 12, true},
		{"after last", New(2025, 2, 1), 12, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := h.ValueAsOf(tc.on)
			if ok != tc.wantOK || got != tc.want {
				t.Errorf("ValueAsOf(%v) = %v, %v want %v, %v", tc.on, got, ok, tc.want, tc.wantOK)
			}
		})
	}

	if _, ok := h.Get(New(2025, 1, 4)); ok {
		t.Errorf("Get() on a gap must not find a value")
	}
}

func TestClone(t *testing.T) {
	var h History[int]
	h.Append(New(2025, 1, 1), 1)
	c := h.Clone()
	c.Append(New(2025, 1, 1), 2).Append(New(2025, 1, 2), 3)
	if v, _ := h.Get(New(2025, 1, 1)); v != 1 || h.Len() != 1 {
		t.Errorf("Clone() shares storage with the original: %v", h)
	}
}
