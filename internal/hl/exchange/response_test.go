package exchange

import "testing"

func orderResponse(statuses ...any) map[string]any {
	return map[string]any{
		"status": "ok",
		"response": map[string]any{
			"type": "order",
			"data": map[string]any{
				"statuses": statuses,
			},
		},
	}
}

func TestParseOrderStatusesVariants(t *testing.T) {
	resp := orderResponse(
		map[string]any{"resting": map[string]any{"oid": float64(77)}},
		map[string]any{"filled": map[string]any{
			"oid":   float64(292577153770),
			"cloid": "0x188a0f9ee162351d6d6af5b09b97b1c7",
		}},
		map[string]any{"error": "Insufficient margin"},
		"garbage",
	)
	statuses := ParseOrderStatuses(resp)
	if len(statuses) != 4 {
		t.Fatalf("expected 4 statuses, got %d", len(statuses))
	}
	if statuses[0].Resting == nil || statuses[0].Resting.OID != "77" {
		t.Fatalf("unexpected resting status: %+v", statuses[0])
	}
	if statuses[1].Filled == nil || statuses[1].Filled.Cloid != "0x188a0f9ee162351d6d6af5b09b97b1c7" {
		t.Fatalf("unexpected filled status: %+v", statuses[1])
	}
	if statuses[2].Err != "Insufficient margin" {
		t.Fatalf("unexpected error status: %+v", statuses[2])
	}
	if statuses[3].Resting != nil || statuses[3].Filled != nil || statuses[3].Err != "" {
		t.Fatalf("expected zero-value status for unknown shape: %+v", statuses[3])
	}
}

func TestOrderRefPrefersCloidAndResting(t *testing.T) {
	cases := []struct {
		name string
		resp map[string]any
		want string
	}{
		{
			name: "resting cloid wins over oid",
			resp: orderResponse(map[string]any{"resting": map[string]any{
				"oid":   float64(42),
				"cloid": "0xaaa",
			}}),
			want: "0xaaa",
		},
		{
			name: "resting oid when no cloid",
			resp: orderResponse(map[string]any{"resting": map[string]any{"oid": float64(42)}}),
			want: "42",
		},
		{
			name: "filled cloid when no resting",
			resp: orderResponse(map[string]any{"filled": map[string]any{
				"oid":   float64(9),
				"cloid": "0xbbb",
			}}),
			want: "0xbbb",
		},
		{
			name: "filled oid fallback",
			resp: orderResponse(map[string]any{"filled": map[string]any{"oid": float64(9)}}),
			want: "9",
		},
		{
			name: "first identified status wins",
			resp: orderResponse(
				map[string]any{"error": "bad order"},
				map[string]any{"resting": map[string]any{"oid": float64(5)}},
			),
			want: "5",
		},
		{
			name: "no identifiers",
			resp: orderResponse(map[string]any{"error": "bad order"}),
			want: "",
		},
		{
			name: "malformed response",
			resp: map[string]any{"status": "ok"},
			want: "",
		},
	}
	for _, tc := range cases {
		if got := OrderRef(ParseOrderStatuses(tc.resp)); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}
