package jsonsafe

import (
	"encoding/json"
	"math"
	"testing"
)

type inner struct {
	Value float64 `json:"value"`
}

type outer struct {
	Name   string          `json:"name"`
	Inner  inner           `json:"inner"`
	Ptr    *float64        `json:"ptr"`
	Values []float64       `json:"values"`
	ByName map[string]float64 `json:"by_name"`
}

func TestSanitize_NaNBecomesNull(t *testing.T) {
	v := outer{
		Name:   "x",
		Inner:  inner{Value: math.NaN()},
		Values: []float64{1, math.NaN(), 3},
		ByName: map[string]float64{"a": math.Inf(1)},
	}
	sanitized := Sanitize(v)
	out, err := json.Marshal(sanitized)
	if err != nil {
		t.Fatalf("expected sanitized value to marshal cleanly, got error: %v", err)
	}

	var roundTrip map[string]interface{}
	if err := json.Unmarshal(out, &roundTrip); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	innerMap := roundTrip["inner"].(map[string]interface{})
	if innerMap["value"] != nil {
		t.Errorf("expected NaN to sanitize to null, got %v", innerMap["value"])
	}
	values := roundTrip["values"].([]interface{})
	if values[1] != nil {
		t.Errorf("expected NaN in slice to sanitize to null, got %v", values[1])
	}
}

func TestSanitize_NilPointerBecomesNull(t *testing.T) {
	v := outer{Ptr: nil}
	sanitized := Sanitize(v)
	m := sanitized.(map[string]interface{})
	if m["ptr"] != nil {
		t.Errorf("expected nil pointer to sanitize to nil, got %v", m["ptr"])
	}
}

func TestSanitize_FiniteValuesPreserved(t *testing.T) {
	v := outer{Name: "keep-me", Inner: inner{Value: 42.5}}
	sanitized := Sanitize(v)
	m := sanitized.(map[string]interface{})
	if m["name"] != "keep-me" {
		t.Errorf("expected name preserved, got %v", m["name"])
	}
	innerMap := m["inner"].(map[string]interface{})
	if innerMap["value"] != 42.5 {
		t.Errorf("expected finite value preserved, got %v", innerMap["value"])
	}
}
