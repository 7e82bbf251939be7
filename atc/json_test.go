package atc

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestContainerJSON(t *testing.T) {
	const text = "JSON files, as before. Naïve?"

	for _, backend := range Backends {
		t.Run(backend.Name, func(t *testing.T) {
			c, err := backend.Codec.Pack(text)
			if err != nil {
				t.Fatalf("Pack failed: %v", err)
			}

			data, err := json.Marshal(c)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}

			var fields map[string]json.RawMessage
			if err := json.Unmarshal(data, &fields); err != nil {
				t.Fatalf("not a JSON object: %v", err)
			}
			if _, ok := fields["data_b64"]; !ok {
				t.Errorf("missing data_b64 in %s", data)
			}
			_, nested := fields["header"]
			if nested != (c.Format == FormatBITZ) {
				t.Errorf("header present = %v for %s", nested, c.Format)
			}

			var got Container
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if !reflect.DeepEqual(&got, c) {
				t.Errorf("decoded %+v, expected %+v", got, *c)
			}

			out, err := Unpack(&got)
			if err != nil {
				t.Fatalf("Unpack failed: %v", err)
			}
			if out != text {
				t.Errorf("got %q", out)
			}
		})
	}
}

func TestContainerJSONErrors(t *testing.T) {
	var c Container
	if err := json.Unmarshal([]byte(`{"n": 3, "data_b64": ""}`), &c); !errors.Is(err, ErrCorrupt) {
		t.Errorf("missing format: got %v", err)
	}
	if err := json.Unmarshal([]byte(`{"format": "ATC-AC3-v1", "n": 1, "data_b64": "%%%"}`), &c); !errors.Is(err, ErrCorrupt) {
		t.Errorf("bad base64: got %v", err)
	}
}

func TestContainerJSONSlotCount(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"huge", `{"format": "ATC-AC3-v1", "n": 4611686018427387904, "ext": "", "data_b64": ""}`},
		{"above limit", `{"format": "ATC-AC-v1", "n": 16777217, "ext": "", "data_b64": ""}`},
		{"negative", `{"format": "ATC-AC2-v2", "n": -5, "ext": "", "data_b64": ""}`},
		{"huge fixed width", `{"header": {"format": "ATC-BITZ-v1", "n": 4611686018427387904, "ext": "", "car_len": 0, "sty_len": 0}, "data_b64": ""}`},
		{"fixed width beyond carriers", `{"header": {"format": "ATC-BITZ-v1", "n": 100, "ext": "", "car_len": 3, "sty_len": 3}, "data_b64": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Container
			if err := json.Unmarshal([]byte(tt.json), &c); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if _, err := Unpack(&c); !errors.Is(err, ErrCorrupt) {
				t.Errorf("expected ErrCorrupt, got %v", err)
			}
		})
	}
}
