package ai

import (
	"encoding/json"
	"fmt"
)

var _ interface {
	json.Marshaler
	json.Unmarshaler
} = &Weights{}

func (ws *Weights) MarshalJSON() ([]byte, error) {
	h := make(map[string]int64)
	if ws.Captured != 0 {
		h["captured"] = ws.Captured
	}
	if ws.Seeds != 0 {
		h["seeds"] = ws.Seeds
	}
	return json.Marshal(h)
}

func (ws *Weights) UnmarshalJSON(bs []byte) error {
	h := make(map[string]int64)
	e := json.Unmarshal(bs, &h)
	if e != nil {
		return e
	}
	for k, v := range h {
		switch k {
		case "captured":
			ws.Captured = v
		case "seeds":
			ws.Seeds = v
		default:
			return fmt.Errorf("Unknown feature: %q", k)
		}
	}
	return nil
}
