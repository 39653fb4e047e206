package bundle

import (
	"encoding/json"
	"fmt"
)

// Encode renders b as indented wire JSON.
func Encode(b *ContextBundle) ([]byte, error) {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode bundle: %w", err)
	}
	return data, nil
}

// Decode parses wire JSON back into a bundle, rejecting unknown versions.
func Decode(data []byte) (*ContextBundle, error) {
	var b ContextBundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse bundle: %w", err)
	}
	if b.Version != Version {
		return nil, fmt.Errorf("unsupported bundle version %d (want %d)", b.Version, Version)
	}
	return &b, nil
}
