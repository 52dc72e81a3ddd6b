package challenge

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed catalog.json
var catalogJSON []byte

// Catalog returns the built-in challenge set.
func Catalog() ([]Challenge, error) {
	var cs []Challenge
	if err := json.Unmarshal(catalogJSON, &cs); err != nil {
		return nil, fmt.Errorf("decode challenge catalog: %w", err)
	}
	return cs, nil
}
