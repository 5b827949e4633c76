// Package seed carries the catalogue a fresh install starts with.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/philosophies/internal/client/models"
)

//go:embed philosophies.json
var philosophiesJSON []byte

// Philosophies decodes the embedded catalogue. Each call returns fresh
// values the caller may modify.
func Philosophies() ([]models.Philosophy, error) {
	var out []models.Philosophy
	if err := json.Unmarshal(philosophiesJSON, &out); err != nil {
		return nil, fmt.Errorf("decode seed catalogue: %w", err)
	}
	return out, nil
}
