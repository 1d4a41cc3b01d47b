package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Ram071/market/storefront-svc/internal/domain"
)

//go:embed seed.json
var seedJSON []byte

// Seed is the on-disk shape of a catalog bundle. Profile is the starting
// profile for a new session.
type Seed struct {
	Restaurants []domain.Restaurant `json:"restaurants"`
	MenuItems   []domain.MenuItem   `json:"menu_items"`
	Profile     domain.UserProfile  `json:"profile"`
}

func DecodeSeed(r io.Reader) (*Seed, error) {
	var seed Seed
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return nil, fmt.Errorf("decode catalog seed: %w", err)
	}
	return &seed, nil
}

// DefaultSeed decodes the bundled demo catalog.
func DefaultSeed() (*Seed, error) {
	return DecodeSeed(bytes.NewReader(seedJSON))
}

func (s *Seed) Catalog() (*Catalog, error) {
	return New(s.Restaurants, s.MenuItems)
}
