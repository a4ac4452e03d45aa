package config

import (
	"fmt"

	"github.com/hbenali/pfeplan/core/schedule"
)

// RoomsConfig describes the room catalog. The defaults reproduce the
// institutional layout: blocks G, I, K and M with 21 rooms each.
type RoomsConfig struct {
	// PerBlock maps a block letter to its room count.
	PerBlock map[string]int `json:"per_block"`
	// DepartmentBlocks maps a department label to its block letter.
	DepartmentBlocks map[string]string `json:"department_blocks"`
	// DefaultBlock is used for departments absent from DepartmentBlocks.
	DefaultBlock string `json:"default_block"`
}

// SetDefaults applies the institutional catalog when unset.
func (c *RoomsConfig) SetDefaults() {
	if c.PerBlock == nil {
		c.PerBlock = map[string]int{"G": 21, "I": 21, "K": 21, "M": 21}
	}
	if c.DepartmentBlocks == nil {
		c.DepartmentBlocks = map[string]string{
			"Informatique": "K",
			"Electrique":   "I",
			"Mecanique":    "M",
			"Civil":        "G",
			"Industriel":   "G",
		}
	}
	if c.DefaultBlock == "" {
		c.DefaultBlock = "K"
	}
}

// Validate checks block letters.
func (c RoomsConfig) Validate() error {
	if _, err := c.Catalog(); err != nil {
		return fmt.Errorf("rooms: %w", err)
	}
	return nil
}

// Catalog builds the room catalog described by this section.
func (c RoomsConfig) Catalog() (*schedule.RoomCatalog, error) {
	return schedule.NewRoomCatalog(c.PerBlock, c.DepartmentBlocks, c.DefaultBlock)
}
