package schedule

import (
	"fmt"
	"sort"
	"time"
)

// RoomID identifies a room by its department block letter and number, e.g.
// K07. The zero value is not a valid room.
type RoomID struct {
	Block  byte
	Number int
}

func (r RoomID) String() string {
	return fmt.Sprintf("%c%02d", r.Block, r.Number)
}

func (r RoomID) less(o RoomID) bool {
	if r.Block != o.Block {
		return r.Block < o.Block
	}
	return r.Number < o.Number
}

// RoomCatalog holds the fixed set of rooms and the department-to-block
// mapping for a run.
type RoomCatalog struct {
	rooms        []RoomID
	deptBlocks   map[string]byte
	defaultBlock byte
}

// NewRoomCatalog builds a catalog from a block→room-count map and a
// department→block mapping. Rooms are numbered from 1. A department may map
// to a block with zero rooms; its presentations then always take the
// fallback path in Allocate.
func NewRoomCatalog(perBlock map[string]int, deptBlocks map[string]string, defaultBlock string) (*RoomCatalog, error) {
	c := &RoomCatalog{deptBlocks: make(map[string]byte)}
	for block, count := range perBlock {
		if len(block) != 1 {
			return nil, fmt.Errorf("room block %q must be a single letter", block)
		}
		if count < 0 {
			return nil, fmt.Errorf("room block %q has negative room count", block)
		}
		for n := 1; n <= count; n++ {
			c.rooms = append(c.rooms, RoomID{Block: block[0], Number: n})
		}
	}
	for dept, block := range deptBlocks {
		if len(block) != 1 {
			return nil, fmt.Errorf("department %q maps to invalid block %q", dept, block)
		}
		c.deptBlocks[dept] = block[0]
	}
	if len(defaultBlock) != 1 {
		return nil, fmt.Errorf("default block %q must be a single letter", defaultBlock)
	}
	c.defaultBlock = defaultBlock[0]
	sort.Slice(c.rooms, func(i, j int) bool { return c.rooms[i].less(c.rooms[j]) })
	return c, nil
}

// DefaultRoomCatalog returns the institutional catalog: blocks G, I, K and M
// with rooms 01 to 21, Informatique in K, Electrique in I, Mecanique in M,
// Civil and Industriel sharing G. Unknown departments default to K.
func DefaultRoomCatalog() *RoomCatalog {
	c, err := NewRoomCatalog(
		map[string]int{"G": 21, "I": 21, "K": 21, "M": 21},
		map[string]string{
			"Informatique": "K",
			"Electrique":   "I",
			"Mecanique":    "M",
			"Civil":        "G",
			"Industriel":   "G",
		},
		"K",
	)
	if err != nil {
		panic(err)
	}
	return c
}

// BlockFor returns the preferred block for a department.
func (c *RoomCatalog) BlockFor(department string) byte {
	if b, ok := c.deptBlocks[department]; ok {
		return b
	}
	return c.defaultBlock
}

// Rooms returns the catalog rooms in ascending id order.
func (c *RoomCatalog) Rooms() []RoomID {
	return c.rooms
}

// RoomAllocator chooses a free room for a slot, preferring the department's
// block. Selection is deterministic: the lowest free room id wins, so
// identical inputs always produce identical schedules.
type RoomAllocator struct {
	catalog *RoomCatalog
	usage   map[time.Time]map[RoomID]struct{}
}

func NewRoomAllocator(catalog *RoomCatalog) *RoomAllocator {
	return &RoomAllocator{catalog: catalog, usage: make(map[time.Time]map[RoomID]struct{})}
}

func (a *RoomAllocator) used(slot time.Time, room RoomID) bool {
	_, ok := a.usage[slot][room]
	return ok
}

// book marks the room occupied at slot. Called on transaction commit only.
func (a *RoomAllocator) book(slot time.Time, room RoomID) {
	set, ok := a.usage[slot]
	if !ok {
		set = make(map[RoomID]struct{})
		a.usage[slot] = set
	}
	set[room] = struct{}{}
}

// allocate picks a room for the slot under the transaction view. The second
// return value reports whether the room lies outside the department's
// preferred block.
func (a *RoomAllocator) allocate(t *txn, slot time.Time, department string) (RoomID, bool, error) {
	block := a.catalog.BlockFor(department)
	var fallback RoomID
	haveFallback := false
	for _, room := range a.catalog.rooms {
		if a.used(slot, room) || t.roomStaged(slot, room) {
			continue
		}
		if room.Block == block {
			return room, false, nil
		}
		if !haveFallback {
			fallback = room
			haveFallback = true
		}
	}
	if haveFallback {
		return fallback, true, nil
	}
	return RoomID{}, false, ErrNoRoomAvailable
}
