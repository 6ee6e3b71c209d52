package roadgen

import (
	"fmt"
	"sort"
	"strings"
)

// EntityKind is the kind of entity which receives identifiers from IDAllocator
type EntityKind uint16

const (
	ENTITY_ROAD = EntityKind(iota + 1)
	ENTITY_JUNCTION
	ENTITY_LANE_SECTION
)

func (iotaIdx EntityKind) String() string {
	return [...]string{"undefined", "road", "junction", "lane_section"}[iotaIdx]
}

// IDAllocator hands out unique, monotonically increasing identifiers per entity kind.
// Counters of different kinds are independent
type IDAllocator struct {
	defaultStart int
	starts       map[EntityKind]int
	next         map[EntityKind]int
}

// NewIDAllocator creates allocator where every kind starts from defaultStart
func NewIDAllocator(defaultStart int) *IDAllocator {
	return &IDAllocator{
		defaultStart: defaultStart,
		starts:       make(map[EntityKind]int),
		next:         make(map[EntityKind]int),
	}
}

// SetStart overrides first identifier for the kind. Already handed out identifiers are not affected
func (ids *IDAllocator) SetStart(kind EntityKind, start int) {
	ids.starts[kind] = start
	if current, ok := ids.next[kind]; ok && current < start {
		ids.next[kind] = start
	}
}

func (ids *IDAllocator) start(kind EntityKind) int {
	if start, ok := ids.starts[kind]; ok {
		return start
	}
	return ids.defaultStart
}

// Next returns new identifier for the kind
func (ids *IDAllocator) Next(kind EntityKind) int {
	id, ok := ids.next[kind]
	if !ok {
		id = ids.start(kind)
	}
	ids.next[kind] = id + 1
	return id
}

// Peek returns identifier which will be returned by the next call of Next without consuming it
func (ids *IDAllocator) Peek(kind EntityKind) int {
	if id, ok := ids.next[kind]; ok {
		return id
	}
	return ids.start(kind)
}

// Reset brings every counter back to its start
func (ids *IDAllocator) Reset() {
	ids.next = make(map[EntityKind]int)
}

// String returns pretty printed value for IDAllocator
func (ids *IDAllocator) String() string {
	kinds := make([]int, 0, len(ids.next))
	for kind := range ids.next {
		kinds = append(kinds, int(kind))
	}
	sort.Ints(kinds)
	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		parts = append(parts, fmt.Sprintf("%s: %d", EntityKind(kind), ids.next[EntityKind(kind)]))
	}
	return "Next IDs: {" + strings.Join(parts, ", ") + "}"
}
