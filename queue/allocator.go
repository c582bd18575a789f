package queue

import (
	"fmt"
	"sort"
	"unsafe"
)

// BlockKind identifies what a block of queue storage is used for.
type BlockKind int

const (
	SentinelBlock BlockKind = iota
	ElementBlock
	ValueBlock
)

func (k BlockKind) String() string {
	switch k {
	case SentinelBlock:
		return "sentinel"
	case ElementBlock:
		return "element"
	case ValueBlock:
		return "value"
	default:
		return fmt.Sprintf("BlockKind(%d)", int(k))
	}
}

var (
	sentinelSize = int(unsafe.Sizeof(node{}))
	elementSize  = int(unsafe.Sizeof(Element{}))
)

// An Allocator accounts for the storage a queue uses. Go manages the memory
// itself, so an Allocator only decides whether an allocation may happen and
// keeps whatever books it wants.
type Allocator interface {
	// Alloc reports whether a block of the given kind and size may be
	// allocated. A false return makes the calling operation fail without
	// side effects.
	Alloc(kind BlockKind, size int) bool
	// Free is called exactly once for every block Alloc accepted.
	Free(kind BlockKind, size int)
}

// HeapAllocator accepts every allocation and keeps no books.
type HeapAllocator struct{}

func (HeapAllocator) Alloc(BlockKind, int) bool { return true }
func (HeapAllocator) Free(BlockKind, int) {}

// Ledger is an Allocator that counts live blocks so that leaks and double
// frees can be detected. If MaxBlocks is positive, allocations that would
// push the number of live blocks above it are refused.
type Ledger struct {
	MaxBlocks int

	live      map[BlockKind]int
	liveBytes int
	allocs    int
	frees     int
	refused   int
	overfreed int
}

// NewLedger creates a Ledger with the given live-block budget (0 for none).
func NewLedger(maxBlocks int) *Ledger {
	return &Ledger{
		MaxBlocks: maxBlocks,
		live:      map[BlockKind]int{},
	}
}

func (l *Ledger) Alloc(kind BlockKind, size int) bool {
	if l.live == nil {
		l.live = map[BlockKind]int{}
	}
	if l.MaxBlocks > 0 && l.LiveBlocks() >= l.MaxBlocks {
		l.refused++
		return false
	}
	l.live[kind]++
	l.liveBytes += size
	l.allocs++
	return true
}

func (l *Ledger) Free(kind BlockKind, size int) {
	if l.live[kind] == 0 {
		l.overfreed++
		return
	}
	l.live[kind]--
	l.liveBytes -= size
	l.frees++
}

// LiveBlocks returns the number of blocks allocated and not yet freed.
func (l *Ledger) LiveBlocks() int {
	n := 0
	for _, c := range l.live {
		n += c
	}
	return n
}

// Live returns the number of live blocks of one kind.
func (l *Ledger) Live(kind BlockKind) int {
	return l.live[kind]
}

// LiveBytes returns the total size of the live blocks.
func (l *Ledger) LiveBytes() int {
	return l.liveBytes
}

// Allocs returns the number of accepted allocations.
func (l *Ledger) Allocs() int {
	return l.allocs
}

// Frees returns the number of frees matched to a live block.
func (l *Ledger) Frees() int {
	return l.frees
}

// Refused returns the number of allocations refused because of MaxBlocks.
func (l *Ledger) Refused() int {
	return l.refused
}

// Overfreed returns the number of frees that had no matching live block.
func (l *Ledger) Overfreed() int {
	return l.overfreed
}

// Leaks describes every kind that still has live blocks, sorted by kind.
// It returns nil when nothing is live.
func (l *Ledger) Leaks() []string {
	kinds := make([]int, 0, len(l.live))
	for k, c := range l.live {
		if c > 0 {
			kinds = append(kinds, int(k))
		}
	}
	if len(kinds) == 0 {
		return nil
	}
	sort.Ints(kinds)
	leaks := make([]string, 0, len(kinds))
	for _, k := range kinds {
		leaks = append(leaks, fmt.Sprintf("%d %s block(s) still allocated", l.live[BlockKind(k)], BlockKind(k)))
	}
	return leaks
}
