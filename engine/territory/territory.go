// Package territory owns the town's block grid. Every cell belongs to one
// faction or is unclaimed; transfers move cells between factions and never
// create or destroy them.
package territory

import (
	"math"

	"github.com/nathoo/turfwar/types"
)

// Rand is the randomness Transfer needs. engine.RNG satisfies it.
type Rand interface {
	Intn(n int) int
}

// Cell is a grid coordinate.
type Cell struct {
	X int
	Z int
}

// Map is a Width x Depth grid of block owners.
type Map struct {
	width  int
	depth  int
	owners []types.Faction
	counts [types.NumFactions + 1]int // indexed by Faction; slot 0 is unclaimed
}

// New creates a map with every cell unclaimed. Non-positive sizes yield an
// empty map.
func New(width, depth int) *Map {
	if width < 0 {
		width = 0
	}
	if depth < 0 {
		depth = 0
	}
	m := &Map{
		width:  width,
		depth:  depth,
		owners: make([]types.Faction, width*depth),
	}
	m.counts[types.NoFaction] = width * depth
	return m
}

// SeedDistricts splits the grid into three vertical districts, one per
// faction in display order, and leaves the first neutralRows rows unclaimed.
func (m *Map) SeedDistricts(neutralRows int) {
	for z := 0; z < m.depth; z++ {
		for x := 0; x < m.width; x++ {
			owner := types.NoFaction
			if z >= neutralRows {
				owner = types.Factions[x*types.NumFactions/m.width]
			}
			m.Claim(x, z, owner)
		}
	}
}

// Width returns the number of columns.
func (m *Map) Width() int { return m.width }

// Depth returns the number of rows.
func (m *Map) Depth() int { return m.depth }

// Claim sets the owner of a cell. Out-of-bounds coordinates are ignored.
// Passing NoFaction releases the cell.
func (m *Map) Claim(x, z int, f types.Faction) bool {
	i, ok := m.index(x, z)
	if !ok {
		return false
	}
	if f != types.NoFaction {
		f.Index() // reject invalid factions
	}
	m.counts[m.owners[i]]--
	m.owners[i] = f
	m.counts[f]++
	return true
}

// Owner returns the owner of a cell, or NoFaction for unclaimed or
// out-of-bounds cells.
func (m *Map) Owner(x, z int) types.Faction {
	i, ok := m.index(x, z)
	if !ok {
		return types.NoFaction
	}
	return m.owners[i]
}

// OwnerAt returns the owner of the cell containing pos.
func (m *Map) OwnerAt(pos types.Vec) types.Faction {
	x, z := CellOf(pos)
	return m.Owner(x, z)
}

// Owned returns how many cells f owns.
func (m *Map) Owned(f types.Faction) int {
	f.Index()
	return m.counts[f]
}

// Unclaimed returns how many cells nobody owns.
func (m *Map) Unclaimed() int {
	return m.counts[types.NoFaction]
}

// Total returns the number of cells on the map.
func (m *Map) Total() int {
	return len(m.owners)
}

// Fraction returns the share of all cells f owns, in [0,1].
func (m *Map) Fraction(f types.Faction) float64 {
	if len(m.owners) == 0 {
		return 0
	}
	return float64(m.Owned(f)) / float64(len(m.owners))
}

// CellsOf lists f's cells in row-major order.
func (m *Map) CellsOf(f types.Faction) []Cell {
	var cells []Cell
	for i, owner := range m.owners {
		if owner == f {
			cells = append(cells, Cell{X: i % m.width, Z: i / m.width})
		}
	}
	return cells
}

// NearestOwner returns the owner of the claimed cell closest to (x, z)
// within radius cells (Chebyshev rings, searched outward). Ties inside a ring
// go to the smallest Euclidean distance, then row-major order.
func (m *Map) NearestOwner(x, z, radius int) types.Faction {
	for r := 0; r <= radius; r++ {
		best := types.NoFaction
		bestDist := math.MaxInt
		for dz := -r; dz <= r; dz++ {
			for dx := -r; dx <= r; dx++ {
				if max(abs(dx), abs(dz)) != r {
					continue
				}
				owner := m.Owner(x+dx, z+dz)
				if owner == types.NoFaction {
					continue
				}
				if d := dx*dx + dz*dz; d < bestDist {
					best, bestDist = owner, d
				}
			}
		}
		if best != types.NoFaction {
			return best
		}
	}
	return types.NoFaction
}

// TransferCount returns how many cells a transfer away from loser would move:
// percent of its cells, rounded down.
func (m *Map) TransferCount(loser types.Faction, percent int) int {
	if percent <= 0 {
		return 0
	}
	return m.Owned(loser) * percent / 100
}

// Transfer moves percent of loser's cells (rounded down) to winner and
// returns the cells moved, none when loser owns too few. Cells are picked by
// a partial Fisher-Yates shuffle of loser's cells, so no cell moves twice in
// one call.
func (m *Map) Transfer(loser, winner types.Faction, percent int, rng Rand) []Cell {
	winner.Index()
	if loser == winner {
		return nil
	}
	n := m.TransferCount(loser, percent)
	if n == 0 {
		return nil
	}

	pool := make([]int, 0, m.counts[loser])
	for i, owner := range m.owners {
		if owner == loser {
			pool = append(pool, i)
		}
	}

	moved := make([]Cell, 0, n)
	for k := 0; k < n; k++ {
		j := k + rng.Intn(len(pool)-k)
		pool[k], pool[j] = pool[j], pool[k]
		i := pool[k]
		m.owners[i] = winner
		moved = append(moved, Cell{X: i % m.width, Z: i / m.width})
	}
	m.counts[loser] -= n
	m.counts[winner] += n
	return moved
}

// Counts returns a copy of the per-owner cell counts, indexed by Faction
// (slot 0 is unclaimed).
func (m *Map) Counts() [types.NumFactions + 1]int {
	return m.counts
}

// CellOf returns the grid cell containing pos.
func CellOf(pos types.Vec) (int, int) {
	return int(math.Floor(pos.X)), int(math.Floor(pos.Z))
}

func (m *Map) index(x, z int) (int, bool) {
	if x < 0 || z < 0 || x >= m.width || z >= m.depth {
		return 0, false
	}
	return z*m.width + x, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
