package sph

// NeighborSearch selects how the density pass finds interacting pairs.
type NeighborSearch int

const (
	// SearchNaive scans every unordered pair.
	SearchNaive NeighborSearch = iota
	// SearchGrid buckets particles into radius-sized cells first.
	SearchGrid
)

func (n NeighborSearch) String() string {
	switch n {
	case SearchGrid:
		return "grid"
	default:
		return "naive"
	}
}

// ParseNeighborSearch maps "naive" and "grid" to a strategy. The empty
// string means naive.
func ParseNeighborSearch(s string) (NeighborSearch, bool) {
	switch s {
	case "", "naive":
		return SearchNaive, true
	case "grid":
		return SearchGrid, true
	}
	return SearchNaive, false
}

// densityPass accumulates density and near density over every unordered pair
// closer than the interaction radius and records the pair, with its weight,
// in both neighbor lists. Lists must have been cleared by UpdateState.
func (s *Simulation) densityPass() {
	switch s.search {
	case SearchGrid:
		s.densityGrid()
	default:
		s.densityNaive()
	}
}

func (s *Simulation) densityNaive() {
	ps := s.particles
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			s.accumulatePair(i, j)
		}
	}
}

func (s *Simulation) densityGrid() {
	if s.grid == nil {
		s.grid = newGrid(s.params.InteractionRadius)
	} else {
		s.grid.reset(s.params.InteractionRadius)
	}
	for i, p := range s.particles {
		s.grid.insert(p.Position, i)
	}
	for i, p := range s.particles {
		s.grid.queryAround(p.Position, func(j int) {
			if j > i {
				s.accumulatePair(i, j)
			}
		})
	}
}

func (s *Simulation) accumulatePair(i, j int) {
	a, b := s.particles[i], s.particles[j]
	dist := b.Position.Sub(a.Position).Len()
	if dist >= s.params.InteractionRadius {
		return
	}

	w := 1 - dist/s.params.InteractionRadius
	w2 := w * w
	w3 := w2 * w

	a.Density += w2
	b.Density += w2
	a.NearDensity += w3
	b.NearDensity += w3

	a.Neighbors = append(a.Neighbors, Neighbor{Index: j, Weight: w})
	b.Neighbors = append(b.Neighbors, Neighbor{Index: i, Weight: w})
}
