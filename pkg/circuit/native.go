package circuit

// Native rewrites the circuit over the CZ-native gate set shown in the
// decomposition layer. CX(c,t) becomes H(t) CZ(c,t) H(t); SWAP(a,b) becomes
// three repetitions of H(b) CZ(a,b) H(b). Every other gate is kept as is.
//
// The rewrite is illustrative: SWAP is not a faithful three-CNOT expansion and
// CCX is not decomposed.
func (c *Circuit) Native() []Gate {
	out := make([]Gate, 0, len(c.gates))
	for _, g := range c.gates {
		switch g.Kind {
		case KindCX:
			ctrl, tgt := g.Qubits[0], g.Qubits[1]
			out = append(out,
				NewGate(KindH, tgt),
				NewGate(KindCZ, ctrl, tgt),
				NewGate(KindH, tgt),
			)
		case KindSWAP:
			a, b := g.Qubits[0], g.Qubits[1]
			for range 3 {
				out = append(out,
					NewGate(KindH, b),
					NewGate(KindCZ, a, b),
					NewGate(KindH, b),
				)
			}
		default:
			out = append(out, g.clone())
		}
	}
	return out
}

// CZLayers groups the CZ gates of [Circuit.Native] into layers that could run
// in parallel. Gates are taken in order; a gate joins the current layer when
// it touches no qubit already used there, otherwise it opens a new layer.
// The grouping is greedy and never looks back at earlier layers.
func (c *Circuit) CZLayers() [][]Gate {
	var (
		layers  [][]Gate
		current []Gate
		used    = map[int]bool{}
	)
	for _, g := range c.Native() {
		if g.Kind != KindCZ {
			continue
		}
		if g.touchesAny(used) {
			layers = append(layers, current)
			current = nil
			clear(used)
		}
		current = append(current, g)
		for _, q := range g.Qubits {
			used[q] = true
		}
	}
	if len(current) > 0 {
		layers = append(layers, current)
	}
	return layers
}

func (g Gate) touchesAny(set map[int]bool) bool {
	for _, q := range g.Qubits {
		if set[q] {
			return true
		}
	}
	return false
}

// Dependency is a directed edge between two gate positions: To is the next
// gate after From that acts on one of Qubits.
type Dependency struct {
	From   int
	To     int
	Qubits []int
}

// Dependencies returns the gate dependency edges in order of their source
// gate. For each qubit, every gate points to the next gate on that qubit; two
// gates sharing several qubits produce a single edge listing all of them.
func (c *Circuit) Dependencies() []Dependency {
	last := make([]int, c.numQubits)
	for i := range last {
		last[i] = -1
	}

	var deps []Dependency
	index := map[[2]int]int{}
	for j, g := range c.gates {
		for _, q := range g.Qubits {
			i := last[q]
			last[q] = j
			if i < 0 {
				continue
			}
			key := [2]int{i, j}
			if k, ok := index[key]; ok {
				deps[k].Qubits = append(deps[k].Qubits, q)
				continue
			}
			index[key] = len(deps)
			deps = append(deps, Dependency{From: i, To: j, Qubits: []int{q}})
		}
	}
	return deps
}

// Stats summarizes a circuit for titles, summaries and the inspect command.
type Stats struct {
	Qubits       int
	Gates        int // every record, measurements included
	Operations   int // gates excluding measurements
	Measurements int
	SingleQubit  int // excluding measurements
	TwoQubit     int
	ThreeQubit   int
	Depth        int // ASAP depth over all records
	NativeGates  int
	NativeCZ     int
	CZLayers     int
	Counts       map[GateKind]int
}

// Stats computes the summary.
func (c *Circuit) Stats() Stats {
	s := Stats{
		Qubits: c.numQubits,
		Gates:  len(c.gates),
		Counts: make(map[GateKind]int),
	}

	level := make([]int, c.numQubits)
	for _, g := range c.gates {
		s.Counts[g.Kind]++
		switch {
		case g.IsMeasure():
			s.Measurements++
		case g.IsSingleQubit():
			s.SingleQubit++
		case g.IsTwoQubit():
			s.TwoQubit++
		case g.IsThreeQubit():
			s.ThreeQubit++
		}

		d := 0
		for _, q := range g.Qubits {
			d = max(d, level[q])
		}
		for _, q := range g.Qubits {
			level[q] = d + 1
		}
		s.Depth = max(s.Depth, d+1)
	}
	s.Operations = s.Gates - s.Measurements

	native := c.Native()
	s.NativeGates = len(native)
	for _, g := range native {
		if g.Kind == KindCZ {
			s.NativeCZ++
		}
	}
	s.CZLayers = len(c.CZLayers())
	return s
}
