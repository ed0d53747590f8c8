package circuit

// Demo circuits used by the named scenes. Each call returns a fresh, unsealed
// circuit.

// GHZ returns the 3-qubit GHZ state preparation with measurement.
func GHZ() *Circuit {
	return NewBuilder(3, "GHZ State").
		H(0).CX(0, 1).CX(1, 2).
		MeasureAll().
		MustBuild()
}

// Bell returns the 2-qubit Bell state preparation with measurement.
func Bell() *Circuit {
	return NewBuilder(2, "Bell State").
		H(0).CX(0, 1).
		MeasureAll().
		MustBuild()
}

// FourQubitStar returns a 4-qubit GHZ state built as a star around qubit 0.
func FourQubitStar() *Circuit {
	return NewBuilder(4, "4-Qubit Star").
		H(0).CX(0, 1).CX(0, 2).CX(0, 3).
		MeasureAll().
		MustBuild()
}

// QFTStyle returns a 3-qubit circuit shaped like a QFT, with CZ standing in
// for the controlled phases.
func QFTStyle() *Circuit {
	return NewBuilder(3, "QFT-Style").
		H(0).CZ(0, 1).
		H(1).CZ(0, 2).CZ(1, 2).
		H(2).
		MustBuild()
}

// Custom returns the 5-qubit showcase circuit.
func Custom() *Circuit {
	b := NewBuilder(5, "Custom Circuit")
	for q := range 5 {
		b.H(q)
	}
	return b.CX(0, 1).CX(2, 3).CX(1, 2).CX(3, 4).
		CZ(0, 2).CZ(1, 3).
		MeasureAll().
		MustBuild()
}
