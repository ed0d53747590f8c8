// Package circuit provides the Circuit Definition: the one piece of real
// structure in stackreel.
//
// # Overview
//
// A [Circuit] records a qubit count, a display name and an ordered sequence
// of [Gate] values. Every scene driver reads a Circuit and turns it into
// drawing instructions; nothing in this package simulates, compiles or
// optimizes anything.
//
// # Basic Usage
//
// Create a circuit with [New] and append gates one at a time. Every append
// validates its qubit indices against the declared width and fails without
// touching the gate sequence when an index is out of range:
//
//	c, _ := circuit.New(3, "GHZ State")
//	_ = c.H(0)
//	_ = c.CX(0, 1)
//	_ = c.CX(1, 2)
//	_ = c.MeasureAll()
//
// The [Builder] offers the same API as a chain with a sticky first error,
// which reads better for the hand-written demo circuits:
//
//	c, err := circuit.NewBuilder(2, "Bell State").H(0).CX(0, 1).MeasureAll().Build()
//
// # Gate Kinds
//
// The set of [GateKind] values is closed: H, X, Y, Z, S, T, the rotations RX,
// RY and RZ (which carry an angle in radians), the two-qubit CX, CZ and SWAP,
// the three-qubit CCX and the MEASURE marker. MEASURE is a single-qubit
// record; [Gate.IsSingleQubit] reports true for it.
//
// # Ownership
//
// Circuits are append-only. Once a renderer takes ownership it calls
// [Circuit.Seal], after which every append fails with CIRCUIT_SEALED. Sealed
// circuits are immutable and safe to read from several goroutines. Unsealed
// circuits are not safe for concurrent use.
//
// # Derived Views
//
// [Circuit.Native], [Circuit.CZLayers], [Circuit.Dependencies] and
// [Circuit.Stats] derive the illustrative views shown in the animation: the
// CZ-native rewrite of CX and SWAP, a greedy grouping of CZ gates into
// parallel layers and the gate dependency graph. They are teaching aids and
// make no claim to match a real neutral-atom compiler.
package circuit
