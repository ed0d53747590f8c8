package layers

import (
	"fmt"

	"github.com/qrying/stackreel/pkg/circuit"
	"github.com/qrying/stackreel/pkg/scene"
)

const (
	decompIntro = "QuEra hardware cannot directly execute CNOT gates. The native two-qubit gate is CZ " +
		"(controlled-Z), implemented via a Rydberg blockade. Every CNOT must be decomposed: CNOT = H . CZ . H"
	blockadeIntro = "One common CZ/controlled-phase implementation uses a Levine–Pichler–style blockade pulse sequence:\n" +
		"1) Pi pulse excites Control to Rydberg state.\n" +
		"2) 2Pi pulse on Target (blocked if Control is excited).\n" +
		"3) Pi pulse de-excites Control."
)

type pulseStep struct {
	x      float64
	radius float64
	color  scene.Color
	atom   string
	angle  string
	note   string
}

var blockadeSequence = []pulseStep{
	{-1.45, 0.2, scene.Red, "C", "π", "Control excited to |r>"},
	{0, 0.25, scene.Yellow, "T", "2π", "Target rotation (conditional; blocked by Rydberg if control is excited)"},
	{1.45, 0.2, scene.Red, "C", "π", "Control returns to ground"},
}

// cnotIdentity is the two-qubit circuit drawn as the right-hand side of
// CNOT = H.CZ.H.
func cnotIdentity() *circuit.Circuit {
	return circuit.NewBuilder(2, "cnot").H(1).CZ(0, 1).H(1).MustBuild()
}

// Decomposition explains the CZ-native gate set and the pulse sequence
// behind one CZ, then reports how the circuit's CZs parallelize.
func Decomposition(b *scene.Builder, c *circuit.Circuit) {
	b.Section("Layer 2: Gate Decomposition").Caption(decompIntro)

	label := scene.LayerLabel("l2/label", "Layer 2: Gate Decomposition", "Compile to Native Gates", scene.Green).
		ToEdge(scene.UL, 0.3)
	reveal(b, label)

	intro := scene.ExplanationBox("l2/intro", decompIntro, 4, 13, scene.Green).ToEdge(scene.UR, 0.5)
	explain(b, intro, decompIntro)
	b.Wait(1.5)

	cv := scene.NewCircuitVisual("l2/identity", cnotIdentity(), 0.65)
	bb := cv.Bounds()
	eq := text("l2/equals", "=", 24, scene.White).NextTo(bb, scene.Left, 0.3)
	cnot := text("l2/cnot", "CNOT", 24, scene.White).NextTo(eq.Bounds(), scene.Left, 0.3)
	wires, labels := cv.Wires(), cv.Labels()
	b.AddWidget(wires, labels, cnot, eq).Play(scene.Create(wires.ID), scene.FadeIn(labels.ID, cnot.ID, eq.ID))
	gates := cv.AddAll()
	b.AddWidget(gates...).Play(scene.FadeIn(targets(gates...)...))
	b.Wait(1)
	b.Play(scene.FadeOut(intro.ID))

	lp := scene.ExplanationBox("l2/blockade", blockadeIntro, 4.5, 12, scene.Green).
		ToEdge(scene.Right, 0.3).Shift(scene.V(0, 0.5))
	explain(b, lp, blockadeIntro)

	pulses := make([]scene.Widget, len(blockadeSequence))
	var arrows []scene.Element
	for i, p := range blockadeSequence {
		id := fmt.Sprintf("l2/pulse/%d", i)
		at := scene.V(p.x, -1.5)
		circle := scene.NewCircle(id+"/atom", at, p.radius).WithStroke(p.color, 2).WithFill(p.color.Alpha(0.3))
		name := scene.NewText(id+"/name", p.atom, at, 14, scene.White)
		angle := text(id+"/angle", p.angle, 11, p.color).NextTo(circle.Bounds(), scene.Down, 0.1)
		pulses[i] = scene.Join(id, scene.Single(circle), scene.Single(name), angle)
	}
	for i, x := range []float64{-0.75, 0.75} {
		arrows = append(arrows, scene.NewArrow(fmt.Sprintf("l2/pulse/arrow/%d", i),
			scene.V(x-0.2, -1.5), scene.V(x+0.2, -1.5), 0).WithStroke(scene.Muted, 2))
	}
	b.AddWidget(pulses...).Add(arrows...).Play(scene.FadeIn("l2/pulse"))

	for i, p := range blockadeSequence {
		atom := pulses[i].ID + "/atom"
		note := text(fmt.Sprintf("l2/pulse/note/%d", i), p.note, 11, scene.Yellow).
			NextTo(pulses[i].Bounds(), scene.Down, 0.5)
		b.AddWidget(note).Play(
			scene.Refill(p.color.Alpha(0.8), atom).For(0.5),
			scene.Scale(1.2, atom).For(0.5),
			scene.FadeIn(note.ID).For(0.5),
		)
		b.Wait(1.5)
		b.Play(
			scene.Refill(p.color.Alpha(0.3), atom).For(0.4),
			scene.Scale(1/1.2, atom).For(0.4),
			scene.FadeOut(note.ID).For(0.4),
		)
	}

	layers := c.CZLayers()
	numCZ := 0
	for _, l := range layers {
		numCZ += len(l)
	}
	parallel := fmt.Sprintf("This circuit requires %s, grouped into %s. "+
		"Gates on disjoint qubits execute simultaneously, minimizing circuit depth.",
		plural(numCZ, "CZ gate"), plural(len(layers), "parallel layer"))
	note := scene.ExplanationBox("l2/parallel", parallel, 4, 12, scene.Orange).ToEdge(scene.Down, 0.3)
	explain(b, note, parallel)
	b.Wait(1.5)

	b.Play(scene.FadeOut("l2"))
}
