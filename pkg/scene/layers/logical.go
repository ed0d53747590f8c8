package layers

import (
	"fmt"

	"github.com/qrying/stackreel/pkg/circuit"
	"github.com/qrying/stackreel/pkg/formats/squin"
	"github.com/qrying/stackreel/pkg/scene"
)

var gateNotes = map[circuit.GateKind]string{
	circuit.KindH:       "Hadamard: Creates superposition",
	circuit.KindX:       "Pauli-X: Bit flip",
	circuit.KindY:       "Pauli-Y: Bit + phase flip",
	circuit.KindZ:       "Pauli-Z: Phase flip",
	circuit.KindCX:      "CNOT: Can entangle two qubits",
	circuit.KindCZ:      "CZ: Controlled phase",
	circuit.KindMeasure: "Measurement",
}

// maxGateNotes caps how many gate kinds get an explanatory note.
const maxGateNotes = 3

const (
	logicalIntro = "The journey begins with your quantum algorithm expressed as a logical circuit. " +
		"At this level, qubits are abstract handles - they have no physical location yet. " +
		"The circuit uses familiar gates like Hadamard (H) and CNOT (CX)."
	squinIntro = "Kirin compiles your circuit into SQuIN IR (Structural Quantum Instruction Set). " +
		"Unlike flat assembly languages, SQuIN preserves program structure - loops and conditionals " +
		"remain intact for better optimization and SIMD broadcasting."
)

// Logical draws the circuit gate by gate, annotating the first few gate
// kinds, then shows the squin kernel it corresponds to.
func Logical(b *scene.Builder, c *circuit.Circuit) {
	b.Section("Layer 1: Logical Circuit").Caption(logicalIntro)

	label := scene.LayerLabel("l1/label", "Layer 1: Logical Circuit", "bloqade-circuit + SQuIN IR", scene.Blue).
		ToEdge(scene.UL, 0.3)
	reveal(b, label)

	intro := scene.ExplanationBox("l1/intro", logicalIntro, 3.2, 13, scene.Blue).
		ToEdge(scene.Right, 0.3).Shift(scene.V(0, 1.5))
	explain(b, intro, logicalIntro)

	cv := scene.NewCircuitVisual("l1/circuit", c, 0.65)
	cv.Offset = scene.V(-1.5, 1.0)
	wires, labels := cv.Wires(), cv.Labels()
	b.AddWidget(wires, labels).Play(scene.Create(wires.ID), scene.FadeIn(labels.ID))
	b.Wait(0.5)

	noted := map[circuit.GateKind]bool{}
	for slot, g := range c.All() {
		w := cv.AddGate(g)
		b.AddWidget(w)
		note, ok := gateNotes[g.Kind]
		if !ok || noted[g.Kind] || len(noted) >= maxGateNotes {
			b.Play(scene.FadeInScaled(0.5, w.ID).For(0.25))
			continue
		}
		noted[g.Kind] = true
		n := text(fmt.Sprintf("l1/note/%d", slot), note, 11, scene.Yellow).NextTo(w.Bounds(), scene.Down, 0.3)
		b.AddWidget(n).Play(scene.FadeInScaled(0.5, w.ID).For(0.5), scene.FadeIn(n.ID).For(0.5))
		b.Wait(0.8)
		b.Play(scene.FadeOut(n.ID).For(0.3))
	}
	b.Wait(0.5)
	b.Play(scene.FadeOut(intro.ID))

	box := scene.ExplanationBox("l1/squin", squinIntro, 3.2, 13, scene.Blue).MoveTo(intro.Center())
	explain(b, box, squinIntro)
	code := scene.CodeBlock("l1/code", squin.Source(c), 11, scene.Blue, 4).
		ToEdge(scene.Right, 0.3).Shift(scene.V(0, -1)).Scale(0.8)
	reveal(b, code)
	b.Wait(2.5)

	insight := fmt.Sprintf("KEY INSIGHT: At this layer, %s are just logical handles. "+
		"They have no physical location - mapping to real atoms happens in Layer 3!", handles(c.NumQubits()))
	key := scene.ExplanationBox("l1/insight", insight, 4, 12, scene.Orange).ToEdge(scene.Down, 0.3)
	explain(b, key, insight)
	b.Wait(2)

	b.Play(scene.FadeOut("l1"))
}
