package layers

import (
	"fmt"

	"github.com/qrying/stackreel/pkg/circuit"
	"github.com/qrying/stackreel/pkg/scene"
)

const (
	physicsIntro = "Physical qubits are individual Rubidium-87 atoms trapped in optical tweezers. " +
		"Qubit states |0> and |1> are encoded in hyperfine ground states with long coherence times."
	rydbergIntro = "To create entanglement, atoms are excited to Rydberg states (e.g., 70S1/2) - " +
		"highly excited states with enormous electron orbits. The strong dipole-dipole interaction creates " +
		"a Rydberg blockade: if one atom is excited, nearby atoms cannot be excited simultaneously."
	resultIntro = "After the pulse sequence completes, the atoms are entangled! " +
		"Measurement collapses the superposition to a classical bitstring."
)

var energyLevels = []struct {
	name  string
	y     float64
	color scene.Color
}{
	{"|0>", 0, scene.Blue},
	{"|1>", 0.5, scene.Green},
	{"|r> Rydberg", 1.5, scene.Red},
}

// Hardware shows the atoms themselves: a row of Rb-87 qubits, the Rydberg
// blockade that entangles them and fluorescence readout.
func Hardware(b *scene.Builder, c *circuit.Circuit) {
	b.Section("Layer 5: Hardware Execution").Caption(physicsIntro)

	label := scene.LayerLabel("l5/label", "Layer 5: Hardware Execution", "Rubidium-87 Atoms + Lasers", scene.Purple).
		ToEdge(scene.UL, 0.3)
	reveal(b, label)

	physics := scene.ExplanationBox("l5/physics", physicsIntro, 4, 12, scene.Purple).
		ToEdge(scene.Right, 0.2).Shift(scene.V(0, 1.5))
	explain(b, physics, physicsIntro)

	n := c.NumQubits()
	atoms := make([]scene.Qubit, n)
	var labels []scene.Widget
	for i := range atoms {
		pos := scene.V((float64(i)-float64(n-1)/2)*1.3, 0)
		atoms[i] = scene.AnimatedQubit(fmt.Sprintf("l5/atoms/%d", i), pos, 0.2, scene.Purple)
		labels = append(labels, text(fmt.Sprintf("l5/atoms/label/%d", i), fmt.Sprintf("q%d", i), 12, scene.White).
			NextTo(atoms[i].Get("dot").Bounds(), scene.Down, 0.15))
	}
	for _, q := range atoms {
		b.AddWidget(q.Widget)
	}
	b.AddWidget(labels...).Play(scene.FadeIn("l5/atoms"))
	b.Wait(1)
	b.Play(scene.FadeOut(physics.ID))

	ryd := scene.ExplanationBox("l5/rydberg", rydbergIntro, 3.5, 11, scene.Red).
		ToEdge(scene.Right, 0.2).Shift(scene.V(0, 1.5))
	explain(b, ryd, rydbergIntro)

	var levels []scene.Widget
	for i, l := range energyLevels {
		id := fmt.Sprintf("l5/levels/%d", i)
		line := scene.NewLine(id+"/line", scene.V(-0.4, l.y), scene.V(0.4, l.y)).WithStroke(l.color, 3)
		name := text(id+"/name", l.name, 10, l.color).NextTo(line.Bounds(), scene.Right, 0.1)
		levels = append(levels, scene.Join(id, scene.Single(line), name))
	}
	diagram := scene.Join("l5/levels", levels...).ToEdge(scene.DR, 0.5)
	reveal(b, diagram)

	note := text("l5/excite/note", "Exciting q0 to Rydberg state...", 12, scene.Yellow).ToEdge(scene.Down, 0.5)
	reveal(b, note)
	b.Play(atoms[0].Excite())

	center := atoms[0].Get("dot").Pos
	radius := scene.NewCircle("l5/excite/radius", center, 1.8).WithStroke(scene.Red.Alpha(0.6), 2)
	radiusLabel := text("l5/excite/radius-label", "Blockade radius (~3-6 μm)", 10, scene.Red).
		NextTo(radius.Bounds(), scene.Up, 0.1)
	b.Add(radius).AddWidget(radiusLabel).Play(scene.Create(radius.ID), scene.FadeIn(radiusLabel.ID))
	if n > 1 {
		blocked := text("l5/excite/blocked", "q1 BLOCKED from Rydberg!", 11, scene.Red).
			NextTo(atoms[1].Bounds(), scene.Up, 0.2)
		reveal(b, blocked)
		b.Wait(0.8)
		b.Play(scene.FadeOut(blocked.ID))
	}
	b.Play(scene.FadeOut(note.ID, radius.ID, radiusLabel.ID), atoms[0].Deexcite())
	b.Play(scene.FadeOut(ryd.ID, diagram.ID))

	result := scene.ExplanationBox("l5/result", resultIntro, 3.5, 11, scene.Green).
		ToEdge(scene.Right, 0.2).Shift(scene.V(0, 1.5))
	explain(b, result, resultIntro)

	var links []scene.Element
	for k, layer := range c.CZLayers() {
		for gi, g := range layer {
			pa, pq := atoms[g.Qubits[0]].Get("dot").Pos, atoms[g.Qubits[1]].Get("dot").Pos
			links = append(links, scene.NewLine(fmt.Sprintf("l5/entangle/%d/%d", k, gi), pa, pq).
				WithStroke(scene.Green, 3).WithZ(-1))
		}
	}
	if len(links) > 0 {
		b.Add(links...).Play(scene.Create("l5/entangle"))
	}

	readout := text("l5/readout", "Measurement via fluorescence", 12, scene.Green).ToEdge(scene.Down, 0.5)
	reveal(b, readout)
	for _, q := range atoms {
		b.Play(q.PulseOnce(0.3))
	}
	b.Wait(1)

	b.Play(scene.FadeOut("l5"))
}
