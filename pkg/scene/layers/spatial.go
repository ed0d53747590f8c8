package layers

import (
	"fmt"

	"github.com/qrying/stackreel/pkg/circuit"
	"github.com/qrying/stackreel/pkg/scene"
)

const (
	spatialIntro = "We now map each logical gate to a physical location on the neutral-atom chip. " +
		"Unlike superconducting qubits, neutral atoms can be physically moved! " +
		"The circuit is shown on the left; each gate is mapped onto the chip."
	zonesIntro = "Optical tweezers physically transport atoms between dedicated zones: " +
		"Storage (preserve coherence), Entangling (perform CZ gates), and Readout (measure)."
	tweezerIntro = "Optical tweezers (focused laser beams) grab and move individual atoms. " +
		"The bloqade-lanes compiler schedules MOVE instructions with safe, non-crossing trajectories " +
		"to avoid collisions and heating."
)

// chip is the parallelogram standing in for the tweezer array: origin plus
// two edge vectors.
var (
	chipOrigin = scene.V(1.4, -1.2)
	chipU      = scene.V(5.2, 0)
	chipV      = scene.V(1.0, 2.5)
)

func chipPoint(u, v float64) scene.Vec {
	return chipOrigin.Add(chipU.Mul(u)).Add(chipV.Mul(v))
}

// chipSites spreads n sites along the chip, alternating between two rows.
func chipSites(n int) []scene.Vec {
	sites := make([]scene.Vec, n)
	for i := range sites {
		u := 0.5
		if n > 1 {
			u = 0.12 + 0.76*float64(i)/float64(n-1)
		}
		v := 0.7
		if i%2 == 1 {
			v = 0.3
		}
		sites[i] = chipPoint(u, v)
	}
	return sites
}

type zone struct {
	name   string
	w, h   float64
	color  scene.Color
	center scene.Vec
	desc   []string
}

var zones = []zone{
	{"STORAGE", 2, 2.2, scene.Blue, scene.V(-3, -1.6),
		[]string{"Qubits parked here", "Large separation (>10 μm)", "No interactions"}},
	{"ENTANGLING", 1.6, 1.6, scene.Red, scene.V(0, -1.6),
		[]string{"Close proximity (~3-6 μm)", "Rydberg blockade active", "CZ gates executed here"}},
	{"READOUT", 2, 2.2, scene.Green, scene.V(3, -1.6),
		[]string{"Fluorescence measurement", "Shielded region", "Protects other qubits"}},
}

// Spatial maps gates onto chip sites, then shuttles atoms between the
// storage, entangling and readout zones once per CZ layer.
func Spatial(b *scene.Builder, c *circuit.Circuit) {
	b.Section("Layer 3: Spatial Routing").Caption(spatialIntro)

	label := scene.LayerLabel("l3/label", "Layer 3: Spatial Routing", "Logical → Physical Mapping", scene.Yellow).
		ToEdge(scene.UL, 0.3)
	reveal(b, label)

	mapGates(b, c)
	moveAtoms(b, c)

	b.Play(scene.FadeOut("l3"))
}

func mapGates(b *scene.Builder, c *circuit.Circuit) {
	intro := scene.ExplanationBox("l3/intro", spatialIntro, 4.2, 14, scene.Yellow).ToEdge(scene.Up, 0.7)
	explain(b, intro, spatialIntro)

	cv := scene.NewCircuitVisual("l3/circuit", c, 0.65)
	cv.MoveTo(scene.V(-2.6, 0.1))
	gates := cv.AddAll()
	b.AddWidget(cv.Wires(), cv.Labels()).AddWidget(gates...).Play(scene.FadeIn(cv.ID))
	b.Wait(0.3)

	chip := scene.NewPolygon("l3/chip/region",
		chipOrigin, chipOrigin.Add(chipU), chipOrigin.Add(chipU).Add(chipV), chipOrigin.Add(chipV),
	).WithStroke(scene.Blue, 2).WithFill(scene.Blue.Alpha(0.12))
	chipLabel := text("l3/chip/label", "Optical tweezer array region", 16, scene.Blue).
		NextTo(chip.Bounds(), scene.Up, 0.1)
	sites := chipSites(c.NumQubits())
	dots := make([]scene.Element, len(sites))
	for i, p := range sites {
		dots[i] = scene.NewDot(fmt.Sprintf("l3/chip/site/%d", i), p, 0.055, scene.Purple)
	}
	b.Add(chip).AddWidget(chipLabel).Add(dots...).Play(scene.FadeIn("l3/chip"))

	for slot, g := range c.All() {
		gid := gates[slot].ID
		b.Play(scene.Scale(1.08, gid).For(0.12))
		b.Play(scene.Scale(1/1.08, gid).For(0.12))

		var at scene.Vec
		var color scene.Color
		switch {
		case g.IsSingleQubit():
			at, color = sites[g.Qubits[0]], scene.Purple
		case g.IsTwoQubit():
			at, color = sites[g.Qubits[0]].Mid(sites[g.Qubits[1]]), scene.Orange
		default:
			continue
		}
		ring := scene.NewCircle(fmt.Sprintf("l3/map/%d/ring", slot), at, 0.19).WithStroke(color, 3)
		arrow := scene.NewArrow(fmt.Sprintf("l3/map/%d/arrow", slot), gates[slot].Bounds().Bottom(), at, 0.1).
			WithStroke(scene.Yellow, 3)
		b.Add(ring, arrow).Play(scene.Create(ring.ID, arrow.ID).For(0.2))
		b.Play(scene.Pulse(1.5, ring.ID).For(0.35))
		b.Remove(ring.ID).Play(scene.FadeOut(arrow.ID).For(0.15))
	}
	b.Wait(0.5)
	b.Play(scene.FadeOut("l3/intro", "l3/circuit", "l3/chip"))
}

func moveAtoms(b *scene.Builder, c *circuit.Circuit) {
	box := scene.ExplanationBox("l3/zones/intro", zonesIntro, 4.2, 13, scene.Yellow).ToEdge(scene.Up, 0.7)
	explain(b, box, zonesIntro)

	var zoneWidgets []scene.Widget
	for i, z := range zones {
		id := fmt.Sprintf("l3/zones/%d", i)
		zb := scene.ZoneBox(id+"/zone", z.w, z.h, z.name, z.color)
		zb = zb.Shift(z.center.Sub(zb.Get("box").Pos))
		desc := scene.TextBlock(id+"/desc", z.desc, 11, scene.White).NextTo(zb.Get("box").Bounds(), scene.Down, 0.1)
		zoneWidgets = append(zoneWidgets, zb, desc)
	}
	reveal(b, zoneWidgets...)
	b.Wait(2.5)

	storage, entangle, readout := zones[0].center, zones[1].center, zones[2].center
	n := c.NumQubits()
	spacing := min(0.5, 1.8/float64(n))
	slotAt := func(center scene.Vec, i int) scene.Vec {
		return center.Add(scene.V(0, (float64(n-1)/2-float64(i))*spacing))
	}

	atoms := make([]scene.Qubit, n)
	labels := make([]scene.Widget, n)
	for i := range atoms {
		atoms[i] = scene.AnimatedQubit(fmt.Sprintf("l3/atoms/%d", i), slotAt(storage, i), 0.12, scene.Purple)
		labels[i] = text(fmt.Sprintf("l3/atoms/label/%d", i), fmt.Sprintf("q%d", i), 12, scene.White).
			NextTo(atoms[i].Get("dot").Bounds(), scene.Right, 0.06)
	}
	for _, q := range atoms {
		b.AddWidget(q.Widget)
	}
	b.AddWidget(labels...).Play(scene.FadeIn("l3/atoms"))
	b.Play(scene.FadeOut(box.ID))

	tw := scene.ExplanationBox("l3/tweezer/intro", tweezerIntro, 4.2, 12, scene.Yellow).ToEdge(scene.Up, 0.7)
	explain(b, tw, tweezerIntro)
	start := slotAt(storage, 0)
	tweezer := scene.Widget{ID: "l3/tweezer/beam", Elements: []scene.Element{
		scene.NewDot("l3/tweezer/beam/spot", start, 0.18, scene.Sky.Alpha(0.4)),
		scene.NewCircle("l3/tweezer/beam/ring", start, 0.24).WithStroke(scene.Sky, 2),
	}}
	reveal(b, tweezer)

	// labelAt keeps a label just right of its atom wherever the atom sits.
	labelAt := func(i int, p scene.Vec) scene.Vec {
		return p.Add(scene.V(0.12+0.06+labels[i].Bounds().Width()/2, 0))
	}

	layers := c.CZLayers()
	for k, layer := range layers {
		status := text(fmt.Sprintf("l3/status/%d", k), fmt.Sprintf("CZ Layer %d/%d", k+1, len(layers)), 16, scene.Orange).
			ToEdge(scene.Down, 0.5)
		reveal(b, status)

		var moves []scene.Animation
		var moved []int
		for _, g := range layer {
			for j, dy := range []float64{0.2, -0.2} {
				q := g.Qubits[j]
				p := entangle.Add(scene.V(0, dy))
				moves = append(moves,
					scene.MoveTo(p, atoms[q].ID).For(0.8),
					scene.MoveTo(labelAt(q, p), labels[q].ID).For(0.8))
				moved = append(moved, q)
			}
		}
		moves = append(moves, scene.MoveTo(entangle, tweezer.ID).For(0.8))
		b.Play(moves...)

		for gi, g := range layer {
			a, q := g.Qubits[0], g.Qubits[1]
			pa, pq := b.Center(atoms[a].ID+"/dot"), b.Center(atoms[q].ID+"/dot")
			id := fmt.Sprintf("l3/cz/%d/%d", k, gi)
			link := scene.NewLine(id+"/link", pa, pq).WithStroke(scene.Red, 4)
			glow := scene.NewLine(id+"/glow", pa, pq).WithStroke(scene.Red.Alpha(0.3), 10)
			note := text(id+"/note", "CZ via Rydberg blockade", 12, scene.Red).
				NextTo(scene.Bounds{Min: entangle.Sub(scene.V(0.8, 0.8)), Max: entangle.Add(scene.V(0.8, 0.8))}, scene.Left, 0.2)
			b.Add(glow, link).AddWidget(note).Play(
				scene.Create(link.ID, glow.ID).For(0.3),
				scene.FadeIn(note.ID).For(0.3),
				atoms[a].PulseOnce(0.5),
				atoms[q].PulseOnce(0.5),
			)
			b.Play(scene.FadeOut(id).For(0.3))
		}

		var back []scene.Animation
		for _, j := range moved {
			p := slotAt(storage, j)
			back = append(back,
				scene.MoveTo(p, atoms[j].ID).For(0.5),
				scene.MoveTo(labelAt(j, p), labels[j].ID).For(0.5))
		}
		back = append(back, scene.MoveTo(storage, tweezer.ID).For(0.5))
		b.Play(back...)
		b.Play(scene.FadeOut(status.ID))
	}

	status := text("l3/status/readout", "Moving to Readout Zone", 16, scene.Green).ToEdge(scene.Down, 0.5)
	reveal(b, status)
	var toReadout []scene.Animation
	for i := range atoms {
		p := slotAt(readout, i)
		toReadout = append(toReadout,
			scene.MoveTo(p, atoms[i].ID).For(0.8),
			scene.MoveTo(labelAt(i, p), labels[i].ID).For(0.8))
	}
	b.Play(append(toReadout, scene.FadeOut(tweezer.ID).For(0.8))...)
	b.Play(scene.FadeOut(status.ID))
	b.Wait(0.5)
}
