// Package layers holds the scene drivers of the compilation walkthrough.
//
// Each driver reads a circuit and appends a fixed, hand-authored sequence of
// steps to a [scene.Builder], one driver per conceptual layer of a
// neutral-atom compilation stack:
//
//  1. [Logical]: the circuit as written, with its squin source.
//  2. [Decomposition]: CNOT = H.CZ.H and the blockade pulse sequence.
//  3. [Spatial]: gates mapped onto a chip and atoms moved between zones.
//  4. [Pulse]: Blackman-windowed Rabi pulses, one triple per CZ layer.
//  5. [Hardware]: Rb-87 atoms, Rydberg blockade and fluorescence readout.
//
// [Title] and [Summary] frame the full pipeline. The content is
// illustrative: nothing here compiles, routes or schedules the circuit, and
// only gate kinds, qubit indices and the CZ layering influence the picture.
//
// Every driver prefixes its element IDs with its own namespace and fades out
// everything it showed before returning, so drivers can run back to back on
// one builder.
package layers

import (
	"fmt"
	"strings"

	"github.com/qrying/stackreel/pkg/circuit"
	"github.com/qrying/stackreel/pkg/scene"
)

// Driver appends one layer of the walkthrough to b.
type Driver func(b *scene.Builder, c *circuit.Circuit)

// Pipeline is the full walkthrough in order.
var Pipeline = []Driver{Title, Logical, Decomposition, Spatial, Pulse, Hardware, Summary}

func targets(ws ...scene.Widget) []string {
	ids := make([]string, len(ws))
	for i, w := range ws {
		ids[i] = w.ID
	}
	return ids
}

// reveal registers widgets and fades them in together.
func reveal(b *scene.Builder, ws ...scene.Widget) {
	b.AddWidget(ws...).Play(scene.FadeIn(targets(ws...)...))
}

// explain shows an explanation box and uses its text as the caption.
func explain(b *scene.Builder, w scene.Widget, text string) {
	b.Caption(text)
	reveal(b, w)
}

// text is a single centred line wrapped as a widget.
func text(id, s string, size float64, c scene.Color) scene.Widget {
	return scene.Single(scene.NewText(id, s, scene.Origin, size, c))
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// handles lists the first few qubit handles as they appear in squin code.
func handles(n int) string {
	parts := make([]string, min(n, 3))
	for i := range parts {
		parts[i] = fmt.Sprintf("q[%d]", i)
	}
	return strings.Join(parts, ", ")
}

// Title introduces the circuit.
func Title(b *scene.Builder, c *circuit.Circuit) {
	b.Section("Title").Caption("QuEra Compilation Pipeline")

	title := text("title/heading", "QuEra Compilation Pipeline", 36, scene.Purple)
	name := text("title/circuit", "Circuit: "+c.Name(), 24, scene.White).NextTo(title.Bounds(), scene.Down, 0.3)
	info := text("title/info", fmt.Sprintf("%d qubits | %d gates", c.NumQubits(), c.Len()), 18, scene.Muted).
		NextTo(name.Bounds(), scene.Down, 0.2)

	reveal(b, title)
	reveal(b, name, info)
	b.Wait(2.5)
	b.Play(scene.FadeOut("title"))
}

type layerBox struct {
	name, desc string
	color      scene.Color
}

var layerBoxes = []layerBox{
	{"1. Logical Circuit", "Abstract gates & qubits", scene.Blue},
	{"2. Gate Decomposition", "CNOT -> H-CZ-H", scene.Green},
	{"3. Spatial Routing", "Atom transport paths", scene.Yellow},
	{"4. Pulse Control", "Laser waveforms", scene.Red},
	{"5. Hardware", "Rydberg atoms", scene.Purple},
}

// Summary recaps the five layers with the circuit's statistics.
func Summary(b *scene.Builder, c *circuit.Circuit) {
	b.Section("Summary").Caption("Compilation Complete!")

	title := text("summary/title", "Compilation Complete!", 32, scene.Purple).ToEdge(scene.Up, 0.5)
	reveal(b, title)

	top := title.Bounds().Min.Y - 0.4
	boxes := make([]scene.Widget, len(layerBoxes))
	for i, lb := range layerBoxes {
		id := fmt.Sprintf("summary/layer/%d", i)
		center := scene.V(0, top-0.3-float64(i)*0.75)
		boxes[i] = scene.Widget{ID: id, Elements: []scene.Element{
			scene.NewRoundRect(id+"/box", center, 3.5, 0.6, 0.1).WithStroke(lb.color, 2).WithFill(lb.color.Alpha(0.15)),
			scene.NewText(id+"/name", lb.name, center.Add(scene.V(0, 0.1)), 14, lb.color),
			scene.NewText(id+"/desc", lb.desc, center.Add(scene.V(0, -0.12)), 10, scene.Muted),
		}}
	}
	for i, box := range boxes {
		b.AddWidget(box).Play(scene.FadeIn(box.ID).For(0.3))
		if i == len(boxes)-1 {
			break
		}
		id := fmt.Sprintf("summary/arrow/%d", i)
		arrow := scene.NewArrow(id, box.Bounds().Bottom(), boxes[i+1].Bounds().Top(), 0.05).WithStroke(scene.White, 2)
		b.Add(arrow).Play(scene.Create(id).For(0.15))
	}

	stats := scene.Join("summary/stats",
		text("summary/stats/circuit", "Circuit: "+c.Name(), 16, scene.White),
		text("summary/stats/counts", fmt.Sprintf("Qubits: %d | Gates: %d | CZ Layers: %d",
			c.NumQubits(), c.Len(), len(c.CZLayers())), 12, scene.Muted).Shift(scene.V(0, -0.3)),
	).ToEdge(scene.Down, 0.5)
	reveal(b, stats)
	b.Wait(2.5)

	final := text("summary/final", "From Python to Photons", 20, scene.Purple).NextTo(stats.Bounds(), scene.Up, 0.3)
	reveal(b, final)
	b.Wait(2)

	b.Play(scene.FadeOut(b.Visible()...))
}
