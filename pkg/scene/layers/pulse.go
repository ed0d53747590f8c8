package layers

import (
	"fmt"
	"math"

	"github.com/qrying/stackreel/pkg/circuit"
	"github.com/qrying/stackreel/pkg/scene"
)

const (
	pulseIntro = "The compiler generates precise time-dependent laser pulses described by a Hamiltonian H(t). " +
		"Three key terms control the quantum evolution of the neutral-atom system:"
	waveformIntro = "Entangling operations (CZ gates) are implemented with Rydberg blockade pulse sequences. " +
		"Pulses use smooth shapes like Blackman windows to prevent errors from abrupt switching " +
		"(adiabatic control). The pulse shape directly affects gate fidelity."
	hamiltonian = "H(t) = Σ (ħ/2) Ω_i(t) σx_i − Σ ħ Δ_i(t) n_i + Σ V_ij n_i n_j"
)

var hamiltonianTerms = []struct {
	text  string
	color scene.Color
}{
	{"Ω(t): Rabi frequency - drives rotations (laser intensity)", scene.Yellow},
	{"Δ(t): Detuning - controls energy shifts (laser frequency)", scene.Green},
	{"V_ij ~ 1/R^6: Rydberg interaction - enables blockade", scene.Purple},
}

// pulseWindow is the time axis of the waveform plots in μs.
const pulseWindow = 10.0

// Blackman is a Blackman window of height amp over [start, end] and zero
// elsewhere.
func Blackman(start, end, amp float64) func(float64) float64 {
	return func(t float64) float64 {
		if t < start || t > end || end <= start {
			return 0
		}
		tau := (t - start) / (end - start)
		return amp * (0.42 - 0.5*math.Cos(2*math.Pi*tau) + 0.08*math.Cos(4*math.Pi*tau))
	}
}

// PulseSpan is one π or 2π pulse on the control or target atom.
type PulseSpan struct {
	Start, End float64
	Target     bool
}

// Schedule lays out one control-target-control triple per CZ layer inside
// the plotted window. A circuit without CZs still gets one triple.
func Schedule(c *circuit.Circuit) []PulseSpan {
	n := max(len(c.CZLayers()), 1)
	pw := 8 / float64(max(n*3, 3))
	spans := make([]PulseSpan, 0, 3*n)
	for i := range n {
		tb := 1 + float64(i)*3*pw
		spans = append(spans,
			PulseSpan{Start: tb, End: tb + pw},
			PulseSpan{Start: tb + pw, End: tb + 2*pw, Target: true},
			PulseSpan{Start: tb + 2*pw, End: tb + 3*pw},
		)
	}
	return spans
}

// Pulse presents the driving Hamiltonian and plots the Blackman pulse
// schedule for the control and target atoms.
func Pulse(b *scene.Builder, c *circuit.Circuit) {
	b.Section("Layer 4: Pulse Control").Caption(pulseIntro)

	label := scene.LayerLabel("l4/label", "Layer 4: Pulse Control", "bloqade-analog - Waveforms", scene.Red).
		ToEdge(scene.UL, 0.3)
	reveal(b, label)

	intro := scene.ExplanationBox("l4/intro", pulseIntro, 5, 12, scene.Red).ToEdge(scene.Up, 0.7)
	explain(b, intro, pulseIntro)
	eq := text("l4/hamiltonian", hamiltonian, 26, scene.White).NextTo(intro.Bounds(), scene.Down, 0.3)
	reveal(b, eq)

	prev := eq.Bounds()
	for i, term := range hamiltonianTerms {
		w := text(fmt.Sprintf("l4/terms/%d", i), term.text, 11, term.color).NextTo(prev, scene.Down, 0.15)
		b.AddWidget(w).Play(scene.FadeIn(w.ID).For(0.4))
		prev = w.Bounds()
	}
	b.Wait(1)
	b.Play(scene.FadeOut(intro.ID, eq.ID, "l4/terms"))

	wave := scene.ExplanationBox("l4/waveform", waveformIntro, 3.5, 11, scene.Red).
		ToEdge(scene.Right, 0.2).Shift(scene.V(0, 1))
	explain(b, wave, waveformIntro)

	ctrl := scene.NewAxes("l4/axes/control", [3]float64{0, pulseWindow, 2}, [3]float64{0, 1.2, 0.5}, 5.5, 1.2).
		Shift(scene.V(-0.5, 0.3))
	tgt := scene.NewAxes("l4/axes/target", [3]float64{0, pulseWindow, 2}, [3]float64{0, 1.2, 0.5}, 5.5, 1.2).
		Shift(scene.V(-0.5, -1.5))
	ctrlLabel := text("l4/axes/label/control", "Control atom Ω(t)", 11, scene.Red).NextTo(ctrl.Bounds(), scene.Left, 0.15)
	tgtLabel := text("l4/axes/label/target", "Target atom Ω(t)", 11, scene.Yellow).NextTo(tgt.Bounds(), scene.Left, 0.15)
	timeLabel := text("l4/axes/label/time", "Time (μs)", 11, scene.Muted).NextTo(tgt.Bounds(), scene.Down, 0.12)
	b.AddWidget(ctrl.Widget(), tgt.Widget()).Play(scene.Create(ctrl.ID, tgt.ID))
	reveal(b, ctrlLabel, tgtLabel, timeLabel)

	for i, s := range Schedule(c) {
		ax, color := ctrl, scene.Red
		if s.Target {
			ax, color = tgt, scene.Yellow
		}
		g := ax.Graph(fmt.Sprintf("l4/pulses/%d", i), Blackman(s.Start, s.End, 1), 200, color)
		b.Add(g).Play(scene.Create(g.ID).For(0.2))
	}

	legend := scene.Join("l4/legend",
		text("l4/legend/0", "CZ gate sequence:", 10, scene.White),
		text("l4/legend/1", "1. π pulse on Control", 9, scene.Red).Shift(scene.V(0, -0.2)),
		text("l4/legend/2", "2. 2π pulse on Target", 9, scene.Yellow).Shift(scene.V(0, -0.38)),
		text("l4/legend/3", "3. π pulse on Control", 9, scene.Red).Shift(scene.V(0, -0.56)),
	).NextTo(timeLabel.Bounds(), scene.Down, 0.2)
	reveal(b, legend)

	sweeps := []scene.Element{
		scene.NewLine("l4/sweep/control", ctrl.C2P(0, 0), ctrl.C2P(0, 1.2)).WithStroke(scene.White, 2),
		scene.NewLine("l4/sweep/target", tgt.C2P(0, 0), tgt.C2P(0, 1.2)).WithStroke(scene.White, 2),
	}
	b.Add(sweeps...).Show("l4/sweep")
	b.Play(
		scene.MoveTo(ctrl.C2P(9, 0.6), "l4/sweep/control").For(2).WithRate(scene.Linear),
		scene.MoveTo(tgt.C2P(9, 0.6), "l4/sweep/target").For(2).WithRate(scene.Linear),
	)
	b.Wait(1.5)

	b.Play(scene.FadeOut("l4"))
}
