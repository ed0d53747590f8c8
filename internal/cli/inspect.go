package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qrying/stackreel/pkg/circuit"
	"github.com/qrying/stackreel/pkg/errors"
	"github.com/qrying/stackreel/pkg/formats/all"
	"github.com/qrying/stackreel/pkg/render/nodelink"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	name     string // circuit name override
	dag      string // output path for the dependency graph
	detailed bool   // label dependency edges with qubits
}

// inspectCommand creates the inspect command for examining a circuit file.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect [circuit file]",
		Short: "Show the gates, native decomposition and CZ layers of a circuit",
		Long: `Show the gates, native decomposition and CZ layers of a circuit file.

Supported inputs: ` + strings.Join(all.Names(), ", ") + `.
With --dag the gate dependency graph is rendered to an SVG, PNG or PDF file,
chosen by extension. PNG and PDF need rsvg-convert.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "circuit display name (default: from the file)")
	cmd.Flags().StringVar(&opts.dag, "dag", "", "write the gate dependency graph to this .svg, .png or .pdf file")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label dependency edges with qubits (with --dag)")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, path string, opts inspectOpts) error {
	logger := loggerFromContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "circuit file %s", path)
		}
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	format, err := all.Detect(path, data)
	if err != nil {
		return err
	}
	logger.Debugf("Detected %s format", format.Name())

	circ, err := format.Decode(data, opts.name)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	printCircuit(circ, format.Name())

	if opts.dag != "" {
		if err := errors.ValidateOutputPath(opts.dag); err != nil {
			return err
		}
		data, err := renderDAG(ctx, circ, opts)
		if err != nil {
			return fmt.Errorf("render dependency graph: %w", err)
		}
		if err := writeArtifact(opts.dag, data); err != nil {
			return err
		}
		printNewline()
		printSuccess("Dependency graph")
		printFile(opts.dag)
	}
	return nil
}

// renderDAG lays out the dependency graph in the format named by the
// extension of opts.dag: .pdf, .png or SVG otherwise.
func renderDAG(ctx context.Context, c *circuit.Circuit, opts inspectOpts) ([]byte, error) {
	dot := nodelink.ToDOT(c, nodelink.Options{Detailed: opts.detailed})
	switch strings.ToLower(filepath.Ext(opts.dag)) {
	case ".pdf":
		return nodelink.RenderPDF(ctx, dot)
	case ".png":
		return nodelink.RenderPNG(ctx, dot, 2)
	default:
		return nodelink.RenderSVG(ctx, dot)
	}
}

// printCircuit prints the stats, gate table, CZ layers and diagram of c.
func printCircuit(c *circuit.Circuit, format string) {
	st := c.Stats()

	fmt.Println(StyleTitle.Render(c.Name()))
	printKeyValue("Format", format)
	printKeyValue("Qubits", fmt.Sprint(st.Qubits))
	printKeyValue("Gates", fmt.Sprintf("%d (%d single, %d two, %d three-qubit, %d measure)",
		st.Gates, st.SingleQubit, st.TwoQubit, st.ThreeQubit, st.Measurements))
	printKeyValue("Depth", fmt.Sprint(st.Depth))
	printKeyValue("Native gates", fmt.Sprintf("%d (%s)", st.NativeGates, plural(st.NativeCZ, "CZ")))
	printKeyValue("CZ layers", fmt.Sprint(st.CZLayers))
	printKeyValue("Gate counts", kindCounts(st.Counts))
	printNewline()

	fmt.Println(gateTable(c))
	printNewline()

	layers := c.CZLayers()
	if len(layers) == 0 {
		printDetail("No entangling gates")
	}
	for i, layer := range layers {
		names := make([]string, len(layer))
		for j, g := range layer {
			names[j] = g.String()
		}
		fmt.Printf("%s %s\n", StyleNumber.Render(fmt.Sprintf("CZ layer %d:", i+1)), strings.Join(names, "  "))
	}
	printNewline()

	fmt.Println(StyleDim.Render(strings.TrimRight(c.Diagram(), "\n")))
}

// gateTable renders one row per gate with its native expansion.
func gateTable(c *circuit.Circuit) string {
	t := newTable("#", "Gate", "Qubits", "Native")
	for i, g := range c.All() {
		qs := make([]string, len(g.Qubits))
		for j, q := range g.Qubits {
			qs[j] = styleQubit.Render(fmt.Sprintf("q%d", q))
		}
		t.Row(fmt.Sprint(i), StyleHighlight.Render(g.String()), strings.Join(qs, " "), nativeOf(c.NumQubits(), g))
	}
	return t.Render()
}

// nativeOf lists the CZ-native expansion of a single gate, or a dash when
// the gate is already native.
func nativeOf(numQubits int, g circuit.Gate) string {
	one, err := circuit.New(numQubits, "")
	if err != nil || one.Append(g) != nil {
		return "?"
	}
	native := one.Native()
	if len(native) == 1 && native[0].Equal(g) {
		return StyleDim.Render("—")
	}
	names := make([]string, len(native))
	for i, n := range native {
		names[i] = n.String()
	}
	return strings.Join(names, " ")
}

// kindCounts formats gate counts as "CX×2 H×1", most frequent first.
func kindCounts(counts map[circuit.GateKind]int) string {
	kinds := make([]circuit.GateKind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		if counts[kinds[i]] != counts[kinds[j]] {
			return counts[kinds[i]] > counts[kinds[j]]
		}
		return kinds[i] < kinds[j]
	})
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = fmt.Sprintf("%s×%d", k, counts[k])
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}
