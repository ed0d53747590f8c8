// Package pkg provides the core libraries behind stackreel, the animated
// walkthrough of how a quantum circuit is compiled onto a neutral-atom
// computer.
//
// # Overview
//
// A walkthrough starts from a logical circuit and follows it down the
// compilation stack: gate decomposition to the CZ-native gate set, spatial
// routing of atoms between storage and entangling zones, Rydberg pulse
// control and finally hardware execution with fluorescence readout. The pkg
// directory is organized into four areas:
//
//  1. [circuit] - The quantum circuit model, native rewriting and CZ layering
//  2. [formats] - Circuit file codecs (Cirq JSON, squin, OpenQASM 2.0, native)
//  3. [scene] - The declarative scene engine and the compilation layers
//  4. [render] - Frame, animation and dependency graph output
//
// [pipeline] ties them together for the CLI and the preview server, and
// [cache] keeps decoded circuits, storyboards and artifacts between runs.
//
// # Architecture
//
// The typical data flow:
//
//	Circuit file or built-in demo
//	         ↓
//	    [formats] (decode)
//	         ↓
//	    [circuit] (validate, native gates, CZ layers)
//	         ↓
//	    [scene/layers] (record a storyboard)
//	         ↓
//	    [render/sink] (GIF, SVG, PNG, PDF, JSON)
//
// # Quick Start
//
// Record the GHZ walkthrough and write the midpoint frame:
//
//	import (
//	    "github.com/qrying/stackreel/pkg/render/sink"
//	    "github.com/qrying/stackreel/pkg/scene/layers"
//	)
//
//	sb, err := layers.Build("GHZCircuitDemo", nil)
//	if err != nil {
//	    return err
//	}
//	svg := sink.RenderSVG(sb.At(sb.Duration/2), sink.WithSize(1280, 720))
//
// Or run the whole pipeline with caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Scene:   "Layer3Demo",
//	    Formats: []string{pipeline.FormatGIF},
//	})
//
// # Supporting Packages
//
// [errors] - Structured errors with machine-readable codes shared by the
// CLI and the server.
//
// [observability] - Hooks for pipeline, cache and server events.
//
// [fonts] - Embedded fonts for rasterised frames and self-contained SVG.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
//	go test ./pkg/...               # All tests
//	go test ./pkg/scene/...         # Specific package
//	go test -run Example ./pkg/...  # Examples only
//
// [circuit]: https://pkg.go.dev/github.com/qrying/stackreel/pkg/circuit
// [formats]: https://pkg.go.dev/github.com/qrying/stackreel/pkg/formats
// [scene]: https://pkg.go.dev/github.com/qrying/stackreel/pkg/scene
// [scene/layers]: https://pkg.go.dev/github.com/qrying/stackreel/pkg/scene/layers
// [render]: https://pkg.go.dev/github.com/qrying/stackreel/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/qrying/stackreel/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/qrying/stackreel/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/qrying/stackreel/pkg/cache
// [errors]: https://pkg.go.dev/github.com/qrying/stackreel/pkg/errors
// [observability]: https://pkg.go.dev/github.com/qrying/stackreel/pkg/observability
// [fonts]: https://pkg.go.dev/github.com/qrying/stackreel/pkg/fonts
// [buildinfo]: https://pkg.go.dev/github.com/qrying/stackreel/pkg/buildinfo
package pkg
