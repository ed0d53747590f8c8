package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qrying/stackreel/pkg/errors"
	"github.com/qrying/stackreel/pkg/pipeline"
	"github.com/qrying/stackreel/pkg/render/sink"
)

// renderCommand creates the render command for exporting a scene.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{At: pipeline.DefaultAt}

	cmd := &cobra.Command{
		Use:   "render [Scene]",
		Short: "Render a scene to GIF, SVG, PNG, PDF or JSON",
		Long: `Render a scene to one or more output files.

The scene is recorded over its built-in circuit, or over the circuit file
given with --circuit (Cirq JSON, squin, OpenQASM 2.0, or native JSON, YAML,
TOML). Single-frame formats (svg, png) capture the frame at --at seconds,
the middle of the animation by default.

Formats:
  gif   the whole animation
  svg   one frame
  png   one frame
  pdf   contact sheet with one frame per section
  json  the storyboard timeline
  dot   gate dependency graph (Graphviz DOT)
  dag   gate dependency graph laid out as SVG

Results are cached locally for faster subsequent runs.`,
		Args:              cobra.RangeArgs(0, 1),
		ValidArgsFunction: completeScenes,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Scene = args[0]
			}
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			c.Config.apply(&opts, cmd.Flags())
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): gif (default), svg, png, pdf, json, dot, dag (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "re-read the circuit file even if cached")

	cmd.Flags().StringVar(&opts.CircuitPath, "circuit", "", "circuit file to animate instead of the scene's own")
	cmd.Flags().StringVar(&opts.CircuitName, "name", "", "circuit display name (default: from the file)")
	cmd.Flags().IntVar(&opts.Width, "width", pipeline.DefaultWidth, "frame width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", pipeline.DefaultHeight, "frame height in pixels")
	cmd.Flags().Float64Var(&opts.FPS, "fps", pipeline.DefaultFPS, "frames per second (gif)")
	cmd.Flags().Float64Var(&opts.At, "at", pipeline.DefaultAt, "frame time in seconds for svg/png (default: midpoint)")
	cmd.Flags().StringVar(&opts.Theme, "theme", pipeline.DefaultTheme, "colour theme: "+strings.Join(sink.ThemeNames(), ", "))
	cmd.Flags().BoolVar(&opts.Captions, "captions", false, "draw the narration as subtitles")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "label dependency edges with qubits (dot, dag)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "frames rasterised in parallel (default: number of CPUs)")

	_ = cmd.RegisterFlagCompletionFunc("theme", cobra.FixedCompletions(sink.ThemeNames(), cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(pipeline.Formats, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache, nil)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.Scene))
	spinner.Start()

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render %s: %w", opts.Scene, err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %s", plural(len(result.Artifacts), "artifact")))

	paths, err := outputPaths(opts.Formats, opts.Scene, output)
	if err != nil {
		return err
	}

	printSuccess("%s", result.Circuit.Name())
	printStats(result.Stats.Qubits, result.Stats.Gates, result.Stats.CZLayers, result.CacheInfo.RenderHit)
	if s := result.Summary; s.Duration > 0 {
		printDetail("%.1fs · %s · %s", s.Duration, plural(len(s.Sections), "section"), plural(s.Steps, "step"))
	}
	for _, f := range opts.Formats {
		if err := writeArtifact(paths[f], result.Artifacts[f]); err != nil {
			return err
		}
		printFile(paths[f])
	}

	printNewline()
	printNextStep("Watch it in the terminal", "stackreel play "+opts.Scene)
	return nil
}

// outputPaths maps each format to its output file.
//
// With a single format an explicit output is used verbatim. Otherwise the
// output (or the scene name) is a base path: a known extension is stripped
// and each format appends its own.
func outputPaths(formats []string, scene, output string) (map[string]string, error) {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		if err := errors.ValidateOutputPath(output); err != nil {
			return nil, err
		}
		paths[formats[0]] = output
		return paths, nil
	}

	base := basePath(output, scene)
	if err := errors.ValidateOutputPath(base); err != nil {
		return nil, err
	}
	for _, f := range formats {
		paths[f] = base + pipeline.Extension(f)
	}
	return paths, nil
}

// basePath derives the base output path. An empty output falls back to the
// scene name; a trailing format extension is removed.
func basePath(output, scene string) string {
	if output == "" {
		return scene
	}
	for _, f := range pipeline.Formats {
		if ext := pipeline.Extension(f); strings.HasSuffix(output, ext) && len(output) > len(ext) {
			if f == pipeline.FormatSVG && strings.HasSuffix(output, pipeline.Extension(pipeline.FormatDAG)) {
				continue
			}
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// writeArtifact writes data to path, creating parent directories.
func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
