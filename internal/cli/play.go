package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/qrying/stackreel/pkg/errors"
	"github.com/qrying/stackreel/pkg/pipeline"
)

// playCommand creates the play command, an interactive terminal player.
func (c *CLI) playCommand() *cobra.Command {
	var (
		noCache bool
		speed   float64
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "play [Scene]",
		Short: "Play a scene in the terminal",
		Long: `Play a scene in the terminal.

The player steps through the storyboard in real time and shows the current
section, its narration, the labels on screen and the circuit diagram.

Keys:
  space     pause / resume
  ←/→       previous / next step
  b/n       previous / next section
  ↑/↓       faster / slower
  g         restart
  q         quit`,
		Args:              cobra.RangeArgs(0, 1),
		ValidArgsFunction: completeScenes,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Scene = args[0]
			}
			c.Config.apply(&opts, cmd.Flags())
			return c.runPlay(cmd.Context(), opts, speed, noCache)
		},
	}

	cmd.Flags().StringVar(&opts.CircuitPath, "circuit", "", "circuit file to animate instead of the scene's own")
	cmd.Flags().StringVar(&opts.CircuitName, "name", "", "circuit display name (default: from the file)")
	cmd.Flags().Float64Var(&opts.FPS, "fps", pipeline.DefaultFPS, "screen refresh rate")
	cmd.Flags().Float64Var(&speed, "speed", 1, "initial playback speed")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runPlay(ctx context.Context, opts pipeline.Options, speed float64, noCache bool) error {
	opts.Formats = []string{pipeline.FormatJSON}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if speed < minSpeed || speed > maxSpeed {
		return errors.New(errors.ErrCodeInvalidInput, "speed must be between %g and %g", minSpeed, maxSpeed)
	}

	runner, err := c.newRunner(ctx, noCache, nil)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	circ, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	sb, err := runner.Build(ctx, circ, opts)
	if err != nil {
		return fmt.Errorf("build %s: %w", opts.Scene, err)
	}

	m := NewPlayerModel(sb, circ.Diagram(), opts.FPS)
	m.Speed = speed
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("player: %w", err)
	}
	return nil
}
