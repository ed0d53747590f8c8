package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qrying/stackreel/pkg/scene/layers"
)

// scenesCommand creates the scenes command listing the registered scenes.
func (c *CLI) scenesCommand() *cobra.Command {
	var namesOnly bool

	cmd := &cobra.Command{
		Use:   "scenes",
		Short: "List the available scenes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if namesOnly {
				fmt.Println(strings.Join(layers.Names(), "\n"))
				return nil
			}
			fmt.Println(scenesTable())
			printNewline()
			printNextStep("Render one", "stackreel render GHZCircuitDemo -f gif,svg")
			return nil
		},
	}

	cmd.Flags().BoolVar(&namesOnly, "names", false, "print scene names only, one per line")
	return cmd
}

func scenesTable() string {
	t := newTable("Scene", "Circuit", "Sections", "Description")
	for _, s := range layers.Scenes() {
		circuit := StyleWarning.Render("--circuit")
		if !s.NeedsCircuit() {
			c := s.Circuit()
			circuit = fmt.Sprintf("%s %s", c.Name(), styleQubit.Render(fmt.Sprintf("(%dq)", c.NumQubits())))
		}
		t.Row(StyleHighlight.Render(s.Name), circuit, StyleNumber.Render(fmt.Sprint(len(s.Drivers))), s.Description)
	}
	return t.Render()
}

// completeScenes offers registered scene names for the first argument.
func completeScenes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, s := range layers.Scenes() {
		if strings.HasPrefix(s.Name, toComplete) {
			out = append(out, s.Name+"\t"+s.Description)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
