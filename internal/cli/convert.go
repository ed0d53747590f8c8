package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qrying/stackreel/pkg/errors"
	"github.com/qrying/stackreel/pkg/formats/all"
)

// convertCommand creates the convert command translating circuit files.
func (c *CLI) convertCommand() *cobra.Command {
	var (
		to     string
		output string
		name   string
	)

	cmd := &cobra.Command{
		Use:   "convert [circuit file]",
		Short: "Convert a circuit file to another format",
		Long: `Convert a circuit file to another format.

The input format is detected from the file name and content. Output formats:
` + strings.Join(all.Names(), ", ") + `.

Use -o - to write to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.Context(), args[0], to, output, name)
		},
	}

	cmd.Flags().StringVarP(&to, "to", "t", "", "output format: "+strings.Join(all.Names(), ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input name with the new extension)")
	cmd.Flags().StringVar(&name, "name", "", "circuit name written to the output")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.RegisterFlagCompletionFunc("to", cobra.FixedCompletions(all.Names(), cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) runConvert(ctx context.Context, input, to, output, name string) error {
	logger := loggerFromContext(ctx)

	enc, err := all.FindEncoder(to)
	if err != nil {
		return err
	}
	circ, err := all.Load(input, name)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}
	logger.Debugf("Loaded %s: %d qubits, %d gates", input, circ.NumQubits(), circ.Len())

	data, err := enc.Encode(circ)
	if err != nil {
		return fmt.Errorf("encode %s: %w", enc.Name(), err)
	}

	if output == "" {
		output = convertedPath(input, enc.Extension())
	}
	if output == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := errors.ValidateOutputPath(output); err != nil {
		return err
	}
	if same, _ := samePath(input, output); same {
		return errors.New(errors.ErrCodeInvalidPath, "output %s would overwrite the input", output)
	}

	out, err := openOutput(output)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", output)
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return err
	}

	printSuccess("Converted %s to %s", input, enc.Name())
	printFile(output)
	return nil
}

// convertedPath replaces every extension of input with ext, so that
// "ghz.cirq.json" becomes "ghz.qasm".
func convertedPath(input, ext string) string {
	dir, base := filepath.Split(input)
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return filepath.Join(dir, base+ext)
}

func samePath(a, b string) (bool, error) {
	ia, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	ib, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	return os.SameFile(ia, ib), nil
}

// openOutput creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	return os.Create(path)
}
