package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stipple/pkg/dxf"
	"github.com/matzehuels/stipple/pkg/errors"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE.dxf",
		Short: "Summarize a DXF drawing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0])
		},
	}
}

func runInspect(cmd *cobra.Command, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return err
	}
	defer f.Close()

	doc, err := dxf.Parse(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	b := doc.Bound()
	printKeyValue(out, "File", path)
	printKeyValue(out, "Sections", strings.Join(doc.Sections, ", "))
	printKeyValue(out, "Lines", fmt.Sprint(len(doc.Lines)))
	printKeyValue(out, "Points", fmt.Sprint(len(doc.Points)))
	printKeyValue(out, "Bounds", fmt.Sprintf("(%s, %s) to (%s, %s)",
		dxf.FormatNumber(b.Min[0]), dxf.FormatNumber(b.Min[1]),
		dxf.FormatNumber(b.Max[0]), dxf.FormatNumber(b.Max[1])))
	return nil
}
