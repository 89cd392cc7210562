package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stipple/pkg/dxf"
	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/pipeline"
	"github.com/matzehuels/stipple/pkg/render"
)

// stdoutPath makes generate write its single artifact to stdout.
const stdoutPath = "-"

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	params  pipeline.Options
	output  string // output file, base path for several formats, or "-"
	formats string // comma-separated formats
	noCache bool
	refresh bool
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Scatter points over the grid and write a drawing",
		Long: `Scatter points over a columns × rows grid and write the result.

Every cell receives density point slots. Each slot samples up to 100
candidates inside its cell and keeps the first one that lies inside the padded
canvas and at least interspace away from every point accepted so far; slots
that never find one are skipped.

The drawing is written as canvasData.dxf unless --output or the profile says
otherwise. With several --format values, --output is used as the base name.`,
		Example: `  stipple generate
  stipple generate --columns 10 --rows 10 --density 5 --seed 42
  stipple generate -f dxf,svg,png -o out/drawing
  stipple generate -o - | less`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.params.Formats = parseFormats(opts.formats)
			return c.runGenerate(cmd, &opts)
		},
	}

	addParamFlags(cmd, &opts.params)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, base path for several formats, or - for stdout (default canvasData.dxf)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): dxf (default), svg, png, pdf, json, html (comma-separated)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching of seeded runs")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results for seeded runs")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, opts *generateOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()

	params, profile, err := c.resolveOptions(cmd, opts.params)
	if err != nil {
		return err
	}
	params.SetRenderDefaults()
	params.Refresh = opts.refresh

	output := opts.output
	if output == "" {
		output = profile.Output.Path
	}
	if output == "" {
		output = defaultOutput(params.Formats)
	}
	if output == stdoutPath && len(params.Formats) > 1 {
		return errors.New(errors.ErrCodeInvalidPath, "cannot write %d formats to stdout", len(params.Formats))
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, params)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Generated %d points", result.Stats.Accepted))

	if output == stdoutPath {
		_, err := out.Write(result.Artifacts[params.Formats[0]])
		return err
	}

	paths := outputPaths(output, params.Formats)
	for _, format := range params.Formats {
		if err := os.WriteFile(paths[format], result.Artifacts[format], 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", paths[format])
		}
	}

	printSuccess(out, "Points Drawn: %s", StyleNumber.Render(fmt.Sprint(result.Stats.Accepted)))
	printStats(out, result.Stats.Requested, result.Stats.Skipped, result.CacheInfo.GenerateHit)
	for _, format := range params.Formats {
		printFile(out, paths[format])
	}
	if result.Stats.Skipped > 0 && result.Stats.Accepted == 0 {
		printWarning(out, "no point fit; lower padding or interspace")
	}
	return nil
}

// defaultOutput is canvasData.dxf, or its base name when several formats
// (or a single non-DXF format) are requested.
func defaultOutput(formats []string) string {
	if len(formats) == 1 && formats[0] != render.FormatDXF {
		return "canvasData" + render.Extension(formats[0])
	}
	if slices.Equal(formats, []string{render.FormatDXF}) {
		return dxf.Filename
	}
	return "canvasData"
}
