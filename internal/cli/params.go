package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/stipple/pkg/config"
	"github.com/matzehuels/stipple/pkg/pipeline"
)

// addParamFlags registers the generation parameters on cmd, bound to p.
// Flag defaults are the pipeline defaults.
func addParamFlags(cmd *cobra.Command, p *pipeline.Options) {
	d := pipeline.DefaultOptions()
	f := cmd.Flags()
	f.IntVar(&p.Width, pipeline.FieldWidth, d.Width, "canvas width in pixels")
	f.IntVar(&p.Height, pipeline.FieldHeight, d.Height, "canvas height in pixels")
	f.IntVar(&p.Columns, pipeline.FieldColumns, d.Columns, "grid columns")
	f.IntVar(&p.Rows, pipeline.FieldRows, d.Rows, "grid rows")
	f.IntVar(&p.Density, pipeline.FieldDensity, d.Density, "point slots per cell")
	f.Float64Var(&p.Padding, pipeline.FieldPadding, d.Padding, "margin kept free along every canvas edge")
	f.Float64Var(&p.Interspace, pipeline.FieldInterspace, d.Interspace, "minimum distance between points")
	f.Uint64Var(&p.Seed, pipeline.FieldSeed, d.Seed, "random seed (0 = random run)")
}

// resolveOptions layers defaults, the profile, and explicitly set flags, in
// that order, and validates the result.
func (c *CLI) resolveOptions(cmd *cobra.Command, flags pipeline.Options) (pipeline.Options, config.Profile, error) {
	profile, path, err := config.Resolve(c.configPath)
	if err != nil {
		return pipeline.Options{}, config.Profile{}, err
	}
	if path != "" {
		loggerFromContext(cmd.Context()).Debug("loaded profile", "path", path)
	}

	opts := pipeline.DefaultOptions()
	profile.Apply(&opts)

	set := cmd.Flags().Changed
	if set(pipeline.FieldWidth) {
		opts.Width = flags.Width
	}
	if set(pipeline.FieldHeight) {
		opts.Height = flags.Height
	}
	if set(pipeline.FieldColumns) {
		opts.Columns = flags.Columns
	}
	if set(pipeline.FieldRows) {
		opts.Rows = flags.Rows
	}
	if set(pipeline.FieldDensity) {
		opts.Density = flags.Density
	}
	if set(pipeline.FieldPadding) {
		opts.Padding = flags.Padding
	}
	if set(pipeline.FieldInterspace) {
		opts.Interspace = flags.Interspace
	}
	if set(pipeline.FieldSeed) {
		opts.Seed = flags.Seed
	}
	if len(flags.Formats) > 0 {
		opts.Formats = flags.Formats
	}

	if err := opts.Validate(); err != nil {
		return pipeline.Options{}, config.Profile{}, err
	}
	return opts, profile, nil
}
