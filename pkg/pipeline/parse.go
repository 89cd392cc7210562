package pipeline

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/matzehuels/stipple/pkg/errors"
)

// Input field names shared by HTML forms, query strings and flags.
const (
	FieldWidth      = "width"
	FieldHeight     = "height"
	FieldColumns    = "columns"
	FieldRows       = "rows"
	FieldDensity    = "density"
	FieldPadding    = "padding"
	FieldInterspace = "interspace"
	FieldSeed       = "seed"
)

// ParseValues builds Options from raw string inputs.
//
// Every field except seed is required. Values are trimmed, then must be a
// base-10 integer (width, height, columns, rows, density) or a finite
// decimal (padding, interspace). Anything else fails with INVALID_INPUT
// naming the field and the raw value; nothing is silently defaulted. A
// missing or empty seed means a random run. Formats are left unset.
func ParseValues(values map[string]string) (Options, error) {
	var opts Options
	var err error

	ints := []struct {
		name string
		dst  *int
	}{
		{FieldWidth, &opts.Width},
		{FieldHeight, &opts.Height},
		{FieldColumns, &opts.Columns},
		{FieldRows, &opts.Rows},
		{FieldDensity, &opts.Density},
	}
	for _, f := range ints {
		if *f.dst, err = parseInt(f.name, values); err != nil {
			return Options{}, err
		}
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{FieldPadding, &opts.Padding},
		{FieldInterspace, &opts.Interspace},
	}
	for _, f := range floats {
		if *f.dst, err = parseFloat(f.name, values); err != nil {
			return Options{}, err
		}
	}

	if raw := strings.TrimSpace(values[FieldSeed]); raw != "" {
		seed, perr := strconv.ParseUint(raw, 10, 64)
		if perr != nil {
			return Options{}, errors.Wrap(errors.ErrCodeInvalidInput, perr, "%s: %q is not an unsigned integer", FieldSeed, raw)
		}
		opts.Seed = seed
	}

	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// ParseForm is ParseValues over url.Values, taking the first value of each
// field.
func ParseForm(form url.Values) (Options, error) {
	values := make(map[string]string, len(form))
	for k, v := range form {
		if len(v) > 0 {
			values[k] = v[0]
		}
	}
	return ParseValues(values)
}

// Values is the inverse of ParseValues. Seed is omitted when zero.
func (o *Options) Values() map[string]string {
	values := map[string]string{
		FieldWidth:      strconv.Itoa(o.Width),
		FieldHeight:     strconv.Itoa(o.Height),
		FieldColumns:    strconv.Itoa(o.Columns),
		FieldRows:       strconv.Itoa(o.Rows),
		FieldDensity:    strconv.Itoa(o.Density),
		FieldPadding:    strconv.FormatFloat(o.Padding, 'f', -1, 64),
		FieldInterspace: strconv.FormatFloat(o.Interspace, 'f', -1, 64),
	}
	if o.Seed != 0 {
		values[FieldSeed] = strconv.FormatUint(o.Seed, 10)
	}
	return values
}

func required(name string, values map[string]string) (string, error) {
	raw, ok := values[name]
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidInput, "%s: missing value", name)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "%s: empty value", name)
	}
	return raw, nil
}

func parseInt(name string, values map[string]string) (int, error) {
	raw, err := required(name, values)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s: %q is not an integer", name, raw)
	}
	return v, nil
}

func parseFloat(name string, values map[string]string) (float64, error) {
	raw, err := required(name, values)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s: %q is not a number", name, raw)
	}
	if err := errors.ValidateFinite(name, v); err != nil {
		return 0, err
	}
	return v, nil
}
