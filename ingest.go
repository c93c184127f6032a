package survgo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/hupe1980/survgo/blobstore"
	"github.com/hupe1980/survgo/delim"
	"github.com/hupe1980/survgo/factor"
)

// FromFile reads a delimited file into a Dataset, encoding categorical
// columns through factor definitions.
//
// Columns declared via WithCategorical encode through the factor registry;
// all other columns parse as float64, with unparsable or empty fields
// recorded as missing. When WithFactorsFile names an existing definition
// file it is loaded first (total-or-fail); when the file does not exist yet,
// factors are inferred from the data and the inferred definitions are
// written back so later runs encode identically.
//
//	ds, err := survgo.FromFile(ctx, "pbmc3k/meta.tsv",
//	    survgo.WithCategorical("cluster", "sex", "condition"),
//	    survgo.WithFactorsFile("pbmc3k/factors.json"),
//	)
func FromFile(ctx context.Context, name string, optFns ...Option) (*Dataset, error) {
	o := applyOptions(optFns)
	start := time.Now()

	ds, err := fromStore(ctx, name, o)

	o.metrics.RecordIngest(rowsOf(ds), time.Since(start), err)
	o.logger.LogIngest(ctx, name, rowsOf(ds), columnsOf(ds), err)
	return ds, err
}

// FromReader ingests delimited text from a reader. name selects the
// decompressor by extension and labels log output; factor definition files
// are still resolved through the configured blob store.
func FromReader(ctx context.Context, r io.Reader, name string, optFns ...Option) (*Dataset, error) {
	o := applyOptions(optFns)
	start := time.Now()

	ds, err := ingest(ctx, r, name, o)

	o.metrics.RecordIngest(rowsOf(ds), time.Since(start), err)
	o.logger.LogIngest(ctx, name, rowsOf(ds), columnsOf(ds), err)
	return ds, err
}

func rowsOf(d *Dataset) int {
	if d == nil {
		return 0
	}
	return d.rows
}

func columnsOf(d *Dataset) int {
	if d == nil {
		return 0
	}
	return len(d.numeric) + len(d.categorical)
}

func fromStore(ctx context.Context, name string, o options) (*Dataset, error) {
	r, err := o.store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer func() { _ = r.Close() }()

	return ingest(ctx, r, name, o)
}

func ingest(ctx context.Context, r io.Reader, name string, o options) (*Dataset, error) {
	dr, err := delim.NewReader(r, name, o.delimiter)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	defer func() { _ = dr.Close() }()

	header, err := dr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyHeader
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	rows, err := dr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	for i, row := range rows {
		if len(row) != len(header) {
			return nil, &ErrMalformedRow{Line: i + 2, Expected: len(header), Actual: len(row)}
		}
	}

	registry, loaded, err := loadRegistry(ctx, o)
	if err != nil {
		return nil, err
	}

	ds := NewDataset(registry)
	ds.opts = o

	for col, colName := range header {
		raw := make([]string, len(rows))
		for i, row := range rows {
			raw[i] = row[col]
		}

		if _, categorical := o.categorical[colName]; categorical {
			if err := ds.addInferredCategorical(colName, raw, o.oneHot); err != nil {
				return nil, err
			}
			continue
		}
		if err := ds.addParsedNumeric(colName, raw); err != nil {
			return nil, err
		}
	}

	if o.factorsFile != "" && !loaded {
		data, err := registry.Save(o.codec)
		if err != nil {
			return nil, fmt.Errorf("save factor definitions: %w", err)
		}
		if err := o.store.Put(ctx, o.factorsFile, data); err != nil {
			return nil, fmt.Errorf("write %s: %w", o.factorsFile, err)
		}
		o.logger.LogFactorsWritten(ctx, o.factorsFile, registry.Len())
	}

	return ds, nil
}

// loadRegistry loads the factor definition file when one is configured and
// exists. loaded reports whether definitions came from the file.
func loadRegistry(ctx context.Context, o options) (registry *factor.Registry, loaded bool, err error) {
	if o.factorsFile == "" {
		return factor.NewRegistry(), false, nil
	}

	data, err := blobstore.ReadAll(ctx, o.store, o.factorsFile)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return factor.NewRegistry(), false, nil
		}
		return nil, false, fmt.Errorf("open %s: %w", o.factorsFile, err)
	}

	registry, err = factor.Load(data, o.codec)
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", o.factorsFile, err)
	}
	o.logger.LogFactorsLoaded(ctx, o.factorsFile, registry.Len())
	return registry, true, nil
}

// addParsedNumeric parses raw fields as float64; unparsable or empty fields
// become missing entries.
func (d *Dataset) addParsedNumeric(name string, raw []string) error {
	values := make([]float64, len(raw))
	present := make([]bool, len(raw))
	for i, field := range raw {
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			continue
		}
		values[i] = v
		present[i] = true
	}
	return d.AddNumericColumn(name, values, present)
}

// addInferredCategorical encodes a categorical column, inferring a factor
// with the requested one-hot flag when the registry has none.
func (d *Dataset) addInferredCategorical(name string, raw []string, oneHot bool) error {
	if _, ok := d.registry.Get(name); !ok {
		if err := d.registry.Add(factor.Infer(name, raw, oneHot)); err != nil {
			return err
		}
	}
	return d.AddCategoricalColumn(name, raw)
}
