package survgo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/hupe1980/survgo/delim"
)

// WriteFile serializes the dataset as delimited text to the configured blob
// store, compressing by extension. The header lists all numeric columns
// first, then all categorical columns; a categorical column whose factor has
// one_hot=true expands into one `column_level` indicator column per level in
// level order, otherwise it emits its single numeric code. Missing values
// serialize as empty fields.
func (d *Dataset) WriteFile(ctx context.Context, name string) error {
	start := time.Now()

	var buf bytes.Buffer
	err := d.writeTo(&buf, name)
	if err == nil {
		err = d.opts.store.Put(ctx, name, buf.Bytes())
	}

	d.opts.metrics.RecordExport(d.rows, time.Since(start), err)
	d.opts.logger.LogExport(ctx, name, d.rows, err)
	return err
}

// WriteTo serializes the dataset as delimited text to w. name selects the
// compressor by extension, exactly as WriteFile does.
func (d *Dataset) WriteTo(w io.Writer, name string) error {
	return d.writeTo(w, name)
}

func (d *Dataset) writeTo(w io.Writer, name string) error {
	dw, err := delim.NewWriter(w, name, d.opts.delimiter)
	if err != nil {
		return err
	}

	if err := dw.Write(d.exportHeader()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for r := 0; r < d.rows; r++ {
		if err := dw.Write(d.exportRow(r)); err != nil {
			return fmt.Errorf("write row %d: %w", r, err)
		}
	}
	return dw.Close()
}

func (d *Dataset) exportHeader() []string {
	var header []string
	for _, c := range d.numeric {
		header = append(header, c.name)
	}
	for _, c := range d.categorical {
		if c.factor.OneHot {
			header = append(header, c.factor.IndicatorNames()...)
			continue
		}
		header = append(header, c.name)
	}
	return header
}

func (d *Dataset) exportRow(r int) []string {
	var record []string
	for _, c := range d.numeric {
		record = append(record, formatField(c.values[r], c.present.Contains(uint32(r))))
	}
	for _, c := range d.categorical {
		present := c.present.Contains(uint32(r))
		if !c.factor.OneHot {
			record = append(record, formatField(c.codes[r], present))
			continue
		}
		// Missing one-hot values emit empty indicator fields rather than
		// all zeros, so missingness survives a round trip.
		if !present {
			for range c.factor.Levels {
				record = append(record, "")
			}
			continue
		}
		for _, v := range c.factor.OneHotVector(c.codes[r], true) {
			record = append(record, strconv.FormatFloat(v, 'f', 0, 64))
		}
	}
	return record
}

func formatField(v float64, present bool) string {
	if !present {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// SaveFactors persists the factor registry to the configured blob store in
// the same structured form the loader reads (round-trip guarantee).
func (d *Dataset) SaveFactors(ctx context.Context, name string) error {
	data, err := d.registry.Save(d.opts.codec)
	if err != nil {
		return fmt.Errorf("save factor definitions: %w", err)
	}
	if err := d.opts.store.Put(ctx, name, data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	d.opts.logger.LogFactorsWritten(ctx, name, d.registry.Len())
	return nil
}
