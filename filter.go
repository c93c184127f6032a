package survgo

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// CompleteFeatures returns the columns (numeric and categorical, in column
// order) whose missing fraction is at most threshold. It computes an
// allow-list only and never mutates the dataset.
func (d *Dataset) CompleteFeatures(threshold float64) ([]string, error) {
	if threshold < 0 || threshold > 1 {
		return nil, ErrInvalidThreshold
	}

	var features []string
	for _, c := range d.numeric {
		if d.missingFraction(c.present) <= threshold {
			features = append(features, c.name)
		}
	}
	for _, c := range d.categorical {
		if d.missingFraction(c.present) <= threshold {
			features = append(features, c.name)
		}
	}
	return features, nil
}

func (d *Dataset) missingFraction(present *roaring.Bitmap) float64 {
	if d.rows == 0 {
		return 0
	}
	return 1 - float64(present.GetCardinality())/float64(d.rows)
}

// DropIncompleteRows removes, in place, every row that is missing at least
// one value among the given columns. Removal is atomic across all columns so
// row alignment is preserved, and the relative order of retained rows is
// unchanged (stable filter). Applying it twice with the same column set is a
// no-op the second time.
//
// Returns the number of rows removed.
func (d *Dataset) DropIncompleteRows(columns []string) (int, error) {
	keep := roaring.New()
	if d.rows > 0 {
		keep.AddRange(0, uint64(d.rows))
	}

	for _, name := range columns {
		if i, ok := d.numIdx[name]; ok {
			keep.And(d.numeric[i].present)
			continue
		}
		if i, ok := d.catIdx[name]; ok {
			keep.And(d.categorical[i].present)
			continue
		}
		return 0, &ErrUnknownColumn{Column: name}
	}

	removed := d.rows - int(keep.GetCardinality())
	if removed == 0 {
		return 0, nil
	}
	d.retainRows(keep)
	return removed, nil
}

// retainRows compacts every column down to the rows in keep, preserving
// their relative order.
func (d *Dataset) retainRows(keep *roaring.Bitmap) {
	kept := keep.ToArray()

	for _, c := range d.numeric {
		values := make([]float64, len(kept))
		present := roaring.New()
		for newRow, oldRow := range kept {
			values[newRow] = c.values[oldRow]
			if c.present.Contains(oldRow) {
				present.Add(uint32(newRow))
			}
		}
		c.values = values
		c.present = present
	}
	for _, c := range d.categorical {
		codes := make([]float64, len(kept))
		present := roaring.New()
		for newRow, oldRow := range kept {
			codes[newRow] = c.codes[oldRow]
			if c.present.Contains(oldRow) {
				present.Add(uint32(newRow))
			}
		}
		c.codes = codes
		c.present = present
	}
	d.rows = len(kept)
}

// DropLowVariance removes numeric columns whose sample variance over the
// present values is below minVariance, or whose missing fraction exceeds
// maxMissing. Same decide-then-apply shape as the row filter: the drop set
// is computed against the current dataset, then applied at once.
//
// Returns the names of the dropped columns in column order.
func (d *Dataset) DropLowVariance(minVariance, maxMissing float64) ([]string, error) {
	if maxMissing < 0 || maxMissing > 1 {
		return nil, ErrInvalidThreshold
	}

	var dropped []string
	var retained []*numericColumn
	for _, c := range d.numeric {
		if d.missingFraction(c.present) > maxMissing || sampleVariance(c) < minVariance {
			dropped = append(dropped, c.name)
			continue
		}
		retained = append(retained, c)
	}
	if len(dropped) == 0 {
		return nil, nil
	}

	d.numeric = retained
	d.numIdx = make(map[string]int, len(retained))
	for i, c := range retained {
		d.numIdx[c.name] = i
	}
	return dropped, nil
}

// sampleVariance computes the unbiased sample variance over the present
// values of a numeric column. Columns with fewer than two present values
// have zero variance.
func sampleVariance(c *numericColumn) float64 {
	n := int(c.present.GetCardinality())
	if n < 2 {
		return 0
	}

	var sum float64
	it := c.present.Iterator()
	for it.HasNext() {
		sum += c.values[it.Next()]
	}
	mean := sum / float64(n)

	var ss float64
	it = c.present.Iterator()
	for it.HasNext() {
		dv := c.values[it.Next()] - mean
		ss += dv * dv
	}
	return ss / float64(n-1)
}
