package survgo

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/RoaringBitmap/roaring/v2"
)

// ImputeKNN fills missing entries using nearest-neighbor estimation.
//
// For each row with at least one missing field, every other row is a
// candidate neighbor. The pairwise distance is the mean squared difference
// over the dimensions that are present in BOTH rows, with each dimension
// standardized by its column mean and standard deviation so column scale
// does not dominate; dimensions missing on either side are excluded, not
// treated as zero. Numeric columns always contribute dimensions; categorical
// columns (as numeric codes) contribute only when useCategorical is true.
//
// A missing numeric field becomes the mean of its k nearest candidates that
// hold a value there; a missing categorical field becomes the majority level
// among those k, ties broken by the lowest numeric code so the result is
// deterministic. A field with fewer than k qualifying neighbors stays
// missing: imputation never fabricates from zero evidence, and it never
// alters a value that was already present.
//
// Because filling one field changes distances for the next, the procedure
// runs up to maxIterations passes over the table, stopping early when a pass
// changes nothing or nothing is missing. Within one pass all neighbor
// searches read the pass-start state; writes are staged and applied at the
// pass barrier. Cost is O(passes × rows² × dimensions), acceptable for the
// cohort sizes this library targets.
//
// Returns the total number of fields filled.
func (d *Dataset) ImputeKNN(ctx context.Context, k, maxIterations int, useCategorical bool) (int, error) {
	if k < 1 {
		return 0, ErrInvalidK
	}
	if maxIterations < 1 {
		maxIterations = 1
	}

	totalFilled := 0
	passes := 0
	for pass := 1; pass <= maxIterations; pass++ {
		start := time.Now()
		filled, err := d.imputePass(ctx, k, useCategorical)
		if err != nil {
			return totalFilled, err
		}
		passes = pass
		totalFilled += filled

		remaining := d.totalMissing()
		d.opts.metrics.RecordImputePass(pass, filled, time.Since(start))
		d.opts.logger.LogImputePass(ctx, pass, filled, remaining)

		if filled == 0 || remaining == 0 {
			break
		}
	}

	d.recordUnfilled()
	d.opts.logger.LogImpute(ctx, passes, totalFilled, d.totalMissing())
	return totalFilled, nil
}

func (d *Dataset) totalMissing() int {
	missing := 0
	for _, c := range d.numeric {
		missing += d.rows - int(c.present.GetCardinality())
	}
	for _, c := range d.categorical {
		missing += d.rows - int(c.present.GetCardinality())
	}
	return missing
}

// recordUnfilled reports every entry still missing after the run; these are
// the fields imputation declined to fill for lack of qualifying neighbors.
func (d *Dataset) recordUnfilled() {
	for _, c := range d.numeric {
		for gap := d.rows - int(c.present.GetCardinality()); gap > 0; gap-- {
			d.opts.metrics.RecordInsufficientNeighbors(c.name)
		}
	}
	for _, c := range d.categorical {
		for gap := d.rows - int(c.present.GetCardinality()); gap > 0; gap-- {
			d.opts.metrics.RecordInsufficientNeighbors(c.name)
		}
	}
}

// dimension is one comparable axis of the distance space: a column's values,
// its presence, and the standardization parameters for the current pass.
type dimension struct {
	values  []float64
	present *roaring.Bitmap
	mean    float64
	invStd  float64 // 0 for constant columns, which carry no signal
}

// target is one imputable column.
type target struct {
	values      []float64
	present     *roaring.Bitmap
	categorical bool
}

// stagedWrite is one imputed field, applied at the pass barrier.
type stagedWrite struct {
	target int
	row    int
	value  float64
}

func (d *Dataset) imputePass(ctx context.Context, k int, useCategorical bool) (int, error) {
	dims := d.distanceDimensions(useCategorical)
	targets := d.imputeTargets()

	// Rows that need work this pass.
	var rows []int
	for r := 0; r < d.rows; r++ {
		for _, t := range targets {
			if !t.present.Contains(uint32(r)) {
				rows = append(rows, r)
				break
			}
		}
	}
	if len(rows) == 0 {
		return 0, nil
	}

	// All searches read the pass-start state; staged results are applied
	// after the barrier, so per-row searches are independent.
	staged := make([][]stagedWrite, len(rows))

	if d.opts.parallelism > 1 {
		g, _ := errgroup.WithContext(ctx)
		g.SetLimit(d.opts.parallelism)
		for i, r := range rows {
			g.Go(func() error {
				staged[i] = imputeRow(r, d.rows, k, dims, targets)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return 0, err
		}
	} else {
		for i, r := range rows {
			staged[i] = imputeRow(r, d.rows, k, dims, targets)
		}
	}

	filled := 0
	for _, writes := range staged {
		for _, w := range writes {
			t := targets[w.target]
			t.values[w.row] = w.value
			t.present.Add(uint32(w.row))
			filled++
		}
	}
	return filled, nil
}

// distanceDimensions builds the standardized distance space for one pass.
func (d *Dataset) distanceDimensions(useCategorical bool) []dimension {
	var dims []dimension
	add := func(values []float64, present *roaring.Bitmap) {
		mean, std := meanStd(values, present)
		dim := dimension{values: values, present: present, mean: mean}
		if std > 0 {
			dim.invStd = 1 / std
		}
		dims = append(dims, dim)
	}

	for _, c := range d.numeric {
		add(c.values, c.present)
	}
	if useCategorical {
		for _, c := range d.categorical {
			add(c.codes, c.present)
		}
	}
	return dims
}

func (d *Dataset) imputeTargets() []target {
	targets := make([]target, 0, len(d.numeric)+len(d.categorical))
	for _, c := range d.numeric {
		targets = append(targets, target{values: c.values, present: c.present})
	}
	for _, c := range d.categorical {
		targets = append(targets, target{values: c.codes, present: c.present, categorical: true})
	}
	return targets
}

func meanStd(values []float64, present *roaring.Bitmap) (mean, std float64) {
	n := int(present.GetCardinality())
	if n == 0 {
		return 0, 0
	}

	var sum float64
	it := present.Iterator()
	for it.HasNext() {
		sum += values[it.Next()]
	}
	mean = sum / float64(n)

	if n < 2 {
		return mean, 0
	}
	var ss float64
	it = present.Iterator()
	for it.HasNext() {
		dv := values[it.Next()] - mean
		ss += dv * dv
	}
	return mean, math.Sqrt(ss / float64(n-1))
}

type neighbor struct {
	row  int
	dist float64
}

// imputeRow computes staged writes for every missing field of row r against
// the pass-start state.
func imputeRow(r, rows, k int, dims []dimension, targets []target) []stagedWrite {
	neighbors := rankNeighbors(r, rows, dims)

	var writes []stagedWrite
	for ti := range targets {
		t := &targets[ti]
		if t.present.Contains(uint32(r)) {
			continue
		}

		value, ok := estimate(neighbors, t, k)
		if !ok {
			continue // stays missing; accounted for after the run
		}
		writes = append(writes, stagedWrite{target: ti, row: r, value: value})
	}
	return writes
}

// rankNeighbors computes the normalized distance from row r to every other
// row and returns candidates ordered by ascending distance, ties broken by
// row index for determinism. Rows sharing no present dimension with r are
// not candidates.
func rankNeighbors(r, rows int, dims []dimension) []neighbor {
	neighbors := make([]neighbor, 0, rows-1)
	for c := 0; c < rows; c++ {
		if c == r {
			continue
		}

		var sum float64
		shared := 0
		for i := range dims {
			dim := &dims[i]
			if dim.invStd == 0 {
				continue
			}
			if !dim.present.Contains(uint32(r)) || !dim.present.Contains(uint32(c)) {
				continue
			}
			diff := (dim.values[r] - dim.values[c]) * dim.invStd
			sum += diff * diff
			shared++
		}
		if shared == 0 {
			continue
		}
		neighbors = append(neighbors, neighbor{row: c, dist: sum / float64(shared)})
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].dist != neighbors[j].dist {
			return neighbors[i].dist < neighbors[j].dist
		}
		return neighbors[i].row < neighbors[j].row
	})
	return neighbors
}

// estimate aggregates the k nearest candidates holding a value for the
// target field: mean for numeric fields, majority code for categorical
// fields with ties going to the lowest code. ok is false when fewer than k
// qualifying neighbors exist.
func estimate(neighbors []neighbor, t *target, k int) (float64, bool) {
	found := 0
	var sum float64
	counts := make(map[float64]int)

	for _, n := range neighbors {
		if !t.present.Contains(uint32(n.row)) {
			continue
		}
		v := t.values[n.row]
		if t.categorical {
			counts[v]++
		} else {
			sum += v
		}
		found++
		if found == k {
			break
		}
	}
	if found < k {
		return 0, false
	}

	if !t.categorical {
		return sum / float64(k), true
	}

	best := math.Inf(1)
	bestCount := 0
	for code, count := range counts {
		if count > bestCount || (count == bestCount && code < best) {
			best = code
			bestCount = count
		}
	}
	return best, true
}
