package survgo

import (
	"context"

	"github.com/hupe1980/survgo/util"
)

// TrainTestSplit partitions the dataset into disjoint train and test
// datasets. Each row is assigned independently: a uniform draw per row lands
// it in train with probability fraction, otherwise in test (per-row
// Bernoulli policy, not a fixed-count shuffle). The draw sequence comes from
// the seed configured with WithSeed, so a fixed seed reproduces the same
// split.
//
// Both outputs share the source's factor registry, preserve the relative
// order of their rows, and together account for every input row exactly
// once.
func (d *Dataset) TrainTestSplit(ctx context.Context, fraction float64) (train, test *Dataset, err error) {
	if fraction <= 0 || fraction >= 1 {
		return nil, nil, ErrInvalidFraction
	}

	rng := util.NewRNG(d.opts.seed)
	train = d.emptyLike()
	test = d.emptyLike()

	for r := 0; r < d.rows; r++ {
		if rng.Float64() < fraction {
			train.appendRow(d, r)
		} else {
			test.appendRow(d, r)
		}
	}

	d.opts.metrics.RecordSplit(train.rows, test.rows)
	d.opts.logger.LogSplit(ctx, train.rows, test.rows)
	return train, test, nil
}
