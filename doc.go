// Package survgo manages tabular biomedical/survival datasets that mix
// numeric and categorical (factor) columns.
//
// It parses delimited files, infers or loads categorical encodings, cleans
// and imputes missing values, and persists both data and factor metadata so
// downstream modeling is reproducible.
//
// # Quick Start
//
//	ctx := context.Background()
//	ds, err := survgo.FromFile(ctx, "pbmc3k/meta.tsv",
//	    survgo.WithCategorical("cluster", "sex", "condition"),
//	    survgo.WithFactorsFile("pbmc3k/factors.json"),
//	)
//
// The factor definition file is JSON: one entry per factor with its levels,
// numeric codes, optional raw-token aliases, and one-hot flag. When the file
// does not exist it is generated from the data, so it can be reviewed and
// adjusted before the next run.
//
// # Cleaning and Imputation
//
//	features, _ := ds.CompleteFeatures(0.1)       // columns with <= 10% missing
//	ds.DropIncompleteRows(features)               // or keep rows and impute:
//	ds.ImputeKNN(ctx, 5, 3, true)                 // k=5, up to 3 passes
//
// KNN imputation fills a missing field from the k most similar rows,
// comparing only dimensions present on both sides and standardizing columns
// so scale does not dominate. Fields with too few qualifying neighbors stay
// missing; already-present values are never altered.
//
// # Splitting and Export
//
//	train, test, _ := ds.TrainTestSplit(ctx, 0.8)
//	_ = train.WriteFile(ctx, "train.tsv.gz")
//	_ = test.WriteFile(ctx, "test.tsv.gz")
//
// Factors flagged one_hot expand to per-level indicator columns on export.
// Files read and written through a blobstore.Store, so the same code runs
// against the local filesystem, S3, or MinIO; ".gz", ".zst" and ".lz4"
// extensions compress transparently.
package survgo
