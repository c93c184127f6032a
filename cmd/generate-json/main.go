// Command generate-json converts a Seurat or AnnData meta.tsv file into a
// JSON factor definition file for downstream tools.
//
// The generated file encodes, per categorical column, the observed levels
// and their numeric codes, similar to R factor information. It can be edited
// afterwards to pin down exactly the factor setup you need; a later run is a
// no-op when the file already exists.
//
// Usage:
//
//	generate-json [flags] <input>
//
//	  # prepare the factors.json file for a tsv:
//	  generate-json pbmc3k/meta.tsv
//
//	  # comma delimiter (for CSV files):
//	  generate-json data/meta.csv -d ,
//
//	  # mark specific columns as categorical (numeric but treated as factors):
//	  generate-json data/meta.tsv -c cluster,sex,condition
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/hupe1980/survgo"
	"github.com/hupe1980/survgo/blobstore"
)

func main() {
	var (
		delimiter   string
		categorical string
		factorsFile string
	)
	flag.StringVar(&delimiter, "d", "\\t", "field delimiter: \\t, tab, comma or a single byte")
	flag.StringVar(&categorical, "c", "", "comma-separated list of categorical column names")
	flag.StringVar(&factorsFile, "f", "factors.json", "path for the factor definitions output")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: generate-json [flags] <input>\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	input := flag.Arg(0)

	delim, err := parseDelimiter(delimiter)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if _, err := os.Stat(factorsFile); err == nil {
		fmt.Println("factors file already exists - no need to run this.")
		return
	}

	var columns []string
	for _, c := range strings.Split(categorical, ",") {
		if c = strings.TrimSpace(c); c != "" {
			columns = append(columns, c)
		}
	}

	fmt.Printf("Input file: %s\n", input)
	fmt.Printf("Factors file: %s\n", factorsFile)
	fmt.Printf("Categorical cols: %v\n", columns)

	ctx := context.Background()
	_, err = survgo.FromFile(ctx, input,
		survgo.WithDelimiter(delim),
		survgo.WithCategorical(columns...),
		survgo.WithFactorsFile(factorsFile),
		survgo.WithBlobStore(blobstore.NewLocalStore("")),
		survgo.WithLogger(survgo.NewTextLogger(slog.LevelWarn)),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("JSON successfully written to %s\n", factorsFile)
}

func parseDelimiter(s string) (byte, error) {
	switch s {
	case "\\t", "tab", "\t":
		return '\t', nil
	case ",", "comma":
		return ',', nil
	default:
		if len(s) == 1 {
			return s[0], nil
		}
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
}
