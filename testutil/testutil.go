// Package testutil provides fixture datasets for tests.
package testutil

import (
	"strings"
)

// CohortTSV is a small survival cohort in TSV form: two numeric columns
// (age, bmi) and two categorical columns (status, sex), with a few missing
// fields sprinkled in.
const CohortTSV = `age	bmi	status	sex
61	24.1	alive	M
58	27.9	dead	F
	22.5	alive	F
64	26.3	dead	M
59		alive	F
62	25.2	dead	M
`

// CohortCSV is CohortTSV with comma delimiters.
func CohortCSV() string {
	return strings.ReplaceAll(CohortTSV, "\t", ",")
}

// FactorsJSON is a hand-written factor definition file matching CohortTSV,
// with alias matching and custom numeric codes for status.
const FactorsJSON = `[
  {"column":"status","levels":["alive","dead"],"numeric":[0,1],"matching":{"deceased":"dead","living":"alive"},"one_hot":false},
  {"column":"sex","levels":["M","F"],"numeric":[0,1],"matching":{"Male":"M","Female":"F"},"one_hot":true}
]`
