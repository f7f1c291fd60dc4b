// Package dataset loads chart data files.
//
// A data file is YAML or JSON:
//
//	labels: [X, A, B]
//	rows:
//	  - [10, 1, null]
//	  - [11, 2, 5]
//
// The first label names the x column, the rest name series. A null cell is a
// missing value.
package dataset

import (
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/iafilius/chartviewport/src/logging"
	"github.com/iafilius/chartviewport/src/types"
)

// Table is the decoded form of a data file.
type Table struct {
	Labels []string     `yaml:"labels" json:"labels"`
	Rows   [][]*float64 `yaml:"rows" json:"rows"`
}

// Load reads and converts the data file at path.
func Load(path string) ([]types.Series, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data %s: %w", path, err)
	}
	s, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("data %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a data document.
func Parse(b []byte) ([]types.Series, error) {
	var t Table
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}
	return t.Series()
}

// Series converts the table into one series per y column, ordered by x.
// Rows with a null x are skipped.
func (t Table) Series() ([]types.Series, error) {
	if len(t.Labels) == 0 {
		if len(t.Rows) > 0 {
			return nil, fmt.Errorf("rows without labels")
		}
		return nil, nil
	}
	cols := len(t.Labels)
	rows := make([][]*float64, 0, len(t.Rows))
	for i, r := range t.Rows {
		if len(r) != cols {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i, len(r), cols)
		}
		if r[0] == nil || math.IsNaN(*r[0]) {
			logging.Warnf("dataset: row %d has no x value, skipped", i)
			continue
		}
		rows = append(rows, r)
	}
	sort.SliceStable(rows, func(i, j int) bool { return *rows[i][0] < *rows[j][0] })

	out := make([]types.Series, cols-1)
	for c := 1; c < cols; c++ {
		s := types.Series{Name: t.Labels[c], Points: make([]types.Point, 0, len(rows))}
		for _, r := range rows {
			y := math.NaN()
			if r[c] != nil {
				y = *r[c]
			}
			s.Points = append(s.Points, types.Point{X: *r[0], Y: y})
		}
		out[c-1] = s
	}
	return out, nil
}
