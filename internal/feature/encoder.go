package feature

import (
	"fmt"
	"math"
	"sort"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/mat"
)

// Encoder imputes and encodes a Frame into a dense numeric matrix. Numeric
// columns impute missing values with the fit-time median; categorical columns
// impute with the fit-time mode and expand to a fixed-width indicator
// encoding. Once fitted, output width and column order never change: a
// category unseen at fit time encodes as all zeros for its group.
type Encoder struct {
	NumCols    []string   `json:"numeric_columns"`
	Medians    []float64  `json:"medians"`
	CatCols    []string   `json:"categorical_columns"`
	Modes      []string   `json:"modes"`
	Categories [][]string `json:"categories"`
	Fitted     bool       `json:"fitted"`
}

// NewEncoder builds an unfitted encoder over the given column partition.
func NewEncoder(numCols, catCols []string) *Encoder {
	return &Encoder{NumCols: numCols, CatCols: catCols}
}

// Fit learns medians, modes, and category vocabularies from the frame.
func (e *Encoder) Fit(f Frame) error {
	if f.Rows() == 0 {
		return eris.New("feature: cannot fit encoder on empty frame")
	}

	e.Medians = make([]float64, len(e.NumCols))
	for i, col := range e.NumCols {
		vals, ok := f.NumericColumn(col)
		if !ok {
			return eris.Errorf("feature: fit frame missing numeric column %s", col)
		}
		e.Medians[i] = median(vals)
	}

	e.Modes = make([]string, len(e.CatCols))
	e.Categories = make([][]string, len(e.CatCols))
	for i, col := range e.CatCols {
		vals, ok := f.CategoricalColumn(col)
		if !ok {
			return eris.Errorf("feature: fit frame missing categorical column %s", col)
		}
		e.Modes[i] = mode(vals)

		seen := make(map[string]bool)
		for _, v := range vals {
			if v == "" {
				v = e.Modes[i]
			}
			seen[v] = true
		}
		cats := make([]string, 0, len(seen))
		for v := range seen {
			cats = append(cats, v)
		}
		sort.Strings(cats)
		e.Categories[i] = cats
	}

	e.Fitted = true
	return nil
}

// Width returns the fitted output column count.
func (e *Encoder) Width() int {
	w := len(e.NumCols)
	for _, cats := range e.Categories {
		w += len(cats)
	}
	return w
}

// Transform encodes the frame into an n x Width dense matrix. Columns absent
// from the frame are treated as entirely missing and imputed; unknown
// categorical values produce a zero indicator group. Neither case errors.
func (e *Encoder) Transform(f Frame) (*mat.Dense, error) {
	if !e.Fitted {
		return nil, eris.New("feature: encoder is not fitted")
	}
	n := f.Rows()
	if n == 0 {
		return nil, eris.New("feature: cannot transform empty frame")
	}

	out := mat.NewDense(n, e.Width(), nil)

	for j, col := range e.NumCols {
		vals, ok := f.NumericColumn(col)
		for i := 0; i < n; i++ {
			v := e.Medians[j]
			if ok && !math.IsNaN(vals[i]) {
				v = vals[i]
			}
			out.Set(i, j, v)
		}
	}

	offset := len(e.NumCols)
	for j, col := range e.CatCols {
		vals, ok := f.CategoricalColumn(col)
		index := make(map[string]int, len(e.Categories[j]))
		for k, c := range e.Categories[j] {
			index[c] = k
		}
		for i := 0; i < n; i++ {
			v := e.Modes[j]
			if ok && vals[i] != "" {
				v = vals[i]
			}
			if k, known := index[v]; known {
				out.Set(i, offset+k, 1)
			}
			// unknown category: the whole group stays zero
		}
		offset += len(e.Categories[j])
	}

	return out, nil
}

// FeatureNames returns one human-readable name per output column, in output
// order: numeric columns first, then one "Column=Value" entry per category.
func (e *Encoder) FeatureNames() []string {
	names := make([]string, 0, e.Width())
	names = append(names, e.NumCols...)
	for j, col := range e.CatCols {
		for _, c := range e.Categories[j] {
			names = append(names, fmt.Sprintf("%s=%s", col, c))
		}
	}
	return names
}

// median of the non-missing values; 0 when every value is missing so the
// fitted state stays JSON-encodable.
func median(vals []float64) float64 {
	clean := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return 0
	}
	sort.Float64s(clean)
	mid := len(clean) / 2
	if len(clean)%2 == 0 {
		return (clean[mid-1] + clean[mid]) / 2
	}
	return clean[mid]
}

// mode of the non-missing values; ties break to the lexicographically
// smallest value so fitting is deterministic.
func mode(vals []string) string {
	counts := make(map[string]int)
	for _, v := range vals {
		if v != "" {
			counts[v]++
		}
	}
	best, bestCount := "", -1
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best, bestCount = v, c
		}
	}
	return best
}
