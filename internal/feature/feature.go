// Package feature turns raw customer tables into model-ready frames and owns
// the numeric/categorical encoding pipeline shared by training and inference.
package feature

import (
	"math"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/churn-cli/internal/dataset"
)

// StatusColumn carries the customer lifecycle label.
const StatusColumn = "Customer_Status"

// labelColumn may appear in already-scored files and must never reach the model.
const labelColumn = "Churn"

const monthlyChargeColumn = "Monthly_Charge"

// NumericColumns is the fixed set of columns coerced to numbers; every other
// surviving column is treated as categorical.
var NumericColumns = []string{
	"Age",
	"Number_of_Referrals",
	"Tenure_in_Months",
	monthlyChargeColumn,
	"Total_Charges",
	"Total_Refunds",
	"Total_Extra_Data_Charges",
	"Total_Long_Distance_Charges",
	"Total_Revenue",
}

// dropAlways lists columns excluded from both training and inference:
// the identifier, two leakage text columns, and any pre-existing prediction.
var dropAlways = []string{
	"Customer_ID",
	"Churn_Category",
	"Churn_Reason",
	"Customer_Status_Predicted",
}

var numericSet = func() map[string]bool {
	m := make(map[string]bool, len(NumericColumns))
	for _, c := range NumericColumns {
		m[c] = true
	}
	return m
}()

// Frame is the column-partitioned view of a prepared table. Numeric values
// use NaN as the missing marker, categorical values use the empty string.
type Frame struct {
	NumCols []string
	Num     [][]float64 // column-major, parallel to NumCols
	CatCols []string
	Cat     [][]string // column-major, parallel to CatCols
	n       int
}

// Rows returns the row count.
func (f Frame) Rows() int { return f.n }

// NumericColumn returns the named numeric column.
func (f Frame) NumericColumn(name string) ([]float64, bool) {
	for i, c := range f.NumCols {
		if c == name {
			return f.Num[i], true
		}
	}
	return nil, false
}

// CategoricalColumn returns the named categorical column.
func (f Frame) CategoricalColumn(name string) ([]string, bool) {
	for i, c := range f.CatCols {
		if c == name {
			return f.Cat[i], true
		}
	}
	return nil, false
}

// PrepareTrainingFrame filters rows to the two labeled statuses, derives the
// binary label (1 = Churned, 0 = Stayed), drops the status and leakage
// columns, coerces numerics, and returns the frame together with an unfitted
// encoder built from the resulting column partition.
func PrepareTrainingFrame(t dataset.Table) (Frame, []float64, *Encoder, error) {
	statusIdx, ok := t.Col(StatusColumn)
	if !ok {
		return Frame{}, nil, nil, eris.Errorf("feature: training data has no %s column", StatusColumn)
	}

	labeled := t.Filter(func(row []string) bool {
		return row[statusIdx] == "Stayed" || row[statusIdx] == "Churned"
	})

	y := make([]float64, labeled.NumRows())
	status := labeled.Column(StatusColumn)
	for i, s := range status {
		if s == "Churned" {
			y[i] = 1
		}
	}

	x := labeled.DropColumns(append([]string{StatusColumn}, dropAlways...)...)
	frame := buildFrame(x)
	return frame, y, NewEncoder(frame.NumCols, frame.CatCols), nil
}

// PrepareInferenceFrame drops label, status, and leakage columns (absent ones
// are silently ignored) and coerces numerics. It succeeds on production data
// that carries no label or status column at all.
func PrepareInferenceFrame(t dataset.Table) (Frame, error) {
	x := t.DropColumns(append([]string{labelColumn, StatusColumn}, dropAlways...)...)
	if x.NumCols() == 0 {
		return Frame{}, eris.New("feature: no usable columns after drop")
	}
	return buildFrame(x), nil
}

func buildFrame(t dataset.Table) Frame {
	f := Frame{n: t.NumRows()}
	for _, col := range t.Columns() {
		if numericSet[col] {
			f.NumCols = append(f.NumCols, col)
			f.Num = append(f.Num, coerceNumeric(col, t.Column(col)))
		} else {
			f.CatCols = append(f.CatCols, col)
			f.Cat = append(f.Cat, t.Column(col))
		}
	}
	return f
}

// coerceNumeric maps unparsable cells to NaN. A negative monthly charge is a
// data-entry error and is treated the same as a blank cell.
func coerceNumeric(col string, vals []string) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			out[i] = math.NaN()
			continue
		}
		if col == monthlyChargeColumn && x < 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = x
	}
	return out
}
