package estimate

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
)

// Record is one historical delivery used to fit the transit-time model.
type Record struct {
	DistanceMiles float64
	WeightKg      float64
	TransitDays   float64
}

// Estimator predicts transit days from distance and weight with an
// ordinary least-squares fit over completed deliveries.
type Estimator struct {
	b0, b1, b2 float64
	samples    int
}

// Load reads the historical delivery CSV and fits the model. Expected
// columns: Distance_miles, Weight_kg, Transit_Days, Status; only rows
// with status Delivered or Delayed are used.
func Load(path string) (*Estimator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open delivery history: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read delivery history: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("delivery history %s has no data rows", path)
	}

	cols := map[string]int{}
	for i, name := range rows[0] {
		cols[name] = i
	}
	maxCol := 0
	for _, required := range []string{"Distance_miles", "Weight_kg", "Transit_Days", "Status"} {
		idx, ok := cols[required]
		if !ok {
			return nil, fmt.Errorf("delivery history missing column %s", required)
		}
		if idx > maxCol {
			maxCol = idx
		}
	}

	var records []Record
	for _, row := range rows[1:] {
		// Ragged rows are skipped like any other unusable record.
		if len(row) <= maxCol {
			continue
		}
		status := row[cols["Status"]]
		if status != "Delivered" && status != "Delayed" {
			continue
		}
		dist, err1 := strconv.ParseFloat(row[cols["Distance_miles"]], 64)
		weight, err2 := strconv.ParseFloat(row[cols["Weight_kg"]], 64)
		days, err3 := strconv.ParseFloat(row[cols["Transit_Days"]], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		records = append(records, Record{DistanceMiles: dist, WeightKg: weight, TransitDays: days})
	}

	return Fit(records)
}

// Fit computes the least-squares coefficients from the given records.
func Fit(records []Record) (*Estimator, error) {
	if len(records) < 3 {
		return nil, fmt.Errorf("need at least 3 usable records, have %d", len(records))
	}

	// Normal equations for y = b0 + b1*x1 + b2*x2.
	var m [3][4]float64
	for _, r := range records {
		x := [3]float64{1, r.DistanceMiles, r.WeightKg}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				m[i][j] += x[i] * x[j]
			}
			m[i][3] += x[i] * r.TransitDays
		}
	}

	coef, err := solve3(m)
	if err != nil {
		return nil, err
	}
	return &Estimator{b0: coef[0], b1: coef[1], b2: coef[2], samples: len(records)}, nil
}

// Samples reports how many historical deliveries the fit used.
func (e *Estimator) Samples() int { return e.samples }

// Estimate predicts transit days for the given distance and weight,
// floored at one day and rounded to a tenth.
func (e *Estimator) Estimate(distanceMiles, weightKg float64) float64 {
	days := e.b0 + e.b1*distanceMiles + e.b2*weightKg
	if days < 1.0 {
		days = 1.0
	}
	return math.Round(days*10) / 10
}

// solve3 runs Gaussian elimination with partial pivoting on a 3x4
// augmented matrix.
func solve3(m [3][4]float64) ([3]float64, error) {
	for col := 0; col < 3; col++ {
		pivot := col
		for row := col + 1; row < 3; row++ {
			if math.Abs(m[row][col]) > math.Abs(m[pivot][col]) {
				pivot = row
			}
		}
		m[col], m[pivot] = m[pivot], m[col]
		if math.Abs(m[col][col]) < 1e-12 {
			return [3]float64{}, fmt.Errorf("degenerate delivery history, cannot fit model")
		}
		for row := 0; row < 3; row++ {
			if row == col {
				continue
			}
			factor := m[row][col] / m[col][col]
			for k := col; k < 4; k++ {
				m[row][k] -= factor * m[col][k]
			}
		}
	}
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = m[i][3] / m[i][i]
	}
	return out, nil
}
