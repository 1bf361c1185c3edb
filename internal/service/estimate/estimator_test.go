package estimate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// exactFit builds records lying exactly on days = b0 + b1*dist + b2*weight
// so the recovered coefficients can be checked through predictions.
func exactFit(t *testing.T, b0, b1, b2 float64) *Estimator {
	t.Helper()
	points := []struct{ dist, weight float64 }{
		{100, 10}, {200, 5}, {300, 8}, {50, 2},
	}
	var records []Record
	for _, p := range points {
		records = append(records, Record{
			DistanceMiles: p.dist,
			WeightKg:      p.weight,
			TransitDays:   b0 + b1*p.dist + b2*p.weight,
		})
	}
	est, err := Fit(records)
	require.NoError(t, err)
	return est
}

func TestFitRecoversModel(t *testing.T) {
	est := exactFit(t, 0.5, 0.01, 0.05)

	require.Equal(t, 4, est.Samples())
	// 0.5 + 0.01*250 + 0.05*6 = 3.3
	require.InDelta(t, 3.3, est.Estimate(250, 6), 0.051)
}

func TestEstimateFloorAndRounding(t *testing.T) {
	est := exactFit(t, 0.2, 0.002, 0.01)

	// 0.2 + 0.002*10 + 0.01*1 = 0.23, floored to a one-day minimum.
	require.InDelta(t, 1.0, est.Estimate(10, 1), 0.001)

	// 0.2 + 0.002*1000 + 0.01*50 = 2.7, rounded to a tenth.
	require.InDelta(t, 2.7, est.Estimate(1000, 50), 0.051)
}

func TestFitRejectsTooFewRecords(t *testing.T) {
	_, err := Fit([]Record{
		{DistanceMiles: 100, WeightKg: 5, TransitDays: 2},
		{DistanceMiles: 200, WeightKg: 5, TransitDays: 3},
	})
	require.Error(t, err)
}

func TestFitRejectsDegenerateData(t *testing.T) {
	// Weight is a fixed multiple of distance; the system has no unique
	// solution.
	_, err := Fit([]Record{
		{DistanceMiles: 100, WeightKg: 10, TransitDays: 2},
		{DistanceMiles: 200, WeightKg: 20, TransitDays: 3},
		{DistanceMiles: 300, WeightKg: 30, TransitDays: 4},
		{DistanceMiles: 400, WeightKg: 40, TransitDays: 5},
	})
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	est, err := Load(filepath.Join("testdata", "teslimat_verisi.csv"))
	require.NoError(t, err)

	// Cancelled, unparsable and ragged rows are skipped.
	require.Equal(t, 8, est.Samples())

	days := est.Estimate(300, 10)
	require.GreaterOrEqual(t, days, 1.0)
	require.Less(t, days, 10.0)
}

func TestLoadSkipsRaggedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teslimat_verisi.csv")
	data := "Distance_miles,Weight_kg,Transit_Days,Status\n" +
		"120,4.5,2.1,Delivered\n" +
		"250,5\n" + // shorter than the header
		"340,12.0,4.6,Delivered\n" +
		"80\n" +
		"95,3.1,1.7,Delivered\n" +
		"150,5.0,2.4,Delivered\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	est, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 4, est.Samples())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "yok.csv"))
	require.Error(t, err)
}
