package fixedpoint

import "testing"

func TestDegreeRoundTrip(t *testing.T) {
	t.Parallel()
	cases := []float64{0, 1, -1, 52.5170365, -122.4194155, 90, -90, 179.9999999}
	for _, deg := range cases {
		got := DecodeDegree(EncodeDegree(deg))
		if diff := got - deg; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("round trip %v -> %v, diff %v", deg, got, diff)
		}
	}
}

func TestDistRoundTrip(t *testing.T) {
	t.Parallel()
	cases := []float64{0, 1, 0.001, 111000, 1234.5678}
	for _, m := range cases {
		got := DecodeDist(EncodeDist(m))
		if diff := got - m; diff > 5e-4 || diff < -5e-4 {
			t.Errorf("round trip %v -> %v, diff %v", m, got, diff)
		}
	}
}

func TestEncodeDegreeQuantum(t *testing.T) {
	t.Parallel()
	a := EncodeDegree(1.0000000)
	b := EncodeDegree(1.0000001)
	if b-a != 1 {
		t.Errorf("expected adjacent quantum step of 1, got %d", b-a)
	}
}
