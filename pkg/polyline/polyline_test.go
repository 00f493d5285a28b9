package polyline

import (
	"math"
	"testing"
)

func pointsEqual(a, b Point, tol float64) bool {
	return math.Abs(a.Lat-b.Lat) <= tol && math.Abs(a.Lon-b.Lon) <= tol
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		want    []Point
	}{
		{
			name:    "single point",
			encoded: "_p~iF~ps|U",
			want:    []Point{{Lat: 38.5, Lon: -120.2}},
		},
		{
			name:    "google reference example",
			encoded: "_p~iF~ps|U_ulLnnqC_mqNvxq`@",
			want: []Point{
				{Lat: 38.5, Lon: -120.2},
				{Lat: 40.7, Lon: -120.95},
				{Lat: 43.252, Lon: -126.453},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode(tt.encoded)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d points, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if !pointsEqual(got[i], tt.want[i], 1e-5) {
					t.Errorf("point %d: expected %+v, got %+v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestDecode_Empty(t *testing.T) {
	if got := Decode(""); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestDecode_TruncatedInput(t *testing.T) {
	// Dropping the last byte leaves a partial value; decoder must not panic
	// and must keep the complete prefix.
	full := Decode("_p~iF~ps|U_ulLnnqC")
	got := Decode("_p~iF~ps|U_ulLnnq")
	if len(got) >= len(full) {
		t.Errorf("expected fewer points than %d, got %d", len(full), len(got))
	}
	if len(got) > 0 && !pointsEqual(got[0], full[0], 1e-9) {
		t.Errorf("prefix mismatch: %+v vs %+v", got[0], full[0])
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	paths := [][]Point{
		{{Lat: 35.6586, Lon: 139.7454}},
		{
			{Lat: 35.6586, Lon: 139.7454},
			{Lat: 35.6606, Lon: 139.7290},
			{Lat: 35.6654, Lon: 139.7121},
		},
		{
			{Lat: -33.8688, Lon: 151.2093},
			{Lat: -33.8712, Lon: 151.2001},
		},
	}

	for _, path := range paths {
		got := Decode(Encode(path))
		if len(got) != len(path) {
			t.Fatalf("round trip lost points: %d -> %d", len(path), len(got))
		}
		for i := range got {
			if !pointsEqual(got[i], path[i], 1e-5) {
				t.Errorf("point %d: expected %+v, got %+v", i, path[i], got[i])
			}
		}
	}
}

func TestEncode_Empty(t *testing.T) {
	if got := Encode(nil); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestHaversine(t *testing.T) {
	// Tokyo Tower to Tokyo Station, roughly 3.2km.
	a := Point{Lat: 35.6586, Lon: 139.7454}
	b := Point{Lat: 35.6812, Lon: 139.7671}
	d := Haversine(a, b)
	if d < 3000 || d > 3500 {
		t.Errorf("expected ~3.2km, got %.0fm", d)
	}

	if d := Haversine(a, a); d != 0 {
		t.Errorf("identical points: expected 0, got %f", d)
	}
}

func TestLengthMeters(t *testing.T) {
	if got := LengthMeters(nil); got != 0 {
		t.Errorf("nil path: expected 0, got %f", got)
	}
	if got := LengthMeters([]Point{{Lat: 1, Lon: 1}}); got != 0 {
		t.Errorf("single point: expected 0, got %f", got)
	}

	path := []Point{
		{Lat: 35.6586, Lon: 139.7454},
		{Lat: 35.6812, Lon: 139.7671},
	}
	direct := Haversine(path[0], path[1])
	if got := LengthMeters(path); math.Abs(got-direct) > 1e-9 {
		t.Errorf("two-point path: expected %f, got %f", direct, got)
	}
}
