// Package polyline implements Google's encoded polyline format (precision 5),
// used by OSRM and OpenRouteService for route geometries, plus small geodesic
// helpers for measuring them.
package polyline

import "math"

// Point is a geographic coordinate.
type Point struct {
	Lat float64
	Lon float64
}

const precision = 1e5

// Decode converts an encoded polyline into a sequence of points.
// Returns nil for an empty string. Truncated input yields the points
// decoded so far; a trailing partial value is dropped.
func Decode(encoded string) []Point {
	if encoded == "" {
		return nil
	}

	points := make([]Point, 0, len(encoded)/4)
	var lat, lon int64
	i := 0

	for i < len(encoded) {
		dLat, n, ok := readDelta(encoded[i:])
		if !ok {
			break
		}
		i += n

		dLon, n, ok := readDelta(encoded[i:])
		if !ok {
			break
		}
		i += n

		lat += dLat
		lon += dLon
		points = append(points, Point{
			Lat: float64(lat) / precision,
			Lon: float64(lon) / precision,
		})
	}

	return points
}

// readDelta decodes one zigzag varint from the head of s.
// Returns the delta, the number of bytes consumed, and whether the
// value was complete.
func readDelta(s string) (int64, int, bool) {
	var result int64
	var shift uint
	for i := 0; i < len(s); i++ {
		chunk := int64(s[i]) - 63
		result |= (chunk & 0x1f) << shift
		if chunk < 0x20 {
			if result&1 != 0 {
				return ^(result >> 1), i + 1, true
			}
			return result >> 1, i + 1, true
		}
		shift += 5
	}
	return 0, len(s), false
}

// Encode converts a sequence of points into an encoded polyline.
func Encode(points []Point) string {
	if len(points) == 0 {
		return ""
	}

	buf := make([]byte, 0, len(points)*6)
	var prevLat, prevLon int64

	for _, p := range points {
		lat := int64(math.Round(p.Lat * precision))
		lon := int64(math.Round(p.Lon * precision))
		buf = writeDelta(buf, lat-prevLat)
		buf = writeDelta(buf, lon-prevLon)
		prevLat, prevLon = lat, lon
	}

	return string(buf)
}

func writeDelta(buf []byte, v int64) []byte {
	v <<= 1
	if v < 0 {
		v = ^v
	}
	for v >= 0x20 {
		buf = append(buf, byte(0x20|(v&0x1f))+63)
		v >>= 5
	}
	return append(buf, byte(v)+63)
}

const earthRadiusM = 6371000.0

// Haversine returns the great-circle distance between two points in meters.
func Haversine(a, b Point) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180

	s1 := math.Sin(dLat / 2)
	s2 := math.Sin(dLon / 2)
	h := s1*s1 + math.Cos(lat1)*math.Cos(lat2)*s2*s2
	return 2 * earthRadiusM * math.Asin(math.Sqrt(h))
}

// LengthMeters returns the total length of the path in meters.
// Paths with fewer than two points have zero length.
func LengthMeters(points []Point) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += Haversine(points[i-1], points[i])
	}
	return total
}
