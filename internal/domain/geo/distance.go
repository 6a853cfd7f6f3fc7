// Package geo holds great-circle math over WGS84 degrees.
package geo

import "math"

// EarthRadiusMeters is the mean Earth radius.
const EarthRadiusMeters = 6_371_000.0

// DegreesPerKm approximates one kilometre of arc in degrees.
const DegreesPerKm = 0.009

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// hav is the haversine function sin²(θ/2).
func hav(theta float64) float64 {
	s := math.Sin(theta / 2)
	return s * s
}

// DistanceMeters is the haversine distance between two points.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	p1, p2 := radians(lat1), radians(lat2)
	h := hav(p2-p1) + math.Cos(p1)*math.Cos(p2)*hav(radians(lon2-lon1))
	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(min(h, 1)))
}

// DistanceKm is DistanceMeters in kilometres.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	return DistanceMeters(lat1, lon1, lat2, lon2) / 1000
}

// ValidCoordinates reports whether lat is in [-90,90] and lon in [-180,180].
func ValidCoordinates(lat, lon float64) bool {
	return math.Abs(lat) <= 90 && math.Abs(lon) <= 180
}

// SquareRing is a closed [lon, lat] ring around a point with half-side
// radiusKm. Both axes use DegreesPerKm, so it is coarse away from the equator.
func SquareRing(lat, lon, radiusKm float64) [][2]float64 {
	d := radiusKm * DegreesPerKm
	west, east, south, north := lon-d, lon+d, lat-d, lat+d
	return [][2]float64{{west, south}, {east, south}, {east, north}, {west, north}, {west, south}}
}
