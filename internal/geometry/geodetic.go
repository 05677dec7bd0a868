package geometry

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/mr1hm/iss-tracker/internal/models"
)

// Geodetic converts an inertial position to WGS-84 latitude, longitude and
// altitude, rotating by GMST at epoch. J2000 is treated as equivalent to the
// true-of-date frame, which is good to a fraction of a degree for display.
func Geodetic(p models.Position, epoch time.Time) Point {
	t := epoch.UTC()
	gmst := satellite.GSTimeFromDate(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())

	alt, _, ll := satellite.ECIToLLA(satellite.Vector3{X: p.X, Y: p.Y, Z: p.Z}, gmst)

	lon := math.Mod(degrees(ll.Longitude), 360)
	if lon > 180 {
		lon -= 360
	} else if lon < -180 {
		lon += 360
	}

	return Point{
		Latitude:  degrees(ll.Latitude),
		Longitude: lon,
		Altitude:  alt,
	}
}
