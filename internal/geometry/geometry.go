// Package geometry derives speed and ground-track positions from J2000 state
// vectors.
//
// SubSatellitePoint is a coarse estimate: it treats the Earth as a sphere and
// approximates Earth rotation from the hour and minute of the epoch only.
// Geodetic gives a WGS-84 estimate using GMST for comparison.
package geometry

import (
	"fmt"
	"math"
	"strconv"

	"github.com/mr1hm/iss-tracker/internal/models"
)

const (
	EarthMeanRadius = 6371.0 // km
	degreesPerHour  = 360.0 / 24.0
	longitudeOffset = 5.0 // empirical, degrees
)

type Point struct {
	Latitude  float64
	Longitude float64
	Altitude  float64 // km
}

func Speed(v models.Velocity) float64 {
	return math.Sqrt(v.XDot*v.XDot + v.YDot*v.YDot + v.ZDot*v.ZDot)
}

// SubSatellitePoint estimates latitude, longitude and altitude under the
// spacecraft. The hour and minute are read from fixed positions of an
// ordinal-date timestamp (YYYY-DDDThh:mm...).
func SubSatellitePoint(p models.Position, timestamp string) (Point, error) {
	hour, minute, err := clockFromTimestamp(timestamp)
	if err != nil {
		return Point{}, err
	}

	lat := degrees(math.Atan2(p.Z, math.Sqrt(p.X*p.X+p.Y*p.Y)))
	alt := math.Sqrt(p.X*p.X+p.Y*p.Y+p.Z*p.Z) - EarthMeanRadius
	lon := degrees(math.Atan2(p.Y, p.X)) - ((float64(hour)-12)+float64(minute)/60)*degreesPerHour + longitudeOffset

	return Point{
		Latitude:  lat,
		Longitude: WrapLongitude(lon),
		Altitude:  alt,
	}, nil
}

// WrapLongitude folds lon back into [-180, 180] with a single step. Values
// more than 360 degrees out of range stay out of range.
func WrapLongitude(lon float64) float64 {
	if lon > 180 {
		return -180 + (lon - 180)
	}
	if lon < -180 {
		return 180 + (lon + 180)
	}
	return lon
}

func clockFromTimestamp(ts string) (hour, minute int, err error) {
	if len(ts) < 14 || ts[8] != 'T' || ts[11] != ':' {
		return 0, 0, fmt.Errorf("timestamp %q is not in YYYY-DDDThh:mm form", ts)
	}
	hour, err = strconv.Atoi(ts[9:11])
	if err != nil {
		return 0, 0, fmt.Errorf("timestamp %q: invalid hour: %w", ts, err)
	}
	minute, err = strconv.Atoi(ts[12:14])
	if err != nil {
		return 0, 0, fmt.Errorf("timestamp %q: invalid minute: %w", ts, err)
	}
	return hour, minute, nil
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
