package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mr1hm/iss-tracker/internal/models"
)

// formatFloat renders v in shortest round-trip form, keeping a trailing ".0"
// on integral values so 10 prints as 10.0.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".IN") {
		s += ".0"
	}
	return s
}

func writePositionVelocity(b *strings.Builder, p models.Position, v models.Velocity, indent string) {
	fmt.Fprintf(b, "%sPosition:\n", indent)
	fmt.Fprintf(b, "%s   x = %s\n", indent, formatFloat(p.X))
	fmt.Fprintf(b, "%s   y = %s\n", indent, formatFloat(p.Y))
	fmt.Fprintf(b, "%s   z = %s\n", indent, formatFloat(p.Z))
	fmt.Fprintf(b, "%sVelocity:\n", indent)
	fmt.Fprintf(b, "%s   x_dot = %s\n", indent, formatFloat(v.XDot))
	fmt.Fprintf(b, "%s   y_dot = %s\n", indent, formatFloat(v.YDot))
	fmt.Fprintf(b, "%s   z_dot = %s\n", indent, formatFloat(v.ZDot))
}

func writeStateVector(b *strings.Builder, sv models.StateVector) {
	fmt.Fprintf(b, "Timestamp: %s\n", sv.Timestamp)
	writePositionVelocity(b, sv.Position, sv.Velocity, "   ")
}

func formatEpochs(states []models.StateVector) string {
	var b strings.Builder
	b.WriteString("Epochs:\n")
	for _, sv := range states {
		writeStateVector(&b, sv)
	}
	return b.String()
}

func formatStateVector(sv models.StateVector) string {
	var b strings.Builder
	b.WriteString("State Vector:\n")
	writeStateVector(&b, sv)
	return b.String()
}

func formatSpeed(speed float64) string {
	return "Instantaneous Speed: " + formatFloat(speed) + "\n"
}

func formatNow(sv models.StateVector, speed float64, loc *models.Location) string {
	var b strings.Builder
	b.WriteString("Closest Epoch:\n")
	writeStateVector(&b, sv)
	b.WriteString(formatSpeed(speed))
	if loc != nil {
		b.WriteString("Location:\n")
		fmt.Fprintf(&b, "   Latitude = %s\n", formatFloat(loc.Latitude))
		fmt.Fprintf(&b, "   Longitude = %s\n", formatFloat(loc.Longitude))
		fmt.Fprintf(&b, "   Altitude = %s\n", formatFloat(loc.Altitude))
		fmt.Fprintf(&b, "   Geolocation = %s\n", loc.Geolocation)
	}
	return b.String()
}
