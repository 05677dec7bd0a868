package ephemeris

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mr1hm/iss-tracker/internal/models"
)

// The root element name is not checked; NASA publishes <ndm><oem>...</oem></ndm>.
type oemFeed struct {
	OEM *oemMessage `xml:"oem"`
}

type oemMessage struct {
	Header *fieldsNode `xml:"header"`
	Body   *oemBody    `xml:"body"`
}

type oemBody struct {
	Segment *oemSegment `xml:"segment"`
}

type oemSegment struct {
	Metadata *fieldsNode `xml:"metadata"`
	Data     *oemData    `xml:"data"`
}

type oemData struct {
	Comments     []string          `xml:"COMMENT"`
	StateVectors []stateVectorNode `xml:"stateVector"`
}

type fieldsNode struct {
	Children []fieldNode `xml:",any"`
}

type fieldNode struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type stateVectorNode struct {
	Epoch string     `xml:"EPOCH"`
	X     *valueNode `xml:"X"`
	Y     *valueNode `xml:"Y"`
	Z     *valueNode `xml:"Z"`
	XDot  *valueNode `xml:"X_DOT"`
	YDot  *valueNode `xml:"Y_DOT"`
	ZDot  *valueNode `xml:"Z_DOT"`
}

type valueNode struct {
	Units string `xml:"units,attr"`
	Value string `xml:",chardata"`
}

// Parse decodes an OEM XML document. Any structural problem or non-numeric
// coordinate fails the whole feed with a *FormatError.
func Parse(raw []byte) (*models.Document, error) {
	var feed oemFeed
	if err := xml.NewDecoder(bytes.NewReader(raw)).Decode(&feed); err != nil {
		return nil, &FormatError{Reason: "error decoding xml", Err: err}
	}

	switch {
	case feed.OEM == nil:
		return nil, &FormatError{Reason: "missing oem element"}
	case feed.OEM.Body == nil:
		return nil, &FormatError{Reason: "missing oem body"}
	case feed.OEM.Body.Segment == nil:
		return nil, &FormatError{Reason: "missing body segment"}
	case feed.OEM.Body.Segment.Data == nil:
		return nil, &FormatError{Reason: "missing segment data"}
	}

	segment := feed.OEM.Body.Segment
	if len(segment.Data.StateVectors) == 0 {
		return nil, &FormatError{Reason: "segment data has no stateVector"}
	}

	doc := models.EmptyDocument()
	doc.Header = feed.OEM.Header.fields()
	doc.Metadata = segment.Metadata.fields()
	for _, c := range segment.Data.Comments {
		doc.Comments = append(doc.Comments, strings.TrimSpace(c))
	}

	doc.States = make([]models.StateVector, 0, len(segment.Data.StateVectors))
	for i, node := range segment.Data.StateVectors {
		sv, err := node.toStateVector()
		if err != nil {
			return nil, &FormatError{Reason: fmt.Sprintf("stateVector %d", i), Err: err}
		}
		doc.States = append(doc.States, sv)
	}

	return doc, nil
}

func (n *fieldsNode) fields() models.Fields {
	f := models.Fields{}
	if n == nil {
		return f
	}
	for _, child := range n.Children {
		f.Add(child.XMLName.Local, strings.TrimSpace(child.Value))
	}
	return f
}

func (n stateVectorNode) toStateVector() (models.StateVector, error) {
	ts := strings.TrimSpace(n.Epoch)
	if ts == "" {
		return models.StateVector{}, fmt.Errorf("missing EPOCH")
	}
	epoch, err := time.Parse(models.EpochLayout, ts)
	if err != nil {
		return models.StateVector{}, fmt.Errorf("invalid EPOCH %q: %w", ts, err)
	}

	var values [6]float64
	leaves := [6]struct {
		name string
		node *valueNode
	}{
		{"X", n.X}, {"Y", n.Y}, {"Z", n.Z},
		{"X_DOT", n.XDot}, {"Y_DOT", n.YDot}, {"Z_DOT", n.ZDot},
	}
	for i, leaf := range leaves {
		if leaf.node == nil {
			return models.StateVector{}, fmt.Errorf("%s: missing %s", ts, leaf.name)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(leaf.node.Value), 64)
		if err != nil {
			return models.StateVector{}, fmt.Errorf("%s: %s: %w", ts, leaf.name, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return models.StateVector{}, fmt.Errorf("%s: %s is not finite", ts, leaf.name)
		}
		values[i] = v
	}

	return models.StateVector{
		Timestamp: ts,
		Epoch:     epoch,
		Position:  models.Position{X: values[0], Y: values[1], Z: values[2]},
		Velocity:  models.Velocity{XDot: values[3], YDot: values[4], ZDot: values[5]},
	}, nil
}
