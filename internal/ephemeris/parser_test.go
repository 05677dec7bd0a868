package ephemeris

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func loadSample(t *testing.T) []byte {
	t.Helper()
	raw, err := os.ReadFile("testdata/oem_sample.xml")
	if err != nil {
		t.Fatalf("failed to read sample feed: %v", err)
	}
	return raw
}

func oemWithData(data string) []byte {
	return []byte(`<ndm><oem><header><ORIGINATOR>JSC</ORIGINATOR></header><body><segment>` +
		`<metadata><OBJECT_NAME>ISS</OBJECT_NAME></metadata><data>` + data +
		`</data></segment></body></oem></ndm>`)
}

const singleStateVector = `<stateVector><EPOCH>2024-055T18:29:57.887687Z</EPOCH>` +
	`<X units="km">1.5</X><Y units="km">-2</Y><Z units="km">3</Z>` +
	`<X_DOT units="km/s">3</X_DOT><Y_DOT units="km/s">4</Y_DOT><Z_DOT units="km/s">0</Z_DOT></stateVector>`

func TestParse_SampleFeed(t *testing.T) {
	doc, err := Parse(loadSample(t))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(doc.States) != 4 {
		t.Fatalf("expected 4 states, got %d", len(doc.States))
	}
	if len(doc.Comments) != 3 {
		t.Errorf("expected 3 comments, got %d", len(doc.Comments))
	}
	if doc.Comments[2] != "MASS=461235.00" {
		t.Errorf("unexpected comment: %q", doc.Comments[2])
	}
	if doc.Header["ORIGINATOR"] != "JSC" {
		t.Errorf("expected originator JSC, got %v", doc.Header["ORIGINATOR"])
	}
	if doc.Metadata["REF_FRAME"] != "EME2000" {
		t.Errorf("expected ref frame EME2000, got %v", doc.Metadata["REF_FRAME"])
	}

	first := doc.States[0]
	if first.Timestamp != "2024-055T12:00:00.000Z" {
		t.Errorf("unexpected timestamp %q", first.Timestamp)
	}
	if first.Position.X != -5097.5111019655 || first.Velocity.ZDot != 6.0247616208 {
		t.Errorf("unexpected values: %+v", first)
	}
	want := time.Date(2024, time.February, 24, 12, 0, 0, 0, time.UTC)
	if !first.Epoch.Equal(want) {
		t.Errorf("expected epoch %v, got %v", want, first.Epoch)
	}
}

func TestParse_SingletonStateVector(t *testing.T) {
	doc, err := Parse(oemWithData(singleStateVector))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(doc.States) != 1 {
		t.Fatalf("expected 1 state, got %d", len(doc.States))
	}

	sv := doc.States[0]
	if sv.Timestamp != "2024-055T18:29:57.887687Z" {
		t.Errorf("timestamp not kept verbatim: %q", sv.Timestamp)
	}
	if sv.Epoch.Nanosecond() != 887687000 {
		t.Errorf("expected microseconds preserved, got %d ns", sv.Epoch.Nanosecond())
	}
	if sv.Position.X != 1.5 || sv.Velocity.YDot != 4 {
		t.Errorf("unexpected values: %+v", sv)
	}
	if doc.Comments == nil || len(doc.Comments) != 0 {
		t.Errorf("expected empty non-nil comments, got %#v", doc.Comments)
	}
}

func TestParse_RepeatedHeaderFieldBecomesList(t *testing.T) {
	raw := []byte(`<ndm><oem><header><COMMENT>a</COMMENT><COMMENT>b</COMMENT><ORIGINATOR>JSC</ORIGINATOR></header>` +
		`<body><segment><data>` + singleStateVector + `</data></segment></body></oem></ndm>`)

	doc, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	comments, ok := doc.Header["COMMENT"].([]string)
	if !ok || len(comments) != 2 || comments[1] != "b" {
		t.Errorf("expected header COMMENT list [a b], got %#v", doc.Header["COMMENT"])
	}
	if len(doc.Metadata) != 0 {
		t.Errorf("expected empty metadata, got %v", doc.Metadata)
	}
}

func TestParse_FormatErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty input", ""},
		{"not xml", "this is not xml"},
		{"missing oem", `<ndm><other/></ndm>`},
		{"missing body", `<ndm><oem><header/></oem></ndm>`},
		{"missing segment", `<ndm><oem><body/></oem></ndm>`},
		{"missing data", `<ndm><oem><body><segment><metadata/></segment></body></oem></ndm>`},
		{"no state vectors", string(oemWithData(`<COMMENT>only a comment</COMMENT>`))},
		{"non numeric", strings.Replace(string(oemWithData(singleStateVector)), ">1.5<", ">abc<", 1)},
		{"nan", strings.Replace(string(oemWithData(singleStateVector)), ">1.5<", ">NaN<", 1)},
		{"infinite", strings.Replace(string(oemWithData(singleStateVector)), ">1.5<", ">1e999<", 1)},
		{"missing leaf", strings.Replace(string(oemWithData(singleStateVector)), `<Z units="km">3</Z>`, "", 1)},
		{"missing epoch", strings.Replace(string(oemWithData(singleStateVector)), "<EPOCH>2024-055T18:29:57.887687Z</EPOCH>", "", 1)},
		{"bad epoch", strings.Replace(string(oemWithData(singleStateVector)), "2024-055T18", "2024-02-24T18", 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.raw))
			if err == nil {
				t.Fatalf("expected error, got document with %d states", len(doc.States))
			}
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Errorf("expected *FormatError, got %T: %v", err, err)
			}
		})
	}
}

func TestParse_OneBadRecordFailsWholeFeed(t *testing.T) {
	bad := strings.Replace(singleStateVector, ">3</X_DOT>", ">three</X_DOT>", 1)
	_, err := Parse(oemWithData(singleStateVector + bad))
	if err == nil {
		t.Fatal("expected error for feed with one bad record")
	}
	if !strings.Contains(err.Error(), "stateVector 1") {
		t.Errorf("expected error to name the failing record, got %v", err)
	}
}
