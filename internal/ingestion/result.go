package ingestion

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/mr1hm/iss-tracker/internal/ephemeris"
	"github.com/mr1hm/iss-tracker/internal/models"
	"github.com/mr1hm/iss-tracker/internal/observability"
)

type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeFetchFailed
	OutcomeParseFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeFetchFailed:
		return "fetch_failed"
	case OutcomeParseFailed:
		return "parse_failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one ingestion attempt. Document is always
// non-nil; it is empty unless Outcome is OutcomeOK.
type Result struct {
	Document *models.Document
	Outcome  Outcome
	Err      error
	LoadedAt time.Time
}

func (r Result) OK() bool {
	return r.Outcome == OutcomeOK
}

func (r Result) Store() *ephemeris.Store {
	return ephemeris.NewStore(r.Document)
}

// Load fetches and parses the feed once. It does not decide whether a
// failure is acceptable; callers inspect Outcome for that.
func Load(ctx context.Context, src Source) Result {
	ctx, span := observability.StartSpan(ctx, "ephemeris.load")
	defer span.End()

	res := Result{
		Document: models.EmptyDocument(),
		LoadedAt: time.Now(),
	}

	raw, err := src.Fetch(ctx)
	if err != nil {
		var fe *FetchError
		if !errors.As(err, &fe) {
			err = &FetchError{Err: err}
		}
		res.Outcome, res.Err = OutcomeFetchFailed, err
		span.RecordError(err)
		return res
	}

	doc, err := ephemeris.Parse(raw)
	if err != nil {
		res.Outcome, res.Err = OutcomeParseFailed, err
		span.RecordError(err)
		return res
	}

	res.Document = doc
	span.SetAttributes(attribute.Int("ephemeris.states", len(doc.States)))
	return res
}
