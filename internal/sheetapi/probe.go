package sheetapi

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/MrSnakeDoc/folio/internal/domain"
	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/metrics"
)

// Fixed payloads used when probing write operations.
const (
	ProbeName              = "Test User"
	ProbeCommentMessage    = "This is a test comment from the debugger."
	ProbeRecommendationMsg = "This is a test recommendation from the debugger."
)

// ProbeReport is the full diagnostic outcome of one operation.
type ProbeReport struct {
	Operation domain.Operation `json:"operation"`
	Outcome   FailureKind      `json:"outcome"`
	Status    int              `json:"status,omitempty"`
	Message   string           `json:"message,omitempty"` // error text, empty on success
	Raw       string           `json:"raw,omitempty"`     // response body as received
	Pretty    string           `json:"pretty,omitempty"`  // indented JSON when the body parsed
	Duration  time.Duration    `json:"duration"`
}

// OK reports whether the probe succeeded.
func (r ProbeReport) OK() bool { return r.Outcome == KindNone }

// Probe runs op once and reports every detail, including the raw body.
// Unlike the typed calls it does not require the success fields to be present.
func (c *httpClient) Probe(ctx context.Context, op domain.Operation) ProbeReport {
	start := time.Now()
	report := ProbeReport{Operation: op}

	var body *writeRequest
	switch op {
	case domain.OpAddComment:
		body = &writeRequest{Action: op, Name: ProbeName, Message: ProbeCommentMessage}
	case domain.OpAddRecommendation:
		body = &writeRequest{Action: op, Name: ProbeName, Message: ProbeRecommendationMsg}
	}

	raw, status, err := c.roundTrip(ctx, op, body)
	report.Status = status
	report.Raw = string(raw)

	if err != nil {
		report.Outcome = Classify(err)
		var te *TransportError
		if errors.As(err, &te) {
			report.Message = te.Err.Error()
		} else {
			report.Message = err.Error()
		}
		c.log.Warn("probe failed to reach remote endpoint",
			logger.String("operation", string(op)),
			logger.Error(err))
		return finish(report, start)
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		report.Outcome = KindMalformed
		report.Message = err.Error()
		return finish(report, start)
	}

	if pretty, err := json.MarshalIndent(data, "", "  "); err == nil {
		report.Pretty = string(pretty)
	}

	rawErr, _ := json.Marshal(data["error"])
	if msg, failed := errorTag(rawErr); failed {
		report.Outcome = KindApplication
		report.Message = msg
		return finish(report, start)
	}

	report.Outcome = KindNone
	return finish(report, start)
}

func finish(r ProbeReport, start time.Time) ProbeReport {
	r.Duration = time.Since(start)
	metrics.ObserveRemote(string(r.Operation), "probe_"+string(r.Outcome), r.Duration)
	return r
}
