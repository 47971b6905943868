package assembler

import (
	"context"

	"codex-backend/internal/components/telemetry"
	"codex-backend/pkg/textutil"

	"github.com/antzucaro/matchr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("codex.internal.assembler")
var droppedJoins, _ = meter.Int64Counter(
	"codex.assembler.dropped_joins",
	metric.WithDescription("join rows dropped because their target does not exist"),
)

// closestID returns the candidate most similar to id, a dangling reference is
// usually a typo or a stale id in the export.
func closestID(id string, candidates []string) string {
	if id == "" {
		return ""
	}
	normalized := textutil.NormalizeName(id)
	var closest string
	var best float64
	for _, c := range candidates {
		similarity := matchr.JaroWinkler(normalized, textutil.NormalizeName(c), false)
		if similarity > best {
			best = similarity
			closest = c
		}
	}
	return closest
}

func reportDrop(
	ctx context.Context,
	tel telemetry.API,
	reportID, datasheetID, missingID string,
	candidates []string,
) {
	tel.ReportWarning(
		reportID,
		datasheetID,
		missingID,
		closestID(missingID, candidates),
	)
	droppedJoins.Add(ctx, 1, metric.WithAttributes(attribute.String("join", reportID)))
}
