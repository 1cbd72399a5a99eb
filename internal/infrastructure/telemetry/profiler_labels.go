package telemetry

import (
	"context"
	"sort"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys.
const (
	ProfilingLabelOperation     = "operation"
	ProfilingLabelEventType     = "event_type"
	ProfilingLabelRoute         = "route"
	ProfilingLabelMethod        = "method"
	ProfilingLabelController    = "controller"
	ProfilingLabelInstitutionID = "institution_id"
)

// MaxLabelValueLength caps label values so a malformed event type cannot
// blow up profile cardinality.
const MaxLabelValueLength = 128

// WithProfilingLabels runs fn with pprof labels attached so its samples can be
// filtered in Pyroscope. Empty keys and values are dropped.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := labelPairs(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// labelPairs flattens labels into a key-sorted key/value slice.
func labelPairs(labels map[string]string) []string {
	keys := make([]string, 0, len(labels))
	for k, v := range labels {
		if k == "" || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		v := labels[k]
		if len(v) > MaxLabelValueLength {
			v = v[:MaxLabelValueLength]
		}
		pairs = append(pairs, k, v)
	}
	return pairs
}
