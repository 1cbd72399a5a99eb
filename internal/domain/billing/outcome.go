package billing

import "fmt"

// OutcomeKind classifies how handling an event ended
type OutcomeKind int

const (
	// OutcomeOK means the event was applied
	OutcomeOK OutcomeKind = iota
	// OutcomeSkipped means the event was acknowledged without a write,
	// either because it is not relevant or because its data cannot be used
	OutcomeSkipped
	// OutcomeFatal means a downstream write failed
	OutcomeFatal
)

// String implements fmt.Stringer
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFatal:
		return "fatal"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the result of reconciling one event.
// Reason is set for skipped outcomes, Cause for fatal ones.
type Outcome struct {
	Kind   OutcomeKind
	Reason string
	Cause  error
}

// OK returns a successful outcome
func OK() Outcome {
	return Outcome{Kind: OutcomeOK}
}

// Skipped returns a no-op outcome with the reason it was skipped
func Skipped(reason string) Outcome {
	return Outcome{Kind: OutcomeSkipped, Reason: reason}
}

// Fatal returns a failed outcome wrapping the cause
func Fatal(cause error) Outcome {
	return Outcome{Kind: OutcomeFatal, Cause: cause}
}

// IsOK reports whether the event was applied
func (o Outcome) IsOK() bool { return o.Kind == OutcomeOK }

// IsSkipped reports whether the event was a no-op
func (o Outcome) IsSkipped() bool { return o.Kind == OutcomeSkipped }

// IsFatal reports whether a downstream write failed
func (o Outcome) IsFatal() bool { return o.Kind == OutcomeFatal }

// Skip reasons
const (
	ReasonMissingSubscriptionOrCustomer = "missing subscription or customer id"
	ReasonMissingPaymentLink            = "no payment link on checkout session"
	ReasonPaymentLinkLookupFailed       = "payment link lookup failed"
	ReasonMissingMetadata               = "payment link metadata incomplete"
	ReasonClassNotFound                 = "class not found"
	ReasonNoSubscriber                  = "no subscriber for subscription"
	ReasonUnhandledEvent                = "unhandled event type"
	ReasonDuplicateEvent                = "duplicate event"
)
