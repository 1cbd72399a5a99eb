package academy

// SubscriptionStatus is the local view of a student's recurring subscription
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusPaused   SubscriptionStatus = "paused"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
)

// IsValid reports whether the status is one of the known values
func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionStatusActive, SubscriptionStatusPaused, SubscriptionStatusCanceled:
		return true
	}
	return false
}

// String implements fmt.Stringer
func (s SubscriptionStatus) String() string {
	return string(s)
}

// MapProviderStatus collapses the payment provider's subscription status
// vocabulary onto the three local states. Unknown values map to active.
func MapProviderStatus(providerStatus string) SubscriptionStatus {
	switch providerStatus {
	case "canceled", "incomplete_expired":
		return SubscriptionStatusCanceled
	case "paused":
		return SubscriptionStatusPaused
	default:
		return SubscriptionStatusActive
	}
}
