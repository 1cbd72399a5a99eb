package billing

// Provider event type discriminators
const (
	EventTypeCheckoutSessionCompleted    = "checkout.session.completed"
	EventTypeCustomerSubscriptionDeleted = "customer.subscription.deleted"
	EventTypeCustomerSubscriptionUpdated = "customer.subscription.updated"
)

// Event is a verified payment provider notification. The set of variants is
// closed: CheckoutCompleted, SubscriptionDeleted, SubscriptionUpdated and
// Unhandled are the only implementations.
type Event interface {
	// EventID is the provider's unique event id
	EventID() string
	// EventType is the provider's type discriminator
	EventType() string
	sealed()
}

// CheckoutSession is the subset of a completed checkout used for enrollment
type CheckoutSession struct {
	ID             string
	PaymentLinkID  string
	CustomerID     string
	SubscriptionID string
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
}

// CheckoutCompleted is emitted when a purchaser finishes a payment link checkout
type CheckoutCompleted struct {
	ID      string
	Session CheckoutSession
}

// SubscriptionDeleted is emitted when a subscription ends
type SubscriptionDeleted struct {
	ID             string
	SubscriptionID string
}

// SubscriptionUpdated is emitted when a subscription changes state
type SubscriptionUpdated struct {
	ID             string
	SubscriptionID string
	ProviderStatus string
}

// Unhandled is any verified event this system does not act on
type Unhandled struct {
	ID   string
	Type string
}

func (e CheckoutCompleted) EventID() string   { return e.ID }
func (e SubscriptionDeleted) EventID() string { return e.ID }
func (e SubscriptionUpdated) EventID() string { return e.ID }
func (e Unhandled) EventID() string           { return e.ID }

func (CheckoutCompleted) EventType() string   { return EventTypeCheckoutSessionCompleted }
func (SubscriptionDeleted) EventType() string { return EventTypeCustomerSubscriptionDeleted }
func (SubscriptionUpdated) EventType() string { return EventTypeCustomerSubscriptionUpdated }
func (e Unhandled) EventType() string         { return e.Type }

func (CheckoutCompleted) sealed()   {}
func (SubscriptionDeleted) sealed() {}
func (SubscriptionUpdated) sealed() {}
func (Unhandled) sealed()           {}
