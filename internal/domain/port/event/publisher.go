package event

// Publisher delivers domain events to interested consumers. Implementations
// must be safe for concurrent use; delivery is best-effort and never part of
// a store atomic unit.
type Publisher interface {
	Publish(topic string, event any) error
	Close() error
}
