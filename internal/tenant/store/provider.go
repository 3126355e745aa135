package store

// Provider resolves tenant schema names to scoped stores. Aggregation
// services depend on this rather than on Manager so tests can substitute
// in-memory fakes.
type Provider interface {
	Scoped(schemaName string) (Store, error)
}

var _ Provider = (*Manager)(nil)
