package health

import "context"

// Pinger is a storage backend that answers a round trip.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker is a model provider with its own health probe.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}
