// Package metrics holds the Prometheus collectors of the service and the
// helpers that record into them. Collectors live on the default registry,
// which GET /metrics exposes.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric exported by the service.
const Namespace = "geoknow"

// group registers a fixed set of collectors once, however often it is asked.
type group struct {
	once       sync.Once
	collectors []prometheus.Collector
}

func newGroup(cs ...prometheus.Collector) *group {
	return &group{collectors: cs}
}

func (g *group) register() {
	g.once.Do(func() { prometheus.MustRegister(g.collectors...) })
}
