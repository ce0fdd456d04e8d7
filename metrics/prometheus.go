package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus is a Collector that exports container metrics to Prometheus.
type Prometheus struct {
	allocations *prometheus.CounterVec
	allocBytes  prometheus.Counter
	freedBytes  prometheus.Counter
	liveBytes   prometheus.Gauge
	grows       prometheus.Counter
}

// NewPrometheus creates the collector and registers its metrics on reg
// under the given namespace. A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheus(reg prometheus.Registerer, namespace string) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	p := &Prometheus{
		allocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "allocations_total",
				Help:      "Backing allocations attempted by containers, by result",
			},
			[]string{"result"}, // "ok", "failed"
		),
		allocBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "allocated_bytes_total",
			Help:      "Total bytes obtained for container storage",
		}),
		freedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "freed_bytes_total",
			Help:      "Total bytes of container storage released",
		}),
		liveBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_bytes",
			Help:      "Bytes of container storage currently held",
		}),
		grows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grows_total",
			Help:      "Capacity increases across containers",
		}),
	}

	for _, c := range []prometheus.Collector{p.allocations, p.allocBytes, p.freedBytes, p.liveBytes, p.grows} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// RecordAlloc implements Collector.
func (p *Prometheus) RecordAlloc(bytes int, err error) {
	if err != nil {
		p.allocations.WithLabelValues("failed").Inc()
		return
	}
	p.allocations.WithLabelValues("ok").Inc()
	p.allocBytes.Add(float64(bytes))
	p.liveBytes.Add(float64(bytes))
}

// RecordFree implements Collector.
func (p *Prometheus) RecordFree(bytes int) {
	p.freedBytes.Add(float64(bytes))
	p.liveBytes.Sub(float64(bytes))
}

// RecordGrow implements Collector.
func (p *Prometheus) RecordGrow(oldCap, newCap int) {
	if newCap > oldCap {
		p.grows.Inc()
	}
}

var (
	_ Collector = Noop{}
	_ Collector = (*Basic)(nil)
	_ Collector = (*Prometheus)(nil)
)
