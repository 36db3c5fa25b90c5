package queue

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterMetrics exposes the depth and capacity of q as gauges.
func RegisterMetrics(reg prometheus.Registerer, q Queue) error {
	depth := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "teamwork",
		Subsystem: "notification_queue",
		Name:      "depth",
		Help:      "Notification jobs waiting for a worker.",
	}, func() float64 { return float64(q.Len()) })

	capacity := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "teamwork",
		Subsystem: "notification_queue",
		Name:      "capacity",
		Help:      "Maximum number of buffered notification jobs.",
	}, func() float64 { return float64(q.Capacity()) })

	for _, c := range []prometheus.Collector{depth, capacity} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
