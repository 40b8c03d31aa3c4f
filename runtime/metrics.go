// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "reserve_runtime"

type metrics struct {
	calls     *prometheus.CounterVec
	transfers *prometheus.CounterVec
	gasUsed   *prometheus.HistogramVec
}

func newMetrics(registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "calls_total",
			Help:      "Calls applied, by program and outcome.",
		}, []string{"program", "status"}),
		transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "transfers_total",
			Help:      "Transfers executed by accepted calls, by kind.",
		}, []string{"kind"}),
		gasUsed: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "gas_used",
			Help:      "Gas used per call.",
			Buckets:   prometheus.ExponentialBuckets(1000, 4, 8),
		}, []string{"program"}),
	}
	if registerer == nil {
		return m, nil
	}
	err := errors.Join(
		registerer.Register(m.calls),
		registerer.Register(m.transfers),
		registerer.Register(m.gasUsed),
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *metrics) observe(program string, receipt *Receipt) {
	m.calls.WithLabelValues(program, receipt.Status.String()).Inc()
	m.gasUsed.WithLabelValues(program).Observe(float64(receipt.GasUsed))
	for _, t := range receipt.Transfers {
		m.transfers.WithLabelValues(t.Kind.String()).Inc()
	}
}
