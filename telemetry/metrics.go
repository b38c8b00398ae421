// Copyright © 2025 Microsoft <wastore@microsoft.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package telemetry exports what a run did: Prometheus metrics written to a text file
// and, when an OTLP endpoint is configured, traces.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Olaffson/data-lake-2/common"
)

// Metrics holds the counters of one run in a private registry.
type Metrics struct {
	registry      *prometheus.Registry
	transfers     *prometheus.CounterVec
	bytes         prometheus.Counter
	duration      prometheus.Histogram
	setupFailures *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "datalake_transfers_total",
			Help: "Files processed, by final status.",
		}, []string{"status"}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "datalake_transfer_bytes_total",
			Help: "Bytes written to blob storage by successful transfers.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "datalake_transfer_duration_seconds",
			Help:    "Wall time of attempted transfers, download and upload together.",
			Buckets: prometheus.ExponentialBuckets(0.1, 4, 8),
		}),
		setupFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "datalake_setup_failures_total",
			Help: "Failures before or outside the transfers, by stage.",
		}, []string{"stage"}),
	}
	m.registry.MustRegister(m.transfers, m.bytes, m.duration, m.setupFailures)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveResults records the per-item outcomes of a run.
func (m *Metrics) ObserveResults(results []common.TransferResult) {
	for _, r := range results {
		m.transfers.WithLabelValues(r.Status.String()).Inc()
		if r.Succeeded() {
			m.bytes.Add(float64(r.Bytes))
		}
		if r.Duration > 0 {
			m.duration.Observe(r.Duration.Seconds())
		}
	}
}

// OnEvent makes Metrics a common.Observer. Only failures of the stages that are not
// covered by ObserveResults are counted.
func (m *Metrics) OnEvent(stage common.Stage, outcome common.Outcome, _ string) {
	if outcome != common.EOutcome.Failed() {
		return
	}
	switch stage {
	case common.EStage.Credential(), common.EStage.Secret(), common.EStage.Token(), common.EStage.Discovery():
		m.setupFailures.WithLabelValues(stage.String()).Inc()
	}
}

// WriteToTextfile writes the registry in the text exposition format, e.g. for the node exporter.
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
