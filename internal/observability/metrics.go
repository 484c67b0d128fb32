package observability

import (
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

var (
	registerOnce sync.Once

	packetsEncoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "oscpack",
			Subsystem: "codec",
			Name:      "packets_encoded_total",
			Help:      "Packets encoded, by kind and result.",
		},
		[]string{"kind", "result"},
	)
	packetsDecoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "oscpack",
			Subsystem: "codec",
			Name:      "packets_decoded_total",
			Help:      "Packets decoded, by kind and result.",
		},
		[]string{"kind", "result"},
	)
	packetBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "oscpack",
			Subsystem: "codec",
			Name:      "packet_bytes",
			Help:      "Encoded packet size in bytes.",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 6),
		},
		[]string{"kind", "direction"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(packetsEncoded, packetsDecoded, packetBytes)
	})
}

// RecordEncode counts one encode attempt. size is ignored on failure.
func RecordEncode(kind string, size int, err error) {
	RegisterMetrics()
	packetsEncoded.WithLabelValues(kind, resultLabel(err)).Inc()
	if err == nil {
		packetBytes.WithLabelValues(kind, "encode").Observe(float64(size))
	}
}

// RecordDecode counts one decode attempt. size is ignored on failure.
func RecordDecode(kind string, size int, err error) {
	RegisterMetrics()
	packetsDecoded.WithLabelValues(kind, resultLabel(err)).Inc()
	if err == nil {
		packetBytes.WithLabelValues(kind, "decode").Observe(float64(size))
	}
}

// CounterSnapshot gathers the codec counters keyed as
// "name{label=value,...}", sorted by key.
func CounterSnapshot(g prometheus.Gatherer) ([]CounterSample, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}
	out := make([]CounterSample, 0)
	for _, mf := range families {
		if mf.GetType() != dto.MetricType_COUNTER || !strings.HasPrefix(mf.GetName(), "oscpack_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			out = append(out, CounterSample{
				Key:   sampleKey(mf.GetName(), m.GetLabel()),
				Value: m.GetCounter().GetValue(),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

type CounterSample struct {
	Key   string
	Value float64
}

func sampleKey(name string, labels []*dto.LabelPair) string {
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		parts = append(parts, l.GetName()+"="+l.GetValue())
	}
	return name + "{" + strings.Join(parts, ",") + "}"
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
