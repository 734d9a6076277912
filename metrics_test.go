package sessioncore

import (
	"sync"
	"testing"
	"time"
)

func TestMetricsDisabledIsInert(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})

	m.Inc(MetricSessionSuccess)
	m.Observe(MetricNewSessionLatency, 10*time.Millisecond)

	if m.Value(MetricSessionSuccess) != 0 {
		t.Fatal("disabled metrics must not count")
	}
	snap := m.Snapshot()
	if len(snap.Counters) != 0 || len(snap.Histograms) != 0 {
		t.Fatalf("snapshot = %+v, want empty", snap)
	}
}

func TestMetricsIncAndValue(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.Inc(MetricSessionSuccess)
	m.Inc(MetricSessionSuccess)
	m.Inc(MetricOtpSent)

	if v := m.Value(MetricSessionSuccess); v != 2 {
		t.Fatalf("session success = %d, want 2", v)
	}
	if v := m.Value(MetricOtpSent); v != 1 {
		t.Fatalf("otp sent = %d, want 1", v)
	}

	snap := m.Snapshot()
	if snap.Counters[MetricSessionSuccess] != 2 {
		t.Fatalf("snapshot counter = %d, want 2", snap.Counters[MetricSessionSuccess])
	}
}

func TestMetricsOutOfRangeIDIgnored(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.Inc(metricIDCount)
	m.Inc(metricIDCount + 100)

	if v := m.Value(metricIDCount); v != 0 {
		t.Fatalf("value = %d, want 0", v)
	}
}

func TestMetricsLatencyBuckets(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	durations := []time.Duration{
		2 * time.Millisecond,   // bucket 0
		8 * time.Millisecond,   // bucket 1
		20 * time.Millisecond,  // bucket 2
		40 * time.Millisecond,  // bucket 3
		90 * time.Millisecond,  // bucket 4
		200 * time.Millisecond, // bucket 5
		400 * time.Millisecond, // bucket 6
		2 * time.Second,        // bucket 7
	}
	for _, d := range durations {
		m.Observe(MetricNewSessionLatency, d)
	}

	buckets := m.Snapshot().Histograms[MetricNewSessionLatency]
	if len(buckets) != histBucketCount {
		t.Fatalf("bucket count = %d, want %d", len(buckets), histBucketCount)
	}
	for i, v := range buckets {
		if v != 1 {
			t.Fatalf("bucket %d = %d, want 1", i, v)
		}
	}
}

func TestMetricsLatencyDisabledByDefault(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.Observe(MetricNewSessionLatency, time.Millisecond)

	if _, ok := m.Snapshot().Histograms[MetricNewSessionLatency]; ok {
		t.Fatal("histogram present without EnableLatencyHistograms")
	}
}

func TestMetricsConcurrentInc(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const goroutines = 8
	const perGoroutine = 1000

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				m.Inc(MetricLogout)
			}
		}()
	}
	wg.Wait()

	if v := m.Value(MetricLogout); v != goroutines*perGoroutine {
		t.Fatalf("logout counter = %d, want %d", v, goroutines*perGoroutine)
	}
}

func TestNilMetricsSafe(t *testing.T) {
	var m *Metrics

	m.Inc(MetricSessionSuccess)
	m.Observe(MetricNewSessionLatency, time.Millisecond)

	if m.Enabled() || m.LatencyEnabled() {
		t.Fatal("nil metrics must report disabled")
	}
	if m.Value(MetricSessionSuccess) != 0 {
		t.Fatal("nil metrics must report zero")
	}
}
