package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestImportMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewImportMetrics(reg)
	metrics.ObserveJob("success", 1250*time.Millisecond)
	metrics.AddRows("ok", 480)
	metrics.AddRows("error", 20)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "import_jobs_completed_total", "status", "success"); err != nil {
		t.Fatalf("fetch completed: %v", err)
	} else if got != 1 {
		t.Fatalf("expected completed=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "import_rows_total", "outcome", "ok"); err != nil {
		t.Fatalf("fetch ok rows: %v", err)
	} else if got != 480 {
		t.Fatalf("expected ok rows=480, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "import_rows_total", "outcome", "error"); err != nil {
		t.Fatalf("fetch error rows: %v", err)
	} else if got != 20 {
		t.Fatalf("expected error rows=20, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "import_job_duration_seconds", "status", "success"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestImportMetricsNoopWithoutRegistry(t *testing.T) {
	var metrics *ImportMetrics
	metrics.ObserveJob("failed", time.Second)
	metrics.AddRows("ok", 1)

	metrics = NewImportMetrics(nil)
	metrics.ObserveJob("failed", time.Second)
	metrics.AddRows("ok", 1)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
