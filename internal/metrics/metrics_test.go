package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()
	require.NotNil(t, m)
	assert.NotNil(t, m.Registry())

	assert.NotNil(t, m.DeliveriesTotal)
	assert.NotNil(t, m.StepDuration)
	assert.NotNil(t, m.StepFailuresTotal)
	assert.NotNil(t, m.DeliveryDuration)
	assert.NotNil(t, m.AssetsMissingTotal)
	assert.NotNil(t, m.RunsTotal)
	assert.NotNil(t, m.BirthdaysToday)
	assert.NotNil(t, m.LastRunTimestamp)
}

func gatherValue(t *testing.T, m *Metrics, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metric:
		for _, metric := range mf.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue metric
				}
			}
			switch {
			case metric.GetCounter() != nil:
				return metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				return metric.GetGauge().GetValue()
			case metric.GetHistogram() != nil:
				return float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}

	t.Fatalf("metric %s%v not found", name, labels)
	return 0
}

func TestObserveStep(t *testing.T) {
	m := NewMetrics()

	m.ObserveStep("open_attachment_menu", 1200*time.Millisecond, nil)
	m.ObserveStep("open_attachment_menu", 900*time.Millisecond, nil)
	m.ObserveStep("trigger_send", 10*time.Second, errors.New("timeout"))

	assert.Equal(t, 2.0, gatherValue(t, m, "delivery_step_duration_seconds", map[string]string{"step": "open_attachment_menu"}))
	assert.Equal(t, 1.0, gatherValue(t, m, "delivery_step_failures_total", map[string]string{"step": "trigger_send"}))
}

func TestObserveAttempt(t *testing.T) {
	m := NewMetrics()

	m.ObserveAttempt(StatusSucceeded, 16*time.Second)
	m.ObserveAttempt(StatusSucceeded, 17*time.Second)
	m.ObserveAttempt(StatusFailed, 3*time.Second)

	assert.Equal(t, 2.0, gatherValue(t, m, "deliveries_total", map[string]string{"status": StatusSucceeded}))
	assert.Equal(t, 1.0, gatherValue(t, m, "deliveries_total", map[string]string{"status": StatusFailed}))
	assert.Equal(t, 3.0, gatherValue(t, m, "delivery_duration_seconds", nil))
}

func TestObserveRun(t *testing.T) {
	m := NewMetrics()

	m.ObserveBirthdays(3)
	m.ObserveAssetMissing()
	m.ObserveRun("completed")

	assert.Equal(t, 3.0, gatherValue(t, m, "birthdays_today", nil))
	assert.Equal(t, 1.0, gatherValue(t, m, "assets_missing_total", nil))
	assert.Equal(t, 1.0, gatherValue(t, m, "runs_total", map[string]string{"result": "completed"}))
	assert.Greater(t, gatherValue(t, m, "last_run_timestamp_seconds", nil), 0.0)
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.ObserveAttempt(StatusSucceeded, 16*time.Second)
	m.ObserveRun("completed")

	path := filepath.Join(t.TempDir(), "textfile", "birthdaybot.prom")
	require.NoError(t, m.WriteTextfile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	output := string(content)
	assert.Contains(t, output, `deliveries_total{status="succeeded"} 1`)
	assert.Contains(t, output, `runs_total{result="completed"} 1`)
	assert.Contains(t, output, "# HELP birthdays_today")
}
