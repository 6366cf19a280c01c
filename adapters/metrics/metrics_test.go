package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/artpar/windowkit/adapters/metrics"
)

func TestNewWithRegistry(t *testing.T) {
	// Use a new registry to avoid conflicts with other tests
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)

	if m == nil {
		t.Fatal("NewWithRegistry returned nil")
	}

	// Verify all metrics are initialized
	if m.BuildsTotal == nil {
		t.Error("BuildsTotal is nil")
	}
	if m.BuildErrors == nil {
		t.Error("BuildErrors is nil")
	}
	if m.BuildDuration == nil {
		t.Error("BuildDuration is nil")
	}
	if m.LiveWindows == nil {
		t.Error("LiveWindows is nil")
	}
	if m.ModulesExpanded == nil {
		t.Error("ModulesExpanded is nil")
	}
	if m.HandlerCollisions == nil {
		t.Error("HandlerCollisions is nil")
	}
	if m.EventsDispatched == nil {
		t.Error("EventsDispatched is nil")
	}
	if m.EventsDropped == nil {
		t.Error("EventsDropped is nil")
	}
	if m.StaleCleanups == nil {
		t.Error("StaleCleanups is nil")
	}
	if m.ConfigReloads == nil {
		t.Error("ConfigReloads is nil")
	}
}

func TestBuildsTotal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)

	m.BuildsTotal.WithLabelValues("inventory").Inc()
	m.BuildsTotal.WithLabelValues("chat").Add(3)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather error: %v", err)
	}

	found := false
	for _, f := range families {
		if f.GetName() == "windowkit_builds_total" {
			found = true
			if len(f.GetMetric()) != 2 {
				t.Errorf("expected 2 metric series, got %d", len(f.GetMetric()))
			}
		}
	}
	if !found {
		t.Error("windowkit_builds_total metric not found")
	}
}

func TestEventsDropped(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)

	m.EventsDropped.WithLabelValues("inventory", "no_state").Inc()
	m.EventsDropped.WithLabelValues("inventory", "stale").Add(2)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather error: %v", err)
	}

	found := false
	for _, f := range families {
		if f.GetName() == "windowkit_events_dropped_total" {
			found = true
			if len(f.GetMetric()) != 2 {
				t.Errorf("expected 2 metric series, got %d", len(f.GetMetric()))
			}
		}
	}
	if !found {
		t.Error("windowkit_events_dropped_total metric not found")
	}
}

func TestLiveWindows(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)

	m.LiveWindows.WithLabelValues("inventory").Inc()
	m.LiveWindows.WithLabelValues("inventory").Inc()
	m.LiveWindows.WithLabelValues("inventory").Dec()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather error: %v", err)
	}

	found := false
	for _, f := range families {
		if f.GetName() == "windowkit_live_windows" {
			found = true
			if len(f.GetMetric()) != 1 {
				t.Errorf("expected 1 metric series, got %d", len(f.GetMetric()))
			}
			val := f.GetMetric()[0].GetGauge().GetValue()
			if val != 1 {
				t.Errorf("expected value 1, got %f", val)
			}
		}
	}
	if !found {
		t.Error("windowkit_live_windows metric not found")
	}
}

func TestBuildDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)

	m.BuildDuration.WithLabelValues("inventory").Observe(0.002)
	m.BuildDuration.WithLabelValues("inventory").Observe(0.015)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather error: %v", err)
	}

	found := false
	for _, f := range families {
		if f.GetName() == "windowkit_build_duration_seconds" {
			found = true
		}
	}
	if !found {
		t.Error("windowkit_build_duration_seconds metric not found")
	}
}

func TestConfigReloads(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)

	m.ConfigReloads.Inc()
	m.ConfigLastReload.SetToCurrentTime()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather error: %v", err)
	}

	foundReloads := false
	foundLastReload := false
	for _, f := range families {
		if f.GetName() == "windowkit_config_reloads_total" {
			foundReloads = true
		}
		if f.GetName() == "windowkit_config_last_reload_timestamp" {
			foundLastReload = true
		}
	}
	if !foundReloads {
		t.Error("windowkit_config_reloads_total metric not found")
	}
	if !foundLastReload {
		t.Error("windowkit_config_last_reload_timestamp metric not found")
	}
}
