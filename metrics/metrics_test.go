package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewRegistersAllMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.SetStoreSize(3)
	c.SetFrontierLen(2)
	c.IncStep()
	c.IncStep()
	c.IncRuleFire("up")
	c.IncAmbiguous()
	c.IncTermLimitExhausted()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	byName := map[string]*dto.MetricFamily{}
	for _, f := range families {
		byName[f.GetName()] = f
	}

	if g := byName["scaleterm_store_size"]; g == nil || g.Metric[0].GetGauge().GetValue() != 3 {
		t.Fatalf("expected store_size=3, got %v", g)
	}
	if g := byName["scaleterm_frontier_len"]; g == nil || g.Metric[0].GetGauge().GetValue() != 2 {
		t.Fatalf("expected frontier_len=2, got %v", g)
	}
	if c := byName["scaleterm_steps_total"]; c == nil || c.Metric[0].GetCounter().GetValue() != 2 {
		t.Fatalf("expected steps_total=2, got %v", c)
	}
	if c := byName["scaleterm_ambiguous_matches_total"]; c == nil || c.Metric[0].GetCounter().GetValue() != 1 {
		t.Fatalf("expected ambiguous_matches_total=1, got %v", c)
	}
	if c := byName["scaleterm_term_limit_exhausted_total"]; c == nil || c.Metric[0].GetCounter().GetValue() != 1 {
		t.Fatalf("expected term_limit_exhausted_total=1, got %v", c)
	}
}

func TestNilCollectorIsNoOp(t *testing.T) {
	var c *Collector
	c.SetStoreSize(5)
	c.SetFrontierLen(5)
	c.IncStep()
	c.IncRuleFire("up")
	c.IncAmbiguous()
	c.IncTermLimitExhausted()
}
