package natsadapter_test

import (
	"testing"

	natsadapter "github.com/samirrijal/dayroute/internal/adapters/nats"
	"github.com/samirrijal/dayroute/internal/core/domain"
)

func TestOptimizedSubject(t *testing.T) {
	got := natsadapter.OptimizedSubject(domain.TravelWalking, "abc")
	if got != "itinerary.optimized.walking.abc" {
		t.Errorf("unexpected subject %s", got)
	}
}

func TestOptimizedFilter(t *testing.T) {
	if got := natsadapter.OptimizedFilter(""); got != "itinerary.optimized.>" {
		t.Errorf("unexpected filter %s", got)
	}
	if got := natsadapter.OptimizedFilter(domain.TravelDriving); got != "itinerary.optimized.driving.>" {
		t.Errorf("unexpected filter %s", got)
	}
}
