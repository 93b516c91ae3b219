package telemetry

// Span and attribute names used for instrumentation.
const (
	TracerName = "github.com/samirrijal/dayroute"

	SpanOptimize      = "itinerary.optimize"
	SpanOptimizeBatch = "itinerary.optimize_batch"
	SpanFuelRefresh   = "fuel.refresh"

	AttrActivityCount = "itinerary.activity_count"
	AttrTravelMode    = "itinerary.travel_mode"
	AttrCacheHit      = "itinerary.cache_hit"
	AttrEfficiency    = "itinerary.efficiency"
	AttrBatchDays     = "itinerary.batch_days"
	AttrFuelRegion    = "fuel.region"
)
