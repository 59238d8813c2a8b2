package telemetry

// Span attribute keys used for SLI instrumentation. Dashboards that chart
// route-planning quality key off these names, so treat them as frozen.
const (
	AttrSnapshotAge     = "feed.snapshot_age_seconds"
	AttrPeopleTracked   = "feed.people_tracked"
	AttrRouteCandidates = "route.candidate_count"
)
