package storage

// Logical scopes. Each scope is an independent key space.
const (
	// ScopeAssignments maps a visitor id to a JSON object of testID -> variantID.
	ScopeAssignments = "assignments"

	// ScopeUsageHistory maps a visitor id to a JSON list of tool visits.
	ScopeUsageHistory = "usage-history"

	// ScopeVisitor holds the anonymous visitor id of this client.
	ScopeVisitor = "visitor"

	// ScopeEvents holds tracking events kept for export.
	ScopeEvents = "events"
)
