package hermes

const (
	SubjectPrefix = "pledge."

	SubjectCatalogReloaded = "pledge.catalog.reloaded"
	// Published by content management when categories change; not part of
	// the stream since it is a plain notification.
	SubjectCatalogChanged = "cms.donation_categories.changed"

	StreamName   = "PLEDGE_EVENTS"
	StreamMaxAge = "168h" // 7 days
)

func SubjectAllocationCreated(allocationID string) string {
	return "pledge.allocation." + allocationID + ".created"
}

func SubjectAllocationRebalanced(allocationID string) string {
	return "pledge.allocation." + allocationID + ".rebalanced"
}
