package domain

// RefreshResult summarizes what happened during a refresh.
type RefreshResult struct {
	Count     int   // articles in the new snapshot
	Refreshed int64 // unix timestamp of the refresh
}
