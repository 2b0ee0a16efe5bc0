package importer

// Summarize counts entries per action over the full set.
func Summarize(entries []DiffEntry) Stats {
	stats := Stats{Total: len(entries)}
	for _, e := range entries {
		switch e.Action {
		case ActionNew:
			stats.New++
		case ActionUpdate:
			stats.Update++
		case ActionUnchanged:
			stats.Unchanged++
		}
	}
	return stats
}
