package ecs

// WorldStats is a snapshot of storage usage.
type WorldStats struct {
	TableCount     int
	EntityCount    int
	PendingChanges int
	EventTypes     int
	Tables         []TableStats
}

// TableStats describes one table.
type TableStats struct {
	Id          uint32
	EntityCount int
	Columns     int
	Components  []string
}

// CollectStats gathers statistics about the world's tables and entities.
func (w *World) CollectStats() WorldStats {
	stats := WorldStats{
		TableCount:     len(w.tables),
		EntityCount:    w.entities.Len(),
		PendingChanges: w.entities.Pending(),
		EventTypes:     w.events.Len(),
		Tables:         make([]TableStats, 0, len(w.tables)),
	}

	for _, table := range w.tables {
		names := make([]string, len(table.types))
		for i, id := range table.types {
			names[i] = w.registry.Type(id).String()
		}
		stats.Tables = append(stats.Tables, TableStats{
			Id:          table.id,
			EntityCount: table.length,
			Columns:     len(table.columns),
			Components:  names,
		})
	}
	return stats
}
