package dashboard

import (
	"time"

	"cloudtrail-explorer/internal/explorer"
	"cloudtrail-explorer/internal/facet"
	"cloudtrail-explorer/internal/output"
	"cloudtrail-explorer/internal/query"
	"cloudtrail-explorer/internal/types"
)

// EventStore is the view of the loaded document the dashboard serves from.
// *explorer.Explorer implements it.
type EventStore interface {
	Snapshot() *explorer.Snapshot
	Query(req query.Request) (query.Result, *explorer.Snapshot)
	Row(index int) (*types.Row, bool)
	Load(name string, text []byte, persist bool) (*explorer.Snapshot, error)
	Clear()
	Subscribe() <-chan explorer.Notice
	Unsubscribe(ch <-chan explorer.Notice)
}

// Stats describes the loaded document
type Stats struct {
	Loaded     bool          `json:"loaded"`
	SnapshotID string        `json:"snapshotId,omitempty"`
	Name       string        `json:"name,omitempty"`
	Restored   bool          `json:"restored"`
	LoadedAt   *time.Time    `json:"loadedAt,omitempty"`
	Summary    facet.Summary `json:"summary"`
	Meta       string        `json:"meta"`
}

func statsOf(snap *explorer.Snapshot, mode types.TimeMode) Stats {
	if snap == nil {
		return Stats{Meta: output.MetaLine("", facet.Summary{}, mode)}
	}
	loadedAt := snap.LoadedAt
	return Stats{
		Loaded:     true,
		SnapshotID: snap.ID,
		Name:       snap.Name,
		Restored:   snap.Restored,
		LoadedAt:   &loadedAt,
		Summary:    snap.Summary,
		Meta:       output.MetaLine(snap.Name, snap.Summary, mode),
	}
}

// EventRecord is one table row as displayed on the page
type EventRecord struct {
	Index     int
	Time      string
	Source    string
	Name      string
	Principal string
	Region    string
	Status    string
	Failed    bool
}

func recordsOf(rows []*types.Row, mode types.TimeMode) []EventRecord {
	records := make([]EventRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, EventRecord{
			Index:     r.Index,
			Time:      output.FormatTime(r.EventTimeMillis, r.EventTime, mode),
			Source:    output.SafeText(r.EventSource),
			Name:      output.SafeText(r.EventName),
			Principal: output.SafeText(r.Principal),
			Region:    output.SafeText(r.Region),
			Status:    output.Status(r),
			Failed:    r.HasError(),
		})
	}
	return records
}
