package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/magphyx/internal/event"
)

type ExportData struct {
	Run    RunMetadata `json:"run"`
	Events []event.Row `json:"events"`
}

// ExportJSON writes a run and its parsed event log as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	rows, err := s.LoadEvents(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: *meta, Events: rows})
}
