package store

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"property-financing/internal/config"
)

// ExportPayload is the downloadable snapshot of a state. It decodes back through
// DecodeState.
type ExportPayload struct {
	ID            string                     `json:"id"`
	ExportedAt    time.Time                  `json:"exportedAt"`
	SchemaVersion int                        `json:"schemaVersion"`
	Scenarios     map[string]config.Scenario `json:"scenarios"`
}

// Export writes st as indented JSON.
func Export(w io.Writer, st config.State, now time.Time) (ExportPayload, error) {
	st = st.Complete()
	p := ExportPayload{
		ID:            uuid.NewString(),
		ExportedAt:    now.UTC(),
		SchemaVersion: st.SchemaVersion,
		Scenarios:     st.Scenarios,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return ExportPayload{}, fmt.Errorf("encode export: %w", err)
	}
	return p, nil
}

// ExportFilename is the suggested download name for an export taken at now.
func ExportFilename(now time.Time) string {
	return "property-financing-scenarios-" + now.UTC().Format("20060102-150405") + ".json"
}
