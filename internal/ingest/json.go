package ingest

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/overlog/overlog/internal/telemetry"
)

// jsonDocument is the normalized interchange form the parse command also
// emits: the sample list plus optional provenance fields. A computed
// summary may be present in the document but is ignored on input; the
// summary is always recomputed from the points.
type jsonDocument struct {
	Source  string             `json:"source,omitempty"`
	Format  string             `json:"format,omitempty"`
	Summary *telemetry.Summary `json:"summary,omitempty"`
	Points  []telemetry.Sample `json:"points"`
}

// EncodeJSON writes the series in the normalized interchange form,
// including a freshly computed summary. The output parses back with
// Parse(FormatJSON, ...).
func EncodeJSON(w io.Writer, series *telemetry.Series) error {
	summary := series.Summary()
	doc := jsonDocument{
		Source:  series.Source,
		Format:  series.Format,
		Summary: &summary,
		Points:  series.Points,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func parseJSON(data []byte) (*telemetry.Series, error) {
	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Points == nil {
		return nil, fmt.Errorf("document has no points array")
	}

	for i := range doc.Points {
		if doc.Points[i].Timestamp.IsZero() {
			return nil, fmt.Errorf("point %d: missing timestamp", i)
		}
	}

	return &telemetry.Series{Source: doc.Source, Points: doc.Points}, nil
}
