package layout

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ClaireJ59/News-Translator/internal/common"
)

// ParseDocument converts a raw oracle payload into a Document.
//
// Strictness is asymmetric: the payload must be syntactically valid JSON and
// pass the minimal structural gate (object root, sections an array of
// objects), otherwise a MalformedResponseError preserving the raw text is
// returned. Field-level gaps never fail: missing values default and unknown
// keys are ignored. The input is not mutated and no geometry is validated
// here; boxes stay relative until crop time.
func ParseDocument(raw []byte, logger *slog.Logger) (*Document, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		logger.Warn("layout.parse.syntax", "error", err)
		return nil, common.NewMalformedResponseError(string(raw), err)
	}

	if err := ValidateJSONAgainstSchema(BuildLayoutJSONSchema(), raw); err != nil {
		logger.Warn("layout.parse.structure", "error", err)
		return nil, common.NewMalformedResponseError(string(raw), err)
	}

	m, ok := v.(map[string]any)
	if !ok {
		// the schema gate already requires an object root
		return nil, common.NewMalformedResponseError(string(raw), fmt.Errorf("payload is not an object"))
	}
	return normalizeDocument(m, logger), nil
}
