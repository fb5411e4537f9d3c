package layout

// BuildLayoutJSONSchema returns the structural gate for oracle responses as a
// JSON-Schema (draft 2020-12 subset) generic map. The gate is deliberately
// minimal: the payload must be an object and sections, when present, must be
// an array of objects. Everything at field level is handled leniently by the
// normalizer, so prompt-revision drift never turns into a hard failure.
func BuildLayoutJSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"date": map[string]any{},
			"sections": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "object"},
			},
		},
	}
}
