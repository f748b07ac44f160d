package schema

// Errors maps a field name to every message that field produced during
// validation. Validation never stops at the first violation; callers get the
// complete set in one pass.
type Errors map[string][]string

// schemaField keys errors that concern the request body as a whole rather
// than a single field (e.g. malformed JSON).
const schemaField = "_schema"

// Add appends a message to the given field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}
