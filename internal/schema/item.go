package schema

import (
	"bytes"
	"encoding/json"
	"unicode/utf8"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 500
)

// ItemInput holds a fully validated item payload (create and full update).
type ItemInput struct {
	Name        string
	Price       float64
	Description *string
	InStock     bool
}

// ItemPatch holds a validated partial-update payload. Nil pointers mean the
// field was not supplied. SetDescription distinguishes an explicit
// `"description": null` from an absent key.
type ItemPatch struct {
	Name           *string
	Price          *float64
	Description    *string
	SetDescription bool
	InStock        *bool
}

// Empty reports whether the patch supplies no recognized fields.
func (p *ItemPatch) Empty() bool {
	return p.Name == nil && p.Price == nil && !p.SetDescription && p.InStock == nil
}

// ParseItem validates a full item payload. Name and price are required,
// description is optional (null allowed) and in_stock defaults to true when
// absent. All violations are collected; unknown keys are ignored.
func ParseItem(body []byte) (*ItemInput, Errors) {
	errs := Errors{}

	fields, ok := decodeObject(body, errs)
	if !ok {
		return nil, errs
	}

	input := &ItemInput{InStock: true}

	if raw, present := fields["name"]; !present {
		errs.Add("name", "Missing data for required field.")
	} else if name, msg := parseName(raw); msg != "" {
		errs.Add("name", msg)
	} else {
		input.Name = name
	}

	if raw, present := fields["price"]; !present {
		errs.Add("price", "Missing data for required field.")
	} else if price, msg := parsePrice(raw); msg != "" {
		errs.Add("price", msg)
	} else {
		input.Price = price
	}

	if raw, present := fields["description"]; present {
		if desc, msg := parseDescription(raw); msg != "" {
			errs.Add("description", msg)
		} else {
			input.Description = desc
		}
	}

	if raw, present := fields["in_stock"]; present {
		if inStock, msg := parseBoolField(raw); msg != "" {
			errs.Add("in_stock", msg)
		} else {
			input.InStock = inStock
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return input, nil
}

// ParsePatch validates a partial item payload. Only supplied keys are checked,
// against the same per-field rules as ParseItem; absent keys are neither
// defaulted nor reported. An empty patch is valid and applies nothing.
func ParsePatch(body []byte) (*ItemPatch, Errors) {
	errs := Errors{}

	fields, ok := decodeObject(body, errs)
	if !ok {
		return nil, errs
	}

	patch := &ItemPatch{}

	if raw, present := fields["name"]; present {
		if name, msg := parseName(raw); msg != "" {
			errs.Add("name", msg)
		} else {
			patch.Name = &name
		}
	}

	if raw, present := fields["price"]; present {
		if price, msg := parsePrice(raw); msg != "" {
			errs.Add("price", msg)
		} else {
			patch.Price = &price
		}
	}

	if raw, present := fields["description"]; present {
		if desc, msg := parseDescription(raw); msg != "" {
			errs.Add("description", msg)
		} else {
			patch.Description = desc
			patch.SetDescription = true
		}
	}

	if raw, present := fields["in_stock"]; present {
		if inStock, msg := parseBoolField(raw); msg != "" {
			errs.Add("in_stock", msg)
		} else {
			patch.InStock = &inStock
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return patch, nil
}

// decodeObject decodes the body into raw per-field values. A body that is not
// a JSON object contributes a _schema error.
func decodeObject(body []byte, errs Errors) (map[string]json.RawMessage, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		errs.Add(schemaField, "Invalid input type.")
		return nil, false
	}
	return fields, true
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// parseName coerces and checks a name value, returning the value or a message.
func parseName(raw json.RawMessage) (string, string) {
	if isNull(raw) {
		return "", "Field may not be null."
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return "", "Not a valid string."
	}
	if n := utf8.RuneCountInString(name); n < 1 || n > maxNameLength {
		return "", "Name must be between 1 and 100 characters"
	}
	return name, ""
}

func parsePrice(raw json.RawMessage) (float64, string) {
	if isNull(raw) {
		return 0, "Field may not be null."
	}
	var price float64
	if err := json.Unmarshal(raw, &price); err != nil {
		return 0, "Not a valid number."
	}
	if price < 0 {
		return 0, "Price must be non-negative"
	}
	return price, ""
}

func parseDescription(raw json.RawMessage) (*string, string) {
	if isNull(raw) {
		return nil, ""
	}
	var desc string
	if err := json.Unmarshal(raw, &desc); err != nil {
		return nil, "Not a valid string."
	}
	if utf8.RuneCountInString(desc) > maxDescriptionLength {
		return nil, "Longer than maximum length 500."
	}
	return &desc, ""
}

func parseBoolField(raw json.RawMessage) (bool, string) {
	if isNull(raw) {
		return false, "Field may not be null."
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, "Not a valid boolean."
	}
	return b, ""
}
