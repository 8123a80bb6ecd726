package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/samvad-hq/streetview-node/pkg/streetview"
)

var jsonTypes = map[string]string{
	TypeString: "string",
	TypeInt:    "integer",
	TypeBool:   "boolean",
}

// JSONSchema renders the node inputs as a JSON Schema object.
func JSONSchema() map[string]any {
	def := Node()
	properties := make(map[string]any)
	var required []string

	for _, p := range def.Inputs() {
		prop := map[string]any{}
		typ := jsonTypes[p.Type]
		if p.Default == nil && !p.Required {
			prop["type"] = []string{typ, "null"}
		} else {
			prop["type"] = typ
		}
		if p.Tooltip != "" {
			prop["description"] = p.Tooltip
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		if len(p.Choices) > 0 {
			prop["enum"] = p.Choices
		}
		if p.Min != nil {
			prop["minimum"] = *p.Min
		}
		if p.Max != nil {
			prop["maximum"] = *p.Max
		}
		if p.Required {
			required = append(required, p.Name)
			prop["minLength"] = 1
		}
		properties[p.Name] = prop
	}

	return map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"title":                def.Type,
		"description":          def.Description,
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

// Validate checks a JSON payload against JSONSchema. Violations come back as a
// *streetview.ValidationError.
func Validate(raw []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(JSONSchema())
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("%w: payload is not valid JSON: %v", streetview.ErrInvalidParams, err)
	}
	if result.Valid() {
		return nil
	}

	fields := make([]streetview.FieldError, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		field := e.Field()
		if field == "(root)" {
			if prop, ok := e.Details()["property"].(string); ok && prop != "" {
				field = prop
			}
		}
		fields = append(fields, streetview.FieldError{Field: field, Reason: e.Description()})
	}
	return &streetview.ValidationError{Fields: fields}
}

// payload mirrors the host input object. Pointers tell absent from zero.
type payload struct {
	Address         *string `json:"address"`
	Size            *string `json:"size"`
	Heading         *int    `json:"heading"`
	FOV             *int    `json:"fov"`
	Pitch           *int    `json:"pitch"`
	Radius          *int    `json:"radius"`
	Source          *string `json:"source"`
	ReturnErrorCode *bool   `json:"return_error_code"`
}

// Decode validates raw and converts it into request params, applying defaults
// for absent fields.
func Decode(raw []byte) (streetview.Params, error) {
	if err := Validate(raw); err != nil {
		return streetview.Params{}, err
	}

	var in payload
	if err := json.Unmarshal(raw, &in); err != nil {
		return streetview.Params{}, fmt.Errorf("%w: decode payload: %v", streetview.ErrInvalidParams, err)
	}

	p := streetview.DefaultParams("")
	if in.Address != nil {
		p.Location = strings.TrimSpace(*in.Address)
	}
	if in.Size != nil {
		p.Size = *in.Size
	}
	p.Heading = in.Heading
	if in.FOV != nil {
		p.FOV = *in.FOV
	}
	if in.Pitch != nil {
		p.Pitch = *in.Pitch
	}
	if in.Radius != nil {
		p.Radius = *in.Radius
	}
	if in.Source != nil {
		p.Source = *in.Source
	}
	if in.ReturnErrorCode != nil {
		p.ReturnErrorCode = *in.ReturnErrorCode
	}
	return p.WithDefaults(), nil
}
