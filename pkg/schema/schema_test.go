package schema

import (
	"errors"
	"testing"

	"github.com/samvad-hq/streetview-node/pkg/streetview"
)

func TestNodeDeclaresGroupsAndOutputs(t *testing.T) {
	def := Node()
	if def.Category != "Maps/Google" {
		t.Fatalf("unexpected category %q", def.Category)
	}
	if len(def.Groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(def.Groups))
	}
	if !def.Groups[2].Hidden {
		t.Fatalf("advanced settings should be hidden by default")
	}
	if got := len(def.Inputs()); got != 8 {
		t.Fatalf("expected 8 inputs, got %d", got)
	}
	if len(def.Outputs) != 2 || def.Outputs[0].Name != OutputImage || def.Outputs[1].Name != OutputStatus {
		t.Fatalf("unexpected outputs %#v", def.Outputs)
	}
}

func TestDecodeAppliesDefaults(t *testing.T) {
	p, err := Decode([]byte(`{"address":"  Brandenburg Gate, Berlin "}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := streetview.DefaultParams("Brandenburg Gate, Berlin")
	if p.Location != want.Location || p.Size != want.Size || p.FOV != want.FOV ||
		p.Radius != want.Radius || p.Source != want.Source || p.ReturnErrorCode != want.ReturnErrorCode {
		t.Fatalf("got %#v, want %#v", p, want)
	}
	if p.Heading != nil {
		t.Fatalf("expected heading to stay unset")
	}
}

func TestDecodeReadsEveryField(t *testing.T) {
	raw := `{"address":"48.8584,2.2945","size":"640x640","heading":180,"fov":60,"pitch":15,"radius":300,"source":"outdoor","return_error_code":false}`
	p, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.Heading == nil || *p.Heading != 180 || p.FOV != 60 || p.Pitch != 15 || p.Radius != 300 ||
		p.Size != "640x640" || p.Source != "outdoor" || p.ReturnErrorCode {
		t.Fatalf("unexpected params %#v", p)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("decoded params should validate: %v", err)
	}
}

func TestDecodeRejectsSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"missing address": `{"size":"600x400"}`,
		"heading range":   `{"address":"x","heading":400}`,
		"fov range":       `{"address":"x","fov":5}`,
		"pitch range":     `{"address":"x","pitch":-100}`,
		"size enum":       `{"address":"x","size":"1x1"}`,
		"unknown param":   `{"address":"x","zoom":3}`,
		"wrong type":      `{"address":"x","fov":"wide"}`,
		"not json":        `address=x`,
	}
	for name, raw := range cases {
		_, err := Decode([]byte(raw))
		if !errors.Is(err, streetview.ErrInvalidParams) {
			t.Fatalf("%s: expected ErrInvalidParams, got %v", name, err)
		}
		if streetview.KindOf(err) != streetview.KindValidation {
			t.Fatalf("%s: expected validation kind", name)
		}
	}
}

func TestValidateNamesMissingProperty(t *testing.T) {
	err := Validate([]byte(`{}`))
	var verr *streetview.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != ParamAddress {
		t.Fatalf("unexpected fields %#v", verr.Fields)
	}
}

func TestJSONSchemaAllowsNullHeading(t *testing.T) {
	if err := Validate([]byte(`{"address":"x","heading":null}`)); err != nil {
		t.Fatalf("null heading should be accepted: %v", err)
	}
}
