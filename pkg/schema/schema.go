// Package schema declares the Street View node's contract with its hosting runtime.
package schema

import (
	"github.com/samvad-hq/streetview-node/pkg/streetview"
)

// Parameter types as the host runtime names them.
const (
	TypeString   = "str"
	TypeInt      = "int"
	TypeBool     = "bool"
	TypeImageURL = "ImageUrlArtifact"
)

// Parameter modes.
const (
	ModeInput    = "input"
	ModeProperty = "property"
	ModeOutput   = "output"
)

// Host-facing parameter names.
const (
	ParamAddress         = "address"
	ParamSize            = "size"
	ParamHeading         = "heading"
	ParamFOV             = "fov"
	ParamPitch           = "pitch"
	ParamRadius          = "radius"
	ParamSource          = "source"
	ParamReturnErrorCode = "return_error_code"

	OutputImage  = "street_view_image"
	OutputStatus = "status"
)

// Parameter describes one node input or output.
type Parameter struct {
	Name      string         `json:"name"`
	Type      string         `json:"type"`
	Modes     []string       `json:"modes"`
	Tooltip   string         `json:"tooltip,omitempty"`
	Default   any            `json:"default,omitempty"`
	Choices   []string       `json:"choices,omitempty"`
	Min       *int           `json:"min,omitempty"`
	Max       *int           `json:"max,omitempty"`
	Required  bool           `json:"required,omitempty"`
	UIOptions map[string]any `json:"ui_options,omitempty"`
}

// Group is a named, optionally collapsed, set of parameters.
type Group struct {
	Name       string      `json:"name"`
	Hidden     bool        `json:"hidden,omitempty"`
	Parameters []Parameter `json:"parameters"`
}

// Definition is the full node declaration.
type Definition struct {
	Type        string      `json:"type"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Groups      []Group     `json:"groups"`
	Outputs     []Parameter `json:"outputs"`
}

// Inputs flattens the grouped input parameters in declaration order.
func (d Definition) Inputs() []Parameter {
	var out []Parameter
	for _, g := range d.Groups {
		out = append(out, g.Parameters...)
	}
	return out
}

var inputModes = []string{ModeInput, ModeProperty}

func intPtr(v int) *int { return &v }

// Node returns the Street View node declaration.
func Node() Definition {
	return Definition{
		Type:        "GoogleStreetView",
		Category:    "Maps/Google",
		Description: "Fetch Street View image from Google Street View Static API",
		Groups: []Group{
			{
				Name: "Location",
				Parameters: []Parameter{
					{
						Name:      ParamAddress,
						Type:      TypeString,
						Modes:     inputModes,
						Tooltip:   "Street address or coordinates (lat,lng) for Street View",
						Required:  true,
						UIOptions: map[string]any{"placeholder_text": "Enter address or lat,lng coordinates..."},
					},
				},
			},
			{
				Name: "Image Settings",
				Parameters: []Parameter{
					{
						Name:    ParamSize,
						Type:    TypeString,
						Modes:   inputModes,
						Tooltip: "Image size in pixels (width x height). Max 640x640 for free tier.",
						Default: streetview.DefaultSize,
						Choices: streetview.Sizes(),
					},
					{
						Name:    ParamHeading,
						Type:    TypeInt,
						Modes:   inputModes,
						Tooltip: "Compass heading of camera (0-360°). Auto if not specified.",
						Min:     intPtr(streetview.MinHeading),
						Max:     intPtr(streetview.MaxHeading),
					},
					{
						Name:    ParamFOV,
						Type:    TypeInt,
						Modes:   inputModes,
						Tooltip: "Field of view in degrees (10-120°). Lower = more zoom.",
						Default: streetview.DefaultFOV,
						Min:     intPtr(streetview.MinFOV),
						Max:     intPtr(streetview.MaxFOV),
					},
					{
						Name:    ParamPitch,
						Type:    TypeInt,
						Modes:   inputModes,
						Tooltip: "Up/down angle (-90 to 90°). 0 = horizontal.",
						Default: streetview.DefaultPitch,
						Min:     intPtr(streetview.MinPitch),
						Max:     intPtr(streetview.MaxPitch),
					},
				},
			},
			{
				Name:   "Advanced Settings",
				Hidden: true,
				Parameters: []Parameter{
					{
						Name:    ParamRadius,
						Type:    TypeInt,
						Modes:   inputModes,
						Tooltip: "Search radius in meters for finding Street View imagery.",
						Default: streetview.DefaultRadius,
						Min:     intPtr(streetview.MinRadius),
						Max:     intPtr(streetview.MaxRadius),
					},
					{
						Name:    ParamSource,
						Type:    TypeString,
						Modes:   inputModes,
						Tooltip: "Imagery source restriction.",
						Default: streetview.DefaultSource,
						Choices: streetview.Sources(),
					},
					{
						Name:    ParamReturnErrorCode,
						Type:    TypeBool,
						Modes:   inputModes,
						Tooltip: "Return error code instead of generic 'no imagery' image.",
						Default: streetview.DefaultReturnErrorCode,
					},
				},
			},
		},
		Outputs: []Parameter{
			{
				Name:      OutputImage,
				Type:      TypeImageURL,
				Modes:     []string{ModeOutput},
				Tooltip:   "Street View image as ImageUrlArtifact",
				UIOptions: map[string]any{"is_full_width": true, "pulse_on_run": true},
			},
			{
				Name:      OutputStatus,
				Type:      TypeString,
				Modes:     []string{ModeOutput},
				Tooltip:   "Status message about the Street View request",
				UIOptions: map[string]any{"multiline": true},
			},
		},
	}
}
