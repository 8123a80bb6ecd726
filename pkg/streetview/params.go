package streetview

import (
	"fmt"
	"strings"
)

// Image sizes offered to the host. The API caps the free tier at 640x640.
const (
	Size400x300 = "400x300"
	Size600x400 = "600x400"
	Size640x640 = "640x640"
	Size800x600 = "800x600"
)

// Imagery sources.
const (
	SourceDefault = "default"
	SourceOutdoor = "outdoor"
)

// Defaults and bounds, matching the Static API's own defaults where one exists.
const (
	DefaultSize            = Size600x400
	DefaultFOV             = 90
	DefaultPitch           = 0
	DefaultRadius          = 50
	DefaultSource          = SourceDefault
	DefaultReturnErrorCode = true

	MinHeading = 0
	MaxHeading = 360
	MinFOV     = 10
	MaxFOV     = 120
	MinPitch   = -90
	MaxPitch   = 90
	MinRadius  = 1
	MaxRadius  = 1000
)

// Sizes lists the accepted size choices in display order.
func Sizes() []string {
	return []string{Size400x300, Size600x400, Size640x640, Size800x600}
}

// Sources lists the accepted imagery sources.
func Sources() []string {
	return []string{SourceDefault, SourceOutdoor}
}

// Params is one Street View request. Location is an address or "lat,lng".
// A nil Heading lets the API point the camera at the location.
type Params struct {
	Location        string `json:"location"`
	Size            string `json:"size"`
	Heading         *int   `json:"heading,omitempty"`
	FOV             int    `json:"fov"`
	Pitch           int    `json:"pitch"`
	Radius          int    `json:"radius"`
	Source          string `json:"source"`
	ReturnErrorCode bool   `json:"return_error_code"`
}

// DefaultParams returns params for location with every other field at its default.
func DefaultParams(location string) Params {
	return Params{
		Location:        location,
		Size:            DefaultSize,
		FOV:             DefaultFOV,
		Pitch:           DefaultPitch,
		Radius:          DefaultRadius,
		Source:          DefaultSource,
		ReturnErrorCode: DefaultReturnErrorCode,
	}
}

// WithDefaults fills blank string fields and trims the location. Numeric
// zero values are kept as given so out-of-range input still fails Validate.
func (p Params) WithDefaults() Params {
	p.Location = strings.TrimSpace(p.Location)
	p.Size = strings.ToLower(strings.TrimSpace(p.Size))
	if p.Size == "" {
		p.Size = DefaultSize
	}
	p.Source = strings.ToLower(strings.TrimSpace(p.Source))
	if p.Source == "" {
		p.Source = DefaultSource
	}
	return p
}

// Validate reports every out-of-range or missing field in one error.
func (p Params) Validate() error {
	var fields []FieldError
	add := func(field, format string, args ...any) {
		fields = append(fields, FieldError{Field: field, Reason: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(p.Location) == "" {
		add("location", "address or lat,lng coordinates are required")
	}
	if !contains(Sizes(), p.Size) {
		add("size", "must be one of %s, got %q", strings.Join(Sizes(), ", "), p.Size)
	}
	if p.Heading != nil && (*p.Heading < MinHeading || *p.Heading > MaxHeading) {
		add("heading", "must be between %d and %d, got %d", MinHeading, MaxHeading, *p.Heading)
	}
	if p.FOV < MinFOV || p.FOV > MaxFOV {
		add("fov", "must be between %d and %d, got %d", MinFOV, MaxFOV, p.FOV)
	}
	if p.Pitch < MinPitch || p.Pitch > MaxPitch {
		add("pitch", "must be between %d and %d, got %d", MinPitch, MaxPitch, p.Pitch)
	}
	if p.Radius < MinRadius || p.Radius > MaxRadius {
		add("radius", "must be between %d and %d, got %d", MinRadius, MaxRadius, p.Radius)
	}
	if !contains(Sources(), p.Source) {
		add("source", "must be one of %s, got %q", strings.Join(Sources(), ", "), p.Source)
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
