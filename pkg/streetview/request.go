package streetview

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultBaseURL = "https://maps.googleapis.com/maps/api/streetview"
	APIKeyEnvVar   = "GOOGLE_MAPS_API_KEY"
)

// Query parameter names understood by the Street View Static API.
const (
	paramLocation        = "location"
	paramSize            = "size"
	paramHeading         = "heading"
	paramFOV             = "fov"
	paramPitch           = "pitch"
	paramRadius          = "radius"
	paramSource          = "source"
	paramReturnErrorCode = "return_error_code"
	paramKey             = "key"
)

// BuildURL composes the request URL. Optional parameters equal to the API's
// own defaults are omitted.
func BuildURL(baseURL, apiKey string, p Params) (string, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}

	q := u.Query()
	q.Set(paramLocation, p.Location)
	q.Set(paramSize, p.Size)
	if p.Heading != nil {
		q.Set(paramHeading, strconv.Itoa(*p.Heading))
	}
	if p.FOV != DefaultFOV {
		q.Set(paramFOV, strconv.Itoa(p.FOV))
	}
	if p.Pitch != DefaultPitch {
		q.Set(paramPitch, strconv.Itoa(p.Pitch))
	}
	if p.Radius != DefaultRadius {
		q.Set(paramRadius, strconv.Itoa(p.Radius))
	}
	if p.Source != "" && p.Source != SourceDefault {
		q.Set(paramSource, p.Source)
	}
	if p.ReturnErrorCode {
		q.Set(paramReturnErrorCode, "true")
	}
	q.Set(paramKey, apiKey)

	u.RawQuery = q.Encode()
	return u.String(), nil
}

// RedactKey masks the API key in a request URL so it can be logged or published.
func RedactKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if _, ok := q[paramKey]; !ok {
		return raw
	}
	q.Set(paramKey, "REDACTED")
	u.RawQuery = q.Encode()
	return u.String()
}
