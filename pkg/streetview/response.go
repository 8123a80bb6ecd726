package streetview

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/samvad-hq/streetview-node/pkg/httpclient"
)

// StatusHeader carries a Street View status string alongside a 200 response.
const StatusHeader = "X-Streetview-Status"

// Street View status values that mean the location has no panorama.
const (
	apiStatusOK          = "OK"
	apiStatusZeroResults = "ZERO_RESULTS"
	apiStatusNotFound    = "NOT_FOUND"
	apiStatusDenied      = "REQUEST_DENIED"
	apiStatusOverLimit   = "OVER_QUERY_LIMIT"
	apiStatusInvalid     = "INVALID_REQUEST"
)

// Image is a fetched Street View image.
type Image struct {
	// URL is the request URL after redirects. It still carries the API key.
	URL         string
	ContentType string
	Body        []byte
}

// Interpret maps a Street View response onto an image or a classified error.
func Interpret(resp httpclient.Response, p Params) (*Image, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: nil response", ErrTransport)
	}

	code := resp.StatusCode()
	body := resp.Body()

	switch code {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, &APIError{StatusCode: code, Err: ErrNoImagery}
	case http.StatusBadRequest:
		return nil, &APIError{StatusCode: code, Snippet: responseSnippet(body), Err: ErrInvalidRequest}
	case http.StatusForbidden:
		return nil, &APIError{StatusCode: code, Snippet: responseSnippet(body), Err: ErrRequestDenied}
	default:
		return nil, &APIError{StatusCode: code, Snippet: responseSnippet(body)}
	}

	contentType := contentTypeOf(resp.Header(), body)
	isImage := strings.HasPrefix(contentType, "image/")

	apiStatus := strings.ToUpper(strings.TrimSpace(resp.Header().Get(StatusHeader)))
	if apiStatus == "" && !isImage {
		apiStatus = bodyStatus(body)
	}

	switch apiStatus {
	case "", apiStatusOK:
	case apiStatusZeroResults, apiStatusNotFound:
		// Without return_error_code the caller asked for the API's placeholder
		// bitmap, so only an actual image is passed through.
		if p.ReturnErrorCode || !isImage {
			return nil, &APIError{StatusCode: code, APIStatus: apiStatus, Err: ErrNoImagery}
		}
	case apiStatusDenied, apiStatusOverLimit:
		return nil, &APIError{StatusCode: code, APIStatus: apiStatus, Err: ErrRequestDenied}
	case apiStatusInvalid:
		return nil, &APIError{StatusCode: code, APIStatus: apiStatus, Err: ErrInvalidRequest}
	default:
		if !isImage {
			return nil, &APIError{StatusCode: code, APIStatus: apiStatus, Snippet: responseSnippet(body)}
		}
	}

	if !isImage {
		return nil, &APIError{StatusCode: code, Snippet: fmt.Sprintf("unexpected content type %q", contentType)}
	}
	if len(body) == 0 {
		return nil, &APIError{StatusCode: code, Snippet: "empty image payload"}
	}

	return &Image{
		URL:         resp.FinalURL(),
		ContentType: contentType,
		Body:        body,
	}, nil
}

func contentTypeOf(h http.Header, body []byte) string {
	raw := strings.TrimSpace(h.Get("Content-Type"))
	if raw == "" && len(body) > 0 {
		raw = http.DetectContentType(body)
	}
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return strings.ToLower(raw)
	}
	return mediaType
}

func bodyStatus(body []byte) string {
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(payload.Status))
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
