package domain

// Domain contains core models shared by the runtime, artifact stores and publishers.

// ImageArtifact is the opaque image handle returned to the host.
type ImageArtifact struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type,omitempty"`
	Bytes       int    `json:"bytes,omitempty"`
}

// Result is the outcome of one node invocation. On success Image is set and
// Status is empty; on failure Image is nil and Status explains why.
type Result struct {
	Image  *ImageArtifact `json:"street_view_image"`
	Status string         `json:"status"`
	Kind   string         `json:"kind,omitempty"`
}

// OK reports whether the invocation produced an image.
func (r Result) OK() bool { return r.Image != nil && r.Status == "" }
