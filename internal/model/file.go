package model

type UploadAttachmentRequest struct{}

type UploadAttachmentResponse struct {
	Path string `json:"path"`
	URL  string `json:"url"`

	// PreviewURL is only set for images.
	PreviewURL string `json:"preview_url,omitempty"`
}
