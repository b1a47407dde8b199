package types

// FetchResponse - Response from a successful fetch operation
type FetchResponse struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"-"`
	StatusCode  int    `json:"status_code"`
	// OriginalURL is set only if a redirect occurred. It represents the initial URL before any redirects.
	OriginalURL string `json:"original_url,omitempty"`
}

// Text returns the body as a string without charset conversion.
func (r *FetchResponse) Text() string {
	return string(r.Body)
}
