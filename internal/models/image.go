package models

// GeneratedImage is the response of POST /api/gemini/test-image.
type GeneratedImage struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}
