package dto

// ImageGenerateRequest asks for a marketing image rendered from a prompt.
type ImageGenerateRequest struct {
	Prompt string `json:"prompt"`
	Size   string `json:"size"`
}

// ImageGenerateResponse describes a stored generated image.
type ImageGenerateResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl"`
	Filename string `json:"filename"`
	Prompt   string `json:"prompt"`
}
