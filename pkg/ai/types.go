package ai

import "context"

// Image orientations mapped onto the sizes the provider supports.
const (
	SizeLandscape = "1792x1024"
	SizeSquare    = "1024x1024"
	SizePortrait  = "1024x1792"
)

// ImageRequest describes one marketing image to render.
type ImageRequest struct {
	Prompt string
	Size   string
}

// GeneratedImage holds raw image bytes returned by the provider.
type GeneratedImage struct {
	Data          []byte
	RevisedPrompt string
	Model         string
}

// ImageGenerator renders images from text prompts.
type ImageGenerator interface {
	Generate(ctx context.Context, req ImageRequest) (GeneratedImage, error)
}
