package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/stamina-web-api/internal/dto"
	"github.com/noah-isme/stamina-web-api/pkg/ai"
	"github.com/noah-isme/stamina-web-api/pkg/storage"
)

type generatorStub struct {
	data    []byte
	err     error
	request ai.ImageRequest
}

func (g *generatorStub) Generate(ctx context.Context, req ai.ImageRequest) (ai.GeneratedImage, error) {
	g.request = req
	if g.err != nil {
		return ai.GeneratedImage{}, g.err
	}
	return ai.GeneratedImage{Data: g.data}, nil
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 26, G: 26, B: 46, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImageServiceStoresGeneratedImage(t *testing.T) {
	dir := t.TempDir()
	generator := &generatorStub{data: tinyPNG(t)}
	svc := NewImageService(generator, storage.NewLocalStorage(dir, "/generated-images"), testLogger()).(*imageService)
	svc.now = func() time.Time { return time.UnixMilli(1760886245000) }

	resp, err := svc.Generate(context.Background(), dto.ImageGenerateRequest{Prompt: "  Pacific port at dawn ", Size: "1344x768"})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, "pacific-port-1760886245000.png", resp.Filename)
	require.Equal(t, "/generated-images/pacific-port-1760886245000.png", resp.ImageURL)
	require.Equal(t, "Pacific port at dawn", resp.Prompt)
	require.Equal(t, "1344x768", generator.request.Size)

	stored, err := os.ReadFile(filepath.Join(dir, resp.Filename))
	require.NoError(t, err)
	require.Equal(t, generator.data, stored)
}

func TestImageServiceRejectsNonImagePayload(t *testing.T) {
	svc := NewImageService(&generatorStub{data: []byte("plain text, not pixels")}, storage.NewLocalStorage(t.TempDir(), "/generated-images"), testLogger())

	_, err := svc.Generate(context.Background(), dto.ImageGenerateRequest{Prompt: "port"})
	require.ErrorIs(t, err, ErrImageInvalidPayload)
}

func TestImageServiceValidation(t *testing.T) {
	svc := NewImageService(nil, nil, testLogger())

	_, err := svc.Generate(context.Background(), dto.ImageGenerateRequest{Prompt: "  "})
	require.ErrorIs(t, err, ErrImagePromptRequired)

	_, err = svc.Generate(context.Background(), dto.ImageGenerateRequest{Prompt: "port"})
	require.ErrorIs(t, err, ErrImageGenerationNotConfigured)
}

func TestImageServiceGeneratorFailure(t *testing.T) {
	boom := errors.New("rate limited")
	svc := NewImageService(&generatorStub{err: boom}, storage.NewLocalStorage(t.TempDir(), "/generated-images"), testLogger())

	_, err := svc.Generate(context.Background(), dto.ImageGenerateRequest{Prompt: "port"})
	require.ErrorIs(t, err, boom)
}
