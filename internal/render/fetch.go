package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// FetchedImage is a decoded-enough image: raw bytes plus the natural
// dimensions needed for aspect-preserving layout.
type FetchedImage struct {
	Data   []byte
	Type   string // fpdf image type: PNG, JPG, GIF
	Width  int
	Height int
}

// ImageFetcher resolves an image source URL. Injectable so tests never touch
// the network.
type ImageFetcher func(ctx context.Context, url string) (*FetchedImage, error)

const maxImageBytes = 16 << 20

// HTTPImageFetcher fetches over HTTP(S) with the given timeout per image.
func HTTPImageFetcher(timeout time.Duration) ImageFetcher {
	client := &http.Client{Timeout: timeout}
	return func(ctx context.Context, url string) (*FetchedImage, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("build image request: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch image: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch image: unexpected status %d", resp.StatusCode)
		}
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
		if err != nil {
			return nil, fmt.Errorf("read image body: %w", err)
		}
		if len(data) > maxImageBytes {
			return nil, fmt.Errorf("image exceeds %d byte limit", maxImageBytes)
		}
		return DecodeImage(data)
	}
}

// DecodeImage sniffs format and dimensions without a full pixel decode.
func DecodeImage(data []byte) (*FetchedImage, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	var pdfType string
	switch format {
	case "png":
		pdfType = "PNG"
	case "jpeg":
		pdfType = "JPG"
	case "gif":
		pdfType = "GIF"
	default:
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
	return &FetchedImage{Data: data, Type: pdfType, Width: cfg.Width, Height: cfg.Height}, nil
}
