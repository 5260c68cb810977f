package vacmap

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"

	// Map images arrive as PNG from most firmwares, JPEG from camera-style
	// backends, and WebP from proxies that transcode.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/hajimehoshi/ebiten/v2"
)

// maxImageBytes limits a fetched map image to 32 MB.
const maxImageBytes = 32 << 20

// decodeMapImage decodes raw image bytes into an ebiten image.
func decodeMapImage(data []byte) (*ebiten.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode map image: %w", err)
	}
	return ebiten.NewImageFromImage(img), nil
}

// fetchMapImage GETs a map image. Cross-origin policy is the server's
// concern; any readable 2xx body is accepted and format is sniffed from the
// bytes, not the Content-Type.
func fetchMapImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch map image: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch map image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch map image: %s returned %s", url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("fetch map image: read body: %w", err)
	}
	return data, nil
}
