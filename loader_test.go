package vacmap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDecodeMapImage(t *testing.T) {
	img, err := decodeMapImage(pngBytes(t))
	if err != nil {
		t.Fatalf("decodeMapImage: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 8 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
}

func TestDecodeMapImageRejectsGarbage(t *testing.T) {
	if _, err := decodeMapImage([]byte("not an image")); err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestFetchMapImage(t *testing.T) {
	want := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// Wrong Content-Type on purpose; format is sniffed from the bytes.
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(want)
	}))
	defer srv.Close()

	data, err := fetchMapImage(context.Background(), http.DefaultClient, srv.URL+"/map")
	if err != nil {
		t.Fatalf("fetchMapImage: %v", err)
	}
	if _, err := decodeMapImage(data); err != nil {
		t.Fatalf("decode fetched image: %v", err)
	}
}

func TestFetchMapImageNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	if _, err := fetchMapImage(context.Background(), http.DefaultClient, srv.URL); err == nil {
		t.Fatal("expected an error for 404")
	}
}
