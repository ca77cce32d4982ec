package util

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
	jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0}
)

func TestDecodeBase64MaybeDataURL(t *testing.T) {
	raw := base64.StdEncoding.EncodeToString(pngBytes)

	tests := []struct {
		name     string
		in       string
		wantMIME string
	}{
		{name: "plain base64", in: raw, wantMIME: ""},
		{name: "png data url", in: "data:image/png;base64," + raw, wantMIME: "image/png"},
		{name: "jpeg data url", in: "data:image/jpeg;base64," + raw, wantMIME: "image/jpeg"},
		{name: "jpg data url", in: "data:image/jpg;base64," + raw, wantMIME: "image/jpg"},
		{name: "leading whitespace", in: "  data:image/png;base64," + raw, wantMIME: "image/png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, mime, err := DecodeBase64MaybeDataURL(tt.in)
			require.NoError(t, err)
			assert.Equal(t, pngBytes, b, "префикс должен сниматься до байтов")
			assert.Equal(t, tt.wantMIME, mime)
		})
	}
}

func TestDecodeBase64MaybeDataURL_URLSafe(t *testing.T) {
	// байты, дающие '-'/'_' в URL-safe алфавите
	raw := []byte{0xFB, 0xEF, 0xFF, 0xFE}
	s := base64.URLEncoding.EncodeToString(raw)
	b, _, err := DecodeBase64MaybeDataURL(s)
	require.NoError(t, err)
	assert.Equal(t, raw, b)
}

func TestDecodeBase64MaybeDataURL_Bad(t *testing.T) {
	_, _, err := DecodeBase64MaybeDataURL("data:image/png;base64,@@@not-base64@@@")
	assert.Error(t, err)
}

func TestPickMIME(t *testing.T) {
	assert.Equal(t, "image/webp", PickMIME("image/webp", "image/png", pngBytes))
	assert.Equal(t, "image/png", PickMIME("", "image/png", jpegBytes))
	assert.Equal(t, "image/jpeg", PickMIME("", "", jpegBytes))
	assert.Equal(t, "image/png", PickMIME("", "", pngBytes))
	assert.Equal(t, "image/jpeg", PickMIME("", "", nil))

	// не jpeg/png: сниффер пропускает, детект по http.DetectContentType
	webp := []byte("RIFF\x00\x00\x00\x00WEBPVP8 ")
	assert.Equal(t, "image/webp", PickMIME("", "", webp))
}

func TestSniffMimeHTTP(t *testing.T) {
	assert.Equal(t, "image/jpeg", SniffMimeHTTP(jpegBytes))
	assert.Equal(t, "image/png", SniffMimeHTTP(pngBytes))
	assert.Equal(t, "application/octet-stream", SniffMimeHTTP([]byte("hello")))
}

func TestSHA256Hex(t *testing.T) {
	// эталон: sha256("")
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", SHA256Hex(nil))
	assert.Len(t, SHA256Hex([]byte("leaf")), 64)
}
