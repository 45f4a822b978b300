package storage

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/gofiber/storage/memory/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// pngWithCanvas returns a tiny png whose header declares width x height.
// Only the IHDR chunk is rewritten, so the file stays a few bytes long.
func pngWithCanvas(t *testing.T, width, height uint32) []byte {
	t.Helper()
	content := pngBytes(t, 1, 1)

	// signature(8) length(4) "IHDR"(4) width(4) height(4) ... crc at 29
	binary.BigEndian.PutUint32(content[16:20], width)
	binary.BigEndian.PutUint32(content[20:24], height)
	binary.BigEndian.PutUint32(content[29:33], crc32.ChecksumIEEE(content[12:29]))
	return content
}

func TestStorageServiceRoundTrip(t *testing.T) {
	svc := NewStorageService(memory.New(), 0, 0)

	require.NoError(t, svc.SaveFile("img-1-a.png", []byte("content")))

	got, err := svc.GetFile("img-1-a.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), got)

	require.NoError(t, svc.DeleteFile("img-1-a.png"))
	_, err = svc.GetFile("img-1-a.png")
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = svc.GetFile("../secret")
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.ErrorIs(t, svc.SaveFile("a/b.png", nil), ErrInvalidKey)
}

func TestIsFileExtensionAllowed(t *testing.T) {
	svc := NewStorageService(memory.New(), 0, 0)

	testCases := []struct {
		filename string
		expected bool
	}{
		{"photo.jpg", true},
		{"photo.JPEG", true},
		{"photo.png", true},
		{"photo.webp", true},
		{"photo.gif", true},
		{"notes.txt", false},
		{"archive.png.exe", false},
		{"jpg", false},
	}

	for _, tc := range testCases {
		t.Run(tc.filename, func(t *testing.T) {
			assert.Equal(t, tc.expected, svc.IsFileExtensionAllowed(tc.filename))
		})
	}
}

func TestGenerateKeyName(t *testing.T) {
	svc := NewStorageService(memory.New(), 0, 0)

	testCases := []struct {
		filename string
		suffix   string
	}{
		{"photo.jpg", "-photo.jpg"},
		{"my photo (1).png", "-my-photo-1-.png"},
		{"../../etc/passwd", "-passwd"},
		{`C:\Users\ana\skate.jpg`, "-skate.jpg"},
		{"a..b.jpg", "-a.b.jpg"},
	}

	for _, tc := range testCases {
		t.Run(tc.filename, func(t *testing.T) {
			key := svc.GenerateKeyName(tc.filename)
			assert.True(t, strings.HasPrefix(key, "img-"), key)
			assert.True(t, strings.HasSuffix(key, tc.suffix), key)
			assert.True(t, IsValidKey(key), key)
		})
	}

	assert.NotEqual(t, svc.GenerateKeyName("photo.jpg"), svc.GenerateKeyName("photo.jpg"))
	assert.True(t, IsValidKey(svc.GenerateKeyName("...")))
}

func TestPrepareImage(t *testing.T) {
	t.Run("rejects non images", func(t *testing.T) {
		_, err := PrepareImage([]byte("definitely not a picture"), 100, DefaultMaxPixels)
		assert.ErrorIs(t, err, ErrUnsupportedImage)
	})

	t.Run("keeps small images untouched", func(t *testing.T) {
		content := pngBytes(t, 40, 20)
		got, err := PrepareImage(content, 100, DefaultMaxPixels)
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("downscales large images", func(t *testing.T) {
		got, err := PrepareImage(pngBytes(t, 40, 20), 10, DefaultMaxPixels)
		require.NoError(t, err)

		cfg, format, err := image.DecodeConfig(bytes.NewReader(got))
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, 10, cfg.Width)
		assert.Equal(t, 5, cfg.Height)
	})

	t.Run("portrait", func(t *testing.T) {
		got, err := PrepareImage(pngBytes(t, 20, 40), 10, DefaultMaxPixels)
		require.NoError(t, err)

		cfg, _, err := image.DecodeConfig(bytes.NewReader(got))
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.Width)
		assert.Equal(t, 10, cfg.Height)
	})
}

func TestPrepareImageRejectsHugeCanvas(t *testing.T) {
	content := pngWithCanvas(t, 12_000, 12_000)
	require.Less(t, len(content), 1024)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(content))
	require.NoError(t, err)
	require.Equal(t, 12_000, cfg.Width)

	_, err = PrepareImage(content, 1600, DefaultMaxPixels)
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	svc := NewStorageService(memory.New(), 1600, DefaultMaxPixels)
	_, err = svc.PrepareImage(content)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestPrepareImagePixelCap(t *testing.T) {
	testCases := []struct {
		name      string
		maxPixels int
		wantErr   bool
	}{
		{"below cap", 1_000, false},
		{"exact cap", 800, false},
		{"above cap", 799, true},
		{"cap disabled", 0, false},
	}

	content := pngBytes(t, 40, 20)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := PrepareImage(content, 0, tc.maxPixels)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedImage)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
