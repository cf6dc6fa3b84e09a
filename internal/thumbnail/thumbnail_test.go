package thumbnail

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droplet/service/internal/storage"
)

func publishBytes(t *testing.T, store *storage.DiskStore, id string, content []byte) {
	t.Helper()
	tmp, err := store.Stage()
	require.NoError(t, err)
	_, err = tmp.Write(content)
	require.NoError(t, err)
	require.NoError(t, tmp.Close())
	require.NoError(t, store.Publish(id, tmp.Name()))
}

func encodeImage(t *testing.T, w, h int, encode func(io.Writer, image.Image) error) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 3), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, encode(&buf, img))
	return buf.Bytes()
}

func TestGenerateSquareThumbnailFromPNG(t *testing.T) {
	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	gen := NewGenerator(store, 96)

	publishBytes(t, store, "wide.png", encodeImage(t, 300, 100, png.Encode))
	require.NoError(t, gen.Generate("wide.png"))

	rc, _, err := store.OpenThumbnail("wide.png")
	require.NoError(t, err)
	defer rc.Close()

	thumb, err := png.Decode(rc)
	require.NoError(t, err)
	assert.Equal(t, 96, thumb.Bounds().Dx())
	assert.Equal(t, 96, thumb.Bounds().Dy())
}

func TestGenerateFromJPEG(t *testing.T) {
	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	gen := NewGenerator(store, 48)

	jpegEncode := func(w io.Writer, img image.Image) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 80})
	}
	publishBytes(t, store, "photo.jpg", encodeImage(t, 60, 180, jpegEncode))
	require.NoError(t, gen.Generate("photo.jpg"))

	rc, _, err := store.OpenThumbnail("photo.jpg")
	require.NoError(t, err)
	defer rc.Close()

	// Thumbnails are always re-encoded as PNG regardless of source format.
	thumb, err := png.Decode(rc)
	require.NoError(t, err)
	assert.Equal(t, 48, thumb.Bounds().Dx())
	assert.Equal(t, 48, thumb.Bounds().Dy())
}

func TestGenerateCorruptImageFailsWithoutArtifactDamage(t *testing.T) {
	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	gen := NewGenerator(store, 96)

	publishBytes(t, store, "broken.png", []byte("definitely not image data"))
	require.Error(t, gen.Generate("broken.png"))

	// No thumbnail appears, the original stays readable.
	_, _, err = store.OpenThumbnail("broken.png")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	rc, _, err := store.Open("broken.png")
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "definitely not image data", string(b))
}

func TestGenerateUnknownIDFails(t *testing.T) {
	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	gen := NewGenerator(store, 96)

	assert.Error(t, gen.Generate("missing.png"))
}
