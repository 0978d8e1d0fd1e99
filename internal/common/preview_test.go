package common

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(2, 3, color.RGBA{255, 0, 0, 255})

	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestPreview(t *testing.T) {
	large := &Attachment{FileName: "large.png", ContentType: "image/png", Data: pngOf(t, 1280, 640)}
	preview, err := Preview(large)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(preview.Data))
	require.NoError(t, err)
	require.Equal(t, PreviewWidth, img.Bounds().Dx())
	require.Equal(t, PreviewWidth/2, img.Bounds().Dy())

	small := &Attachment{FileName: "small.png", ContentType: "image/png", Data: pngOf(t, 100, 50)}
	preview, err = Preview(small)
	require.NoError(t, err)
	require.Same(t, small, preview)

	_, err = Preview(&Attachment{ContentType: "image/png", Data: []byte("not an image")})
	require.Error(t, err)
}

func TestIsImage(t *testing.T) {
	require.True(t, IsImage("image/png"))
	require.False(t, IsImage("text/plain; charset=utf-8"))
}
