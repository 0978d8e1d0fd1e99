package common

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/nfnt/resize"
)

const PreviewWidth = 640

// IsImage reports whether a preview can be generated for the content type.
func IsImage(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif":
		return true
	}

	return false
}

// Preview scales an image attachment down to PreviewWidth, keeping the
// aspect ratio. Images which are already small enough are returned as is.
func Preview(a *Attachment) (*Attachment, error) {
	img, err := decodeImg(a.ContentType, bytes.NewReader(a.Data))
	if err != nil {
		return nil, err
	}

	if img.Bounds().Dx() <= PreviewWidth {
		return a, nil
	}

	b, err := encodeImg(a.ContentType, resize.Resize(PreviewWidth, 0, img, resize.Lanczos2))
	if err != nil {
		return nil, err
	}

	return &Attachment{FileName: a.FileName, ContentType: a.ContentType, Data: b}, nil
}

func decodeImg(mime string, data *bytes.Reader) (image.Image, error) {
	switch mime {
	case "image/jpeg":
		return jpeg.Decode(data)
	case "image/png":
		return png.Decode(data)
	case "image/gif":
		return gif.Decode(data)
	default:
		return nil, fmt.Errorf("unsupported image type %s", mime)
	}
}

func encodeImg(mime string, img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)

	var err error
	switch mime {
	case "image/jpeg":
		err = jpeg.Encode(buf, img, nil)
	case "image/png":
		err = png.Encode(buf, img)
	case "image/gif":
		err = gif.Encode(buf, img, nil)
	default:
		return nil, fmt.Errorf("unsupported image type %s", mime)
	}
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
