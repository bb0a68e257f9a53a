package media

import (
	"bytes"

	"github.com/disintegration/imaging"
)

// Thumbnail decodes an image and re-encodes a width-bound JPEG preview.
// Height follows the source aspect ratio.
func Thumbnail(data []byte, width int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	thumb := imaging.Resize(img, width, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
