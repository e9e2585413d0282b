package minio

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"io"
	"slices"

	"github.com/SWYP-foreigner/Kori-chatting/types"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "github.com/gen2brain/avif"
	_ "golang.org/x/image/webp"
)

const (
	MaxImageBytes = 5 << 20
	thumbnailSize = 512
)

var imageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/avif"}

// Thumbnail decodes a JPEG, PNG, WebP or AVIF image of at most MaxImageBytes and
// center crops it to a 512x512 JPEG.
func Thumbnail(r io.Reader) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read room image: %w", err)
	}

	if len(b) > MaxImageBytes {
		return nil, types.ErrImageTooLarge
	}

	if !slices.ContainsFunc(imageTypes, mimetype.Detect(b).Is) {
		return nil, types.ErrInvalidImage
	}

	img, err := imaging.Decode(bytes.NewReader(b), imaging.AutoOrientation(true))
	if err != nil {
		return nil, types.ErrInvalidImage
	}

	img = imaging.Fill(img, thumbnailSize, thumbnailSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode room image: %w", err)
	}

	return buf.Bytes(), nil
}
