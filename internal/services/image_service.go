package services

import (
	"bytes"
	"fmt"
	"mime/multipart"

	"github.com/disintegration/imaging"
)

// thumbnailWidth is the bounding width for generated thumbnails.
const thumbnailWidth = 400

// ImageService generates thumbnails for uploaded photos
type ImageService struct{}

// NewImageService creates a new image service
func NewImageService() *ImageService {
	return &ImageService{}
}

// Thumbnail decodes an uploaded image and returns a JPEG thumbnail resized
// to fit the standard width, preserving aspect ratio.
func (s *ImageService) Thumbnail(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	thumb := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
