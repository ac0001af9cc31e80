package service

import (
	"bytes"
	"campus_quest_backend/internal/util"
	"image"
	"image/jpeg"
	_ "image/png"
)

const jpegQuality = 90

// ProcessedImage 统一转码为 JPEG 后的图片
type ProcessedImage struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// ImageService 校验上传图片并转码
type ImageService struct {
	MaxBytes int64
}

func NewImageService(maxBytes int64) *ImageService {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &ImageService{MaxBytes: maxBytes}
}

// Process checks size and sniffed type, decodes, and re-encodes as JPEG.
func (s *ImageService) Process(data []byte) (*ProcessedImage, error) {
	if int64(len(data)) > s.MaxBytes {
		return nil, util.ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, util.ErrInvalidImage
	}
	if _, ok := util.DetectImageMime(data); !ok {
		return nil, util.ErrInvalidImage
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, util.ErrInvalidImage
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &ProcessedImage{
		Data:        buf.Bytes(),
		ContentType: util.MimeJPEG,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
	}, nil
}
