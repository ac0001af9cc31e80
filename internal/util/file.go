package util

import (
	"github.com/gabriel-vasile/mimetype"
)

// DetectImageMime 根据文件头识别图片类型，仅接受 JPEG/PNG
func DetectImageMime(data []byte) (string, bool) {
	mt := mimetype.Detect(data)
	for _, allowed := range AllowedImageMimeTypes {
		if mt.Is(allowed) {
			return allowed, true
		}
	}
	return mt.String(), false
}
