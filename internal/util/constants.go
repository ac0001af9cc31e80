package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageS3    = "s3"
	StorageOSS   = "oss"
)

// 上传图片允许的 MIME 类型
const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
)

var AllowedImageMimeTypes = []string{MimeJPEG, MimePNG}

// VerificationQuorum 达成已验证所需的不同验证人数量
const VerificationQuorum = 2

const MaxCaptionLength = 255

// 列表接口分页
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)
