package util

const DateFormat = "2006-01-02"

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

// 证书模板上传允许的类型
const (
	MimeImage = "image/"
	MimePDF   = "application/pdf"
)

var AllowedTemplateMimeTypes = []string{MimePDF, MimeImage}

// DefaultAssignmentDueDays 未指定截止日期时的默认期限
const DefaultAssignmentDueDays = 30
