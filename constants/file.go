package constants

import "strings"

// AllowedExtensions holds the accepted scan file extensions for ingestion.
var AllowedExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"webp": {},
}

// MIMETypes maps a normalized extension to the MIME type sent to the oracle.
var MIMETypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MIMETypeForExt returns the MIME type for a file extension, defaulting to JPEG.
func MIMETypeForExt(ext string) string {
	if mt, ok := MIMETypes[NormalizeExt(ext)]; ok {
		return mt
	}
	return "image/jpeg"
}
