package constants

import "strings"

// AllowedExtensions holds the upload extensions accepted by the extract endpoint.
// Legacy .xls is rejected: the OOXML reader cannot parse BIFF workbooks.
var AllowedExtensions = map[string]struct{}{
	"xlsx": {},
	"csv":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// AllowedExt reports whether a normalized extension is accepted.
func AllowedExt(ext string) bool {
	_, ok := AllowedExtensions[ext]
	return ok
}
