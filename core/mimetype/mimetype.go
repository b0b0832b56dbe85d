package mimetype

import "strings"

// DefaultType is returned for unknown or missing file extensions.
const DefaultType = "application/octet-stream"

// Static extension table - text types carry an explicit charset so clients
// never have to sniff.
var types = map[string]string{
	"html":  "text/html; charset=utf-8",
	"htm":   "text/html; charset=utf-8",
	"css":   "text/css; charset=utf-8",
	"js":    "text/javascript; charset=utf-8",
	"json":  "application/json; charset=utf-8",
	"xml":   "application/xml; charset=utf-8",
	"txt":   "text/plain; charset=utf-8",
	"ico":   "image/x-icon",
	"png":   "image/png",
	"jpg":   "image/jpeg",
	"jpeg":  "image/jpeg",
	"gif":   "image/gif",
	"svg":   "image/svg+xml",
	"pdf":   "application/pdf",
	"woff":  "font/woff",
	"woff2": "font/woff2",
	"ttf":   "font/ttf",
	"eot":   "application/vnd.ms-fontobject",
}

// TypeByName returns the content type for a file name based on its extension.
func TypeByName(name string) string {
	dot := strings.LastIndexByte(name, '.')
	if dot == -1 || dot == len(name)-1 {
		return DefaultType
	}
	// A dot in a parent directory is not an extension.
	if strings.IndexByte(name[dot:], '/') != -1 {
		return DefaultType
	}
	ext := strings.ToLower(name[dot+1:])
	if t, ok := types[ext]; ok {
		return t
	}
	return DefaultType
}
