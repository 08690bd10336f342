package sitedetect

import "path"

// extensionTypes is the static extension to MIME table used for
// bundle resources. Unknown extensions map to the generic type.
var extensionTypes = map[string]string{
	".html":  "text/html",
	".htm":   "text/html",
	".css":   "text/css",
	".js":    "application/javascript",
	".mjs":   "application/javascript",
	".json":  "application/json",
	".xml":   "application/xml",
	".txt":   "text/plain",
	".md":    "text/markdown",
	".csv":   "text/csv",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".webp":  "image/webp",
	".svg":   "image/svg+xml",
	".ico":   "image/x-icon",
	".avif":  "image/avif",
	".mp4":   "video/mp4",
	".webm":  "video/webm",
	".mp3":   "audio/mpeg",
	".wav":   "audio/wav",
	".ogg":   "audio/ogg",
	".pdf":   "application/pdf",
	".zip":   "application/zip",
	".gz":    "application/gzip",
	".wasm":  "application/wasm",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
	".otf":   "font/otf",
}

// TypeByExtension infers a resource content type from its file
// extension.
func TypeByExtension(name string) string {
	if mimeType, ok := extensionTypes[path.Ext(name)]; ok {
		return mimeType
	}
	return "application/octet-stream"
}
