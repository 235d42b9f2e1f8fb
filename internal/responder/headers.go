package responder

import "net/http"

const (
	ContentTypeJavaScript = "application/javascript"
	ContentTypeCSV        = "text/csv"

	CacheControlNoStore = "no-store, no-cache, must-revalidate, max-age=0"
)

// typedContent is the extension table used for direct reads in no-cache mode.
var typedContent = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   ContentTypeJavaScript,
	".png":  "image/png",
	".svg":  "image/svg+xml",
}

// setNoCacheHeaders writes the three headers that force browsers to refetch.
func setNoCacheHeaders(h http.Header) {
	h.Set("Cache-Control", CacheControlNoStore)
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
}
