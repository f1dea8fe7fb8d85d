package xhttp

import (
	"mime"
	"net/http"
)

const (
	ContentType = "Content-Type"
	UserAgent   = "User-Agent"
)

const (
	ApplicationJSON           = "application/json"
	ApplicationFormURLEncoded = "application/x-www-form-urlencoded"
)

func SetRequestContentTypeForm(r *http.Request) {
	r.Header.Set(ContentType, ApplicationFormURLEncoded)
}

// IsJSON reports whether a Content-Type header value names a JSON body.
func IsJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == ApplicationJSON
}
