// Package headers holds the HTTP header names and media types the router
// reads or writes.
package headers

const (
	ContentType         = "Content-Type"
	XContentTypeOptions = "X-Content-Type-Options"
	XRealIP             = "X-Real-IP"
	XForwardFor         = "X-Forwarded-For"
)

const (
	ApplicationJSON   = "application/json"
	MultipartFormData = "multipart/form-data"
)
