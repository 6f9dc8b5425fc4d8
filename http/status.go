package http

const (
	StatusOK        uint16 = 200 // RFC 7231, 6.3.1
	StatusNoContent uint16 = 204 // RFC 7231, 6.3.5

	StatusBadRequest            uint16 = 400 // RFC 7231, 6.5.1
	StatusNotFound              uint16 = 404 // RFC 7231, 6.5.4
	StatusMethodNotAllowed      uint16 = 405 // RFC 7231, 6.5.5
	StatusRequestTimeout        uint16 = 408 // RFC 7231, 6.5.7
	StatusRequestEntityTooLarge uint16 = 413 // RFC 7231, 6.5.11

	StatusInternalServerError uint16 = 500 // RFC 7231, 6.6.1
)

var statusText = map[uint16]string{
	StatusOK:        "OK",
	StatusNoContent: "No Content",

	StatusBadRequest:            "Bad Request",
	StatusNotFound:              "Not Found",
	StatusMethodNotAllowed:      "Method Not Allowed",
	StatusRequestTimeout:        "Request Timeout",
	StatusRequestEntityTooLarge: "Request Entity Too Large",

	StatusInternalServerError: "Internal Server Error",
}

// StatusText returns the reason phrase for a status code, or an empty string
// for codes the server never emits.
func StatusText(status uint16) string {
	return statusText[status]
}
