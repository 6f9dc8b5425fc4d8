package http

type Route struct {
	Methods []string
	Path    string
	Handler Handler
}

// MethodNotAllowedHandler answers every verb/path combination outside the
// routing table. Deliberately a defined outcome rather than an error.
var MethodNotAllowedHandler Handler = func(req *Request, res *Response) {
	res.WithStatus(StatusMethodNotAllowed).WithText("Method not allowed for this route")
}
