package http

type Middleware func(next Handler) Handler

// CorsMiddleware attaches the fixed cross-origin header set to every
// response, whichever branch produced it. Preflight negotiation from
// browser-originated callers depends on these being present even on 405.
func CorsMiddleware() Middleware {
	return func(next Handler) Handler {
		return func(req *Request, res *Response) {
			res.SetHeader("Access-Control-Allow-Origin", "*")
			res.SetHeader("Access-Control-Allow-Methods", "POST, OPTIONS")
			res.SetHeader("Access-Control-Allow-Headers", "Content-Type")

			next(req, res)
		}
	}
}

// RecoverMiddleware converts a handler panic into a 500 so the connection
// task still writes a framed reply instead of unwinding the goroutine.
func RecoverMiddleware() Middleware {
	return func(next Handler) Handler {
		return func(req *Request, res *Response) {
			defer func() {
				if recovered := recover(); recovered != nil {
					logger.Error("handler panicked", "panic", recovered)

					res.WithStatus(StatusInternalServerError).WithText("something went wrong")
				}
			}()

			next(req, res)
		}
	}
}
