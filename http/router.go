package http

const (
	MethodGet     = "GET"
	MethodPost    = "POST"
	MethodOptions = "OPTIONS"
)

type Router struct {
	Routes     []Route
	Middleware []Middleware
}

func NewRouter() *Router {
	return &Router{
		Routes: make([]Route, 0),
	}
}

func (router *Router) GET(path string, handler Handler, middleware ...Middleware) {
	router.Any([]string{MethodGet}, path, handler, middleware...)
}

func (router *Router) POST(path string, handler Handler, middleware ...Middleware) {
	router.Any([]string{MethodPost}, path, handler, middleware...)
}

func (router *Router) OPTIONS(path string, handler Handler, middleware ...Middleware) {
	router.Any([]string{MethodOptions}, path, handler, middleware...)
}

func (router *Router) Any(methods []string, path string, handler Handler, middleware ...Middleware) {
	for _, middleware := range middleware {
		handler = middleware(handler)
	}

	router.Routes = append(router.Routes, Route{
		Methods: methods,
		Path:    path,
		Handler: handler,
	})
}

func (router *Router) AddMiddleware(middleware ...Middleware) {
	router.Middleware = append(router.Middleware, middleware...)
}

// Handler flattens the routing table into a single dispatching handler.
// Router-level middleware wraps the dispatch itself, so it also applies to
// the 405 fallback.
func (router *Router) Handler() Handler {
	dispatch := func(req *Request, res *Response) {
		handler := MethodNotAllowedHandler
		for _, route := range router.Routes {
			if route.Path != req.Path {
				continue
			}

			for _, method := range route.Methods {
				if method != req.Method {
					continue
				}

				handler = route.Handler
				break
			}
		}

		handler(req, res)
	}

	for _, middleware := range router.Middleware {
		dispatch = middleware(dispatch)
	}

	return dispatch
}
