package http

import (
	"testing"
)

func dispatch(router *Router, method, path string, body []byte) *Response {
	req := Request{Method: method, Path: path, Body: body}

	var res Response
	res.Reset()

	router.Handler()(&req, &res)
	return &res
}

func TestRouterDispatch(t *testing.T) {
	router := NewRouter()
	router.POST("/api/chat", func(req *Request, res *Response) {
		res.WithText("posted")
	})
	router.OPTIONS("/api/chat", func(req *Request, res *Response) {
		res.WithStatus(StatusOK)
	})

	res := dispatch(router, "POST", "/api/chat", nil)
	if res.Status != StatusOK || string(res.Body) != "posted" {
		t.Errorf("POST /api/chat = %d %q", res.Status, res.Body)
	}

	res = dispatch(router, "OPTIONS", "/api/chat", nil)
	if res.Status != StatusOK || len(res.Body) != 0 {
		t.Errorf("OPTIONS /api/chat = %d %q", res.Status, res.Body)
	}
}

func TestRouterFallback(t *testing.T) {
	router := NewRouter()
	router.POST("/api/chat", func(req *Request, res *Response) {
		res.WithText("posted")
	})

	cases := []struct {
		method string
		path   string
	}{
		{"GET", "/api/chat"},
		{"GET", "/anything"},
		{"DELETE", "/api/chat"},
		{"POST", "/other"},
		{"garbage", ""},
	}

	for _, tc := range cases {
		res := dispatch(router, tc.method, tc.path, nil)
		if res.Status != StatusMethodNotAllowed {
			t.Errorf("%s %s = %d, want 405", tc.method, tc.path, res.Status)
		}
		if string(res.Body) != "Method not allowed for this route" {
			t.Errorf("%s %s body = %q", tc.method, tc.path, res.Body)
		}
	}
}

func TestCorsMiddlewareOnEveryBranch(t *testing.T) {
	router := NewRouter()
	router.AddMiddleware(CorsMiddleware())
	router.POST("/api/chat", func(req *Request, res *Response) {
		res.WithText("posted")
	})

	for _, tc := range []struct {
		method string
		path   string
	}{
		{"POST", "/api/chat"}, // recognized
		{"GET", "/elsewhere"}, // fallback
		{"PUT", "/api/chat"},  // wrong verb, known path
	} {
		res := dispatch(router, tc.method, tc.path, nil)

		for header, want := range map[string]string{
			"Access-Control-Allow-Origin":  "*",
			"Access-Control-Allow-Methods": "POST, OPTIONS",
			"Access-Control-Allow-Headers": "Content-Type",
		} {
			if value, _ := res.Header(header); value != want {
				t.Errorf("%s %s: %s = %q, want %q", tc.method, tc.path, header, value, want)
			}
		}
	}
}

func TestRecoverMiddleware(t *testing.T) {
	router := NewRouter()
	router.AddMiddleware(RecoverMiddleware())
	router.GET("/boom", func(req *Request, res *Response) {
		panic("kaput")
	})

	res := dispatch(router, "GET", "/boom", nil)
	if res.Status != StatusInternalServerError {
		t.Errorf("Status = %d, want 500", res.Status)
	}
}

func TestRouteMiddlewareWrapsOnlyItsRoute(t *testing.T) {
	marked := func(next Handler) Handler {
		return func(req *Request, res *Response) {
			res.SetHeader("X-Marked", "yes")
			next(req, res)
		}
	}

	router := NewRouter()
	router.POST("/a", func(req *Request, res *Response) {}, marked)
	router.POST("/b", func(req *Request, res *Response) {})

	if value, _ := dispatch(router, "POST", "/a", nil).Header("X-Marked"); value != "yes" {
		t.Errorf("/a X-Marked = %q, want yes", value)
	}
	if _, found := dispatch(router, "POST", "/b", nil).Header("X-Marked"); found {
		t.Error("/b should not carry X-Marked")
	}
}
