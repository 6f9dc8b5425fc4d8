package http

import (
	"bufio"
	"context"
	errs "errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const name = "github.com/freekieb7/rusty/http"

var (
	tracer = otel.Tracer(name)
	meter  = otel.Meter(name)
	logger = otelslog.NewLogger(name)

	requestCnt metric.Int64Counter
)

func init() {
	var err error
	requestCnt, err = meter.Int64Counter("rusty.requests",
		metric.WithDescription("The number of handled requests by status code"),
		metric.WithUnit("{request}"))
	if err != nil {
		panic(err)
	}
}

type Server struct {
	Name    string
	Handler Handler

	// MaxConns caps the number of connections handled at once; accepts beyond
	// it wait for a slot instead of spawning without bound.
	MaxConns int

	// IOTimeout bounds the whole read-handle-write cycle of one connection,
	// so a peer that never sends or never drains cannot pin a task forever.
	IOTimeout time.Duration

	mu       sync.Mutex // guards listener and the closing/conns ordering
	listener net.Listener
	conns    sync.WaitGroup
	closing  atomic.Bool
}

func NewServer(name string, handler Handler) *Server {
	return &Server{
		Name:      name,
		Handler:   handler,
		MaxConns:  DefaultMaxConns,
		IOTimeout: DefaultIOTimeout,
	}
}

// ListenAndServe binds addr and runs the accept loop until Shutdown. A bind
// failure is returned immediately; nothing is accepted in that case.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "bind %s", addr)
	}

	return s.Serve(ctx, listener)
}

// Serve accepts connections forever, handing each one to its own goroutine.
// Failures inside a connection never reach this loop.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.mu.Lock()
	s.listener = listener
	closing := s.closing.Load()
	s.mu.Unlock()
	if closing {
		// Shutdown ran before the listener was registered.
		listener.Close()
		return nil
	}
	logger.InfoContext(ctx, "Rusty chatbot listening", "server", s.Name, "addr", listener.Addr().String())

	slots := make(chan struct{}, s.MaxConns)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.closing.Load() || errs.Is(err, net.ErrClosed) {
				return nil
			}
			logger.WarnContext(ctx, "accept failed", "error", err)
			continue
		}

		slots <- struct{}{} // admission gate

		// Register under the lock Shutdown takes before waiting, so a
		// connection accepted in the close window is either counted before
		// the wait starts or turned away.
		s.mu.Lock()
		if s.closing.Load() {
			s.mu.Unlock()
			<-slots
			conn.Close()
			return nil
		}
		s.conns.Add(1)
		s.mu.Unlock()

		go func() {
			defer s.conns.Done()
			defer func() { <-slots }()

			s.ServeConn(conn)
		}()
	}
}

// ServeConn owns conn exclusively: one request in, one framed response out,
// close. Read and write failures are logged and abandoned; they never affect
// other connections.
func (s *Server) ServeConn(conn net.Conn) {
	defer conn.Close()

	connId := uuid.NewString()
	ctx, span := tracer.Start(context.Background(), "serve connection",
		trace.WithAttributes(attribute.String("conn.id", connId)))
	defer span.End()

	if s.IOTimeout > 0 {
		conn.SetDeadline(time.Now().Add(s.IOTimeout))
	}

	br := bufio.NewReaderSize(conn, DefaultReadBufferSize)
	bw := bufio.NewWriterSize(conn, DefaultWriteBufferSize)

	var req Request
	var res Response
	res.Reset()

	if err := req.Parse(br); err != nil {
		if err != io.EOF {
			logger.WarnContext(ctx, "request parse failed", "conn.id", connId, "error", err)
		}
		return
	}

	s.Handler(&req, &res)

	res.SetHeader("Connection", "close")

	if err := res.Write(bw); err != nil {
		logger.WarnContext(ctx, "response write failed", "conn.id", connId, "error", err)
		return
	}

	statusAttr := attribute.Int("http.status", int(res.Status))
	span.SetAttributes(statusAttr)
	requestCnt.Add(ctx, 1, metric.WithAttributes(statusAttr))
}

// Shutdown stops accepting and waits for in-flight connections, up to ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closing.Store(true)
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		if err := listener.Close(); err != nil {
			return errors.Wrap(err, "close listener")
		}
	}

	done := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
