package router

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sparkloop/backend/config"
	"github.com/sparkloop/backend/pkg/errorx"
	"github.com/sparkloop/backend/pkg/logger"
	"github.com/sparkloop/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before or after the handler. The returned context
// replaces the request context, a non-nil error stops the chain.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc always runs after the response is written.
type CloserFunc func(ctx context.Context)

type Router struct {
	engine *gin.Engine

	db      *gorm.DB
	cfg     config.Configs
	logger  logger.Logger
	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Router{
		engine: engine,
		db:     db,
		cfg:    cfg,
		logger: logger,
	}
}

// Branch returns a router sharing the same engine. Middlewares added to the
// branch do not affect the parent.
func (r *Router) Branch() *Router {
	return &Router{
		engine:  r.engine,
		db:      r.db,
		cfg:     r.cfg,
		logger:  r.logger,
		befores: append([]MiddlewareFunc{}, r.befores...),
		afters:  append([]MiddlewareFunc{}, r.afters...),
		closers: append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Before(m MiddlewareFunc) {
	r.befores = append(r.befores, m)
}

func (r *Router) After(m MiddlewareFunc) {
	r.afters = append(r.afters, m)
}

func (r *Router) AddCloser(c CloserFunc) {
	r.closers = append(r.closers, c)
}

// Static registers a plain http.Handler, it bypasses the middlewares.
func (r *Router) Static(method, pattern string, h http.Handler) {
	r.engine.Handle(method, pattern, gin.WrapH(h))
}

func (r *Router) Handler() http.Handler {
	return r.engine
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.engine.GET(pattern, wrap(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.engine.POST(pattern, wrap(r, http.MethodPost, handler))
}

func wrap[Request, Response any](r *Router, method string, handler HandlerFunc[Request, Response]) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if r.cfg.ApiServer.RequestTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.cfg.ApiServer.RequestTimeout)
			defer cancel()
		}

		ctx = xcontext.WithConfigs(ctx, r.cfg)
		ctx = xcontext.WithLogger(ctx, r.logger)
		ctx = xcontext.WithDB(ctx, r.db)
		ctx = xcontext.WithHTTPRequest(ctx, c.Request)

		ctx = r.serve(ctx, c, func(ctx context.Context) (any, error) {
			req := new(Request)
			if err := bind(c, method, req); err != nil {
				return nil, err
			}

			resp, err := handler(ctx, req)
			if err != nil {
				return nil, err
			}

			return resp, nil
		})

		writeResponse(ctx, c)

		for _, closer := range r.closers {
			closer(ctx)
		}
	}
}

func (r *Router) serve(ctx context.Context, c *gin.Context, fn func(context.Context) (any, error)) context.Context {
	ctx, err := runMiddlewares(ctx, r.befores)
	if err != nil {
		return xcontext.WithError(ctx, err)
	}

	c.Request = c.Request.WithContext(ctx)

	resp, err := fn(ctx)
	if err != nil {
		return xcontext.WithError(ctx, err)
	}

	ctx, err = runMiddlewares(xcontext.WithResponse(ctx, resp), r.afters)
	if err != nil {
		return xcontext.WithError(ctx, err)
	}

	return ctx
}

func runMiddlewares(ctx context.Context, ms []MiddlewareFunc) (context.Context, error) {
	for _, m := range ms {
		newCtx, err := m(ctx)
		if err != nil {
			return ctx, err
		}
		ctx = newCtx
	}

	return ctx, nil
}

func bind(c *gin.Context, method string, req any) error {
	var err error
	switch method {
	case http.MethodGet:
		err = c.ShouldBindQuery(req)
	case http.MethodPost:
		// Multipart bodies are read by the handler itself.
		if strings.HasPrefix(c.ContentType(), "multipart/") || c.Request.ContentLength == 0 {
			return nil
		}
		err = c.ShouldBindJSON(req)
	default:
		return errorx.New(errorx.NotImplemented, "Unsupported method %s", method)
	}

	if err != nil {
		return errorx.New(errorx.BadRequest, "Invalid request format")
	}

	return nil
}
