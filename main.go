//
// Blog API
// ========
// A HTTP service for blog articles and their thumbnails. Articles live in a
// document collection, thumbnails in a blob store keyed by article uuid.
//
// Pass -routes to print Markdown docs for the router and exit:
// `go run . -routes`
//
// Boot the server:
// ----------------
// $ BLOG_MONGO_URI=mongodb://localhost:27017 go run .
//
// Client requests:
// ----------------
// $ curl -X POST -d '{"content-info":{"title":"Hello World","author":"A"},"body":{"article-content":"# hi"}}' \
//     http://localhost:8080/api/blog/articles
// {"status":200,"data":{"content-info":{"title":"Hello World",...,"slug":"hello-world","uuid":"6f0c..."},...}}
//
// $ curl http://localhost:8080/api/blog/articles
// {"status":200,"data":[{"title":"Hello World",...}]}
//
// $ curl -X PATCH -d '{"content-info":{"title":"New"}}' http://localhost:8080/api/blog/articles/6f0c...
//
// $ curl -F thumbnail=@cover.png http://localhost:8080/api/thumbnails/6f0c...
//
// $ curl http://localhost:8080/api/thumbnails/6f0c... > cover.png
//
// $ curl -X DELETE http://localhost:8080/api/blog/articles/6f0c...
// {"status":200}
//
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/docgen"
	"go.uber.org/zap"

	"github.com/SergeyParamoshkin/blog/internal/article"
	"github.com/SergeyParamoshkin/blog/internal/config"
	"github.com/SergeyParamoshkin/blog/internal/logger"
	"github.com/SergeyParamoshkin/blog/internal/server"
	"github.com/SergeyParamoshkin/blog/internal/telemetry"
	"github.com/SergeyParamoshkin/blog/internal/thumbnail"
)

const ServiceName = "blog"

const shutdownTimeout = 15 * time.Second

type App struct {
	sugarLogger *zap.SugaredLogger
	config      *config.Config
}

func main() {
	os.Exit(start(os.Args[1:]))
}

// start runs the service and returns the process exit code. Deferred calls,
// including the logger flush, run before main exits.
func start(args []string) int {
	fs := flag.NewFlagSet(ServiceName, flag.ContinueOnError)
	var (
		routes     = fs.Bool("routes", false, "Generate router documentation")
		configPath = fs.String("config", os.Getenv("BLOG_CONFIG"), "path to a YAML config file")
	)

	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		return 1
	}

	zl, err := logger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		return 1
	}
	defer zl.Sync() // flushes buffer, if any

	a := App{
		sugarLogger: zl.Sugar(),
		config:      cfg,
	}

	if *routes {
		a.printRoutes()

		return 0
	}

	if err := a.run(); err != nil {
		a.sugarLogger.Errorw("server stopped", "error", err)

		return 1
	}

	return 0
}

func (a *App) run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics, err := telemetry.New(ServiceName)
	if err != nil {
		return err
	}

	backends, err := server.OpenBackends(ctx, a.config, a.sugarLogger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := backends.Close(closeCtx); err != nil {
			a.sugarLogger.Errorw("close backends", "error", err)
		}
	}()

	r := server.NewRouter(server.Deps{
		Logger:            a.sugarLogger,
		Articles:          article.NewService(backends.Articles, article.WithEvents(backends.Events)),
		Thumbnails:        thumbnail.NewService(backends.Blobs),
		Metrics:           metrics,
		BasePath:          a.config.Server.BasePath,
		MaxThumbnailBytes: a.config.Thumbnail.MaxBytes,
	})

	srv := &http.Server{Addr: a.config.Server.Addr, Handler: r}
	diag := &http.Server{Addr: a.config.Server.DiagAddr, Handler: server.NewDiagRouter(metrics)}

	errc := make(chan error, 2)
	for _, s := range []*http.Server{srv, diag} {
		go func(s *http.Server) {
			a.sugarLogger.Infow("listening", "addr", s.Addr)
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- err
			}
		}(s)
	}

	select {
	case <-ctx.Done():
		a.sugarLogger.Infow("shutting down")
	case err = <-errc:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, s := range []*http.Server{srv, diag} {
		if serr := s.Shutdown(shutdownCtx); serr != nil {
			a.sugarLogger.Errorw("shutdown", "addr", s.Addr, "error", serr)
		}
	}

	return err
}

// printRoutes renders docs for the router without touching any backend.
func (a *App) printRoutes() {
	r := server.NewRouter(server.Deps{
		Logger:            a.sugarLogger,
		BasePath:          a.config.Server.BasePath,
		MaxThumbnailBytes: a.config.Thumbnail.MaxBytes,
	})

	fmt.Println(docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
		ProjectPath: "github.com/SergeyParamoshkin/blog",
		Intro:       "Routes of the blog API.",
	}))
}
