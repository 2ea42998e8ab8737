// Package ui serves a finished report directory for local preview.
package ui

import (
	"context"
	"html/template"
	"io/fs"
	"net"
	"net/http"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"pricecharts/domain/run"
	"pricecharts/internal"
	"pricecharts/internal/errors"
	"pricecharts/internal/report"
)

var listingTemplate = template.Must(template.New("listing").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Dir}}</title></head>
<body>
<h1>{{.Dir}}</h1>
<ul>
{{range .Files}}<li><a href="/{{.}}">{{.}}</a></li>
{{else}}<li>No charts yet.</li>
{{end}}</ul>
</body>
</html>
`))

// Config holds preview server configuration
type Config struct {
	Dir             string
	Addr            string
	ShutdownTimeout time.Duration
}

// App serves the files of one output directory
type App struct {
	router *chi.Mux
	config Config
	root   *os.Root
	logger *internal.Logger
}

// NewApp opens the output directory and sets up routes
func NewApp(config Config, logger *internal.Logger) (*App, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 5 * time.Second
	}

	root, err := os.OpenRoot(config.Dir)
	if os.IsNotExist(err) {
		return nil, errors.NotFound("output directory " + config.Dir)
	}
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}

	app := &App{
		router: chi.NewRouter(),
		config: config,
		root:   root,
		logger: logger,
	}
	app.setupMiddleware()
	app.setupRoutes()
	return app, nil
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
}

func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/{name}", a.handleFile)
}

// Handler exposes the router, mainly for tests
func (a *App) Handler() http.Handler {
	return a.router
}

// Start serves until ctx is cancelled or the listener fails, then shuts down
func (a *App) Start(ctx context.Context) error {
	defer a.root.Close()

	listener, err := net.Listen("tcp", a.config.Addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", a.config.Addr)
	}
	server := &http.Server{
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("Serving %s on http://%s", a.config.Dir, listener.Addr())
		return server.Serve(listener)
	})

	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("Shutting down preview server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "preview server error")
	}
	return nil
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	if info, err := a.root.Stat(report.IndexFile); err == nil && !info.IsDir() {
		http.Redirect(w, r, "/"+report.IndexFile, http.StatusFound)
		return
	}

	files, err := a.listFiles()
	if err != nil {
		a.logger.Error("Failed to list %s: %v", a.config.Dir, err)
		http.Error(w, "cannot list output directory", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct {
		Dir   string
		Files []string
	}{Dir: a.config.Dir, Files: files}
	if err := listingTemplate.Execute(w, data); err != nil {
		a.logger.Error("Template error: %v", err)
	}
}

func (a *App) handleFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" || strings.HasPrefix(name, ".") {
		http.NotFound(w, r)
		return
	}

	f, err := a.root.Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// listFiles returns the chart, index and manifest files, sorted by name
func (a *App) listFiles() ([]string, error) {
	entries, err := fs.ReadDir(a.root.FS(), ".")
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch path.Ext(e.Name()) {
		case ".html", ".png":
			files = append(files, e.Name())
		default:
			if e.Name() == run.ManifestFile {
				files = append(files, e.Name())
			}
		}
	}
	sort.Strings(files)
	return files, nil
}
