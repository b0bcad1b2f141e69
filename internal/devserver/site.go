package devserver

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

const indexFile = "index.html"

// site serves the single-page app. Unknown paths fall back to index.html so
// client-side routes resolve.
type site struct {
	fsys    fs.FS
	logger  *slog.Logger
	watcher *fsnotify.Watcher
	done    chan struct{}

	mu    sync.RWMutex
	index []byte // nil until loaded or after invalidation
}

// newSite serves dir from disk when set, watching it for rebuilds; otherwise
// the embedded build.
func newSite(dir string, embedded fs.FS, logger *slog.Logger) (*site, error) {
	s := &site{fsys: embedded, logger: logger, done: make(chan struct{})}
	if dir == "" {
		close(s.done)
		return s, nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("static dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("static dir %s is not a directory", dir)
	}
	s.fsys = os.DirFS(dir)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating static dir watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		return nil, errors.Join(fmt.Errorf("watching %s: %w", dir, err), w.Close())
	}
	s.watcher = w
	go s.watch()
	return s, nil
}

func (s *site) watch() {
	defer close(s.done)
	for {
		select {
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			s.invalidate()
			s.logger.Debug("static dir changed", "file", ev.Name, "op", ev.Op.String())
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("static dir watcher error", "error", err)
		}
	}
}

func (s *site) invalidate() {
	s.mu.Lock()
	s.index = nil
	s.mu.Unlock()
}

// Close stops the watcher and waits for its goroutine to exit.
func (s *site) Close() error {
	if s.watcher == nil {
		return nil
	}
	err := s.watcher.Close()
	<-s.done
	return err
}

func (s *site) indexHTML() ([]byte, error) {
	s.mu.RLock()
	cached := s.index
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	data, err := fs.ReadFile(s.fsys, indexFile)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.index = data
	s.mu.Unlock()
	return data, nil
}

func (s *site) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.fsys == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no frontend build available"})
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name != "" && name != indexFile {
		if info, err := fs.Stat(s.fsys, name); err == nil && !info.IsDir() {
			http.ServeFileFS(w, r, s.fsys, name)
			return
		}
	}

	data, err := s.indexHTML()
	if err != nil {
		s.logger.Error("reading index.html failed", "error", err)
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "index.html not found"})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(data)
	}
}
