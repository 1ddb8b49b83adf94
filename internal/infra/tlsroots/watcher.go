package tlsroots

import (
	"crypto/tls"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yndnr/xrpc-go/internal/telemetry/logger"
)

// Watcher keeps a client certificate in memory and reloads it when the
// certificate or key file changes on disk.
type Watcher struct {
	certFile string
	keyFile  string
	debounce time.Duration
	log      logger.Logger
	onReload func(error)

	mu   sync.RWMutex
	cert *tls.Certificate

	fsw      *fsnotify.Watcher
	timerMu  sync.Mutex
	timer    *time.Timer
	stopOnce sync.Once
	done     chan struct{}
	exited   chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger sets the watcher logger.
func WithLogger(l logger.Logger) WatcherOption {
	return func(w *Watcher) {
		w.log = l
	}
}

// WithDebounce coalesces bursts of file events into one reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithOnReload registers a callback run after every reload attempt.
func WithOnReload(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// NewWatcher loads the key pair once. Call Start to follow changes.
func NewWatcher(certFile, keyFile string, opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		certFile: certFile,
		keyFile:  keyFile,
		debounce: 250 * time.Millisecond,
		done:     make(chan struct{}),
		exited:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.log == nil {
		w.log = logger.Default()
	}

	if err := w.reload(); err != nil {
		return nil, fmt.Errorf("tlsroots: initial load: %w", err)
	}
	return w, nil
}

// Start watches the directories holding the key pair. Directories are
// watched instead of files so editor-style rename-and-replace is seen.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("tlsroots: create watcher: %w", err)
	}

	dirs := []string{filepath.Dir(w.certFile)}
	if d := filepath.Dir(w.keyFile); d != dirs[0] {
		dirs = append(dirs, d)
	}
	for _, d := range dirs {
		if err := fsw.Add(d); err != nil {
			_ = fsw.Close()
			return fmt.Errorf("tlsroots: watch %s: %w", d, err)
		}
	}

	w.fsw = fsw
	go w.loop()
	w.log.Debug("client certificate watcher started", "cert_file", w.certFile, "key_file", w.keyFile)
	return nil
}

func (w *Watcher) loop() {
	defer close(w.exited)

	names := map[string]bool{
		filepath.Clean(w.certFile): true,
		filepath.Clean(w.keyFile):  true,
	}
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !names[filepath.Clean(ev.Name)] {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.schedule()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("client certificate watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

// schedule restarts the debounce timer.
func (w *Watcher) schedule() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case <-w.done:
			return
		default:
		}
		err := w.reload()
		if err != nil {
			w.log.Error("client certificate reload failed", "error", err, "cert_file", w.certFile)
		}
		if w.onReload != nil {
			w.onReload(err)
		}
	})
}

// Stop ends watching. It is safe to call more than once and before Start.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)

		w.timerMu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.timerMu.Unlock()

		if w.fsw != nil {
			err = w.fsw.Close()
			<-w.exited
		}
	})
	return err
}

// GetClientCertificate implements tls.Config.GetClientCertificate.
func (w *Watcher) GetClientCertificate(*tls.CertificateRequestInfo) (*tls.Certificate, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.cert == nil {
		return nil, errors.New("tlsroots: no client certificate loaded")
	}
	return w.cert, nil
}

// Certificate returns the current key pair.
func (w *Watcher) Certificate() *tls.Certificate {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cert
}

func (w *Watcher) reload() error {
	cert, err := tls.LoadX509KeyPair(w.certFile, w.keyFile)
	if err != nil {
		return fmt.Errorf("load key pair: %w", err)
	}

	w.mu.Lock()
	w.cert = &cert
	w.mu.Unlock()

	w.log.Debug("client certificate loaded", "cert_file", w.certFile)
	return nil
}
