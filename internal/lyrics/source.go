package lyrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	fetchTimeout = 10 * time.Second
	maxLyricSize = 1 << 20
)

var ErrEmptySource = errors.New("empty lyrics source")

var (
	httpClient     *http.Client
	httpClientOnce sync.Once
)

func getHTTPClient() *http.Client {
	httpClientOnce.Do(func() {
		transport := &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   2 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        4,
			IdleConnTimeout:     60 * time.Second,
			TLSHandshakeTimeout: 2 * time.Second,
		}
		httpClient = &http.Client{
			Transport: transport,
			Timeout:   fetchTimeout,
		}
	})
	return httpClient
}

func IsRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Load reads lyric text from a local path or an http(s) URL and parses it.
func Load(ctx context.Context, src string) (Track, error) {
	raw, err := ReadSource(ctx, src)
	if err != nil {
		return nil, err
	}
	return Parse(raw), nil
}

func ReadSource(ctx context.Context, src string) (string, error) {
	if src == "" {
		return "", ErrEmptySource
	}

	if IsRemote(src) {
		return fetchText(ctx, src)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("failed to read lyrics file %q: %w", src, err)
	}
	return string(data), nil
}

func fetchText(parentCtx context.Context, requestURL string) (string, error) {
	ctx, cancel := context.WithTimeout(parentCtx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build http request: %w", err)
	}
	req.Header.Set("User-Agent", "cakeday/1.0")

	resp, err := getHTTPClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch lyrics: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("lyrics fetch returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxLyricSize))
	if err != nil {
		return "", fmt.Errorf("failed to read lyrics response: %w", err)
	}

	return string(body), nil
}

// Watcher reports saves to a local lyric file. It watches the parent
// directory so editors that save by renaming a temp file over the target
// keep being seen. It is owned by one song session and must be closed when
// that session ends.
type Watcher struct {
	fs      *fsnotify.Watcher
	path    string
	target  string
	changes chan struct{}
	done    chan struct{}
	once    sync.Once
}

func Watch(path string) (*Watcher, error) {
	if path == "" || IsRemote(path) {
		return nil, fmt.Errorf("cannot watch %q: not a local file", path)
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to watch %q: %w", path, err)
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", path, err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := fsWatcher.Add(filepath.Dir(target)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", path, err)
	}

	w := &Watcher{
		fs:      fsWatcher,
		path:    path,
		target:  target,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}

	go w.loop()

	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				// coalesce bursts of writes from editors
				select {
				case w.changes <- struct{}{}:
				default:
				}
			}
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
		case <-w.done:
			return
		}
	}
}

// Changes delivers one value per burst of writes. It is never closed, so
// readers should also select on their own cancellation.
func (w *Watcher) Changes() <-chan struct{} { return w.changes }

func (w *Watcher) Done() <-chan struct{} { return w.done }

func (w *Watcher) Path() string { return w.path }

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}
