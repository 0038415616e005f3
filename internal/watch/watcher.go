package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ziadkadry99/seqedit/internal/render"
)

// DefaultDebounce is how long a file must stay quiet before it is re-rendered.
const DefaultDebounce = 150 * time.Millisecond

// RenderFunc renders diagram source.
type RenderFunc func(ctx context.Context, source string) render.Result

// Update is one accepted render of the watched file.
type Update struct {
	Generation uint64
	Content    string
	Result     render.Result
}

// Watcher re-renders a diagram file whenever it changes. Renders run in
// the background; a render that finishes after a newer one was started
// is dropped.
type Watcher struct {
	path     string
	debounce time.Duration
	render   RenderFunc
	onUpdate func(Update)

	fsw *fsnotify.Watcher
	seq render.Sequencer
	wg  sync.WaitGroup

	mu      sync.Mutex
	pending time.Time // zero when no change is waiting
}

// New creates a Watcher for path. onUpdate is called from a background
// goroutine for every accepted render, one call at a time.
func New(path string, debounce time.Duration, fn RenderFunc, onUpdate func(Update)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	return &Watcher{
		path:     abs,
		debounce: debounce,
		render:   fn,
		onUpdate: onUpdate,
		fsw:      fsw,
	}, nil
}

// Run renders the file once and then after every change until ctx is
// cancelled. The parent directory is watched so that editors which
// replace the file on save are followed.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	defer w.wg.Wait()
	if err := w.fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	var deliver sync.Mutex
	w.trigger(ctx, &deliver)

	ticker := time.NewTicker(w.debounce / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.mu.Lock()
				w.pending = time.Now()
				w.mu.Unlock()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch: %v", err)

		case now := <-ticker.C:
			w.mu.Lock()
			due := !w.pending.IsZero() && now.Sub(w.pending) >= w.debounce
			if due {
				w.pending = time.Time{}
			}
			w.mu.Unlock()
			if due {
				w.trigger(ctx, &deliver)
			}
		}
	}
}

// trigger reads the file and starts a render tagged with a new generation.
func (w *Watcher) trigger(ctx context.Context, deliver *sync.Mutex) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		// Mid-save the file may be briefly missing; the next event retries.
		log.Printf("watch: reading %s: %v", w.path, err)
		return
	}
	content := string(data)
	gen := w.seq.Begin()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		res := w.render(ctx, content)
		deliver.Lock()
		defer deliver.Unlock()
		if !w.seq.Complete(gen, res) {
			return
		}
		if w.onUpdate != nil {
			w.onUpdate(Update{Generation: gen, Content: content, Result: res})
		}
	}()
}
