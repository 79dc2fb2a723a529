package store

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultDebounce coalesces bursts of near-simultaneous store notifications
// into a single recompute trigger.
const DefaultDebounce = 250 * time.Millisecond

// Watcher subscribes to every configured store path and emits a freshly
// loaded, fully merged snapshot whenever the underlying data changes. Each
// emission is a wholesale snapshot — consumers recompute from scratch, never
// patch.
type Watcher struct {
	src      *DirSource
	fsw      *fsnotify.Watcher
	debounce time.Duration
	log      zerolog.Logger

	subs map[string]WatchPath // subscription token -> path
	out  chan Snapshot
}

// NewWatcher creates a Watcher over the source's paths. Every path gets its
// own subscription, released again by Close.
func NewWatcher(src *DirSource, debounce time.Duration, log zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating store watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		src:      src,
		fsw:      fsw,
		debounce: debounce,
		log:      log,
		subs:     make(map[string]WatchPath),
		out:      make(chan Snapshot, 1),
	}

	for _, p := range src.Paths() {
		if err := fsw.Add(p.Dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", p.Dir, err)
		}
		token := uuid.NewString()
		w.subs[token] = p
		log.Debug().Str("subscription", token).Str("dir", p.Dir).Msg("store path subscribed")
	}

	return w, nil
}

// Snapshots is the stream of merged snapshots. The channel closes when Run
// returns.
func (w *Watcher) Snapshots() <-chan Snapshot {
	return w.out
}

// Run loads an initial snapshot, then blocks serving change notifications
// until ctx is done. Bursts of events inside the debounce window collapse
// into one reload, so a transient mid-flight state from one path update
// never surfaces as its own aggregate.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.out)

	w.emit(ctx)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("store watch error")

		case <-fire:
			timer, fire = nil, nil
			w.emit(ctx)
		}
	}
}

// Close releases every path subscription. Safe to call after Run returns;
// no snapshot is emitted after Close.
func (w *Watcher) Close() error {
	for token, p := range w.subs {
		w.log.Debug().Str("subscription", token).Str("dir", p.Dir).Msg("store path released")
	}
	w.subs = make(map[string]WatchPath)
	return w.fsw.Close()
}

func (w *Watcher) emit(ctx context.Context) {
	snap := w.src.Load(ctx)
	select {
	case w.out <- snap:
	default:
		// Consumer is behind: drop the queued snapshot for the newer one.
		select {
		case <-w.out:
		default:
		}
		w.out <- snap
	}
}

func relevant(ev fsnotify.Event) bool {
	return ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
