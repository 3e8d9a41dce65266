package assets

import (
	"context"
	"errors"
	"image"
	"sync"

	"planeview/internal/logging"
	"planeview/scene"
)

var (
	ErrEmptyPath    = errors.New("texture path is empty")
	ErrLoaderClosed = errors.New("texture loader is shut down")
)

// Result is a finished texture load. Image is nil when Err is set.
type Result struct {
	Texture *scene.Texture
	Image   *image.RGBA
	Err     error
}

// Apply copies the decoded image into the texture. It must run on the
// goroutine that owns the scene.
func (r Result) Apply() error {
	if r.Err != nil {
		return r.Err
	}
	r.Texture.SetImage(r.Image)
	return nil
}

type loadJob struct {
	texture *scene.Texture
	path    string
}

// Loader decodes image files on background goroutines. Load hands out the
// texture immediately, empty; Poll returns the loads that finished since the
// previous call.
type Loader struct {
	jobs   chan loadJob
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// sendMu guards closed; Load sends under the read lock.
	sendMu sync.RWMutex
	closed bool

	mu      sync.Mutex
	done    []Result
	pending int

	log    logging.Logger
	decode func(path string) (*image.RGBA, error)
}

// NewLoader starts the given number of decoding goroutines.
func NewLoader(workers int, log logging.Logger) *Loader {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = logging.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	l := &Loader{
		jobs:   make(chan loadJob, 16),
		ctx:    ctx,
		cancel: cancel,
		log:    log,
		decode: scene.DecodeImageFile,
	}
	for i := 0; i < workers; i++ {
		l.wg.Add(1)
		go l.worker()
	}
	return l
}

// Load creates an empty texture for path and queues it for decoding. It
// fails with ErrLoaderClosed after Shutdown.
func (l *Loader) Load(path string) (*scene.Texture, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	l.sendMu.RLock()
	defer l.sendMu.RUnlock()
	if l.closed || l.ctx.Err() != nil {
		return nil, ErrLoaderClosed
	}

	tex := scene.NewTexture(path)
	l.mu.Lock()
	l.pending++
	l.mu.Unlock()

	select {
	case l.jobs <- loadJob{texture: tex, path: path}:
	case <-l.ctx.Done():
		l.finish(Result{Texture: tex, Err: l.ctx.Err()})
	}
	l.log.Debugf("texture %s queued (%s)", tex.ID, path)
	return tex, nil
}

// Poll drains the finished loads without blocking.
func (l *Loader) Poll() []Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.done) == 0 {
		return nil
	}
	out := l.done
	l.done = nil
	return out
}

// Pending is the number of loads queued or in flight.
func (l *Loader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}

// Shutdown stops the workers. Loads still queued finish with
// context.Canceled so Pending drops to zero.
func (l *Loader) Shutdown() {
	l.cancel()
	l.sendMu.Lock()
	l.closed = true
	l.sendMu.Unlock()
	l.wg.Wait()

	for {
		select {
		case job := <-l.jobs:
			l.finish(Result{Texture: job.texture, Err: context.Canceled})
		default:
			return
		}
	}
}

func (l *Loader) worker() {
	defer l.wg.Done()
	for {
		select {
		case job := <-l.jobs:
			if err := l.ctx.Err(); err != nil {
				l.finish(Result{Texture: job.texture, Err: err})
				continue
			}
			img, err := l.decode(job.path)
			if err != nil {
				l.log.Errorf("texture load failed: %v", err)
			} else {
				l.log.Debugf("texture %s decoded %dx%d", job.texture.ID, img.Bounds().Dx(), img.Bounds().Dy())
			}
			l.finish(Result{Texture: job.texture, Image: img, Err: err})
		case <-l.ctx.Done():
			return
		}
	}
}

func (l *Loader) finish(r Result) {
	l.mu.Lock()
	l.done = append(l.done, r)
	l.pending--
	l.mu.Unlock()
}
