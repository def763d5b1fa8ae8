// Package asset decodes effect textures off the frame thread. Decoding runs on a small worker pool and the
// results are handed back through Drain, which the frame loop calls once per frame before uploading to the GPU.
package asset

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-hero/common"
	"go.uber.org/zap"
)

// Decoded is the result of decoding one EffectTexture.
type Decoded struct {
	// Name is the EffectTexture name the result belongs to.
	Name string
	// Data holds the RGBA pixels when Err is nil.
	Data common.TextureStagingData
	// Err is the decode error, if any.
	Err error
}

// Loader queues texture decodes and returns finished results to the caller's thread.
type Loader interface {
	// Request queues a decode of the given texture.
	//
	// Parameters:
	//   - tex: the texture to decode
	Request(tex common.EffectTexture)

	// Drain returns every result that finished since the previous call. It never blocks.
	//
	// Returns:
	//   - []Decoded: finished results in completion order, nil when nothing is ready
	Drain() []Decoded

	// Pending returns the number of requests that have not been drained yet.
	Pending() int

	// Wait blocks until every submitted decode has finished.
	Wait()
}

type loaderImpl struct {
	log     *zap.Logger
	workers int

	pool   worker.DynamicWorkerPool
	taskID int

	mu      sync.Mutex
	wg      sync.WaitGroup
	ready   []Decoded
	pending int
}

var _ Loader = &loaderImpl{}

// NewLoader creates a Loader backed by a dynamic worker pool.
//
// Parameters:
//   - options: functional options to configure the loader
//
// Returns:
//   - Loader: the newly created loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loaderImpl{
		log:     zap.NewNop(),
		workers: 2,
	}
	for _, option := range options {
		option(l)
	}

	// idle workers exit after a second so the pool costs nothing once the textures are in
	l.pool = worker.NewDynamicWorkerPool(l.workers, 64, 1*time.Second)
	return l
}

func (l *loaderImpl) Request(tex common.EffectTexture) {
	l.mu.Lock()
	id := l.taskID
	l.taskID++
	l.pending++
	l.mu.Unlock()

	l.wg.Add(1)
	l.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			defer l.wg.Done()

			start := time.Now()
			data, err := tex.Decode()
			if err != nil {
				l.log.Warn("texture decode failed", zap.String("texture", tex.Name), zap.Error(err))
			} else {
				l.log.Debug("texture decoded",
					zap.String("texture", tex.Name),
					zap.Uint32("width", data.Width),
					zap.Uint32("height", data.Height),
					zap.Duration("took", time.Since(start)),
				)
			}

			l.mu.Lock()
			l.ready = append(l.ready, Decoded{Name: tex.Name, Data: data, Err: err})
			l.mu.Unlock()
			return nil, err
		},
	})
}

func (l *loaderImpl) Drain() []Decoded {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.ready) == 0 {
		return nil
	}
	out := l.ready
	l.ready = nil
	l.pending -= len(out)
	return out
}

func (l *loaderImpl) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}

func (l *loaderImpl) Wait() {
	l.wg.Wait()
}
