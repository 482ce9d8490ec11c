package compiler

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gravity/internal/level"
)

// Result is the outcome of one background compile.
type Result struct {
	Level      int
	Generation uint64
	Plan       *Plan
	Err        error
}

// Compiler loads and compiles maps off the tick goroutine.
//
// Every Start bumps a generation counter and cancels the previous job.
// Results from older generations are dropped by Poll, so a slow load can
// never replace a newer map.
type Compiler struct {
	src    level.Source
	opts   Options
	logger *log.Logger

	// Synchronous runs jobs inline inside Start. The result is still
	// delivered through Poll.
	Synchronous bool

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	pending bool
	results chan Result
}

// NewCompiler creates a compiler reading maps from src. A nil logger
// discards output.
func NewCompiler(src level.Source, opts Options, logger *log.Logger) *Compiler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Compiler{
		src:     src,
		opts:    opts,
		logger:  logger,
		results: make(chan Result, 1),
	}
}

// Start begins compiling level id and returns the job's generation.
// Any job still running is cancelled.
func (c *Compiler) Start(ctx context.Context, id int) uint64 {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	gen := c.gen
	jobCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.pending = true
	c.mu.Unlock()

	job := func() {
		res := Result{Level: id, Generation: gen}
		res.Plan, res.Err = c.compile(jobCtx, id)
		c.deliver(jobCtx, res)
	}
	if c.Synchronous {
		job()
	} else {
		go job()
	}
	return gen
}

func (c *Compiler) compile(ctx context.Context, id int) (*Plan, error) {
	grid, err := level.Read(ctx, c.src, id)
	if err != nil {
		return nil, err
	}
	plan, err := Compile(id, grid, c.opts)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("map compiled", "level", id,
		"blocks", plan.Blocks.Cells, "block_boxes", len(plan.Blocks.Boxes),
		"spikes", plan.Spikes.Cells, "obstacles", len(plan.Obstacles),
		"distance", plan.TotalDistance)
	return plan, nil
}

func (c *Compiler) deliver(ctx context.Context, res Result) {
	for {
		select {
		case c.results <- res:
			return
		case <-ctx.Done():
			return
		default:
		}
		// The buffer holds a stale result nobody polled yet; drop it.
		select {
		case <-c.results:
		default:
		}
	}
}

// Poll returns the result of the current job if it has finished.
// Stale results are discarded.
func (c *Compiler) Poll() (Result, bool) {
	for {
		select {
		case res := <-c.results:
			if !c.current(res.Generation) {
				continue
			}
			c.mu.Lock()
			c.pending = false
			c.mu.Unlock()
			return res, true
		default:
			return Result{}, false
		}
	}
}

// Wait blocks until the current job finishes or ctx is done.
func (c *Compiler) Wait(ctx context.Context) (Result, error) {
	for {
		select {
		case res := <-c.results:
			if !c.current(res.Generation) {
				continue
			}
			c.mu.Lock()
			c.pending = false
			c.mu.Unlock()
			return res, nil
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}
}

// Cancel abandons the running job, if any.
func (c *Compiler) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
	c.pending = false
}

// Pending reports whether a job was started and its result not yet taken.
func (c *Compiler) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

func (c *Compiler) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.gen
}
