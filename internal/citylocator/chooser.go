package citylocator

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/atlanticofertlog/cargo-docs/internal/metrics"
)

// Chooser picks exactly one of the offered candidates. Implementations may
// block; they must honour ctx cancellation.
type Chooser interface {
	Choose(ctx context.Context, candidates []Candidate) (Candidate, error)
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func(ctx context.Context, candidates []Candidate) (Candidate, error)

func (f ChooserFunc) Choose(ctx context.Context, candidates []Candidate) (Candidate, error) {
	return f(ctx, candidates)
}

// FirstChooser takes the earliest mention without asking anyone.
type FirstChooser struct{}

func (FirstChooser) Choose(ctx context.Context, candidates []Candidate) (Candidate, error) {
	if err := ctx.Err(); err != nil {
		return Candidate{}, err
	}
	if len(candidates) == 0 {
		return Candidate{}, errors.New("no candidates to choose from")
	}
	return candidates[0], nil
}

// Request is one pending choice posted by a worker. The consumer must call
// Resolve or Reject; only the first call counts.
type Request struct {
	ctx        context.Context
	Candidates []Candidate
	reply      chan choice
	once       sync.Once
}

type choice struct {
	candidate Candidate
	err       error
}

// Context is the requesting worker's context; it is done when the worker gave up.
func (r *Request) Context() context.Context { return r.ctx }

// Default is the preselected answer: the first candidate.
func (r *Request) Default() Candidate { return r.Candidates[0] }

func (r *Request) Resolve(c Candidate) {
	r.once.Do(func() { r.reply <- choice{candidate: c} })
}

func (r *Request) Reject(err error) {
	if err == nil {
		err = errors.New("choice rejected")
	}
	r.once.Do(func() { r.reply <- choice{err: err} })
}

// Resolver answers one request on the consumer goroutine.
type Resolver func(ctx context.Context, candidates []Candidate) (Candidate, error)

// Dispatcher hands choices from worker goroutines to a single consumer loop,
// typically the main or UI goroutine. Choose blocks the worker until the
// consumer answers or the worker's context is cancelled.
type Dispatcher struct {
	requests chan *Request
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{requests: make(chan *Request)}
}

// Requests exposes pending choices for consumers that run their own event loop.
func (d *Dispatcher) Requests() <-chan *Request { return d.requests }

func (d *Dispatcher) Choose(ctx context.Context, candidates []Candidate) (Candidate, error) {
	if len(candidates) == 0 {
		return Candidate{}, errors.New("no candidates to choose from")
	}
	req := &Request{ctx: ctx, Candidates: candidates, reply: make(chan choice, 1)}

	metrics.ChoicesPending.Inc()
	defer metrics.ChoicesPending.Dec()

	select {
	case d.requests <- req:
	case <-ctx.Done():
		return Candidate{}, ctx.Err()
	}
	select {
	case c := <-req.reply:
		return c.candidate, c.err
	case <-ctx.Done():
		return Candidate{}, ctx.Err()
	}
}

// Serve resolves requests one at a time with resolve until ctx is done.
// Requests whose worker already gave up are dropped unanswered.
func (d *Dispatcher) Serve(ctx context.Context, resolve Resolver) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-d.requests:
			if req.ctx.Err() != nil {
				req.Reject(req.ctx.Err())
				continue
			}
			c, err := resolve(req.ctx, req.Candidates)
			if err != nil {
				req.Reject(err)
				continue
			}
			req.Resolve(c)
		}
	}
}

// PromptResolver asks on out and reads the answer from in. An empty line, or
// end of input, selects the first candidate.
func PromptResolver(in io.Reader, out io.Writer) Resolver {
	scanner := bufio.NewScanner(in)
	return func(ctx context.Context, candidates []Candidate) (Candidate, error) {
		_, _ = fmt.Fprintln(out, "Several destination cities were found. Pick the right one:")
		for i, c := range candidates {
			_, _ = fmt.Fprintf(out, "  %d) %s - %s\n", i+1, c.Name, c.State)
		}
		for {
			if err := ctx.Err(); err != nil {
				return Candidate{}, err
			}
			_, _ = fmt.Fprintf(out, "choice [1]: ")
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return Candidate{}, fmt.Errorf("read choice: %w", err)
				}
				return candidates[0], nil
			}
			answer := strings.TrimSpace(scanner.Text())
			if answer == "" {
				return candidates[0], nil
			}
			n, err := strconv.Atoi(answer)
			if err != nil || n < 1 || n > len(candidates) {
				_, _ = fmt.Fprintf(out, "enter a number between 1 and %d\n", len(candidates))
				continue
			}
			return candidates[n-1], nil
		}
	}
}
