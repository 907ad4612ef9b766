// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package cron runs named periodic jobs on top of robfig/cron with panic
// recovery, overlap protection and optional run metrics.
package cron

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-arcade/registry/pkg/log"
	"github.com/robfig/cron/v3"
)

var (
	// ErrDuplicateName is returned when a job name is already scheduled
	ErrDuplicateName = errors.New("cron job name already exists")
	// ErrNotFound is returned when removing an unknown job
	ErrNotFound = errors.New("cron job not found")
)

// MetricsRecorder receives job run observations.
type MetricsRecorder interface {
	RecordJobRun(jobName string, duration time.Duration, err error)
	UpdateNextRun(jobName string, nextRun time.Time)
	UpdateJobsCount(count int)
}

// JobFunc is a unit of scheduled work.
type JobFunc func(ctx context.Context) error

// Entry is a snapshot of a scheduled job.
type Entry struct {
	Name string
	Spec string
	Next time.Time
	Prev time.Time
}

type entry struct {
	id   cron.EntryID
	spec string
}

// Cron is a scheduler of named jobs.
type Cron struct {
	c        *cron.Cron
	recorder MetricsRecorder
	timeout  time.Duration

	mu      sync.Mutex
	entries map[string]entry
	running bool
}

// OpOption configures a Cron.
type OpOption func(*Cron, *[]cron.Option)

// WithLocation sets the time zone used to interpret specs.
func WithLocation(loc *time.Location) OpOption {
	return func(_ *Cron, opts *[]cron.Option) {
		*opts = append(*opts, cron.WithLocation(loc))
	}
}

// WithSeconds enables the optional leading seconds field.
func WithSeconds() OpOption {
	return func(_ *Cron, opts *[]cron.Option) {
		*opts = append(*opts, cron.WithSeconds())
	}
}

// WithMetricsRecorder records every run.
func WithMetricsRecorder(r MetricsRecorder) OpOption {
	return func(c *Cron, _ *[]cron.Option) {
		c.recorder = r
	}
}

// WithJobTimeout bounds the context passed to each run.
func WithJobTimeout(d time.Duration) OpOption {
	return func(c *Cron, _ *[]cron.Option) {
		c.timeout = d
	}
}

// New creates a stopped scheduler.
func New(opts ...OpOption) *Cron {
	c := &Cron{entries: make(map[string]entry)}
	logger := cronLogger{}
	copts := []cron.Option{
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	}
	for _, opt := range opts {
		opt(c, &copts)
	}
	c.c = cron.New(copts...)
	return c
}

// AddFunc schedules fn under name.
func (c *Cron) AddFunc(spec, name string, fn JobFunc) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	id, err := c.c.AddFunc(spec, func() { c.run(name, fn) })
	if err != nil {
		return fmt.Errorf("parse cron spec %q: %w", spec, err)
	}
	c.entries[name] = entry{id: id, spec: spec}
	if c.recorder != nil {
		c.recorder.UpdateJobsCount(len(c.entries))
	}
	return nil
}

// Remove unschedules the named job.
func (c *Cron) Remove(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	c.c.Remove(e.id)
	delete(c.entries, name)
	if c.recorder != nil {
		c.recorder.UpdateJobsCount(len(c.entries))
	}
	return nil
}

// Entries returns a snapshot of all scheduled jobs.
func (c *Cron) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Entry, 0, len(c.entries))
	for name, e := range c.entries {
		ce := c.c.Entry(e.id)
		out = append(out, Entry{Name: name, Spec: e.spec, Next: ce.Next, Prev: ce.Prev})
	}
	return out
}

// Start runs the scheduler in its own goroutine. Calling it twice is a no-op.
func (c *Cron) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.running = true
	c.c.Start()
	log.Infow("cron scheduler started", "jobs", len(c.entries))
}

// Stop halts scheduling and waits for running jobs until ctx is done.
func (c *Cron) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return nil
	}
	c.running = false
	c.mu.Unlock()

	select {
	case <-c.c.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Cron) run(name string, fn JobFunc) {
	ctx := context.Background()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(ctx)
	if err != nil {
		log.Errorw("cron job failed", "job", name, "error", err)
	}
	if c.recorder == nil {
		return
	}
	c.recorder.RecordJobRun(name, time.Since(start), err)

	c.mu.Lock()
	e, ok := c.entries[name]
	c.mu.Unlock()
	if ok {
		c.recorder.UpdateNextRun(name, c.c.Entry(e.id).Next)
	}
}

// cronLogger routes robfig/cron logs into zap.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	log.Debugw("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	log.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
