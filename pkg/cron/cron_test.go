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


package cron

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	mu    sync.Mutex
	runs  map[string]int
	errs  map[string]int
	count int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{runs: map[string]int{}, errs: map[string]int{}}
}

func (f *fakeRecorder) RecordJobRun(name string, _ time.Duration, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs[name]++
	if err != nil {
		f.errs[name]++
	}
}

func (f *fakeRecorder) UpdateNextRun(string, time.Time) {}

func (f *fakeRecorder) UpdateJobsCount(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count = n
}

func (f *fakeRecorder) snapshot(name string) (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs[name], f.errs[name]
}

func TestAddFunc_InvalidSpec(t *testing.T) {
	c := New()
	err := c.AddFunc("not a spec", "bad", func(context.Context) error { return nil })
	assert.Error(t, err)
	assert.Empty(t, c.Entries())
}

func TestAddFunc_DuplicateName(t *testing.T) {
	c := New()
	noop := func(context.Context) error { return nil }
	require.NoError(t, c.AddFunc("@every 1m", "stats", noop))
	err := c.AddFunc("@every 1m", "stats", noop)
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestRemove(t *testing.T) {
	rec := newFakeRecorder()
	c := New(WithMetricsRecorder(rec))
	require.NoError(t, c.AddFunc("@every 1m", "a", func(context.Context) error { return nil }))
	require.NoError(t, c.AddFunc("@every 1m", "b", func(context.Context) error { return nil }))
	assert.Equal(t, 2, rec.count)

	require.NoError(t, c.Remove("a"))
	assert.Equal(t, 1, rec.count)
	assert.ErrorIs(t, c.Remove("a"), ErrNotFound)

	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "b", entries[0].Name)
	assert.Equal(t, "@every 1m", entries[0].Spec)
}

func TestRunRecordsAndRecovers(t *testing.T) {
	rec := newFakeRecorder()
	c := New(WithSeconds(), WithMetricsRecorder(rec), WithJobTimeout(time.Second))

	var ok atomic.Int32
	require.NoError(t, c.AddFunc("* * * * * *", "ok", func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		if hasDeadline {
			ok.Add(1)
		}
		return nil
	}))
	require.NoError(t, c.AddFunc("* * * * * *", "failing", func(context.Context) error {
		return errors.New("boom")
	}))
	require.NoError(t, c.AddFunc("* * * * * *", "panicking", func(context.Context) error {
		panic("boom")
	}))

	c.Start()
	c.Start()
	require.Eventually(t, func() bool {
		runs, _ := rec.snapshot("failing")
		return ok.Load() > 0 && runs > 0
	}, 5*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, c.Stop(ctx))
	require.NoError(t, c.Stop(ctx), "second stop is a no-op")

	runs, errs := rec.snapshot("failing")
	assert.Equal(t, runs, errs)
}
