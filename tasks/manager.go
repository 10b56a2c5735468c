// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package tasks owns the asynchronous generation lifecycle: one task per
// accepted request, executed off the calling path by a worker pool, polled by
// clients until it reaches a terminal state.
package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/gurukul/core"
	"github.com/poiesic/gurukul/generation"
	"github.com/poiesic/gurukul/storage"
)

const (
	// DefaultRetention is how long finished tasks remain pollable.
	DefaultRetention = time.Hour

	// EstimatedDuration is the coarse completion hint reported to callers on
	// task acceptance. Actual duration depends on the upstream sources.
	EstimatedDuration = 45 * time.Second

	defaultSweepInterval = 10 * time.Minute
)

// Pipeline is the slice of the orchestrator the manager drives.
type Pipeline interface {
	Generate(ctx context.Context, req generation.Request) (*core.LessonArtifact, error)
}

// Request describes one generation request as accepted from a client.
type Request struct {
	Subject          string
	Topic            string
	Requester        string
	UseKnowledgeBase bool
	IncludeWikipedia bool
	ForceRegenerate  bool
}

// tracked pairs a task with its completion instant for retention sweeping.
type tracked struct {
	task     *core.Task
	finished time.Time
}

// Manager is the process-wide task registry and executor.
// The conflict check in Create and the artifact save race for the same key;
// a per-key mutex spans the check so at most one generation is accepted per
// key unless regeneration is forced.
type Manager struct {
	store    *storage.ArtifactStore
	pipeline Pipeline
	pool     *ants.Pool

	mu    sync.RWMutex
	tasks map[string]*tracked

	locks     storage.KeyedMutex
	retention time.Duration
	now       func() time.Time
	logger    *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
	closed    bool
}

// Option configures a Manager.
type Option func(*Manager) error

// WithPoolSize sets the worker pool size for concurrent generation.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(m *Manager) error {
		if size < 1 {
			size = 1
		}
		if m.pool != nil {
			m.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		m.pool = pool
		return nil
	}
}

// WithRetention sets how long terminal tasks remain pollable before the
// sweeper drops them. Default is DefaultRetention.
func WithRetention(retention time.Duration) Option {
	return func(m *Manager) error {
		if retention > 0 {
			m.retention = retention
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) error {
		if logger != nil {
			m.logger = logger
		}
		return nil
	}
}

// WithClock overrides the time source, for retention tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) error {
		if now != nil {
			m.now = now
		}
		return nil
	}
}

// NewManager creates a task manager over the given store and pipeline.
func NewManager(store *storage.ArtifactStore, pipeline Pipeline, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if pipeline == nil {
		return nil, ErrPipelineRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		store:     store,
		pipeline:  pipeline,
		pool:      pool,
		tasks:     make(map[string]*tracked),
		retention: DefaultRetention,
		now:       time.Now,
		logger:    slog.Default().With("component", "tasks"),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		if optErr := opt(m); optErr != nil {
			m.pool.Release()
			return nil, optErr
		}
	}

	go m.sweepLoop()
	return m, nil
}

// Create accepts a generation request and returns the registered task. It
// fails with ErrConflict when an artifact already exists at the key and
// ForceRegenerate is false; no task is created in that case. The call never
// blocks on generation itself.
func (m *Manager) Create(ctx context.Context, req Request) (*core.Task, error) {
	if err := m.checkOpen(); err != nil {
		return nil, err
	}
	if req.Subject == "" {
		return nil, core.ErrEmptySubject
	}
	if req.Topic == "" {
		return nil, core.ErrEmptyTopic
	}

	key := core.Fingerprint(req.Subject, req.Topic)

	// The key lock spans conflict check and registration so two concurrent
	// requests for the same key cannot both pass the check.
	unlock := m.locks.Lock(key)
	defer unlock()

	if !req.ForceRegenerate {
		exists, err := m.store.Exists(ctx, req.Subject, req.Topic)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%w: key %q", ErrConflict, key)
		}
		if m.pendingForKey(key) {
			return nil, fmt.Errorf("%w: generation already in progress for key %q", ErrConflict, key)
		}
	}

	task := &core.Task{
		ID:        uuid.NewString(),
		Subject:   req.Subject,
		Topic:     req.Topic,
		Requester: req.Requester,
		Status:    core.TaskPending,
		CreatedAt: m.now().UTC(),
		Progress:  "queued",
	}

	m.mu.Lock()
	m.tasks[task.ID] = &tracked{task: task}
	m.mu.Unlock()

	if err := m.pool.Submit(func() { m.run(task.ID, req) }); err != nil {
		m.mu.Lock()
		delete(m.tasks, task.ID)
		m.mu.Unlock()
		return nil, err
	}

	m.logger.Info("task accepted", "task", task.ID, "key", key, "requester", req.Requester)
	return task.Clone(), nil
}

// Get returns a snapshot of the task, or ErrTaskNotFound.
func (m *Manager) Get(taskID string) (*core.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.tasks[taskID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTaskNotFound, taskID)
	}
	return entry.task.Clone(), nil
}

// List returns snapshots of all tracked tasks, newest first.
func (m *Manager) List() []*core.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*core.Task, 0, len(m.tasks))
	for _, entry := range m.tasks {
		list = append(list, entry.task.Clone())
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}

// Close stops the sweeper and releases the worker pool. In-flight workers
// run to completion.
func (m *Manager) Close() error {
	m.closeOnce.Do(func() {
		m.mu.Lock()
		m.closed = true
		m.mu.Unlock()

		close(m.done)
		m.pool.Release()
	})
	return nil
}

// run executes one task to a terminal state. The worker owns the task
// exclusively; ids are fresh per Create and never reused.
func (m *Manager) run(taskID string, req Request) {
	ctx := context.Background()

	m.update(taskID, func(t *core.Task) {
		t.Status = core.TaskInProgress
		t.Progress = "starting retrieval"
	})

	artifact, err := m.pipeline.Generate(ctx, generation.Request{
		Subject:          req.Subject,
		Topic:            req.Topic,
		UseKnowledgeBase: req.UseKnowledgeBase,
		IncludeWikipedia: req.IncludeWikipedia,
		Progress: func(message string) {
			m.update(taskID, func(t *core.Task) { t.Progress = message })
		},
	})
	if err != nil {
		m.fail(taskID, fmt.Errorf("generation failed: %w", err))
		return
	}

	m.update(taskID, func(t *core.Task) { t.Progress = "saving artifact" })

	saved, err := m.store.Save(ctx, artifact)
	if err != nil {
		m.fail(taskID, fmt.Errorf("could not persist artifact: %w", err))
		return
	}

	// Completed is set only after the artifact is durably written.
	m.update(taskID, func(t *core.Task) {
		t.Status = core.TaskCompleted
		t.Progress = "completed"
		t.Result = saved
	})
	m.logger.Info("task completed", "task", taskID, "key", saved.Key(), "version", saved.Metadata.Version)
}

func (m *Manager) fail(taskID string, err error) {
	m.update(taskID, func(t *core.Task) {
		t.Status = core.TaskFailed
		t.Progress = "failed"
		t.Error = err.Error()
	})
	m.logger.Error("task failed", "task", taskID, "err", err)
}

// update applies a mutation to a live task. Terminal tasks are never mutated
// again.
func (m *Manager) update(taskID string, mutate func(*core.Task)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.tasks[taskID]
	if !ok || entry.task.Status.Terminal() {
		return
	}
	mutate(entry.task)
	if entry.task.Status.Terminal() {
		entry.finished = m.now().UTC()
	}
}

// pendingForKey reports whether a non-terminal task is already tracked for
// the key. Callers hold the key lock.
func (m *Manager) pendingForKey(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, entry := range m.tasks {
		if entry.task.Status.Terminal() {
			continue
		}
		if core.Fingerprint(entry.task.Subject, entry.task.Topic) == key {
			return true
		}
	}
	return false
}

func (m *Manager) checkOpen() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrManagerClosed
	}
	return nil
}

func (m *Manager) sweepLoop() {
	ticker := time.NewTicker(defaultSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Sweep drops terminal tasks older than the retention window and returns how
// many were removed. Live tasks are never swept.
func (m *Manager) Sweep() int {
	cutoff := m.now().UTC().Add(-m.retention)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, entry := range m.tasks {
		if entry.task.Status.Terminal() && entry.finished.Before(cutoff) {
			delete(m.tasks, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Debug("swept finished tasks", "removed", removed)
	}
	return removed
}
