// Cinematch - Seed-Title Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

// mockService is a suture.Service whose failures tests can script.
type mockService struct {
	name       string
	startCount atomic.Int32
	failCount  atomic.Int32
	maxFails   int32
}

func newMockService(name string) *mockService {
	return &mockService{name: name}
}

// Serve fails maxFails times, then runs until ctx is canceled.
func (m *mockService) Serve(ctx context.Context) error {
	m.startCount.Add(1)
	if m.maxFails > 0 && m.failCount.Add(1) <= m.maxFails {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

// SetFailCount must be called before the service is added to a tree.
func (m *mockService) SetFailCount(n int) { m.maxFails = int32(n) }

func (m *mockService) StartCount() int32 { return m.startCount.Load() }

func (m *mockService) String() string { return m.name }
