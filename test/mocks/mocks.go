// test/mocks/mocks.go

// Package mocks contains hand-rolled test doubles for the application's
// interfaces. The gateway fake records every invocation so tests can assert
// on call order and on the absence of network traffic.
package mocks

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/solesync/solesync/internal/core/ports"
)

// Call records one gateway invocation
type Call struct {
	Method string
	Path   string
	Query  map[string]string
	Body   any
}

// FakeGateway is a scriptable ports.Gateway that records calls
type FakeGateway struct {
	mu    sync.Mutex
	calls []Call

	GetFunc    func(path string, query map[string]string) (json.RawMessage, error)
	PostFunc   func(path string, body any) (json.RawMessage, error)
	PutFunc    func(path string, body any) (json.RawMessage, error)
	DeleteFunc func(path string) (json.RawMessage, error)
}

// Statically assert that *FakeGateway implements the Gateway interface.
var _ ports.Gateway = (*FakeGateway)(nil)

func (f *FakeGateway) record(c Call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

// Calls returns a copy of every recorded invocation
func (f *FakeGateway) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns the number of recorded invocations
func (f *FakeGateway) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *FakeGateway) GetJSON(_ context.Context, path string, query map[string]string) (json.RawMessage, error) {
	f.record(Call{Method: "GET", Path: path, Query: query})
	if f.GetFunc == nil {
		return nil, nil
	}
	return f.GetFunc(path, query)
}

func (f *FakeGateway) PostJSON(_ context.Context, path string, body any) (json.RawMessage, error) {
	f.record(Call{Method: "POST", Path: path, Body: body})
	if f.PostFunc == nil {
		return nil, nil
	}
	return f.PostFunc(path, body)
}

func (f *FakeGateway) PutJSON(_ context.Context, path string, body any) (json.RawMessage, error) {
	f.record(Call{Method: "PUT", Path: path, Body: body})
	if f.PutFunc == nil {
		return nil, nil
	}
	return f.PutFunc(path, body)
}

func (f *FakeGateway) DeleteJSON(_ context.Context, path string) (json.RawMessage, error) {
	f.record(Call{Method: "DELETE", Path: path})
	if f.DeleteFunc == nil {
		return nil, nil
	}
	return f.DeleteFunc(path)
}
