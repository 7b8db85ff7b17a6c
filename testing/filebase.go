package testing

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"time"
)

// FakeFilebase is an httptest server standing in for the Filebase IPFS RPC API
type FakeFilebase struct {
	Server *httptest.Server

	// Hash is returned in the add response; an empty Hash simulates a missing CID
	Hash string
	// Status overrides the HTTP status of the add response when non-zero
	Status int
	// Delay holds the response back, used to trigger client timeouts
	Delay time.Duration

	calls atomic.Int32

	mu          sync.Mutex
	lastAuth    string
	lastPayload []byte
}

// NewFakeFilebase starts a fake provider returning hash for every add call
func NewFakeFilebase(hash string) *FakeFilebase {
	f := &FakeFilebase{Hash: hash}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	return f
}

func (f *FakeFilebase) handle(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)

	if r.URL.Path != "/api/v0/add" || r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var name string
	f.mu.Lock()
	f.lastAuth = r.Header.Get("Authorization")
	if file, header, err := r.FormFile("file"); err == nil {
		name = header.Filename
		f.lastPayload, _ = io.ReadAll(file)
		file.Close()
	}
	f.mu.Unlock()

	if f.Delay > 0 {
		select {
		case <-time.After(f.Delay):
		case <-r.Context().Done():
			return
		}
	}

	if f.Status != 0 && f.Status != http.StatusOK {
		w.WriteHeader(f.Status)
		_, _ = w.Write([]byte(`{"Message":"request rejected","Code":0,"Type":"error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	resp := map[string]string{"Name": name, "Size": "42"}
	if f.Hash != "" {
		resp["Hash"] = f.Hash
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// URL returns the base URL of the fake provider
func (f *FakeFilebase) URL() string { return f.Server.URL }

// Calls returns how many requests reached the fake provider
func (f *FakeFilebase) Calls() int { return int(f.calls.Load()) }

// LastAuthorization returns the Authorization header of the last request
func (f *FakeFilebase) LastAuthorization() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastAuth
}

// LastPayload returns the file bytes received by the last request
func (f *FakeFilebase) LastPayload() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPayload
}

// Close shuts the server down
func (f *FakeFilebase) Close() { f.Server.Close() }
