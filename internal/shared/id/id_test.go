package id

import (
	"strings"
	"sync"
	"testing"
)

func TestGenerateString(t *testing.T) {
	g := NewGenerator()

	s := g.GenerateString()
	if len(s) != 26 {
		t.Errorf("ULID length = %d, want 26", len(s))
	}
	if !IsValid(s) {
		t.Errorf("generated ID %q should be valid", s)
	}
}

func TestGenerateWithPrefix(t *testing.T) {
	g := NewGenerator()

	s := g.GenerateWithPrefix("term")
	if !strings.HasPrefix(s, "term_") {
		t.Errorf("ID %q missing prefix", s)
	}
	if !IsValid(strings.TrimPrefix(s, "term_")) {
		t.Errorf("ID %q body should be a valid ULID", s)
	}
}

func TestNewSessionID(t *testing.T) {
	id := NewSessionID()
	if !strings.HasPrefix(id.String(), SessionPrefix+"_") {
		t.Errorf("session ID %q missing prefix", id)
	}
}

func TestNewRequestID(t *testing.T) {
	id := NewRequestID()
	if !strings.HasPrefix(id.String(), RequestPrefix+"_") {
		t.Errorf("request ID %q missing prefix", id)
	}
}

func TestUniqueness(t *testing.T) {
	g := NewGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		s := g.GenerateString()
		if seen[s] {
			t.Fatalf("duplicate ID generated: %s", s)
		}
		seen[s] = true
	}
}

func TestConcurrentGeneration(t *testing.T) {
	g := NewGenerator()

	const workers = 10
	const perWorker = 100

	var mu sync.Mutex
	seen := make(map[string]bool)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				s := g.GenerateString()
				mu.Lock()
				if seen[s] {
					t.Errorf("duplicate ID under concurrency: %s", s)
				}
				seen[s] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
}

func TestIsValid(t *testing.T) {
	if IsValid("not-a-ulid") {
		t.Error("garbage should not validate")
	}
	if IsValid("") {
		t.Error("empty string should not validate")
	}
	if !IsValid(NewGenerator().GenerateString()) {
		t.Error("fresh ULID should validate")
	}
}
