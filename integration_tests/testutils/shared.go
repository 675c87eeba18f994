//go:build integration

package testutils

import (
	"log"
	"sync"
	"testing"
)

// Suite lazily starts one TestEnvironment per test binary.
type Suite struct {
	Name string
	once sync.Once
	env  *TestEnvironment
	err  error
}

// Env returns the shared environment, starting it on first use.
func (s *Suite) Env(t *testing.T) *TestEnvironment {
	t.Helper()
	s.once.Do(func() {
		log.Printf("Initializing %s test environment...", s.Name)
		s.env, s.err = NewTestEnvironment()
	})
	if s.err != nil {
		t.Fatalf("%s test environment initialization failed: %v", s.Name, s.err)
	}
	return s.env
}

// Teardown terminates the environment if it was started.
func (s *Suite) Teardown() {
	if s.env != nil {
		log.Printf("Tearing down %s test environment...", s.Name)
		s.env.Cleanup()
	}
}
