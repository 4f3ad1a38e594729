package cookies

import "sync"

// Shared guards a Jar with a mutex for collaborators that use it from several
// goroutines. Every access, including find-then-send sequences, goes through
// Do.
type Shared struct {
	mu  sync.Mutex
	jar *Jar
}

// NewShared wraps j. A nil j gets a new empty jar.
func NewShared(j *Jar) *Shared {
	if j == nil {
		j = NewJar()
	}
	return &Shared{jar: j}
}

// Do runs fn with exclusive access to the jar. fn must not retain the jar.
func (s *Shared) Do(fn func(*Jar)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.jar)
}
