package library

import (
	"github.com/sasha-s/go-deadlock"
)

// ValidateSaneExecutionTime arms the deadlock detector for the calling section.
// Call the returned func when the section completes; if it never does, go-deadlock reports it.
func ValidateSaneExecutionTime() func() {
	mu := deadlock.Mutex{}
	mu.Lock()
	go func() {
		mu.Lock()
		mu.Unlock()
	}()
	return func() {
		mu.Unlock()
	}
}
