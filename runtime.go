package litedb

import "sync"

// All engine work runs on one process-wide background goroutine, created
// lazily on first use and never torn down. Confining every connection and
// statement to that single goroutine is what makes the engine layer safe
// without any locking of its own.

var (
	runtimeOnce sync.Once
	runtimeJobs chan func()
)

// submit runs fn on the background runtime goroutine and blocks until it
// returns. fn must not call submit itself.
func submit(fn func()) {
	runtimeOnce.Do(func() {
		runtimeJobs = make(chan func())

		go func() {
			for job := range runtimeJobs {
				job()
			}
		}()
	})

	done := make(chan struct{})

	runtimeJobs <- func() {
		defer close(done)
		fn()
	}

	<-done
}
