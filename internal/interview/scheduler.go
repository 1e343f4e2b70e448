package interview

// Scheduler decouples the feedback pipeline from the request that ends
// an interview. The End operation's contract is "scheduled, not
// completed". Tests inject a synchronous implementation to observe
// pipeline completion deterministically.
type Scheduler interface {
	Schedule(task func())
}

// AsyncScheduler runs tasks on their own goroutine (fire-and-forget).
type AsyncScheduler struct{}

func (AsyncScheduler) Schedule(task func()) {
	go task()
}

// SyncScheduler runs tasks inline. Test use only.
type SyncScheduler struct{}

func (SyncScheduler) Schedule(task func()) {
	task()
}
