package chrono

import "time"

// API is the interface anything depending on the system clock should use.
type API interface {
	Now() time.Time
	// Sleep blocks the caller for `d`, it cannot be interrupted.
	Sleep(d time.Duration)
}

// StandardImpl is the standard implementation of API using the standard library.
type StandardImpl struct{}

func (StandardImpl) Now() time.Time {
	return time.Now()
}

func (StandardImpl) Sleep(d time.Duration) {
	time.Sleep(d)
}

// FakeImpl is an API that never blocks, it advances its own clock instead
// and remembers every requested sleep.
type FakeImpl struct {
	Current time.Time
	Slept   []time.Duration
}

func (f *FakeImpl) Now() time.Time {
	return f.Current
}

func (f *FakeImpl) Sleep(d time.Duration) {
	f.Slept = append(f.Slept, d)
	f.Current = f.Current.Add(d)
}
