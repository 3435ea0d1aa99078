package console

// Observer receives view level measurements.
type Observer interface {
	ObserveReconcile(result string)
	SetJobs(active, completed int)
	SetResources(n int)
}

type nopObserver struct{}

func (nopObserver) ObserveReconcile(string) {}
func (nopObserver) SetJobs(int, int)        {}
func (nopObserver) SetResources(int)        {}
