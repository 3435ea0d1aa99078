package job

import (
	"sync"

	"github.com/pkg/errors"
)

var (
	ErrNotReordering = errors.New("no reorder in progress")
	ErrUnknownJob    = errors.New("job not on board")
)

// Board holds the active and completed job lists shown to the operator.
// Only the reconciler and the reorder protocol write to it; everything
// else reads snapshots.
type Board struct {
	mu        sync.RWMutex
	active    []Job
	completed []Job
	reordered bool
	// saved is the active order captured when a reorder began.
	saved []string

	changes chan struct{}
}

func NewBoard() *Board {
	return &Board{changes: make(chan struct{}, 1)}
}

// Changes delivers a coalesced signal after every mutation.
func (b *Board) Changes() <-chan struct{} {
	return b.changes
}

func (b *Board) Active() []Job {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Job(nil), b.active...)
}

func (b *Board) Completed() []Job {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Job(nil), b.completed...)
}

func (b *Board) Find(id string) (Job, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if idx := indexOf(b.active, id); idx >= 0 {
		return b.active[idx], true
	}
	if idx := indexOf(b.completed, id); idx >= 0 {
		return b.completed[idx], true
	}
	return Job{}, false
}

// Order lists active job IDs followed by completed job IDs, as displayed.
func (b *Board) Order() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	order := make([]string, 0, len(b.active)+len(b.completed))
	for _, j := range b.active {
		order = append(order, j.ID)
	}
	for _, j := range b.completed {
		order = append(order, j.ID)
	}
	return order
}

func (b *Board) Reordered() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.reordered
}

// BeginReorder suspends merging and remembers the active order.
func (b *Board) BeginReorder() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.reordered = true
	b.saved = b.saved[:0]
	for _, j := range b.active {
		b.saved = append(b.saved, j.ID)
	}
}

// EndReorder resumes merging. With restore set the active list goes back
// to the order seen by BeginReorder.
func (b *Board) EndReorder(restore bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if restore && b.reordered {
		restored := make([]Job, 0, len(b.active))
		for _, id := range b.saved {
			if idx := indexOf(b.active, id); idx >= 0 {
				restored = append(restored, b.active[idx])
			}
		}
		for _, j := range b.active {
			if indexOf(restored, j.ID) < 0 {
				restored = append(restored, j)
			}
		}
		b.active = restored
		b.notify()
	}

	b.reordered = false
	b.saved = nil
}

func (b *Board) SetExpanded(id string, expanded bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, list := range [][]Job{b.active, b.completed} {
		if idx := indexOf(list, id); idx >= 0 {
			list[idx].Expanded = expanded
			b.notify()
			return nil
		}
	}
	return ErrUnknownJob
}

// MoveActive places an active job at index to. Only allowed while a
// reorder is in progress.
func (b *Board) MoveActive(id string, to int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.reordered {
		return ErrNotReordering
	}

	from := indexOf(b.active, id)
	if from < 0 {
		return ErrUnknownJob
	}

	moved := b.active[from]
	b.active = append(b.active[:from], b.active[from+1:]...)

	if to < 0 {
		to = 0
	}
	if to > len(b.active) {
		to = len(b.active)
	}
	b.active = append(b.active[:to], append([]Job{moved}, b.active[to:]...)...)

	b.notify()
	return nil
}

// Remove drops a job from whichever list holds it.
func (b *Board) Remove(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if idx := indexOf(b.active, id); idx >= 0 {
		b.active = append(b.active[:idx], b.active[idx+1:]...)
		b.notify()
		return true
	}
	if idx := indexOf(b.completed, id); idx >= 0 {
		b.completed = append(b.completed[:idx], b.completed[idx+1:]...)
		b.notify()
		return true
	}
	return false
}

type Result struct {
	Added     []string
	Updated   []string
	Completed []string
	Reopened  []string
}

// apply merges server jobs into the lists. Nothing is applied while a
// reorder is pending.
func (b *Board) apply(jobs []Job, colors ColorLookup) (Result, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.reordered {
		return Result{}, false
	}

	var res Result
	for _, j := range jobs {
		if j.ResourceID != "" && colors != nil {
			if style, ok := colors.ColorStyle(j.ResourceID); ok {
				j.ResourceColor = style
			}
		}

		target, source := &b.active, &b.completed
		if j.Status.Terminal() {
			target, source = &b.completed, &b.active
		}

		expanded, moved := false, false
		if idx := indexOf(*source, j.ID); idx >= 0 {
			expanded, moved = (*source)[idx].Expanded, true
			*source = append((*source)[:idx], (*source)[idx+1:]...)
		}

		if idx := indexOf(*target, j.ID); idx >= 0 {
			if !moved {
				expanded = (*target)[idx].Expanded
			}
			j.Expanded = expanded
			(*target)[idx] = j
			res.Updated = append(res.Updated, j.ID)
			continue
		}

		j.Expanded = expanded
		*target = append(*target, j)

		switch {
		case !moved:
			res.Added = append(res.Added, j.ID)
		case j.Status.Terminal():
			res.Completed = append(res.Completed, j.ID)
		default:
			res.Reopened = append(res.Reopened, j.ID)
		}
	}

	b.notify()
	return res, true
}

func (b *Board) notify() {
	select {
	case b.changes <- struct{}{}:
	default:
	}
}

func indexOf(jobs []Job, id string) int {
	for idx := range jobs {
		if jobs[idx].ID == id {
			return idx
		}
	}
	return -1
}
