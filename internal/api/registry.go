package api

import (
	"sync"

	"github.com/handiism/bandcamp-explorer/internal/search"
)

// DefaultRegistrySize is how many tasks are remembered.
const DefaultRegistrySize = 100

// Registry remembers submitted tasks by ID. When it is full, the oldest
// finished task is forgotten. Running tasks are never dropped.
type Registry struct {
	mu    sync.RWMutex
	size  int
	tasks map[string]*search.Task
	order []string
}

// NewRegistry creates a Registry holding up to size tasks.
func NewRegistry(size int) *Registry {
	if size < 1 {
		size = DefaultRegistrySize
	}
	return &Registry{
		size:  size,
		tasks: make(map[string]*search.Task),
	}
}

// Add stores task.
func (r *Registry) Add(task *search.Task) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[task.ID()] = task
	r.order = append(r.order, task.ID())

	for i := 0; len(r.order) > r.size && i < len(r.order); {
		id := r.order[i]
		if !r.tasks[id].State().Final() {
			i++
			continue
		}
		delete(r.tasks, id)
		r.order = append(r.order[:i], r.order[i+1:]...)
	}
}

// Get returns the task with id.
func (r *Registry) Get(id string) (*search.Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	task, ok := r.tasks[id]
	return task, ok
}

// List returns all tasks in submission order.
func (r *Registry) List() []*search.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*search.Task, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.tasks[id])
	}
	return out
}

// Len returns the number of remembered tasks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
