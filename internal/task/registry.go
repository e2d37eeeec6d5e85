package task

// Registry maps task names to tasks. It is populated at startup and read-only
// afterwards, so it is safe for concurrent use by run workers.
type Registry struct {
	tasks map[string]Task
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tasks: map[string]Task{}}
}

func (r *Registry) Register(t Task) {
	if _, ok := r.tasks[t.Name()]; !ok {
		r.order = append(r.order, t.Name())
	}
	r.tasks[t.Name()] = t
}

func (r *Registry) Get(name string) (Task, bool) {
	t, ok := r.tasks[name]
	return t, ok
}

// Names returns registered task names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}
