package asyncrt

import "math/rand"

// Executor runs tasks on a single thread with a deterministic FIFO scheduler
// by default. Seeded fuzz scheduling is supported for reproducible
// interleavings in tests.
type Executor struct {
	cfg      Config
	nextID   TaskID
	ready    []TaskID
	readySet map[TaskID]struct{}
	tasks    map[TaskID]*Task
	waiters  map[WakerKey][]TaskID
	parked   map[TaskID]WakerKey
	current  TaskID
	rng      *rand.Rand
}

// TaskID identifies a spawned task.
type TaskID uint64

// TaskStatus describes task scheduling state.
type TaskStatus uint8

const (
	TaskReady TaskStatus = iota
	TaskRunning
	TaskWaiting
	TaskDone
)

// PollFn advances a task by one step each time the scheduler picks it.
type PollFn func(e *Executor, t *Task) PollOutcome

// Task stores executor-visible task state.
type Task struct {
	ID     TaskID
	Poll   PollFn
	State  any
	Status TaskStatus
	Value  any
	Err    error
}

// Config configures executor scheduling behavior.
type Config struct {
	Fuzz bool
	Seed uint64
}

// NewExecutor constructs an executor with the provided configuration.
func NewExecutor(cfg Config) *Executor {
	e := &Executor{
		cfg:      cfg,
		nextID:   1,
		readySet: make(map[TaskID]struct{}),
		tasks:    make(map[TaskID]*Task),
		waiters:  make(map[WakerKey][]TaskID),
		parked:   make(map[TaskID]WakerKey),
	}
	if cfg.Fuzz {
		seed := cfg.Seed
		if seed == 0 {
			seed = 1
		}
		e.rng = rand.New(rand.NewSource(int64(seed))) //nolint:gosec // deterministic scheduler seed
	}
	return e
}

// Current returns the ID of the task being polled.
func (e *Executor) Current() TaskID {
	if e == nil {
		return 0
	}
	return e.current
}

// Task returns a task by ID.
func (e *Executor) Task(id TaskID) *Task {
	if e == nil {
		return nil
	}
	return e.tasks[id]
}

// Spawn registers a task and enqueues it for execution.
func (e *Executor) Spawn(poll PollFn, state any) TaskID {
	if e == nil || poll == nil {
		return 0
	}
	id := e.nextID
	e.nextID++
	task := &Task{
		ID:     id,
		Poll:   poll,
		State:  state,
		Status: TaskReady,
	}
	e.tasks[id] = task
	e.enqueue(id)
	return id
}

// SpawnFuture registers a task that drives a future to completion. Dependents
// parked on the task's join key wake when the future settles. A future stuck
// on an externally-driven link in its wait chain parks the task on that
// future's waker key; Complete or Fail wakes it.
func (e *Executor) SpawnFuture(f *Future) TaskID {
	return e.Spawn(func(exec *Executor, t *Task) PollOutcome {
		v, done, err := f.Resume()
		if done {
			return PollOutcome{Kind: PollDone, Value: v, Err: err}
		}
		if dep := f.blockedOn(); dep != nil {
			dep.attach(exec)
			return PollOutcome{Kind: PollParked, ParkKey: dep.Key()}
		}
		return PollOutcome{Kind: PollYielded}
	}, f)
}

// NextReady returns the next ready task according to scheduler policy.
func (e *Executor) NextReady() (TaskID, bool) {
	if e == nil || len(e.ready) == 0 {
		return 0, false
	}
	for len(e.ready) > 0 {
		idx := 0
		if e.cfg.Fuzz && e.rng != nil {
			idx = e.rng.Intn(len(e.ready))
		}
		id := e.ready[idx]
		copy(e.ready[idx:], e.ready[idx+1:])
		e.ready = e.ready[:len(e.ready)-1]
		delete(e.readySet, id)
		task := e.tasks[id]
		if task == nil || task.Status == TaskDone {
			continue
		}
		return id, true
	}
	return 0, false
}

// Wake enqueues a task if it is not done, removing it from any wait queue.
func (e *Executor) Wake(id TaskID) {
	if e == nil {
		return
	}
	task := e.tasks[id]
	if task == nil || task.Status == TaskDone {
		return
	}
	if key, ok := e.parked[id]; ok {
		e.removeWaiter(key, id)
		delete(e.parked, id)
	}
	e.enqueue(id)
}

// WakeKeyAll wakes all tasks waiting on a key.
func (e *Executor) WakeKeyAll(key WakerKey) {
	if e == nil || !key.IsValid() {
		return
	}
	waiters := e.waiters[key]
	if len(waiters) == 0 {
		return
	}
	delete(e.waiters, key)
	for _, id := range waiters {
		delete(e.parked, id)
		e.Wake(id)
	}
}

// RunUntilIdle polls ready tasks until none remain runnable. It returns the
// number of tasks that completed during the run. Tasks left parked with no
// one to wake them stay parked; the caller decides whether that is a bug.
func (e *Executor) RunUntilIdle() int {
	if e == nil {
		return 0
	}
	completed := 0
	for {
		id, ok := e.NextReady()
		if !ok {
			return completed
		}
		task := e.tasks[id]
		e.current = id
		task.Status = TaskRunning
		outcome := task.Poll(e, task)
		e.current = 0
		switch outcome.Kind {
		case PollDone:
			e.markDone(task, outcome.Value, outcome.Err)
			completed++
		case PollYielded:
			e.enqueue(id)
		case PollParked:
			e.parkTask(id, outcome.ParkKey)
		}
	}
}

// Pending reports how many tasks have not completed.
func (e *Executor) Pending() int {
	if e == nil {
		return 0
	}
	n := 0
	for _, t := range e.tasks {
		if t.Status != TaskDone {
			n++
		}
	}
	return n
}

func (e *Executor) markDone(task *Task, value any, err error) {
	task.Value = value
	task.Err = err
	task.Status = TaskDone
	if key, ok := e.parked[task.ID]; ok {
		e.removeWaiter(key, task.ID)
		delete(e.parked, task.ID)
	}
	e.WakeKeyAll(JoinKey(task.ID))
}

func (e *Executor) enqueue(id TaskID) {
	if _, ok := e.readySet[id]; ok {
		return
	}
	e.ready = append(e.ready, id)
	e.readySet[id] = struct{}{}
	if task := e.tasks[id]; task != nil && task.Status != TaskDone {
		task.Status = TaskReady
	}
}

func (e *Executor) parkTask(id TaskID, key WakerKey) {
	task := e.tasks[id]
	if task == nil || task.Status == TaskDone {
		return
	}
	if !key.IsValid() {
		// Invalid park key degrades to a yield so the task cannot be lost.
		e.enqueue(id)
		return
	}
	if prev, ok := e.parked[id]; ok {
		if prev == key {
			task.Status = TaskWaiting
			return
		}
		e.removeWaiter(prev, id)
	}
	e.parked[id] = key
	e.waiters[key] = append(e.waiters[key], id)
	task.Status = TaskWaiting
}

func (e *Executor) removeWaiter(key WakerKey, id TaskID) {
	waiters := e.waiters[key]
	for i, waiter := range waiters {
		if waiter == id {
			copy(waiters[i:], waiters[i+1:])
			waiters = waiters[:len(waiters)-1]
			break
		}
	}
	if len(waiters) == 0 {
		delete(e.waiters, key)
		return
	}
	e.waiters[key] = waiters
}
