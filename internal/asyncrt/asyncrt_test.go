package asyncrt

import (
	"errors"
	"testing"
)

func TestCompletedFutureResolvesImmediately(t *testing.T) {
	f := Completed(42)
	v, done, err := f.Resume()
	if !done || err != nil || v != 42 {
		t.Fatalf("Resume() = (%v, %v, %v)", v, done, err)
	}
	// Settled results are stable across resumes.
	v, done, err = f.Resume()
	if !done || err != nil || v != 42 {
		t.Fatalf("second Resume() = (%v, %v, %v)", v, done, err)
	}
}

func TestDeferredFutureRunsStepOnFirstResume(t *testing.T) {
	calls := 0
	f := Deferred(func() (any, error, bool) {
		calls++
		return "ok", nil, true
	})
	if calls != 0 {
		t.Fatalf("step ran before resume")
	}
	v, done, err := f.Resume()
	if !done || err != nil || v != "ok" {
		t.Fatalf("Resume() = (%v, %v, %v)", v, done, err)
	}
	f.Resume()
	if calls != 1 {
		t.Fatalf("step ran %d times, want 1", calls)
	}
}

func TestDeferredFutureErrorSurfacesAtResume(t *testing.T) {
	boom := errors.New("boom")
	f := Deferred(func() (any, error, bool) {
		return nil, boom, true
	})
	_, done, err := f.Resume()
	if !done || !errors.Is(err, boom) {
		t.Fatalf("expected boom at resume, got done=%v err=%v", done, err)
	}
	if f.State() != FutureFailed {
		t.Fatalf("state = %v, want failed", f.State())
	}
}

func TestPendingStepResumesAgain(t *testing.T) {
	ticks := 0
	f := Deferred(func() (any, error, bool) {
		ticks++
		if ticks < 3 {
			return nil, nil, false
		}
		return ticks, nil, true
	})
	for {
		v, done, err := f.Resume()
		if err != nil {
			t.Fatal(err)
		}
		if done {
			if v != 3 {
				t.Fatalf("value = %v, want 3", v)
			}
			break
		}
	}
}

func TestExecutorRunsSpawnedFuture(t *testing.T) {
	e := NewExecutor(Config{})
	id := e.SpawnFuture(Completed("done"))
	if completed := e.RunUntilIdle(); completed != 1 {
		t.Fatalf("completed = %d, want 1", completed)
	}
	task := e.Task(id)
	if task.Status != TaskDone || task.Value != "done" {
		t.Fatalf("task = %+v", task)
	}
}

func TestJoinWaitersWakeOnCompletion(t *testing.T) {
	e := NewExecutor(Config{})

	target := e.Spawn(func(_ *Executor, t *Task) PollOutcome {
		return PollOutcome{Kind: PollDone, Value: 7}
	}, nil)

	var observed any
	waiterPolls := 0
	e.Spawn(func(e *Executor, _ *Task) PollOutcome {
		waiterPolls++
		dep := e.Task(target)
		if dep.Status != TaskDone {
			return PollOutcome{Kind: PollParked, ParkKey: JoinKey(target)}
		}
		observed = dep.Value
		return PollOutcome{Kind: PollDone}
	}, nil)

	e.RunUntilIdle()
	if observed != 7 {
		t.Fatalf("waiter observed %v, want 7", observed)
	}
	if waiterPolls < 1 || e.Pending() != 0 {
		t.Fatalf("polls=%d pending=%d", waiterPolls, e.Pending())
	}
}

func TestFuzzSchedulingIsSeededAndComplete(t *testing.T) {
	e := NewExecutor(Config{Fuzz: true, Seed: 99})
	for range 10 {
		e.SpawnFuture(Completed(struct{}{}))
	}
	if completed := e.RunUntilIdle(); completed != 10 {
		t.Fatalf("completed = %d, want 10", completed)
	}
}

func TestExternalFutureParksUntilCompleted(t *testing.T) {
	e := NewExecutor(Config{})
	f := Deferred(nil)
	id := e.SpawnFuture(f)

	if completed := e.RunUntilIdle(); completed != 0 {
		t.Fatalf("completed = %d, want 0 before settle", completed)
	}
	task := e.Task(id)
	if task.Status != TaskWaiting {
		t.Fatalf("status = %v, want waiting (task must park, not spin)", task.Status)
	}

	f.Complete(11)
	if completed := e.RunUntilIdle(); completed != 1 {
		t.Fatalf("completed = %d after settle, want 1", completed)
	}
	if task.Status != TaskDone || task.Value != 11 {
		t.Fatalf("task = %+v", task)
	}
}

func TestExternalFutureFailureWakesWaiter(t *testing.T) {
	e := NewExecutor(Config{})
	boom := errors.New("boom")
	f := Deferred(nil)
	id := e.SpawnFuture(f)
	e.RunUntilIdle()

	f.Fail(boom)
	e.RunUntilIdle()
	task := e.Task(id)
	if task.Status != TaskDone || !errors.Is(task.Err, boom) {
		t.Fatalf("task = %+v", task)
	}
}

func TestChainedExternalFutureParksOuterTask(t *testing.T) {
	e := NewExecutor(Config{})
	inner := Deferred(nil)
	outer := Deferred(func() (any, error, bool) {
		v, done, err := inner.Resume()
		if !done {
			return nil, nil, false
		}
		return v, err, true
	})
	outer.WaitOn(inner)

	id := e.SpawnFuture(outer)
	e.RunUntilIdle()
	if e.Task(id).Status != TaskWaiting {
		t.Fatalf("status = %v, want waiting on the inner future", e.Task(id).Status)
	}

	inner.Complete("linked")
	e.RunUntilIdle()
	task := e.Task(id)
	if task.Status != TaskDone || task.Value != "linked" {
		t.Fatalf("task = %+v", task)
	}
}

func TestInvalidParkKeyDegradesToYield(t *testing.T) {
	e := NewExecutor(Config{})
	polls := 0
	e.Spawn(func(_ *Executor, _ *Task) PollOutcome {
		polls++
		if polls == 1 {
			return PollOutcome{Kind: PollParked} // zero key
		}
		return PollOutcome{Kind: PollDone}
	}, nil)
	e.RunUntilIdle()
	if polls != 2 {
		t.Fatalf("polls = %d, want 2 (task must not be lost)", polls)
	}
}
