package player

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTask_Resolve(t *testing.T) {
	task := newTask("a.wav")
	if task.Err() != nil {
		t.Fatal("Err() before resolve should be nil")
	}
	select {
	case <-task.Done():
		t.Fatal("Done() closed before resolve")
	default:
	}

	want := errors.New("boom")
	task.resolve(want)
	<-task.Done()
	if !errors.Is(task.Err(), want) {
		t.Errorf("Err() = %v, want %v", task.Err(), want)
	}
	if err := task.Wait(context.Background()); !errors.Is(err, want) {
		t.Errorf("Wait() = %v, want %v", err, want)
	}
	if task.Origin() != "a.wav" {
		t.Errorf("Origin() = %q", task.Origin())
	}
}

func TestTask_WaitGivesUp(t *testing.T) {
	task := newTask("slow.mp3")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := task.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() = %v, want DeadlineExceeded", err)
	}
	task.resolve(nil)
	if err := task.Wait(context.Background()); err != nil {
		t.Errorf("Wait() after resolve = %v", err)
	}
}
