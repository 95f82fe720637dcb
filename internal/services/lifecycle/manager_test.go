package lifecycle

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestShutdownReverseOrder(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := New(time.Second, zap.New(core))

	var order []string
	for _, name := range []string{"store", "monitor", "http_server"} {
		name := name
		m.Register(name, func(ctx context.Context) error {
			order = append(order, name)
			return nil
		})
	}
	m.Register("ignored", nil)

	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	want := []string{"http_server", "monitor", "store"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
	if logs.FilterMessage("component stopped").Len() != 3 {
		t.Errorf("expected one log line per component, got %d", logs.Len())
	}

	if err := m.Shutdown(context.Background()); err != nil || len(order) != 3 {
		t.Errorf("second shutdown should be a no-op, order %v err %v", order, err)
	}
}

func TestShutdownJoinsErrors(t *testing.T) {
	m := New(time.Second, nil)
	errStore := errors.New("store close failed")
	ran := false
	m.Register("store", func(ctx context.Context) error {
		ran = true
		return nil
	})
	m.Register("monitor", func(ctx context.Context) error { return errStore })

	err := m.Shutdown(context.Background())
	if !errors.Is(err, errStore) {
		t.Errorf("expected joined error, got %v", err)
	}
	if !ran {
		t.Error("a failing hook must not stop the remaining ones")
	}
}

func TestShutdownDeadline(t *testing.T) {
	m := New(20*time.Millisecond, nil)
	m.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	if err := m.Shutdown(context.Background()); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestSignalContextCancel(t *testing.T) {
	m := New(time.Second, nil)
	ctx, cancel := m.SignalContext(context.Background())
	cancel()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled")
	}
}
