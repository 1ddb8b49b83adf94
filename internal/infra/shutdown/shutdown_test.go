package shutdown

import (
	"context"
	"errors"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/yndnr/xrpc-go/internal/telemetry/logger"
)

func TestHandler_ReverseOrder(t *testing.T) {
	h := NewHandler(time.Second, logger.Discard())

	var order []string
	for _, name := range []string{"tracer", "metrics", "tls"} {
		h.OnShutdown(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	if err := h.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if got := strings.Join(order, ","); got != "tls,metrics,tracer" {
		t.Errorf("order = %s, want tls,metrics,tracer", got)
	}

	select {
	case <-h.Done():
	default:
		t.Error("Done() should be closed after Shutdown")
	}
}

func TestHandler_RunsOnce(t *testing.T) {
	h := NewHandler(time.Second, logger.Discard())
	calls := 0
	h.OnShutdown("count", func(context.Context) error {
		calls++
		return errors.New("flush failed")
	})

	first := h.Shutdown()
	second := h.Shutdown()

	if calls != 1 {
		t.Errorf("hook ran %d times, want 1", calls)
	}
	if first == nil || first != second {
		t.Errorf("Shutdown() = %v then %v, want the same error", first, second)
	}
}

func TestHandler_JoinsErrors(t *testing.T) {
	h := NewHandler(time.Second, logger.Discard())
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	h.OnShutdown("a", func(context.Context) error { return errA })
	h.OnShutdown("ok", func(context.Context) error { return nil })
	h.OnShutdown("b", func(context.Context) error { return errB })

	err := h.Shutdown()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Shutdown() = %v, want both errors", err)
	}
	if !strings.Contains(err.Error(), "a: a failed") {
		t.Errorf("error should name the hook: %v", err)
	}
}

func TestHandler_HookTimeout(t *testing.T) {
	h := NewHandler(20*time.Millisecond, logger.Discard())
	h.OnShutdown("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	if err := h.Shutdown(); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Shutdown() = %v, want deadline exceeded", err)
	}
}

func TestHandler_NotifyContext(t *testing.T) {
	h := NewHandler(time.Second, logger.Discard())
	ctx, stop := h.NotifyContext(context.Background())
	defer stop()

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("Kill() error = %v", err)
	}

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not cancelled by SIGTERM")
	}
}

func TestHandler_ConcurrentOnShutdown(t *testing.T) {
	h := NewHandler(time.Second, logger.Discard())

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		n  int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.OnShutdown("hook", func(context.Context) error {
				mu.Lock()
				n++
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	if err := h.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if n != 50 {
		t.Errorf("hooks run = %d, want 50", n)
	}
}
