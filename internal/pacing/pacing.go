package pacing

import (
    "context"
    "sync"
    "time"
)

// Gate enforces a minimum time between sequential calls made by one caller.
// Wait blocks until Interval has elapsed since the previous Wait returned,
// or returns early if the context is canceled.
type Gate struct {
    Interval time.Duration
    mu       sync.Mutex
    last     time.Time
}

func (g *Gate) Wait(ctx context.Context) error {
    if g.Interval > 0 {
        g.mu.Lock()
        var wait time.Duration
        if !g.last.IsZero() {
            wait = time.Until(g.last.Add(g.Interval))
        }
        g.mu.Unlock()
        if err := Sleep(ctx, wait); err != nil {
            return err
        }
    }
    g.mu.Lock()
    g.last = time.Now()
    g.mu.Unlock()
    return nil
}

// Sleep pauses for d unless ctx is done first. d <= 0 returns immediately.
func Sleep(ctx context.Context, d time.Duration) error {
    if d <= 0 {
        return ctx.Err()
    }
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return ctx.Err()
    case <-t.C:
        return nil
    }
}
