package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/five82/bodyscale/internal/state"
	"github.com/five82/bodyscale/internal/withings"
)

const (
	defaultPollInterval = time.Minute
	maxBackoff          = 30 * time.Minute
)

// Credentials identify the user whose data is polled.
type Credentials struct {
	UserID    int64
	PublicKey string
}

// StartPoller launches a background goroutine that refreshes the store. After
// a failure the next attempt is delayed with exponential backoff. It returns
// immediately.
func StartPoller(ctx context.Context, store *state.Store, client withings.Service, creds Credentials, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		failures := 0
		for {
			if err := refresh(ctx, store, client, creds); err != nil {
				failures++
				logger.Warn("poll failed", "error", err, "failures", failures)
			} else {
				if failures > 0 {
					logger.Info("poll recovered", "after_failures", failures)
				}
				failures = 0
			}

			timer := time.NewTimer(calculateBackoff(failures, interval))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}

// calculateBackoff doubles the interval per consecutive failure, capped at
// maxBackoff. An interval already above the cap is returned unchanged.
func calculateBackoff(failures int, interval time.Duration) time.Duration {
	if failures <= 0 || interval >= maxBackoff {
		return interval
	}
	wait := interval
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}

// refresh fetches user info once, then measurement groups changed since the
// last sync, and records the outcome in the store.
func refresh(ctx context.Context, store *state.Store, client withings.Service, creds Credentials) error {
	var user *withings.User
	if !store.Snapshot().HasUser {
		u, err := fetchUser(ctx, client, creds)
		if err != nil {
			store.Update(nil, nil, err)
			return err
		}
		user = u
	}

	resp, err := client.GetMeasurements(ctx, creds.UserID, creds.PublicKey, withings.MeasureQuery{
		LastUpdate: store.LastSync(),
	})
	if err == nil {
		err = resp.Err()
	}
	var body withings.MeasureBody
	if err == nil {
		body, err = resp.Measures()
	}
	if err != nil {
		err = fmt.Errorf("getmeas: %w", err)
		store.Update(nil, nil, err)
		return err
	}

	store.Update(user, &body, nil)
	return nil
}

func fetchUser(ctx context.Context, client withings.Service, creds Credentials) (*withings.User, error) {
	resp, err := client.GetUserInfo(ctx, creds.UserID, creds.PublicKey)
	if err == nil {
		err = resp.Err()
	}
	var body withings.UsersBody
	if err == nil {
		body, err = resp.Users()
	}
	if err != nil {
		return nil, fmt.Errorf("getbyuserid: %w", err)
	}
	if len(body.Users) == 0 {
		return nil, fmt.Errorf("getbyuserid: no user %d", creds.UserID)
	}
	return &body.Users[0], nil
}
