package telegram

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/tg"

	"github.com/hanamilabs/safeguard-provisioner/internal/config"
)

// Client is the MTProto-backed implementation of ports.Platform. The
// session must already be authorized; no login flow runs here.
type Client struct {
	client  *telegram.Client
	api     *tg.Client
	stop    func() error
	timeout time.Duration
}

// Connect dials Telegram in a background goroutine and returns once the
// connection is up. Close tears it down; until then API calls are valid.
func Connect(ctx context.Context, cfg config.Config) (*Client, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.SessionFile), 0o700); err != nil {
		return nil, fmt.Errorf("session dir: %w", err)
	}

	client := telegram.NewClient(cfg.APIID, cfg.APIHash, telegram.Options{
		SessionStorage: &session.FileStorage{Path: cfg.SessionFile},
	})

	runCtx, cancel := context.WithCancel(ctx)
	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- client.Run(runCtx, func(ctx context.Context) error {
			close(ready)
			<-ctx.Done()
			return ctx.Err()
		})
	}()

	select {
	case err := <-done:
		cancel()
		return nil, fmt.Errorf("connect: %w", err)
	case <-ready:
	}

	stop := func() error {
		cancel()
		err := <-done
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}

	return &Client{
		client:  client,
		api:     client.API(),
		stop:    stop,
		timeout: cfg.RequestTimeout,
	}, nil
}

// Close releases the session. Safe to call once per Connect.
func (c *Client) Close() error {
	return c.stop()
}

func (c *Client) Authorized(ctx context.Context) (bool, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	status, err := c.client.Auth().Status(ctx)
	if err != nil {
		return false, fmt.Errorf("auth status: %w", classifyRPC(err))
	}
	return status.Authorized, nil
}

func (c *Client) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}
