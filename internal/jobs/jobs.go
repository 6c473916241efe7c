// ABOUTME: Background jobs: periodic ledger backups and liveness self-pings
// ABOUTME: Ticker loops that stop cleanly on context cancellation

package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/streakfit/streakd/internal/backup"
	"github.com/streakfit/streakd/internal/config"
	"github.com/streakfit/streakd/internal/tracker"
)

// Runner owns the periodic background jobs. Both jobs read the ledger only
// through Service.Snapshot, so they always see a consistent pair of
// collections even while mutations are in flight.
type Runner struct {
	service  *tracker.Service
	backups  config.BackupConfig
	selfPing config.SelfPingConfig
	client   *http.Client
	logger   *slog.Logger
}

// New creates a runner for the configured jobs.
func New(service *tracker.Service, backups config.BackupConfig, selfPing config.SelfPingConfig) *Runner {
	return &Runner{
		service:  service,
		backups:  backups,
		selfPing: selfPing,
		client:   &http.Client{Timeout: 15 * time.Second},
		logger:   slog.Default().With("component", "jobs"),
	}
}

// Run starts the enabled jobs and blocks until the context is canceled.
func (r *Runner) Run(ctx context.Context) {
	var wg sync.WaitGroup

	if r.backups.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.loop(ctx, "backup", r.backups.Interval, r.backupOnce)
		}()
	}

	if r.selfPing.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.loop(ctx, "selfping", r.selfPing.Interval, r.pingOnce)
		}()
	}

	wg.Wait()
}

// loop runs job on every tick until the context is canceled. Failures are
// logged and the loop keeps going; a missed backup must not kill the job.
func (r *Runner) loop(ctx context.Context, name string, interval time.Duration, job func(context.Context) error) {
	r.logger.Info("job started", "job", name, "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("job stopped", "job", name)
			return
		case <-ticker.C:
			if err := job(ctx); err != nil {
				r.logger.Error("job run failed", "job", name, "error", err)
			}
		}
	}
}

// backupOnce takes a consistent snapshot and writes a timestamped archive
// into the backup directory.
func (r *Runner) backupOnce(ctx context.Context) error {
	snap, err := r.service.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("taking snapshot: %w", err)
	}

	name := fmt.Sprintf("streakd-%s.zip", time.Now().UTC().Format("20060102-150405"))
	path := filepath.Join(r.backups.Dir, name)
	if err := backup.WriteFile(path, snap); err != nil {
		return err
	}

	r.logger.Info("backup written", "path", path, "users", len(snap.Users), "records", len(snap.Records))
	return nil
}

// pingOnce performs a liveness GET against the configured URL.
func (r *Runner) pingOnce(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.selfPing.URL, nil)
	if err != nil {
		return fmt.Errorf("building ping request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("pinging %s: %w", r.selfPing.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping returned status %d", resp.StatusCode)
	}

	r.logger.Debug("selfping ok", "url", r.selfPing.URL)
	return nil
}
