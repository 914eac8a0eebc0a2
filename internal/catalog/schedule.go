package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	appLog "activitylog/internal/log"
)

// StartScheduler reloads the catalog on a standard five-field cron spec
// (descriptors such as "@every 10m" are accepted too). The scheduler stops
// when ctx is cancelled; the returned channel closes once any running
// load has finished.
func (c *Catalog) StartScheduler(ctx context.Context, spec string, loc *time.Location) (<-chan struct{}, error) {
	if loc == nil {
		loc = time.Local
	}
	cr := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := cr.AddFunc(spec, func() {
		appLog.Debug("scheduled events reload", "id", c.src.ID)
		_ = c.Load(ctx)
	}); err != nil {
		return nil, fmt.Errorf("catalog: invalid refresh schedule %q: %w", spec, err)
	}

	cr.Start()
	appLog.Info("events refresh scheduled", "id", c.src.ID, "refresh", spec, "timezone", loc.String())

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		<-cr.Stop().Done()
		appLog.Debug("events scheduler stopped", "id", c.src.ID)
	}()
	return done, nil
}
