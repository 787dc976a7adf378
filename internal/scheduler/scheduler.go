package scheduler

import (
	"context"

	"github.com/adilzhn/remindly/internal/jobs"
	"github.com/adilzhn/remindly/internal/services"
	"github.com/adilzhn/remindly/pkg/logger"
	"github.com/robfig/cron/v3"
)

// StartJobCrons registers every reminder job on its cadence and starts the
// scheduler. Cron guarantees at most one in-flight invocation per schedule
// slot; the dispatch engine itself tolerates at-least-once delivery anyway.
func StartJobCrons(dispatch *services.DispatchService, deps jobs.Deps) *cron.Cron {
	c := cron.New()

	for _, entry := range jobs.Registry(deps) {
		spec := entry.Spec
		_, err := c.AddFunc(entry.Schedule, func() {
			summary := dispatch.Run(context.Background(), spec)
			logger.Log.WithField("job", spec.Name).
				WithField("sent", summary.Sent).
				WithField("errors", summary.Errors).
				Info("Scheduled job finished")
		})
		if err != nil {
			logger.Log.WithField("job", spec.Name).WithError(err).Error("Failed to schedule job")
		}
	}

	c.Start()
	logger.Log.Info("Reminder cron jobs started")
	return c
}
