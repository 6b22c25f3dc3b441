package jobs

import (
	"log"
	"os"
	"time"
	"trio/services"

	"github.com/go-co-op/gocron/v2"
)

// StartReaper schedules the timeout sweeps: stale waiting matches are
// cancelled with refunds, and two-seat matches past the grace period are
// force-started.
func StartReaper(engine *services.Engine) (gocron.Scheduler, error) {
	interval := 30 * time.Second
	if v := os.Getenv("REAPER_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("⚠️  Invalid value for REAPER_INTERVAL: %s\n", v)
		} else {
			interval = d
		}
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			// Stale sweep first so a match past both deadlines is
			// cancelled, not force-started.
			if n := engine.SweepStale(); n > 0 {
				log.Printf("✅ Reaper cancelled %d stale matches", n)
			}
			if n := engine.SweepForceStart(); n > 0 {
				log.Printf("✅ Reaper force-started %d two-player matches", n)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	log.Printf("✅ Reaper running every %s", interval)
	return sched, nil
}
