// services/scheduler.go
package services

import (
	"log"

	"github.com/go-co-op/gocron/v2"
)

func (s *CarbonService) StartScoreScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Nightly, shortly after midnight: refresh every user's carbon score so
	// old emission logs falling out of the seven day window are reflected.
	_, _ = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 15, 0))),
		gocron.NewTask(func() {
			log.Println("[Scheduler] Recalculating carbon scores")
			s.RecalculateAllScores()
		}),
	)
}
