package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ecomcore/storefront/internal/domain"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	// Expired otps and verification tokens are dead weight once past their
	// expiry; sweep them hourly.
	_, err := a.sched.AddFunc("@hourly", func() {
		if err := a.authSvc.PurgeExpired(context.Background()); err != nil {
			zap.S().Errorf("expired credential purge failed: %v", err)
		}
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	// Soft-deleted wishlist items older than a year are gone for good.
	_, err = a.sched.AddFunc("@daily", func() {
		a.gormDB.
			Where("is_deleted = ? AND added_at < ?", true,
				time.Now().Add(-time.Hour*24*365)).
			Delete(&domain.WishlistItem{})
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// StartBackgroundJobs keeps the scheduler running until ctx is done.
func (a *Application) StartBackgroundJobs(ctx context.Context) {
	go func() {
		<-ctx.Done()
		a.sched.Stop()
	}()
}
