package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// ScheduleBackups runs an export into dir on every tick of the cron
// expression spec (five fields or a descriptor such as "@daily"). The
// returned scheduler is already started; Stop it on shutdown.
func ScheduleBackups(spec, dir string, backups *BackupService) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		runScheduledBackup(backups, dir, time.Now())
	})
	if err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}

func runScheduledBackup(backups *BackupService, dir string, now time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	path, err := backups.ExportToDir(ctx, dir, now)
	if err != nil {
		log.Printf("Scheduled backup failed: %v", err)
		return
	}
	log.Printf("Scheduled backup written to %s", path)
}
