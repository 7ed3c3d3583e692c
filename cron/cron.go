package cron

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/klararety/telehealth/services"
)

// StartCronJobs initializes and starts the cron scheduler for appointment
// reminders and outbox retries
func StartCronJobs() {
	fmt.Println("Starting cron job scheduler...")
	c := cron.New()

	// Run every minute to sweep for appointments entering the reminder window
	_, err := c.AddFunc("* * * * *", sweepReminders)
	if err != nil {
		log.Fatalf("Failed to add reminder cron job: %v", err)
	}

	// Retry pending meeting operations and deferred emails every minute
	_, err = c.AddFunc("* * * * *", services.DispatchOutbox)
	if err != nil {
		log.Fatalf("Failed to add outbox cron job: %v", err)
	}

	c.Start()
	log.Println("Cron job scheduler started")
}

func sweepReminders() {
	sent, pending := services.SweepReminders()
	if sent > 0 || pending > 0 {
		log.Printf("Reminder sweep: %d sent, %d still pending", sent, pending)
	}
}
