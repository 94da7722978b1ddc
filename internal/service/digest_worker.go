package service

import (
	"alcyxob/gymdesk/internal/export"
	"alcyxob/gymdesk/internal/mail"
	"alcyxob/gymdesk/internal/metrics"
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// DigestWorker periodically emails the owner the list of expiring memberships,
// at most once per calendar day.
type DigestWorker struct {
	trainees   TraineeService
	sender     mail.Sender
	recipient  string
	interval   time.Duration
	letterhead export.Letterhead
	clock      Clock

	mutex    sync.Mutex
	lastSent time.Time // local midnight of the last day a digest went out
}

// NewDigestWorker creates a worker. An empty recipient disables sending; the
// expiring gauge is still updated on every tick.
func NewDigestWorker(trainees TraineeService, sender mail.Sender, recipient string, interval time.Duration, letterhead export.Letterhead, clock Clock) *DigestWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &DigestWorker{
		trainees:   trainees,
		sender:     sender,
		recipient:  recipient,
		interval:   interval,
		letterhead: letterhead,
		clock:      clock,
	}
}

// Run checks immediately and then every interval until ctx is done.
func (w *DigestWorker) Run(ctx context.Context) {
	log.Printf("INFO: Expiry digest worker started (interval %s)", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.RunOnce(ctx); err != nil {
			log.Printf("ERROR: Expiry digest failed: %v", err)
		}
		select {
		case <-ctx.Done():
			log.Println("INFO: Expiry digest worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce computes the expiring list and sends the digest if none went out today.
// It reports whether an email was sent.
func (w *DigestWorker) RunOnce(ctx context.Context) (bool, error) {
	list, err := w.trainees.Expiring(ctx)
	if err != nil {
		return false, err
	}
	metrics.ExpiringMemberships.Set(float64(len(list)))

	if len(list) == 0 || w.recipient == "" {
		return false, nil
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()

	today := w.clock.Today()
	if !w.lastSent.IsZero() && w.lastSent.Equal(today) {
		return false, nil
	}

	md := export.ExpiryDigestMarkdown(w.letterhead, list, w.clock.Now())
	page, err := export.RenderHTML("Expiring memberships", md)
	if err != nil {
		return false, err
	}
	_, err = w.sender.Send(ctx, mail.SendRequest{
		To:      []string{w.recipient},
		Subject: fmt.Sprintf("%s: %d membership(s) expiring soon", w.letterhead.GymName, len(list)),
		HTML:    string(page),
	})
	if err != nil {
		metrics.RecordEmail("expiry_digest", "failed")
		return false, err
	}
	metrics.RecordEmail("expiry_digest", "sent")
	w.lastSent = today
	return true, nil
}
