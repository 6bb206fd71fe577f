package services

import "log"

// Notifier delivers a message to a user or admin. Delivery is best-effort:
// callers log failures and never roll back an order transition because a
// notification could not be sent.
type Notifier interface {
	Notify(recipientID int64, text string) error
}

// notify sends best-effort and logs the failure, if any.
func notify(n Notifier, recipientID int64, text string) {
	if n == nil {
		return
	}
	if err := n.Notify(recipientID, text); err != nil {
		log.Printf("Warning: failed to notify user %d: %v", recipientID, err)
	}
}

// notifyAll fans a message out to several recipients, best-effort.
func notifyAll(n Notifier, recipientIDs []int64, text string) {
	for _, id := range recipientIDs {
		notify(n, id, text)
	}
}
