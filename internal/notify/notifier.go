package notify

import "log"

// Notifier is the delivery channel abstraction (email, push, SMS later).
type Notifier interface {
	Notify(subject, message string) error
}

// Console logs notifications; the default sink for local runs.
type Console struct{}

func NewConsole() *Console { return &Console{} }

func (Console) Notify(subject, message string) error {
	log.Printf("[notify] %s :: %s", subject, message)
	return nil
}
