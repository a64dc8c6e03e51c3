package notify

import (
	"fmt"
	"log"
	"os/exec"
)

// Notifier surfaces one-shot notices to the user. Failures here are logged
// and swallowed; a broken notifier must never break a state machine.
type Notifier interface {
	Notice(title, body string)
	Error(msg string)
}

// Desktop sends notifications through notify-send.
type Desktop struct{}

func (Desktop) Notice(title, body string) {
	cmd := exec.Command("notify-send", "-a", "Voicepad", fmt.Sprintf("Voicepad: %s", title), body)
	if err := cmd.Run(); err != nil {
		log.Printf("Notify: failed to send notification: %v", err)
	}
}

func (Desktop) Error(msg string) {
	cmd := exec.Command("notify-send", "-a", "Voicepad", "-u", "critical", msg)
	if err := cmd.Run(); err != nil {
		log.Printf("Notify: failed to send error notification: %v", err)
	}
}

// Log writes notices to the daemon log instead of the desktop.
type Log struct{}

func (Log) Notice(title, body string) {
	log.Printf("Notify: %s - %s", title, body)
}

func (Log) Error(msg string) {
	log.Printf("Notify: ERROR - %s", msg)
}

// Nop is a Notifier that does absolutely nothing. Useful in unit tests or
// headless builds.
type Nop struct{}

func (Nop) Notice(title, body string) {}
func (Nop) Error(msg string)          {}

// New returns the notifier for a configured type ("desktop", "log", "none").
func New(kind string) Notifier {
	switch kind {
	case "desktop":
		return Desktop{}
	case "log":
		return Log{}
	default:
		return Nop{}
	}
}
