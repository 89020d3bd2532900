package desktop

import (
	"github.com/gen2brain/beeep"
	"github.com/sirupsen/logrus"
)

// Notifier sends desktop notifications. A disabled notifier only logs.
type Notifier struct {
	enabled bool
	icon    string
	logger  logrus.FieldLogger
	send    func(title, message string, icon any) error
}

func NewNotifier(enabled bool, icon string, logger logrus.FieldLogger) *Notifier {
	beeep.AppName = "cakeday"
	return &Notifier{
		enabled: enabled,
		icon:    icon,
		logger:  logger,
		send: func(title, message string, icon any) error {
			return beeep.Notify(title, message, icon)
		},
	}
}

func (n *Notifier) Notify(title, message string) {
	if n == nil {
		return
	}
	entry := n.logger.WithField("title", title)
	if !n.enabled {
		entry.Debug("Desktop notification skipped")
		return
	}
	if err := n.send(title, message, n.icon); err != nil {
		entry.WithError(err).Warn("Desktop notification failed")
	}
}
