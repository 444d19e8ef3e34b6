// Package services holds clients for collaborators outside the app's
// own store, currently outbound mail.
package services

import (
	"time"

	"github.com/sirupsen/logrus"

	"homeledger/pkg/utils"
)

// Notifier sends the app's notification emails without blocking the
// request that triggered them. With mail disabled every send is a
// logged no-op, so callers never branch on configuration.
type Notifier struct {
	enabled bool
	logger  *logrus.Logger
}

func NewNotifier(enabled bool, logger *logrus.Logger) *Notifier {
	if logger == nil {
		logger = utils.Logger
	}
	return &Notifier{enabled: enabled, logger: logger}
}

func (n *Notifier) HouseholdInvite(to, householdName, invitedBy, acceptURL string, expiresAt time.Time) {
	n.dispatch("household_invite", to, func() error {
		return utils.SendHouseholdInviteEmail(to, householdName, invitedBy, acceptURL, expiresAt)
	})
}

func (n *Notifier) InviteReminder(to, householdName, acceptURL string, expiresAt time.Time) {
	n.dispatch("invite_reminder", to, func() error {
		return utils.SendInviteReminderEmail(to, householdName, acceptURL, expiresAt)
	})
}

func (n *Notifier) ShareUpdate(to, updatedBy, description, householdName, amount, percentage string) {
	n.dispatch("share_update", to, func() error {
		return utils.SendShareUpdateEmail(to, updatedBy, description, householdName, amount, percentage)
	})
}

func (n *Notifier) dispatch(kind, to string, send func() error) {
	if !n.enabled {
		n.logger.WithFields(logrus.Fields{
			"kind": kind,
			"to":   to,
		}).Debug("mail not configured, skipping notification")
		return
	}

	go func() {
		if err := send(); err != nil {
			n.logger.WithFields(logrus.Fields{
				"kind": kind,
				"to":   to,
			}).WithError(err).Error("failed to send notification email")
		}
	}()
}
