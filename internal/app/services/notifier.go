package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/scholarhub/internal/app/auth"
	"github.com/yigit/scholarhub/internal/app/models"
	"github.com/yigit/scholarhub/internal/pkg/email"
	"github.com/yigit/scholarhub/internal/pkg/logger"
	"github.com/yigit/scholarhub/internal/pkg/websocket"
)

// Application events pushed to users
const (
	EventApplicationSubmitted = "application.submitted"
	EventApplicationPaid      = "application.paid"
	EventApplicationStatus    = "application.status"
	EventApplicationFeedback  = "application.feedback"
	EventApplicationDeleted   = "application.deleted"
)

// ApplicationNotifier is told about every application state change.
// Delivery failures are logged, never returned.
type ApplicationNotifier interface {
	Notify(ctx context.Context, event string, app *models.Application)
}

// Pusher delivers realtime notifications
type Pusher interface {
	SendToUser(email string, n websocket.Notification)
	SendToRoles(n websocket.Notification, roles ...string)
}

// NotificationDispatcher fans application events out to the websocket hub
// and, for moderator decisions and receipts, to e-mail. Mail is delivered in
// the background so a slow SMTP server never holds up the request.
type NotificationDispatcher struct {
	pusher   Pusher
	mailer   email.EmailService
	currency string
	logger   zerolog.Logger

	mail sync.WaitGroup
}

// NewNotificationDispatcher creates a dispatcher. Either pusher or mailer may be nil.
func NewNotificationDispatcher(pusher Pusher, mailer email.EmailService, currency string, lgr zerolog.Logger) *NotificationDispatcher {
	return &NotificationDispatcher{
		pusher:   pusher,
		mailer:   mailer,
		currency: currency,
		logger:   logger.Component(lgr, "notifier"),
	}
}

// Wait blocks until every queued e-mail has been attempted
func (d *NotificationDispatcher) Wait() {
	d.mail.Wait()
}

// staffRoles receive every submission, payment and withdrawal
var staffRoles = func() []string {
	var roles []string
	for _, r := range auth.CapabilityModerate.Roles() {
		roles = append(roles, string(r))
	}
	return roles
}()

var eventMessages = map[string]string{
	EventApplicationSubmitted: "Application submitted",
	EventApplicationPaid:      "Application fee received",
	EventApplicationStatus:    "Application status updated",
	EventApplicationFeedback:  "Moderator left feedback",
	EventApplicationDeleted:   "Application withdrawn",
}

// Notify implements ApplicationNotifier
func (d *NotificationDispatcher) Notify(_ context.Context, event string, app *models.Application) {
	if app == nil {
		return
	}

	n := websocket.Notification{
		Type:              event,
		ApplicationID:     app.ID,
		ScholarshipID:     app.ScholarshipID,
		ScholarshipName:   app.ScholarshipName,
		ApplicationStatus: string(app.ApplicationStatus),
		PaymentStatus:     string(app.PaymentStatus),
		Message:           eventMessages[event],
		Timestamp:         time.Now(),
	}

	if d.pusher != nil {
		d.pusher.SendToUser(app.UserEmail, n)
		switch event {
		case EventApplicationSubmitted, EventApplicationPaid, EventApplicationDeleted:
			d.pusher.SendToRoles(n, staffRoles...)
		}
	}

	if d.mailer == nil {
		return
	}

	var send func() error
	snapshot := *app
	switch event {
	case EventApplicationStatus:
		send = func() error {
			return d.mailer.SendApplicationStatusEmail(snapshot.UserEmail, snapshot.UserName, snapshot.ScholarshipName,
				string(snapshot.ApplicationStatus), snapshot.Feedback)
		}
	case EventApplicationPaid:
		if snapshot.ApplicationFees > 0 {
			send = func() error {
				return d.mailer.SendPaymentReceiptEmail(snapshot.UserEmail, snapshot.UserName, snapshot.ScholarshipName,
					snapshot.ApplicationFees, d.currency)
			}
		}
	}
	if send == nil {
		return
	}

	d.mail.Add(1)
	go func() {
		defer d.mail.Done()
		if err := send(); err != nil {
			d.logger.Warn().Err(err).Str("event", event).Str("applicationID", snapshot.ID).Msg("Failed to send notification e-mail")
		}
	}()
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, string, *models.Application) {}
