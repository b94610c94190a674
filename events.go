package signup

import (
	"log/slog"

	"github.com/masseurtouch/signup/auth"
)

// AccountLog records accounts registered through the local identity endpoints,
// which lets an operator match profile rows to the signups that created them.
type AccountLog struct {
	logger *slog.Logger
}

func NewAccountLog(log *slog.Logger) *AccountLog {
	if log == nil {
		log = slog.Default()
	}
	return &AccountLog{logger: log.With(slog.String("service", "signup_events"))}
}

func (a *AccountLog) AccountCreated(id string, email string) {
	a.logger.Info("account registered", slog.String("account_id", id), slog.String("email", email))
}

var _ auth.Events = (*AccountLog)(nil)
