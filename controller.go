package signup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/masseurtouch/signup/auth"
	"github.com/masseurtouch/signup/internal/logger"
)

// CompensationPolicy decides what happens to a new account when its profile insert fails.
type CompensationPolicy string

const (
	// CompensateNone leaves the account in place without a profile.
	CompensateNone CompensationPolicy = "none"
	// CompensateDeleteAccount deletes the account again.
	CompensateDeleteAccount CompensationPolicy = "delete_account"
)

func ParseCompensationPolicy(s string) (CompensationPolicy, error) {
	switch p := CompensationPolicy(s); p {
	case CompensateNone, CompensateDeleteAccount:
		return p, nil
	case "":
		return CompensateNone, nil
	default:
		return "", fmt.Errorf("unknown compensation policy %q", s)
	}
}

// Status is the outcome shown for the last submission.
type Status int

const (
	StatusIdle Status = iota
	StatusSuccess
	StatusFailed
	StatusPendingConfirmation
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	case StatusPendingConfirmation:
		return "pending_confirmation"
	default:
		return "idle"
	}
}

// Service holds the collaborators every signup form talks to.
type Service struct {
	identity auth.Identity
	profiles Store
	policy   CompensationPolicy
	logger   *slog.Logger
}

func NewService(identity auth.Identity, profiles Store, policy CompensationPolicy, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	if policy == "" {
		policy = CompensateNone
	}
	return &Service{
		identity: identity,
		profiles: profiles,
		policy:   policy,
		logger:   log.With(slog.String("service", "signup")),
	}
}

// NewForm returns a fresh form with every field empty.
func (svc *Service) NewForm() *Controller {
	return &Controller{svc: svc, form: NewFormState()}
}

// Controller is one signup form instance. It is not safe for concurrent use.
type Controller struct {
	svc     *Service
	form    FormState
	success bool
	pending bool
	errMsg  string
	err     error
	userID  auth.ID
}

// FieldChange records an input change. Unknown names are ignored.
func (c *Controller) FieldChange(name Field, value string) {
	c.form.Set(name, value)
}

func (c *Controller) Value(name Field) string { return c.form[name] }

// Validate reports the first required field left empty.
func (c *Controller) Validate() error {
	if missing := c.form.Missing(); len(missing) > 0 {
		return &MissingFieldError{Field: missing[0]}
	}
	return nil
}

// Submit creates the account, then the profile record keyed by the new account id.
// The first rejection becomes the error message; form values are left untouched.
// There is no retry and no guard against being called again while a call is in flight.
func (c *Controller) Submit(ctx context.Context) Result {
	c.errMsg, c.err = "", nil
	c.success, c.pending = false, false
	c.userID = ""

	log := logger.FromContextOr(ctx, c.svc.logger)

	acc, err := c.svc.identity.CreateAccount(ctx, c.form[FieldEmail], c.form[FieldPassword])
	if err != nil {
		log.Info("account creation rejected", slog.Any("error", err))
		c.fail(err)
		return c.Result()
	}

	if acc == nil {
		log.Info("account pending confirmation")
		c.pending = true
		return c.Result()
	}

	rec := ProfileRecord{
		UserID:   string(acc.ID),
		Name:     c.form[FieldName],
		Location: c.form[FieldLocation],
		Bio:      c.form[FieldBio],
		Services: c.form[FieldServices],
		Approved: false,
	}
	if err := c.svc.profiles.Insert(ctx, rec); err != nil {
		log.Warn("profile insert failed", slog.String("account_id", string(acc.ID)), slog.Any("error", err))
		c.fail(err)
		c.compensate(ctx, log, acc.ID)
		return c.Result()
	}

	log.Info("signup complete", slog.String("account_id", string(acc.ID)))
	c.userID = acc.ID
	c.success = true
	return c.Result()
}

func (c *Controller) fail(err error) {
	c.err = err
	c.errMsg = err.Error()
	if c.errMsg == "" {
		c.errMsg = "signup failed"
	}
}

func (c *Controller) compensate(ctx context.Context, log *slog.Logger, id auth.ID) {
	if c.svc.policy != CompensateDeleteAccount {
		log.Warn("account left without profile", slog.String("account_id", string(id)))
		return
	}

	log.Warn("compensating: deleting account", slog.String("account_id", string(id)))
	if err := c.svc.identity.DeleteAccount(ctx, id); err != nil {
		log.Error("compensation failed", slog.String("account_id", string(id)), slog.Any("error", err))
	}
}

// Result is a snapshot of what the form shows after a submission.
type Result struct {
	Status  Status
	Message string
	Err     error
	UserID  auth.ID
}

func (c *Controller) Result() Result {
	r := Result{Status: StatusIdle, UserID: c.userID}
	switch {
	case c.success:
		r.Status = StatusSuccess
	case c.errMsg != "":
		r.Status = StatusFailed
		r.Message = c.errMsg
		r.Err = c.err
	case c.pending:
		r.Status = StatusPendingConfirmation
	}
	return r
}

func (c *Controller) Success() bool { return c.success }

func (c *Controller) Pending() bool { return c.pending }

func (c *Controller) ErrorMessage() string { return c.errMsg }
