package contact

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Visitor-facing status messages.
const (
	MsgSent         = "Thank you! Your message has been sent."
	MsgIncomplete   = "Please complete all fields."
	MsgBadEmail     = "Please enter a valid email address."
	MsgUnconfigured = "Email service is not configured. Please set the EmailJS keys in .env."
	MsgFailed       = "Something went wrong while sending your message. Please try again."
)

// Outcomes recorded for metrics and the message log.
const (
	OutcomeSent          = "sent"
	OutcomeSpam          = "spam"
	OutcomeValidation    = "validation"
	OutcomeConfiguration = "configuration"
	OutcomeTransport     = "transport"
)

// Kind is the status styling shown next to the form.
type Kind string

const (
	KindIdle    Kind = "idle"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Status is what the visitor sees after submitting.
type Status struct {
	Kind    Kind   `json:"type"`
	Message string `json:"msg"`
}

// Result of a submission. Reset tells the page to clear the inputs.
type Result struct {
	Status
	Reset   bool   `json:"reset"`
	ID      string `json:"id,omitempty"`
	Outcome string `json:"-"`
}

// Message is what gets delivered to the site owner.
type Message struct {
	ID        string
	Name      string
	Email     string
	Body      string
	Submitted time.Time
}

// Sender delivers messages. Check reports missing configuration without
// touching the network.
type Sender interface {
	Check() error
	Send(ctx context.Context, m Message) error
}

// Recorder archives delivered (or failed) messages.
type Recorder interface {
	RecordMessage(ctx context.Context, id, name, email, body, outcome string, at time.Time) error
}

// Service runs the submission pipeline: honeypot, validation, configuration
// check, delivery.
type Service struct {
	sender   Sender
	recorder Recorder
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// Option customizes a Service.
type Option func(*Service)

// WithRecorder archives every delivery attempt.
func WithRecorder(r Recorder) Option { return func(s *Service) { s.recorder = r } }

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.logger = l } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// NewService builds a Service around sender.
func NewService(sender Sender, opts ...Option) *Service {
	s := &Service{
		sender: sender,
		logger: zap.NewNop(),
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit processes a form and always returns a displayable result.
func (s *Service) Submit(ctx context.Context, f Form) Result {
	if f.IsSpam() {
		s.logger.Info("honeypot filled, dropping submission")
		return Result{Status: Status{KindSuccess, MsgSent}, Reset: true, Outcome: OutcomeSpam}
	}

	if err := f.Validate(); err != nil {
		s.logger.Debug("contact form rejected", zap.Error(err))
		msg := MsgIncomplete
		var fe *FieldError
		if errors.As(err, &fe) && fe.Field == "email" && fe.Reason != "required" {
			msg = MsgBadEmail
		}
		return Result{Status: Status{KindError, msg}, Outcome: OutcomeValidation}
	}

	if s.sender == nil {
		s.logger.Warn("no mail sender configured")
		return Result{Status: Status{KindError, MsgUnconfigured}, Outcome: OutcomeConfiguration}
	}
	if err := s.sender.Check(); err != nil {
		s.logger.Warn("mail sender not configured", zap.Error(err))
		return Result{Status: Status{KindError, MsgUnconfigured}, Outcome: OutcomeConfiguration}
	}

	t := f.Trimmed()
	m := Message{ID: s.newID(), Name: t.Name, Email: t.Email, Body: t.Message, Submitted: s.now()}
	if err := s.sender.Send(ctx, m); err != nil {
		s.logger.Error("sending contact message", zap.String("id", m.ID), zap.Error(err))
		s.record(ctx, m, OutcomeTransport)
		return Result{Status: Status{KindError, MsgFailed}, ID: m.ID, Outcome: OutcomeTransport}
	}

	s.logger.Info("contact message sent", zap.String("id", m.ID))
	s.record(ctx, m, OutcomeSent)
	return Result{Status: Status{KindSuccess, MsgSent}, Reset: true, ID: m.ID, Outcome: OutcomeSent}
}

func (s *Service) record(ctx context.Context, m Message, outcome string) {
	if s.recorder == nil {
		return
	}
	// the send deadline may already have expired
	ctx = context.WithoutCancel(ctx)
	if err := s.recorder.RecordMessage(ctx, m.ID, m.Name, m.Email, m.Body, outcome, m.Submitted); err != nil {
		s.logger.Warn("archiving contact message", zap.String("id", m.ID), zap.Error(err))
	}
}
