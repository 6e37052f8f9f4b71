package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeSender struct {
	checkErr error
	sendErr  error
	sent     []Message
}

func (f *fakeSender) Check() error { return f.checkErr }

func (f *fakeSender) Send(_ context.Context, m Message) error {
	f.sent = append(f.sent, m)
	return f.sendErr
}

type fakeRecorder struct {
	mu       sync.Mutex
	outcomes map[string]string
}

func (f *fakeRecorder) RecordMessage(_ context.Context, id, _, _, _, outcome string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.outcomes == nil {
		f.outcomes = map[string]string{}
	}
	f.outcomes[id] = outcome
	return nil
}

func validForm() Form {
	return Form{Name: " Ada ", Email: " ada@example.com ", Message: " Hello there "}
}

func TestIsEmail(t *testing.T) {
	testCases := []struct {
		in   string
		want bool
	}{
		{"a@b.co", true},
		{"  a@b.co  ", true},
		{"first.last@sub.example.org", true},
		{"no-at-sign.com", false},
		{"a@b", false},
		{"a b@c.de", false},
		{"a@@b.de", false},
		{"", false},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, IsEmail(tc.in), tc.in)
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validForm().Validate())

	err := Form{Name: "Ada", Email: "ada@example.com", Message: "   "}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "message", fe.Field)

	err = Form{Name: "Ada", Email: "ada-at-example", Message: "hi"}.Validate()
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "email", fe.Field)
	assert.Equal(t, "malformed address", fe.Reason)
}

func TestSubmitSuccess(t *testing.T) {
	sender := &fakeSender{}
	rec := &fakeRecorder{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(sender, WithRecorder(rec), WithClock(func() time.Time { return now }))

	res := svc.Submit(context.Background(), validForm())
	assert.Equal(t, KindSuccess, res.Kind)
	assert.Equal(t, MsgSent, res.Message)
	assert.True(t, res.Reset)
	assert.Equal(t, OutcomeSent, res.Outcome)

	require.Len(t, sender.sent, 1)
	m := sender.sent[0]
	assert.Equal(t, "Ada", m.Name)
	assert.Equal(t, "ada@example.com", m.Email)
	assert.Equal(t, "Hello there", m.Body)
	assert.Equal(t, now, m.Submitted)
	assert.Equal(t, res.ID, m.ID)
	assert.Equal(t, OutcomeSent, rec.outcomes[m.ID])
}

func TestSubmitHoneypotSkipsDelivery(t *testing.T) {
	sender := &fakeSender{}
	f := validForm()
	f.Company = "ACME bots"

	res := NewService(sender).Submit(context.Background(), f)
	assert.Equal(t, KindSuccess, res.Kind)
	assert.Equal(t, MsgSent, res.Message)
	assert.Equal(t, OutcomeSpam, res.Outcome)
	assert.Empty(t, sender.sent)

	// a spam submission is dropped even when it would not validate
	res = NewService(sender).Submit(context.Background(), Form{Company: "x"})
	assert.Equal(t, OutcomeSpam, res.Outcome)
	assert.Empty(t, sender.sent)
}

func TestSubmitValidationErrors(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(sender)

	testCases := []struct {
		name string
		form Form
		want string
	}{
		{"blank name", Form{Name: "  ", Email: "a@b.co", Message: "hi"}, MsgIncomplete},
		{"blank email", Form{Name: "Ada", Message: "hi"}, MsgIncomplete},
		{"blank message", Form{Name: "Ada", Email: "a@b.co"}, MsgIncomplete},
		{"bad email", Form{Name: "Ada", Email: "a@b", Message: "hi"}, MsgBadEmail},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := svc.Submit(context.Background(), tc.form)
			assert.Equal(t, KindError, res.Kind)
			assert.Equal(t, tc.want, res.Message)
			assert.False(t, res.Reset)
			assert.Equal(t, OutcomeValidation, res.Outcome)
		})
	}
	assert.Empty(t, sender.sent)
}

func TestSubmitUnconfigured(t *testing.T) {
	sender := &fakeSender{checkErr: ErrConfiguration}
	res := NewService(sender).Submit(context.Background(), validForm())
	assert.Equal(t, KindError, res.Kind)
	assert.Equal(t, MsgUnconfigured, res.Message)
	assert.Equal(t, OutcomeConfiguration, res.Outcome)
	assert.Empty(t, sender.sent)

	res = NewService(nil).Submit(context.Background(), validForm())
	assert.Equal(t, OutcomeConfiguration, res.Outcome)
}

func TestSubmitTransportFailureKeepsInputs(t *testing.T) {
	sender := &fakeSender{sendErr: errors.New("boom")}
	rec := &fakeRecorder{}
	res := NewService(sender, WithRecorder(rec)).Submit(context.Background(), validForm())

	assert.Equal(t, KindError, res.Kind)
	assert.Equal(t, MsgFailed, res.Message)
	assert.False(t, res.Reset)
	assert.Equal(t, OutcomeTransport, res.Outcome)
	assert.Equal(t, OutcomeTransport, rec.outcomes[res.ID])
}

func TestEmailJSCheck(t *testing.T) {
	err := NewEmailJS(EmailJSConfig{ServiceID: "svc"}, nil).Check()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.Contains(t, err.Error(), "template id, public key")

	assert.NoError(t, NewEmailJS(EmailJSConfig{ServiceID: "s", TemplateID: "t", PublicKey: "p"}, nil).Check())
}

func TestEmailJSSend(t *testing.T) {
	defer goleak.VerifyNone(t)

	var got emailJSRequest
	var path, contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		contentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte("OK"))
	}))
	defer srv.Close()
	client := &http.Client{Transport: &http.Transport{}}
	defer client.CloseIdleConnections()

	ej := NewEmailJS(EmailJSConfig{
		ServiceID: "svc", TemplateID: "tpl", PublicKey: "pub", PrivateKey: "priv", Endpoint: srv.URL + "/",
	}, client)
	err := ej.Send(context.Background(), Message{ID: "id-1", Name: "Ada", Email: "ada@example.com", Body: "hi"})
	require.NoError(t, err)

	assert.Equal(t, "/api/v1.0/email/send", path)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "svc", got.ServiceID)
	assert.Equal(t, "tpl", got.TemplateID)
	assert.Equal(t, "pub", got.UserID)
	assert.Equal(t, "priv", got.AccessToken)
	assert.Equal(t, "Ada", got.TemplateParams["name"])
	assert.Equal(t, "ada@example.com", got.TemplateParams["reply_to"])
	assert.Equal(t, "id-1", got.TemplateParams["submission_id"])
}

func TestEmailJSRejectedIsTransportError(t *testing.T) {
	defer goleak.VerifyNone(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "The Public Key is invalid", http.StatusBadRequest)
	}))
	defer srv.Close()
	client := &http.Client{Transport: &http.Transport{}}
	defer client.CloseIdleConnections()

	ej := NewEmailJS(EmailJSConfig{ServiceID: "s", TemplateID: "t", PublicKey: "bad", Endpoint: srv.URL}, client)
	err := ej.Send(context.Background(), Message{ID: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "Public Key is invalid")

	res := NewService(ej).Submit(context.Background(), validForm())
	assert.Equal(t, MsgFailed, res.Message)
}

func TestEmailJSUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	ej := NewEmailJS(EmailJSConfig{ServiceID: "s", TemplateID: "t", PublicKey: "p", Endpoint: url, Timeout: time.Second}, nil)
	err := ej.Send(context.Background(), Message{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestSMTPSend(t *testing.T) {
	s := NewSMTP(SMTPConfig{User: "me@example.com", Pass: "secret", To: "inbox@example.com"})

	var addr string
	var to []string
	var msg []byte
	s.send = func(a string, _ smtp.Auth, _ string, rcpt []string, m []byte) error {
		addr, to, msg = a, rcpt, m
		return nil
	}

	require.NoError(t, s.Send(context.Background(), Message{ID: "m1", Name: "Eve\r\nBcc: x@y.z", Email: "eve@example.com", Body: "hello"}))
	assert.Equal(t, "smtp.gmail.com:587", addr)
	assert.Equal(t, []string{"inbox@example.com"}, to)

	head, body, ok := strings.Cut(string(msg), "\r\n\r\n")
	require.True(t, ok)
	assert.Contains(t, head, "Subject: Portfolio Contact: Eve  Bcc: x@y.z")
	assert.NotContains(t, head, "\r\nBcc:")
	assert.Contains(t, head, "Reply-To: eve@example.com")
	assert.Contains(t, body, "Message:\nhello")
}

func TestSMTPErrors(t *testing.T) {
	err := NewSMTP(SMTPConfig{}).Check()
	assert.True(t, errors.Is(err, ErrConfiguration))

	s := NewSMTP(SMTPConfig{User: "u", Pass: "p", To: "t@example.com"})
	s.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("535 auth failed") }
	err = s.Send(context.Background(), Message{})
	assert.True(t, errors.Is(err, ErrTransport))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = s.Send(ctx, Message{})
	assert.True(t, errors.Is(err, ErrTransport))
}
