package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"github.com/twilio/twilio-go/twiml"
)

// whatsappScheme is the Twilio channel prefix for WhatsApp addresses.
const whatsappScheme = "whatsapp:"

// TwilioConfig holds credentials for the Twilio WhatsApp sender.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string

	// From is the WhatsApp-enabled sender number, without the channel prefix.
	From string

	// Timeout bounds a single API call.
	Timeout time.Duration
}

// TwilioGateway sends WhatsApp messages through the Twilio Messages API.
type TwilioGateway struct {
	client *twilio.RestClient
	from   string
	logger *slog.Logger
}

// NewTwilioGateway creates a gateway using the given credentials.
func NewTwilioGateway(cfg TwilioConfig, logger *slog.Logger) *TwilioGateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	base := &twilioclient.Client{
		Credentials: twilioclient.NewCredentials(cfg.AccountSID, cfg.AuthToken),
		HTTPClient:  &http.Client{Timeout: timeout},
	}
	base.SetAccountSid(cfg.AccountSID)

	return &TwilioGateway{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
			Client:   base,
		}),
		from:   NormalizePhone(cfg.From),
		logger: logger,
	}
}

type sendResult struct {
	sid string
	err error
}

// Send delivers body to `to` over WhatsApp.
// The Twilio SDK has no context support, so the call runs in a goroutine
// and Send returns as soon as ctx is done; the HTTP client timeout bounds
// the abandoned call.
func (g *TwilioGateway) Send(ctx context.Context, to, body string) error {
	params := &openapi.CreateMessageParams{}
	params.SetTo(whatsappScheme + NormalizePhone(to))
	params.SetFrom(whatsappScheme + g.from)
	params.SetBody(body)

	done := make(chan sendResult, 1)
	go func() {
		resp, err := g.client.Api.CreateMessage(params)
		if err != nil {
			done <- sendResult{err: err}
			return
		}
		var sid string
		if resp.Sid != nil {
			sid = *resp.Sid
		}
		done <- sendResult{sid: sid}
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: send to %s: %v", ErrTransport, to, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return fmt.Errorf("%w: send to %s: %v", ErrTransport, to, res.err)
		}
		g.logger.Debug("WhatsApp message sent", "to", to, "sid", res.sid)
		return nil
	}
}

// RenderReply wraps text in a TwiML messaging response.
func RenderReply(text string) (string, error) {
	return twiml.Messages([]twiml.Element{
		&twiml.MessagingMessage{Body: text},
	})
}

// SignatureValidator checks the X-Twilio-Signature header on inbound webhooks.
type SignatureValidator struct {
	validator twilioclient.RequestValidator
}

// NewSignatureValidator creates a validator for the given auth token.
func NewSignatureValidator(authToken string) *SignatureValidator {
	return &SignatureValidator{validator: twilioclient.NewRequestValidator(authToken)}
}

// Valid reports whether signature matches the request URL and form values.
func (v *SignatureValidator) Valid(url string, form map[string]string, signature string) bool {
	return v.validator.Validate(url, form, signature)
}
