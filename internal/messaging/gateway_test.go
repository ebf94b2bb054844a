package messaging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"whatsapp:+254712345678", "+254712345678"},
		{"+254712345678", "+254712345678"},
		{"  sms:+254 712 345 678 ", "+254712345678"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := NormalizePhone(tt.raw); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestRenderReply(t *testing.T) {
	out, err := RenderReply("Thank you Alice!")
	if err != nil {
		t.Fatalf("RenderReply failed: %v", err)
	}
	if !strings.Contains(out, "<Response>") || !strings.Contains(out, "Thank you Alice!") {
		t.Errorf("unexpected TwiML: %s", out)
	}
}

func TestLogGateway(t *testing.T) {
	gw := NewLogGateway(slog.New(slog.NewTextHandler(io.Discard, nil)))

	if err := gw.Send(context.Background(), "+254712345678", "hi"); err != nil {
		t.Errorf("Send failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := gw.Send(ctx, "+254712345678", "hi"); !errors.Is(err, ErrTransport) {
		t.Errorf("expected ErrTransport on cancelled context, got %v", err)
	}
}
