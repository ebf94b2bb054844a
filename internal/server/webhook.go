package server

import (
	"log/slog"
	"net/http"

	"github.com/mmynk/chamabot/internal/messaging"
	"github.com/mmynk/chamabot/internal/payment"
)

// fallbackReply is sent if the TwiML reply cannot be rendered.
const fallbackReply = `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`

// webhookHandler receives inbound WhatsApp messages. It always answers 200
// with a TwiML body so the provider does not retry.
type webhookHandler struct {
	machine   *payment.Machine
	validator *messaging.SignatureValidator
	baseURL   string
	logger    *slog.Logger
}

func (h *webhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.logger.Warn("Malformed webhook body", "error", err)
		h.write(w, "")
		return
	}

	if h.validator != nil {
		form := make(map[string]string, len(r.PostForm))
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		if !h.validator.Valid(h.baseURL+r.URL.RequestURI(), form, r.Header.Get("X-Twilio-Signature")) {
			h.logger.Warn("Rejected webhook with bad signature", "remote_addr", r.RemoteAddr)
			http.Error(w, "invalid signature", http.StatusForbidden)
			return
		}
	}

	from := r.PostForm.Get("From")
	body := r.PostForm.Get("Body")

	reply := h.machine.HandleInbound(r.Context(), from, body)
	h.logger.Info("Inbound message handled",
		"from", from,
		"signal", reply.Signal.String(),
		"member_id", reply.MemberID,
		"recorded", reply.Recorded,
	)
	h.write(w, reply.Text)
}

func (h *webhookHandler) write(w http.ResponseWriter, text string) {
	out := fallbackReply
	if text != "" {
		rendered, err := messaging.RenderReply(text)
		if err != nil {
			h.logger.Error("Failed to render reply", "error", err)
		} else {
			out = rendered
		}
	}

	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(out))
}
