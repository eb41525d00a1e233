// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package stream

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain"
)

// WebhookValidator handles validation of platform webhook signatures.
type WebhookValidator struct {
	apiSecret string
}

var _ domain.WebhookValidator = (*WebhookValidator)(nil)

// NewWebhookValidator creates a new webhook validator keyed by the API secret.
func NewWebhookValidator(apiSecret string) *WebhookValidator {
	return &WebhookValidator{apiSecret: apiSecret}
}

// ValidateSignature checks that signature is the hex HMAC-SHA256 of body.
func (v *WebhookValidator) ValidateSignature(body []byte, signature string) error {
	if v.apiSecret == "" {
		return fmt.Errorf("webhook secret not configured")
	}

	if signature == "" {
		return fmt.Errorf("missing webhook signature")
	}

	h := hmac.New(sha256.New, []byte(v.apiSecret))
	h.Write(body)
	expected := hex.EncodeToString(h.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return fmt.Errorf("webhook signature does not match expected signature")
	}

	return nil
}

// NoopWebhookValidator accepts every delivery. Local development only.
type NoopWebhookValidator struct{}

var _ domain.WebhookValidator = NoopWebhookValidator{}

// ValidateSignature always succeeds.
func (NoopWebhookValidator) ValidateSignature(_ []byte, _ string) error {
	slog.Warn("webhook signature validation is disabled")
	return nil
}
