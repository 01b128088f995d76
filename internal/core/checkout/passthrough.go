// Package checkout builds hosted-checkout redirect URLs and decodes the
// pass-through metadata the payment provider hands back on success.
package checkout

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/plan"
)

const SourceHostedCheckout = "hosted-checkout"

var (
	ErrNoCheckoutURL      = errors.New("checkout link not configured for this plan")
	ErrInvalidPassthrough = errors.New("invalid passthrough")
)

// Passthrough is the metadata round-tripped through the hosted checkout
type Passthrough struct {
	UID    string `json:"uid"`
	Email  string `json:"email"`
	Plan   string `json:"plan"`
	Source string `json:"source,omitempty"`
}

var passthroughSchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"properties": {
		"uid":    {"type": "string", "maxLength": 128},
		"email":  {"type": "string", "maxLength": 320},
		"plan":   {"type": "string", "minLength": 1, "maxLength": 32},
		"source": {"type": "string", "maxLength": 64}
	},
	"required": ["plan"]
}`)

// Encode serialises p as base64(JSON) using the standard alphabet
func Encode(p Passthrough) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to marshal passthrough: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Decode accepts base64 in the standard or URL-safe alphabet, padded or not,
// and falls back to raw JSON. The document is schema-checked before use.
func Decode(raw string) (Passthrough, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Passthrough{}, ErrInvalidPassthrough
	}

	doc, ok := decodeBase64(raw)
	if !ok || !json.Valid(doc) {
		doc = []byte(raw)
	}
	if !json.Valid(doc) {
		return Passthrough{}, ErrInvalidPassthrough
	}

	result, err := gojsonschema.Validate(passthroughSchema, gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return Passthrough{}, fmt.Errorf("%w: %v", ErrInvalidPassthrough, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return Passthrough{}, fmt.Errorf("%w: %s", ErrInvalidPassthrough, strings.Join(msgs, "; "))
	}

	var p Passthrough
	if err := json.Unmarshal(doc, &p); err != nil {
		return Passthrough{}, fmt.Errorf("%w: %v", ErrInvalidPassthrough, err)
	}
	p.UID = strings.TrimSpace(p.UID)
	p.Email = strings.TrimSpace(p.Email)
	return p, nil
}

func decodeBase64(s string) ([]byte, bool) {
	norm := strings.NewReplacer("-", "+", "_", "/").Replace(s)
	norm = strings.TrimRight(norm, "=")
	out, err := base64.RawStdEncoding.DecodeString(norm)
	if err != nil {
		return nil, false
	}
	return out, true
}

// Links maps each paid plan to its hosted checkout base URL
type Links map[plan.Plan]string

// BuildURL appends customer email, passthrough and return URLs to the
// plan's hosted checkout base.
func (l Links) BuildURL(p plan.Plan, uid, email, origin string) (string, error) {
	base := l[p]
	if base == "" {
		return "", ErrNoCheckoutURL
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid checkout base for %s: %w", p, err)
	}

	pt, err := Encode(Passthrough{UID: uid, Email: email, Plan: p.String(), Source: SourceHostedCheckout})
	if err != nil {
		return "", err
	}

	origin = strings.TrimRight(origin, "/")
	q := u.Query()
	if email != "" {
		q.Set("customer_email", email)
	}
	q.Set("passthrough", pt)
	q.Set("success_url", origin+"/checkout/success")
	q.Set("cancel_url", origin+"/plans")
	u.RawQuery = q.Encode()

	return u.String(), nil
}
