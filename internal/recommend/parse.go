package recommend

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"bestfit/internal/logging"
	"bestfit/internal/prompt"
)

// ErrNoProducts is returned when a payload parses but lists no products.
var ErrNoProducts = errors.New("response contained no products")

// Recommendation is one product suggestion returned by the completion API.
type Recommendation struct {
	Brand     string `json:"brand"`
	Model     string `json:"model"`
	Price     string `json:"price"`
	ShortDesc string `json:"short_desc"`
	LongDesc  string `json:"long_desc"`
}

// Title is the card heading: brand followed by model.
func (r Recommendation) Title() string {
	return strings.TrimSpace(r.Brand + " " + r.Model)
}

// Matches reports whether query appears, case-insensitively, in any field.
func (r Recommendation) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range []string{r.Brand, r.Model, r.Price, r.ShortDesc, r.LongDesc} {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

type productsPayload struct {
	Products []Recommendation `json:"products"`
}

// trimFence strips a surrounding markdown code fence, with or without a
// language tag.
func trimFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseProducts decodes a {"products": [...]} payload. At most
// prompt.WizardProductCount entries are kept.
func ParseProducts(raw string) ([]Recommendation, error) {
	var payload productsPayload
	if err := json.Unmarshal([]byte(trimFence(raw)), &payload); err != nil {
		return nil, fmt.Errorf("malformed products payload: %w", err)
	}
	if len(payload.Products) == 0 {
		return nil, ErrNoProducts
	}
	if n := len(payload.Products); n != prompt.WizardProductCount {
		logging.APIWarn("expected %d products, got %d", prompt.WizardProductCount, n)
	}
	if len(payload.Products) > prompt.WizardProductCount {
		payload.Products = payload.Products[:prompt.WizardProductCount]
	}
	return payload.Products, nil
}

// Filter returns the recommendations matching query, preserving order.
func Filter(recs []Recommendation, query string) []Recommendation {
	out := make([]Recommendation, 0, len(recs))
	for _, r := range recs {
		if r.Matches(query) {
			out = append(out, r)
		}
	}
	return out
}
