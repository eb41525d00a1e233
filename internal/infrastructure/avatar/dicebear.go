// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package avatar builds deterministic avatar image URIs.
package avatar

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain"
)

// DefaultBaseURL is the DiceBear HTTP API root.
const DefaultBaseURL = "https://api.dicebear.com/9.x"

// DiceBearGenerator renders avatars through the DiceBear HTTP API. The same seed and
// variant always produce the same URI.
type DiceBearGenerator struct {
	baseURL string
}

var _ domain.AvatarGenerator = (*DiceBearGenerator)(nil)

// NewDiceBearGenerator creates a generator rooted at baseURL, or DefaultBaseURL when empty.
func NewDiceBearGenerator(baseURL string) *DiceBearGenerator {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &DiceBearGenerator{baseURL: strings.TrimSuffix(baseURL, "/")}
}

// AvatarURI returns the SVG avatar URI for seed in the given style variant, e.g. "botttsNeutral".
func (g *DiceBearGenerator) AvatarURI(seed, variant string) string {
	params := url.Values{}
	params.Set("seed", seed)
	if variant == "initials" {
		params.Set("fontWeight", "500")
		params.Set("fontSize", "42")
	}
	return g.baseURL + "/" + styleName(variant) + "/svg?" + params.Encode()
}

// styleName converts a camelCase variant to the kebab-case style path segment.
func styleName(variant string) string {
	var b strings.Builder
	for i, r := range variant {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
