// Package validation sanitizes raw contact-form input before it reaches the
// domain. Every function either returns a sanitized value or fails with one
// of the classified sentinels in errors.go; nothing here raises an
// unclassified error.
package validation

import (
	"encoding/base64"
	"html"
	"net"
	"net/url"
	"regexp"
	"strings"
)

const (
	MaxEmailLength = 254
	MaxURLLength   = 2048
	MinPhoneLength = 6
	MaxPhoneLength = 20
)

// suspiciousPatterns flags script injection attempts in free-text fields.
// Matched text is rejected outright rather than stripped, so the submitter
// gets a clear error instead of a silently mangled message.
var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<\s*script`),
	regexp.MustCompile(`(?i)<\s*/?\s*(iframe|object|embed|form)`),
	regexp.MustCompile(`(?i)\bon[a-z]+\s*=`),
	regexp.MustCompile(`(?i)javascript\s*:`),
	regexp.MustCompile(`(?i)vbscript\s*:`),
	regexp.MustCompile(`(?i)data\s*:\s*text/html`),
	regexp.MustCompile(`(?i)expression\s*\(`),
}

// emailPattern is the usual RFC-5322-ish compromise: permissive enough for
// real addresses, strict enough to reject obvious garbage.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`)

var phonePattern = regexp.MustCompile(`^[0-9 ()+\-]+$`)

// Text validates and sanitizes a free-text field. The returned value is
// HTML-entity escaped and safe to embed in notification emails.
func Text(text, field string, maxLength int, required bool) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		if required {
			return "", newFieldError(ErrRequiredField, field, "%s is required", field)
		}
		return "", nil
	}
	if maxLength > 0 && len(text) > maxLength {
		return "", newFieldError(ErrTooLong, field, "%s must be at most %d characters", field, maxLength)
	}
	for _, p := range suspiciousPatterns {
		if p.MatchString(text) {
			return "", newFieldError(ErrSuspiciousContent, field, "%s contains content that is not allowed", field)
		}
	}
	return html.EscapeString(text), nil
}

// Email validates an email address and returns it lower-cased and escaped.
func Email(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", newFieldError(ErrRequiredField, "email", "email is required")
	}
	if len(email) > MaxEmailLength {
		return "", newFieldError(ErrTooLong, "email", "email must be at most %d characters", MaxEmailLength)
	}
	if !emailPattern.MatchString(email) {
		return "", newFieldError(ErrFormat, "email", "email address is not valid")
	}
	return html.EscapeString(email), nil
}

// Phone validates an optional phone number. Empty input is returned as-is so
// the caller decides whether the field is required.
func Phone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", nil
	}
	if len(phone) < MinPhoneLength || len(phone) > MaxPhoneLength {
		return "", newFieldError(ErrFormat, "phone", "phone number must be %d to %d characters", MinPhoneLength, MaxPhoneLength)
	}
	if !phonePattern.MatchString(phone) {
		return "", newFieldError(ErrFormat, "phone", "phone number may only contain digits, spaces and -()+")
	}
	return phone, nil
}

// URL validates a store URL. A missing scheme defaults to https; javascript:
// and data: schemes and loopback/private-network hosts are rejected.
func URL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if len(raw) > MaxURLLength {
		return "", newFieldError(ErrTooLong, "store_url", "URL must be at most %d characters", MaxURLLength)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	lower := strings.ToLower(raw)
	for _, scheme := range []string{"javascript:", "data:", "vbscript:", "file:"} {
		if strings.HasPrefix(lower, scheme) {
			return "", newFieldError(ErrBlockedPattern, "store_url", "URL scheme is not allowed")
		}
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", newFieldError(ErrFormat, "store_url", "URL is not valid")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", newFieldError(ErrBlockedPattern, "store_url", "URL scheme is not allowed")
	}

	host := strings.ToLower(u.Hostname())
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return "", newFieldError(ErrBlockedPattern, "store_url", "URL host is not allowed")
	}
	if ip := net.ParseIP(host); ip != nil && (ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()) {
		return "", newFieldError(ErrBlockedPattern, "store_url", "URL host is not allowed")
	}

	return u.String(), nil
}

// audioMIMETypes is the voice-note allow-list.
var audioMIMETypes = map[string]struct{}{
	"audio/webm": {},
	"audio/ogg":  {},
	"audio/mp4":  {},
	"audio/mpeg": {},
}

// AudioPayload validates a data:audio/...;base64 voice-note envelope and
// returns the decoded bytes together with the MIME type. maxBytes caps the
// decoded size.
func AudioPayload(payload string, maxBytes int) ([]byte, string, error) {
	payload = strings.TrimSpace(payload)
	if !strings.HasPrefix(payload, "data:") {
		return nil, "", newFieldError(ErrFormat, "voice_note", "voice note must be a base64 data URL")
	}

	meta, data, ok := strings.Cut(payload[len("data:"):], ",")
	if !ok {
		return nil, "", newFieldError(ErrFormat, "voice_note", "voice note must be a base64 data URL")
	}
	mimeType, found := strings.CutSuffix(meta, ";base64")
	if !found {
		return nil, "", newFieldError(ErrFormat, "voice_note", "voice note must be base64 encoded")
	}
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if mt, _, ok := strings.Cut(mimeType, ";"); ok {
		mimeType = mt
	}
	if _, ok := audioMIMETypes[mimeType]; !ok {
		return nil, "", newFieldError(ErrUnsupportedType, "voice_note", "audio type %s is not supported", mimeType)
	}

	// Cheap pre-check before decoding: 4 base64 chars per 3 bytes.
	if maxBytes > 0 && len(data)/4*3 > maxBytes {
		return nil, "", newFieldError(ErrTooLarge, "voice_note", "voice note exceeds the maximum size")
	}

	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, "", newFieldError(ErrFormat, "voice_note", "voice note is not valid base64")
	}
	if maxBytes > 0 && len(decoded) > maxBytes {
		return nil, "", newFieldError(ErrTooLarge, "voice_note", "voice note exceeds the maximum size")
	}
	return decoded, mimeType, nil
}
