package intake

import (
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf16"

	"brandscope/internal/domain"
)

// Field names as they appear in the intake form.
const (
	FieldName    = "name"
	FieldWebsite = "website"
	FieldEmail   = "email"
)

const minNameLength = 2

const (
	msgNameTooShort   = "Name must be at least 2 characters"
	msgInvalidWebsite = "Invalid website URL"
	msgInvalidEmail   = "Invalid email address"
)

// FieldErrors maps a field name to a human readable message.
type FieldErrors map[string]string

func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Validate checks the whole form. A nil result means the form is valid.
func Validate(form domain.BrandIntakeForm) FieldErrors {
	var errs FieldErrors
	for _, field := range []string{FieldName, FieldWebsite, FieldEmail} {
		msg, _ := ValidateField(field, fieldValue(form, field))
		if msg == "" {
			continue
		}
		if errs == nil {
			errs = FieldErrors{}
		}
		errs[field] = msg
	}
	return errs
}

// ValidateField checks a single field. known is false for an unrecognised
// field name.
func ValidateField(field, value string) (msg string, known bool) {
	switch field {
	case FieldName:
		if utf16Len(value) < minNameLength {
			return msgNameTooShort, true
		}
	case FieldWebsite:
		if !isWebsite(value) {
			return msgInvalidWebsite, true
		}
	case FieldEmail:
		if !isEmail(value) {
			return msgInvalidEmail, true
		}
	default:
		return "", false
	}
	return "", true
}

func fieldValue(form domain.BrandIntakeForm, field string) string {
	switch field {
	case FieldName:
		return form.Name
	case FieldWebsite:
		return form.Website
	case FieldEmail:
		return form.Email
	}
	return ""
}

// isWebsite accepts any absolute URL with a host. A missing scheme is read
// as https, so "example.com/pricing" passes.
func isWebsite(raw string) bool {
	if raw == "" || strings.ContainsAny(raw, " \t\r\n") {
		return false
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Hostname() != ""
}

// utf16Len counts UTF-16 code units, the unit browsers measure string
// length in.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

func isEmail(raw string) bool {
	if raw == "" || strings.ContainsAny(raw, " \t\r\n<>") {
		return false
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return false
	}
	at := strings.LastIndexByte(raw, '@')
	domainPart := raw[at+1:]
	return strings.Contains(domainPart, ".") && !strings.HasSuffix(domainPart, ".") && !strings.HasPrefix(domainPart, ".")
}
