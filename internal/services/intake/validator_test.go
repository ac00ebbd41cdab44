package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"brandscope/internal/domain"
)

func TestValidateName(t *testing.T) {
	for _, name := range []string{"", "a", "é"} {
		msg, known := ValidateField(FieldName, name)
		assert.True(t, known)
		assert.Equal(t, "Name must be at least 2 characters", msg, "name %q", name)
	}
	for _, name := range []string{"ab", "Acme", "Ünï", " a", "😀"} {
		msg, _ := ValidateField(FieldName, name)
		assert.Empty(t, msg, "name %q", name)
	}
}

func TestValidateWebsite(t *testing.T) {
	valid := []string{
		"https://example.com",
		"http://www.example.co.uk/path?q=1",
		"example.com",
		"shop.example.io/pricing",
		"https://user.github.io",
		"http://localhost:3000",
		"http://127.0.0.1:8080",
		"https://example.internal",
		"http://intranet:8080",
		"ftp://example.com",
		"https://my-shop.local",
		"http://example.test",
		"example",
	}
	for _, raw := range valid {
		msg, _ := ValidateField(FieldWebsite, raw)
		assert.Empty(t, msg, "website %q", raw)
	}

	invalid := []string{
		"",
		"not a url",
		"https://",
		"https://:8080",
		"://example.com",
		"http://[::1",
		"exa mple.com",
		" example.com",
	}
	for _, raw := range invalid {
		msg, _ := ValidateField(FieldWebsite, raw)
		assert.Equal(t, "Invalid website URL", msg, "website %q", raw)
	}
}

func TestValidateEmail(t *testing.T) {
	for _, raw := range []string{"a@b.co", "first.last+tag@example.com"} {
		msg, _ := ValidateField(FieldEmail, raw)
		assert.Empty(t, msg, "email %q", raw)
	}
	for _, raw := range []string{"", "plain", "a@b", "@example.com", "a@@example.com", "Ann <ann@example.com>", "a b@example.com", "a@.example.com"} {
		msg, _ := ValidateField(FieldEmail, raw)
		assert.Equal(t, "Invalid email address", msg, "email %q", raw)
	}
}

func TestValidateUnknownField(t *testing.T) {
	msg, known := ValidateField("phone", "123")
	assert.False(t, known)
	assert.Empty(t, msg)
}

func TestValidateForm(t *testing.T) {
	assert.Nil(t, Validate(domain.BrandIntakeForm{Name: "Acme", Website: "acme.com", Email: "hi@acme.com"}))

	errs := Validate(domain.BrandIntakeForm{Name: "A", Website: "acme.com", Email: "nope"})
	assert.Len(t, errs, 2)
	assert.True(t, errs.Has(FieldName))
	assert.True(t, errs.Has(FieldEmail))
	assert.False(t, errs.Has(FieldWebsite))
}
