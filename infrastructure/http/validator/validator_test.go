package validator

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"jdoe@example.com",
		"j.doe+booking@example.co.id",
		"UPPER@EXAMPLE.COM",
	}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("Expected %q to be valid", email)
		}
	}

	invalid := []string{
		"",
		"not-an-email",
		"missing@tld",
		"@example.com",
		"John Doe <jdoe@example.com>",
	}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("Expected %q to be invalid", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ValidatePassword("abc") {
		t.Error("Passwords under 6 characters should be rejected")
	}
	if !ValidatePassword("abcdef") {
		t.Error("6-character password should be accepted")
	}
}

func TestValidateRequired(t *testing.T) {
	if ValidateRequired("   ") {
		t.Error("Whitespace-only value should not satisfy required")
	}
	if !ValidateRequired("value") {
		t.Error("Non-empty value should satisfy required")
	}
}
