package validators

import (
	"net/mail"
	"strings"
)

// IsContactValid accepts an e-mail address or a phone number with 8 to 15
// digits. Phone numbers may carry spaces, dashes, dots, parentheses and a
// leading plus sign.
func IsContactValid(contact string) bool {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return false
	}

	if strings.Contains(contact, "@") {
		return isEmailValid(contact)
	}
	return isPhoneValid(contact)
}

func isEmailValid(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}

	at := strings.LastIndex(email, "@")
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.HasSuffix(domain, ".")
}

func isPhoneValid(phone string) bool {
	digits := 0
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ', r == '-', r == '.', r == '(', r == ')':
		default:
			return false
		}
	}
	return digits >= 8 && digits <= 15
}
