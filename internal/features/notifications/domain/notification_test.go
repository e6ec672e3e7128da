package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContact_Address(t *testing.T) {
	tests := []struct {
		name    string
		contact Contact
		want    string
	}{
		{name: "email preferred", contact: Contact{Email: "a@example.com", Phone: "+100"}, want: "a@example.com"},
		{name: "phone when no email", contact: Contact{Phone: "+100"}, want: "+100"},
		{name: "phone when email opted out", contact: Contact{Email: "a@example.com", EmailOptOut: true, Phone: "+100"}, want: "+100"},
		{name: "nothing usable", contact: Contact{Email: "a@example.com", EmailOptOut: true, Phone: "+100", SMSOptOut: true}, want: ""},
		{name: "empty", contact: Contact{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.contact.Address())
		})
	}
}
