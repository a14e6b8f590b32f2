package netutil

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIP(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"192.0.2.4", "192.0.2.4", true},
		{"192.0.2.4:1234", "192.0.2.4", true},
		{"[2001:db8::1]:443", "2001:db8::1", true},
		{"fe80::1%eth0", "fe80::1", true},
		{" 10.0.0.1 ", "10.0.0.1", true},
		{"", "", false},
		{"not-an-ip", "not-an-ip", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeIP(tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.9:5555"
	assert.Equal(t, "10.0.0.9", ClientIP(r))

	r.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", ClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "203.0.113.5", ClientIP(r))
}
