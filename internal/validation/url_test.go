package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{name: "https", url: "https://jmf.example.com"},
		{name: "http with port", url: "http://localhost:8902"},
		{name: "with path", url: "https://example.com/jmf"},
		{name: "private ip", url: "http://192.168.1.10:8902"},
		{name: "ipv6 loopback", url: "http://[::1]:8902"},
		{name: "empty", url: "", wantErr: "cannot be empty"},
		{name: "ftp", url: "ftp://example.com", wantErr: "invalid URL scheme"},
		{name: "no host", url: "https://", wantErr: "hostname"},
		{name: "credentials", url: "https://u:p@example.com", wantErr: "credentials"},
		{name: "query", url: "https://example.com?a=1", wantErr: "query"},
		{name: "empty query", url: "https://example.com?", wantErr: "query"},
		{name: "fragment", url: "https://example.com#x", wantErr: "fragment"},
		{name: "metadata ip", url: "http://169.254.169.254", wantErr: "cloud metadata"},
		{name: "metadata host", url: "http://metadata.google.internal", wantErr: "cloud metadata"},
		{name: "link local", url: "http://169.254.1.1", wantErr: "link-local"},
		{name: "link local v6", url: "http://[fe80::1]", wantErr: "link-local"},
		{name: "unspecified", url: "http://0.0.0.0:8902", wantErr: "unspecified"},
		{name: "too long", url: "https://example.com/" + strings.Repeat("a", MaxURLLength), wantErr: "maximum length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBaseURL(tt.url)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestIsCloudMetadata(t *testing.T) {
	cases := map[string]bool{
		"169.254.169.254":              true,
		"METADATA.google.internal":     true,
		"foo.metadata.google.internal": true,
		"instance-data":                true,
		"example.com":                  false,
		"localhost":                    false,
	}
	for host, want := range cases {
		assert.Equal(t, want, isCloudMetadata(host), host)
	}
}
