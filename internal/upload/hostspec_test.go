package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studioops/boardpulse/internal/config"
)

func TestParseHostSpec(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    HostSpec
		wantErr bool
	}{
		{"user at host", "deploy@web.example.com", HostSpec{"deploy", "web.example.com", 22}, false},
		{"user host port", "deploy@web.example.com:2222", HostSpec{"deploy", "web.example.com", 2222}, false},
		{"ssh scheme", "ssh://deploy@web.example.com:2222", HostSpec{"deploy", "web.example.com", 2222}, false},
		{"bare host gets default user", "web.example.com", HostSpec{"sshuser", "web.example.com", 22}, false},
		{"non-numeric port stays in host", "deploy@web.example.com:abc", HostSpec{"deploy", "web.example.com:abc", 22}, false},
		{"surrounding whitespace", "  deploy@web.example.com  ", HostSpec{"deploy", "web.example.com", 22}, false},
		{"empty", "", HostSpec{}, true},
		{"only user", "deploy@", HostSpec{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHostSpec(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHostSpecAddr(t *testing.T) {
	assert.Equal(t, "web.example.com:2222", HostSpec{"u", "web.example.com", 2222}.Addr())
}

func TestUploadSkipsWhenUnconfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.UploadConfig
	}{
		{"nothing set", config.UploadConfig{}},
		{"missing password", config.UploadConfig{HostSpec: "u@h", RemotePath: "/www"}},
		{"missing path", config.UploadConfig{HostSpec: "u@h", Password: "pw"}},
		{"missing host", config.UploadConfig{Password: "pw", RemotePath: "/www"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := New(tt.cfg).Upload([]string{"reports/a.html"})
			require.NoError(t, err)
			assert.Equal(t, StatusSkipped, status)
		})
	}
}

func TestUploadFailsOnMissingLocalFile(t *testing.T) {
	u := New(config.UploadConfig{HostSpec: "u@h", Password: "pw", RemotePath: "/www"})
	status, err := u.Upload([]string{"does/not/exist.html"})
	assert.Error(t, err)
	assert.Equal(t, StatusUploaded, status, "a configured but broken upload is fatal, not a skip")
}

func TestUploadFailsOnBadHostSpec(t *testing.T) {
	u := New(config.UploadConfig{HostSpec: "deploy@", Password: "pw", RemotePath: "/www"})
	_, err := u.Upload(nil)
	assert.Error(t, err)
}
