package cmd

import (
	"testing"
)

func TestServerBaseURL(t *testing.T) {
	tests := []struct {
		name   string
		listen string
		want   string
	}{
		{
			name:   "port only",
			listen: ":3000",
			want:   "http://127.0.0.1:3000",
		},
		{
			name:   "wildcard IPv4",
			listen: "0.0.0.0:3000",
			want:   "http://127.0.0.1:3000",
		},
		{
			name:   "wildcard IPv6",
			listen: "[::]:3000",
			want:   "http://127.0.0.1:3000",
		},
		{
			name:   "explicit host",
			listen: "192.168.1.10:8080",
			want:   "http://192.168.1.10:8080",
		},
		{
			name:   "loopback",
			listen: "127.0.0.1:3000",
			want:   "http://127.0.0.1:3000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := serverBaseURL(tt.listen)
			if got != tt.want {
				t.Errorf("serverBaseURL(%q) = %q, want %q", tt.listen, got, tt.want)
			}
		})
	}
}
