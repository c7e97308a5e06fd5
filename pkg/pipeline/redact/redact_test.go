package redact

import "testing"

func TestSecrets(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "bearer", in: "auth failed: Bearer abc.def.ghi", want: "auth failed: Bearer <redacted>"},
		{name: "kv", in: "GOOGLE_API_KEY=AIzaSy123 missing", want: "<redacted_kv> missing"},
		{name: "untouched", in: "  monkey=business  ", want: "monkey=business"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Secrets(tt.in); got != tt.want {
				t.Fatalf("Secrets(%q)=%q want %q", tt.in, got, tt.want)
			}
		})
	}
}
