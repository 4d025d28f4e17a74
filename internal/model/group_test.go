package model

import "testing"

func TestGenerateGroupKey(t *testing.T) {
	cases := []struct {
		host, service, want string
	}{
		{"web-01", "nginx", "web-01:nginx"},
		{"WEB-01", "NGINX", "web-01:nginx"},
		{"Db-Primary", "Postgres", "db-primary:postgres"},
	}
	for _, c := range cases {
		if got := GenerateGroupKey(c.host, c.service); got != c.want {
			t.Fatalf("GenerateGroupKey(%q, %q) = %q, want %q", c.host, c.service, got, c.want)
		}
	}
}

func TestValidSeverities(t *testing.T) {
	for _, s := range []string{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo} {
		if !ValidSeverities[s] {
			t.Fatalf("severity %q must be valid", s)
		}
	}
	if ValidSeverities["catastrophic"] {
		t.Fatalf("unknown severity must be invalid")
	}
}
