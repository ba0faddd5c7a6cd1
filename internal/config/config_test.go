package config

import "testing"

func TestAccessConfigAllowLists(t *testing.T) {
	cfg := AccessConfig{
		AdminEmails:       []string{"ops@cvadapter.dev", "root@cvadapter.dev"},
		TestAccountEmails: []string{"qa@cvadapter.dev"},
	}

	tests := []struct {
		name     string
		email    string
		isAdmin  bool
		isTester bool
	}{
		{"admin exact", "ops@cvadapter.dev", true, false},
		{"admin case variant is not a match", "OPS@CVADAPTER.DEV", false, false},
		{"tester", "qa@cvadapter.dev", false, true},
		{"tester case variant is not a match", "QA@cvadapter.DEV", false, false},
		{"nobody", "user@example.com", false, false},
		{"prefix is not a match", "ops@cvadapter.dev.evil.com", false, false},
		{"empty", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.IsAdminEmail(tt.email); got != tt.isAdmin {
				t.Errorf("IsAdminEmail(%q) = %v, want %v", tt.email, got, tt.isAdmin)
			}
			if got := cfg.IsTestAccountEmail(tt.email); got != tt.isTester {
				t.Errorf("IsTestAccountEmail(%q) = %v, want %v", tt.email, got, tt.isTester)
			}
		})
	}
}

func TestGetEnvAsList(t *testing.T) {
	t.Setenv("TEST_LIST", " a@x.com, b@x.com ,,c@x.com ")

	got := getEnvAsList("TEST_LIST")
	want := []string{"a@x.com", "b@x.com", "c@x.com"}

	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %q, want %q", i, got[i], want[i])
		}
	}
}
