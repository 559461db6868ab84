// cliparse/cliparse_test.go
package cliparse

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("DISCORD_PUBLIC_KEY", "abcd")
	t.Setenv("OMDB_API_KEY", "omdb")
}

func TestParseFlags_EnvVars(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("LOOKUP_TIMEOUT", "2s")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.LookupTimeout != 2*time.Second {
		t.Errorf("expected lookup timeout 2s, got %v", cfg.LookupTimeout)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default database type sqlite, got %q", cfg.DatabaseType)
	}
	if cfg.OMDbBaseURL != "http://www.omdbapi.com/" {
		t.Errorf("unexpected default OMDb URL %q", cfg.OMDbBaseURL)
	}
	if cfg.CacheSize != 256 {
		t.Errorf("expected default cache size 256, got %d", cfg.CacheSize)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-public-key", "k", "-omdb-key", "o"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
}

func TestParseFlags_MissingRequired(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no database", []string{"-public-key", "k", "-omdb-key", "o"}},
		{"no public key", []string{"-d", "file:x.db", "-omdb-key", "o"}},
		{"no omdb key", []string{"-d", "file:x.db", "-public-key", "k"}},
		{"bad database type", []string{"-d", "file:x.db", "-public-key", "k", "-omdb-key", "o", "-t", "mysql"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "")
			t.Setenv("DISCORD_PUBLIC_KEY", "")
			t.Setenv("OMDB_API_KEY", "")
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseFlags_LocalSkipsPublicKey(t *testing.T) {
	t.Setenv("IS_LOCAL", "true")

	cfg, err := ParseFlags([]string{"-d", "file:x.db", "-omdb-key", "o"})
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.SkipVerify {
		t.Error("expected SkipVerify to be set from IS_LOCAL")
	}
}
