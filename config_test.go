package ogm2sqlite

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ogm.yaml")
	content := `source: /data/edu.stanford
db_path: /var/lib/ogm/stanford.db
metrics_addr: ":9090"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}

	if cfg.Source != "/data/edu.stanford" {
		t.Errorf("Source: got %q, want %q", cfg.Source, "/data/edu.stanford")
	}
	if cfg.DBPath != "/var/lib/ogm/stanford.db" {
		t.Errorf("DBPath: got %q, want %q", cfg.DBPath, "/var/lib/ogm/stanford.db")
	}
	if cfg.MetricsAddr != ":9090" {
		t.Errorf("MetricsAddr: got %q, want %q", cfg.MetricsAddr, ":9090")
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("LoadConfigFile on missing file succeeded, want error")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.defaults()

	if cfg.Source != "." {
		t.Errorf("Source default: got %q, want %q", cfg.Source, ".")
	}
	if cfg.DBPath != "ogm.db" {
		t.Errorf("DBPath default: got %q, want %q", cfg.DBPath, "ogm.db")
	}
	if cfg.MetricsAddr != "" {
		t.Errorf("MetricsAddr default: got %q, want empty", cfg.MetricsAddr)
	}
}
