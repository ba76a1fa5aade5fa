package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestReadConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := readConfig(path)
	if err != nil {
		t.Fatalf("readConfig: %v", err)
	}
	if cfg.Port != "38870" || cfg.TileCount != 25 || cfg.BaseTickMs != 120 || cfg.Difficulty != "normal" {
		t.Errorf("Unexpected defaults %+v", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected the config file to be created: %v", err)
	}

	again, err := readConfig(path)
	if err != nil {
		t.Fatalf("readConfig on created file: %v", err)
	}
	if *again != *cfg {
		t.Errorf("Expected %+v, got %+v", cfg, again)
	}
}

func TestReadConfigNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"port":"9000","blocksize":-1,"tilecount":3,"basetickms":0,"difficulty":"insane","seed":42}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := readConfig(path)
	if err != nil {
		t.Fatalf("readConfig: %v", err)
	}
	if cfg.Port != "9000" || cfg.Seed != 42 {
		t.Errorf("Expected explicit values to be kept, got %+v", cfg)
	}
	if cfg.Blocksize != 20 || cfg.TileCount != 25 || cfg.BaseTickMs != 120 || cfg.Difficulty != "normal" {
		t.Errorf("Expected invalid values to fall back, got %+v", cfg)
	}
	if cfg.DBPath != "game.db" || cfg.SpriteDir != "./sprites" {
		t.Errorf("Expected default paths, got %+v", cfg)
	}
}

func TestReadConfigRejectsBrokenJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := readConfig(path); err == nil {
		t.Error("Expected an error for broken JSON")
	}
}

func TestGetConfigValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"difficulty":"hard","blocksize":16}`), 0644); err != nil {
		t.Fatal(err)
	}
	LoadConfig(path)

	if v := GetConfigValue("difficulty").(string); v != "hard" {
		t.Errorf("Expected hard, got %v", v)
	}
	if v := GetConfigValue("blocksize").(int); v != 16 {
		t.Errorf("Expected 16, got %v", v)
	}
	if v := GetConfigValue("nope"); v != "" {
		t.Errorf("Expected empty value for unknown key, got %v", v)
	}
}

func TestWatchConfigReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if _, err := readConfig(path); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	changes := make(chan *AppConfig, 4)
	go WatchConfig(path, done, func(cfg *AppConfig) { changes <- cfg })
	defer close(done)

	// 给 watcher 一点时间完成注册
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`{"difficulty":"easy"}`), 0644); err != nil {
		t.Fatal(err)
	}

	timeout := time.After(3 * time.Second)
	for {
		select {
		case cfg := <-changes:
			if cfg.Difficulty == "easy" {
				return
			}
		case <-timeout:
			t.Fatal("Expected a reload after the file changed")
		}
	}
}
