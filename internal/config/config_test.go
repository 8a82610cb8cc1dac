package config

import (
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.GirPath != "/usr/share/gir-1.0/Flatpak-1.0.gir" {
		t.Errorf("unexpected default gir path: %s", cfg.GirPath)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("unexpected default log level: %s", cfg.LogLevel)
	}
	if cfg.Profile != "" || cfg.Report != "" {
		t.Error("profile and report default to unset")
	}
	if cfg.Output.Native != "src/flatpak.cc" {
		t.Errorf("unexpected default native output: %s", cfg.Output.Native)
	}
	if cfg.Output.JS != "index.js" || cfg.Output.DTS != "index.d.ts" {
		t.Errorf("unexpected default host outputs: %s / %s", cfg.Output.JS, cfg.Output.DTS)
	}
	if cfg.Output.AddonPath != "./build/Release/flatpak.node" {
		t.Errorf("unexpected default addon path: %s", cfg.Output.AddonPath)
	}
}

func TestLoad_File(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.GirPath != "testdata/Flatpak-1.0.gir" {
		t.Errorf("file value not applied: %s", cfg.GirPath)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("file value not applied: %s", cfg.LogLevel)
	}
	if cfg.Report != "out/report.json" {
		t.Errorf("file value not applied: %s", cfg.Report)
	}
	if cfg.Output.Native != "out/flatpak.cc" {
		t.Errorf("file value not applied: %s", cfg.Output.Native)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Output.DTS != "index.d.ts" {
		t.Errorf("default not kept for unset key: %s", cfg.Output.DTS)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join("testdata", "nonexistent.yaml")); err == nil {
		t.Fatal("Load() should fail for a missing config file")
	}
}
