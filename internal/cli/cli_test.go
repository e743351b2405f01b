package cli

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestTunables_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tunables.yaml")
	if err := os.WriteFile(path, []byte("window_minutes: 10\nlookback_hours: 48\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	o := Register(fs, 6, ".")
	if err := fs.Parse([]string{"-window", "5", "-config", path}); err != nil {
		t.Fatal(err)
	}

	got, err := o.Tunables(fs)
	if err != nil {
		t.Fatalf("Tunables: %v", err)
	}
	if got.WindowMinutes != 5 {
		t.Errorf("WindowMinutes = %d, want flag value 5", got.WindowMinutes)
	}
	if got.LookbackHours != 48 {
		t.Errorf("LookbackHours = %d, want file value 48", got.LookbackHours)
	}
	if got.RequestDelayMS != 200 {
		t.Errorf("RequestDelayMS = %d, want default 200", got.RequestDelayMS)
	}
}

func TestTunables_DefaultsWithoutFileOrFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	o := Register(fs, 24, "stats")
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}

	got, err := o.Tunables(fs)
	if err != nil {
		t.Fatalf("Tunables: %v", err)
	}
	if got.LookbackHours != 24 || got.WindowMinutes != 30 {
		t.Errorf("tunables = %+v, want defaults", got)
	}
	if o.OutDir != "stats" {
		t.Errorf("OutDir = %q, want stats", o.OutDir)
	}
}

func TestTunables_MissingFileFails(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	o := Register(fs, 6, ".")
	if err := fs.Parse([]string{"-config", filepath.Join(t.TempDir(), "nope.yaml")}); err != nil {
		t.Fatal(err)
	}

	if _, err := o.Tunables(fs); err == nil {
		t.Error("expected error for missing tunables file")
	}
}
