package cli

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"miqat/internal/config"
	"miqat/internal/geo"
	"miqat/internal/method"
	"miqat/internal/prayer"
	"miqat/internal/store"
)

func floatPtr(v float64) *float64 { return &v }

func TestFilterPrayers(t *testing.T) {
	base := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	all := []prayer.Prayer{
		{Name: "Fajr", Time: base.Add(5 * time.Hour)},
		{Name: "Sunrise", Time: base.Add(6 * time.Hour)},
		{Name: "Dhuhr", Time: base.Add(12 * time.Hour)},
		{Name: "Asr", Time: base.Add(15 * time.Hour)},
		{Name: "Maghrib", Time: base.Add(18 * time.Hour)},
		{Name: "Isha", Time: base.Add(19 * time.Hour)},
	}

	got := filterPrayers(all, []string{"Fajr", "Maghrib", "Isha"})
	if len(got) != 3 {
		t.Fatalf("filterPrayers() returned %d prayers, want 3", len(got))
	}
	wantOrder := []string{"Fajr", "Maghrib", "Isha"}
	for i, p := range got {
		if p.Name != wantOrder[i] {
			t.Errorf("filterPrayers()[%d] = %q, want %q", i, p.Name, wantOrder[i])
		}
	}

	if got := filterPrayers(all, []string{"Sunset"}); len(got) != 0 {
		t.Errorf("filterPrayers() with unknown name returned %d prayers, want 0", len(got))
	}
}

func TestCanonicalPrayerName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Fajr", "Fajr", false},
		{"fajr", "Fajr", false},
		{"MAGHRIB", "Maghrib", false},
		{"isha", "Isha", false},
		{"sunset", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := canonicalPrayerName(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("canonicalPrayerName(%q) expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("canonicalPrayerName(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("canonicalPrayerName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	if got := formatDate("2026-02-28"); got != "Sat, 28 Feb 2026" {
		t.Errorf("formatDate() = %q, want %q", got, "Sat, 28 Feb 2026")
	}
	// Unparseable input passes through untouched.
	if got := formatDate("not-a-date"); got != "not-a-date" {
		t.Errorf("formatDate() = %q, want passthrough", got)
	}
}

func TestResolveLocation_StaticCoordinates(t *testing.T) {
	cfg := &config.Config{
		Latitude:  floatPtr(21.4225),
		Longitude: floatPtr(39.8262),
		Timezone:  "Asia/Riyadh",
	}

	loc, err := resolveLocation(cfg)
	if err != nil {
		t.Fatalf("resolveLocation() error: %v", err)
	}
	if loc.Latitude != 21.4225 || loc.Longitude != 39.8262 {
		t.Errorf("resolveLocation() = (%v, %v), want (21.4225, 39.8262)", loc.Latitude, loc.Longitude)
	}
	if loc.Timezone != "Asia/Riyadh" {
		t.Errorf("resolveLocation() timezone = %q, want Asia/Riyadh", loc.Timezone)
	}
}

func TestResolveLocation_MissingTimezone(t *testing.T) {
	cfg := &config.Config{
		Latitude:  floatPtr(21.4225),
		Longitude: floatPtr(39.8262),
	}

	if _, err := resolveLocation(cfg); err == nil {
		t.Fatal("resolveLocation() without timezone expected error")
	}
}

func TestBuildPrayerConfig_NamedMethod(t *testing.T) {
	cfg := &config.Config{Method: "isna", Madhab: "hanafi"}
	loc := &geo.Location{Latitude: 40.7128, Longitude: -74.006, Timezone: "America/New_York"}

	pc, err := buildPrayerConfig(cfg, loc)
	if err != nil {
		t.Fatalf("buildPrayerConfig() error: %v", err)
	}
	if pc.Method != method.ISNA {
		t.Errorf("Method = %v, want ISNA", pc.Method)
	}
	if pc.Madhab != method.Hanafi {
		t.Errorf("Madhab = %v, want Hanafi", pc.Madhab)
	}
	if pc.Params.FajrAngle != 15 {
		t.Errorf("FajrAngle = %v, want 15", pc.Params.FajrAngle)
	}
}

func TestBuildPrayerConfig_CustomRequiresFajrAngle(t *testing.T) {
	cfg := &config.Config{Method: "custom"}
	loc := &geo.Location{Latitude: 21.4225, Longitude: 39.8262, Timezone: "Asia/Riyadh"}

	_, err := buildPrayerConfig(cfg, loc)
	if err == nil {
		t.Fatal("buildPrayerConfig() with custom method and no angles expected error")
	}
	if !strings.Contains(err.Error(), "fajr_angle") {
		t.Errorf("error %q should mention fajr_angle", err)
	}
}

func TestBuildPrayerConfig_CustomAngles(t *testing.T) {
	interval := 90
	cfg := &config.Config{
		Method:       "custom",
		FajrAngle:    floatPtr(18.5),
		IshaInterval: &interval,
	}
	loc := &geo.Location{Latitude: 21.4225, Longitude: 39.8262, Timezone: "Asia/Riyadh"}

	pc, err := buildPrayerConfig(cfg, loc)
	if err != nil {
		t.Fatalf("buildPrayerConfig() error: %v", err)
	}
	if pc.Params.FajrAngle != 18.5 {
		t.Errorf("FajrAngle = %v, want 18.5", pc.Params.FajrAngle)
	}
	if pc.Params.IshaInterval != 90 {
		t.Errorf("IshaInterval = %v, want 90", pc.Params.IshaInterval)
	}
}

func TestBuildPrayerConfig_HighLatOverride(t *testing.T) {
	cfg := &config.Config{Method: "mwl", HighLat: "one-seventh"}
	loc := &geo.Location{Latitude: 51.5074, Longitude: -0.1278, Timezone: "Europe/London"}

	pc, err := buildPrayerConfig(cfg, loc)
	if err != nil {
		t.Fatalf("buildPrayerConfig() error: %v", err)
	}
	if pc.Params.HighLat != method.OneSeventh {
		t.Errorf("HighLat = %v, want OneSeventh", pc.Params.HighLat)
	}
}

func TestBuildPrayerConfig_InvalidCoordinate(t *testing.T) {
	cfg := &config.Config{Method: "mwl"}
	loc := &geo.Location{Latitude: 95, Longitude: 0, Timezone: "UTC"}

	if _, err := buildPrayerConfig(cfg, loc); !errors.Is(err, prayer.ErrInvalidConfig) {
		t.Fatalf("buildPrayerConfig() error = %v, want ErrInvalidConfig", err)
	}
}

func TestOpenStore_Backends(t *testing.T) {
	fileCfg := &config.Config{CacheBackend: config.BackendFile, CacheDir: t.TempDir()}
	st, err := openStore(fileCfg)
	if err != nil {
		t.Fatalf("openStore(file) error: %v", err)
	}
	if _, ok := st.(*store.FileStore); !ok {
		t.Errorf("openStore(file) = %T, want *store.FileStore", st)
	}
	st.Close()

	dir := t.TempDir()
	sqlCfg := &config.Config{CacheBackend: config.BackendSQLite, CacheDir: dir}
	st, err = openStore(sqlCfg)
	if err != nil {
		t.Fatalf("openStore(sqlite) error: %v", err)
	}
	if _, ok := st.(*store.SQLiteStore); !ok {
		t.Errorf("openStore(sqlite) = %T, want *store.SQLiteStore", st)
	}
	if err := st.Save("k", []byte("v")); err != nil {
		t.Errorf("sqlite store Save() error: %v", err)
	}
	st.Close()

	if _, err := filepath.Glob(filepath.Join(dir, "cache.db")); err != nil {
		t.Errorf("expected cache.db under %s: %v", dir, err)
	}
}

func TestEffectiveConfig_FlagsOverrideFile(t *testing.T) {
	prev := loadedConfig
	defer func() { loadedConfig = prev }()

	loadedConfig = &config.Config{
		Method:   "egyptian",
		Madhab:   "shafi",
		Timezone: "Africa/Cairo",
	}

	cmd := NewRootCmd("test")
	if err := cmd.PersistentFlags().Set("method", "karachi"); err != nil {
		t.Fatalf("setting method flag: %v", err)
	}
	if err := cmd.PersistentFlags().Set("latitude", "24.8607"); err != nil {
		t.Fatalf("setting latitude flag: %v", err)
	}

	cfg := effectiveConfig(cmd)
	if cfg.Method != "karachi" {
		t.Errorf("Method = %q, want flag value %q", cfg.Method, "karachi")
	}
	if cfg.Latitude == nil || *cfg.Latitude != 24.8607 {
		t.Errorf("Latitude = %v, want 24.8607", cfg.Latitude)
	}
	// Untouched file values survive the merge.
	if cfg.Timezone != "Africa/Cairo" {
		t.Errorf("Timezone = %q, want config value", cfg.Timezone)
	}
}

func TestEffectiveConfig_Defaults(t *testing.T) {
	prev := loadedConfig
	defer func() { loadedConfig = prev }()
	loadedConfig = &config.Config{}

	cfg := effectiveConfig(NewRootCmd("test"))
	if cfg.Method != "mwl" {
		t.Errorf("default Method = %q, want mwl", cfg.Method)
	}
	if cfg.Madhab != "shafi" {
		t.Errorf("default Madhab = %q, want shafi", cfg.Madhab)
	}
	if cfg.TimeFormat != "24h" {
		t.Errorf("default TimeFormat = %q, want 24h", cfg.TimeFormat)
	}
	if cfg.CacheBackend != config.BackendFile {
		t.Errorf("default CacheBackend = %q, want file", cfg.CacheBackend)
	}
}
