package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"
)

const (
	FileName           = "elearn.yaml"
	defaultBaseURL     = "https://elearn.volstate.edu"
	defaultTenantID    = "cfd2be83-bc1c-4a43-8ac3-469bc19bfc4a"
	defaultSessionFile = "session.txt"
	defaultHTTPTimeout = "30s"
	defaultCacheTTL    = "5m"
	defaultUserAgent   = "elearn-cli/1.0"
	defaultAPIVersion  = "1.67"
)

// File is the on-disk shape of elearn.yaml. Every field is optional.
type File struct {
	// BaseURL is the D2L instance, e.g. https://elearn.volstate.edu.
	BaseURL string `yaml:"base_url,omitempty" jsonschema:"description=D2L instance base URL"`
	// TenantID is the Brightspace tenant used by the hypermedia APIs.
	TenantID string `yaml:"tenant_id,omitempty" jsonschema:"description=Brightspace tenant id"`
	// APIVersion is the LE API version used for grades and calendar.
	APIVersion string `yaml:"api_version,omitempty"`
	// APITimezone is the zone used to read API timestamps that carry no offset.
	// Empty means the process local zone.
	APITimezone string `yaml:"api_timezone,omitempty" jsonschema:"example=UTC"`
	// SessionFile holds the persisted session cookie, relative to the home directory.
	SessionFile string `yaml:"session_file,omitempty"`
	// HTTPTimeout bounds every remote call, e.g. "30s".
	HTTPTimeout string `yaml:"http_timeout,omitempty"`
	// CacheTTL bounds how long course lookups are cached in memory, e.g. "5m".
	CacheTTL  string `yaml:"cache_ttl,omitempty"`
	UserAgent string `yaml:"user_agent,omitempty"`
	// The hypermedia API hosts default to https://<tenant_id>.<service>.api.brightspace.com.
	EnrollmentsURL   string `yaml:"enrollments_url,omitempty"`
	OrganizationsURL string `yaml:"organizations_url,omitempty"`
	SequencesURL     string `yaml:"sequences_url,omitempty"`
}

type Config struct {
	HomePath    string
	ConfigPath  string
	SessionPath string
	BaseURL     string
	TenantID    string
	APIVersion  string
	APILocation *time.Location
	HTTPTimeout time.Duration
	CacheTTL    time.Duration
	UserAgent   string

	EnrollmentsURL   string
	OrganizationsURL string
	SequencesURL     string
}

func New(homePath string) (Config, error) {
	if homePath == "" {
		return Config{}, fmt.Errorf("home path is required")
	}
	cfgPath := filepath.Join(homePath, FileName)
	file, err := Load(cfgPath)
	if err != nil {
		return Config{}, err
	}
	return Resolve(homePath, file)
}

// Load reads a config file; a missing file yields the zero File. A UTF-16
// file or a UTF-8 byte order mark is decoded to plain UTF-8 first.
func Load(path string) (File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("read config: %w", err)
	}
	raw, _, err = transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return File{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	file := File{}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return File{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	return file, nil
}

func Resolve(homePath string, file File) (Config, error) {
	cfg := Config{
		HomePath:   homePath,
		ConfigPath: filepath.Join(homePath, FileName),
		BaseURL:    strings.TrimRight(orDefault(file.BaseURL, defaultBaseURL), "/"),
		TenantID:   orDefault(file.TenantID, defaultTenantID),
		APIVersion: orDefault(file.APIVersion, defaultAPIVersion),
		UserAgent:  orDefault(file.UserAgent, defaultUserAgent),
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return Config{}, fmt.Errorf("invalid base_url %q: %w", cfg.BaseURL, err)
	}

	cfg.EnrollmentsURL = tenantHost(file.EnrollmentsURL, cfg.TenantID, "enrollments")
	cfg.OrganizationsURL = tenantHost(file.OrganizationsURL, cfg.TenantID, "organizations")
	cfg.SequencesURL = tenantHost(file.SequencesURL, cfg.TenantID, "sequences")

	sessionFile := orDefault(file.SessionFile, defaultSessionFile)
	if filepath.IsAbs(sessionFile) {
		cfg.SessionPath = sessionFile
	} else {
		cfg.SessionPath = filepath.Join(homePath, sessionFile)
	}

	cfg.APILocation = time.Local
	if file.APITimezone != "" {
		loc, err := time.LoadLocation(file.APITimezone)
		if err != nil {
			return Config{}, fmt.Errorf("invalid api_timezone %q: %w", file.APITimezone, err)
		}
		cfg.APILocation = loc
	}

	timeout, err := time.ParseDuration(orDefault(file.HTTPTimeout, defaultHTTPTimeout))
	if err != nil {
		return Config{}, fmt.Errorf("invalid http_timeout: %w", err)
	}
	cfg.HTTPTimeout = timeout

	ttl, err := time.ParseDuration(orDefault(file.CacheTTL, defaultCacheTTL))
	if err != nil {
		return Config{}, fmt.Errorf("invalid cache_ttl: %w", err)
	}
	cfg.CacheTTL = ttl
	return cfg, nil
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return strings.TrimSpace(v)
}

func tenantHost(override, tenant, service string) string {
	if strings.TrimSpace(override) != "" {
		return strings.TrimRight(strings.TrimSpace(override), "/")
	}
	return fmt.Sprintf("https://%s.%s.api.brightspace.com", tenant, service)
}
