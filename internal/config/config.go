package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog sources.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Config represents the top-level YAML configuration.
type Config struct {
	Connection Connection `yaml:"connection"`
	Package    Package    `yaml:"package"`
	Catalogs   Catalogs   `yaml:"catalogs"`
	Canonical  []Source   `yaml:"canonical"`
	Output     string     `yaml:"output"`
}

// Connection holds database connection parameters.
type Connection struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// Package holds the package-level metadata copied into index.json.
type Package struct {
	IdentifierBase string `yaml:"identifier_base"`
	URLBase        string `yaml:"url_base"`
	Name           string `yaml:"name"`
	Version        string `yaml:"version"`
	Title          string `yaml:"title"`
	Description    string `yaml:"description"`
	Issued         string `yaml:"issued"`
	IsLatest       bool   `yaml:"is_latest"`
}

// Catalogs locates the three vocabulary catalogs. For the file source the
// entries are paths (relative to the config file); for postgres they are
// relation names inside Schema.
type Catalogs struct {
	Source      string `yaml:"source"`
	Tables      string `yaml:"tables"`
	Fields      string `yaml:"fields"`
	Predicates  string `yaml:"predicates"`
	Schema      string `yaml:"schema"`
	OrderColumn string `yaml:"order_column"`
}

// Source is one canonical term_versions table.
type Source struct {
	Name      string `yaml:"name"`
	Namespace string `yaml:"namespace"`
	URL       string `yaml:"url"`
}

// DefaultCanonical lists the TDWG vocabularies checked when none are configured.
func DefaultCanonical() []Source {
	return []Source{
		{Name: "Darwin Core", Namespace: "dwc:", URL: "https://raw.githubusercontent.com/tdwg/dwc/master/vocabulary/term_versions.csv"},
		{Name: "Humboldt Extension", Namespace: "eco:", URL: "https://raw.githubusercontent.com/tdwg/hc/main/vocabulary/term_versions.csv"},
		{Name: "ChronometricAge Extension", Namespace: "chrono:", URL: "https://raw.githubusercontent.com/tdwg/chrono/master/vocabulary/term_versions.csv"},
	}
}

// DSN builds a PostgreSQL connection string.
func (c *Connection) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.Host, c.Port, c.Database, c.User, c.Password, c.SSLMode,
	)
}

// Load reads and parses a YAML config file. Relative catalog paths and the
// output directory are resolved against the directory of path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// LoadCanonical reads only the canonical section of a config file, so a file
// listing nothing but canonical sources is accepted.
func LoadCanonical(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return ParseCanonical(data)
}

// ParseCanonical decodes the canonical section of YAML config data.
func ParseCanonical(data []byte) ([]Source, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.validateCanonical(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg.Canonical, nil
}

// Parse decodes YAML config data, applies env fallbacks and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyEnv fills in empty fields from environment variables.
// YAML values take precedence; env vars are used only as fallback.
func (c *Config) applyEnv() {
	conn := &c.Connection
	if conn.Host == "" {
		conn.Host = envOr("PGHOST", "POSTGRES_HOST")
	}
	if conn.Port == 0 {
		if s := envOr("PGPORT", "POSTGRES_PORT"); s != "" {
			if p, err := strconv.Atoi(s); err == nil {
				conn.Port = p
			}
		}
	}
	if conn.Database == "" {
		conn.Database = envOr("PGDATABASE", "POSTGRES_DB")
	}
	if conn.User == "" {
		conn.User = envOr("PGUSER", "POSTGRES_USER")
	}
	if conn.Password == "" {
		conn.Password = envOr("PGPASSWORD", "POSTGRES_PASSWORD")
	}
	if conn.SSLMode == "" {
		conn.SSLMode = envOr("PGSSLMODE")
	}

	if c.Package.URLBase == "" {
		c.Package.URLBase = envOr("VOCABPACK_URL_BASE")
	}
	if c.Package.IdentifierBase == "" {
		c.Package.IdentifierBase = envOr("VOCABPACK_ID_BASE")
	}
}

// envOr returns the first non-empty value from the given env var names.
func envOr(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}

// validate checks required fields and fills defaults.
func (c *Config) validate() error {
	p := &c.Package
	p.URLBase = strings.TrimRight(p.URLBase, "/")
	p.IdentifierBase = strings.TrimRight(p.IdentifierBase, "/")
	if p.Name == "" {
		return fmt.Errorf("package.name is required")
	}
	if p.Version == "" {
		return fmt.Errorf("package.version is required")
	}
	if p.URLBase == "" {
		return fmt.Errorf("package.url_base is required")
	}
	if p.IdentifierBase == "" {
		p.IdentifierBase = p.URLBase
	}

	cat := &c.Catalogs
	if cat.Source == "" {
		cat.Source = SourceFile
	}
	switch cat.Source {
	case SourceFile:
	case SourcePostgres:
		if err := c.validateConnection(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("catalogs.source must be %q or %q, got %q", SourceFile, SourcePostgres, cat.Source)
	}
	if cat.Tables == "" || cat.Fields == "" || cat.Predicates == "" {
		return fmt.Errorf("catalogs.tables, catalogs.fields and catalogs.predicates are required")
	}

	if err := c.validateCanonical(); err != nil {
		return err
	}

	if c.Output == "" {
		c.Output = "package"
	}
	return nil
}

// validateCanonical checks canonical sources and falls back to DefaultCanonical.
func (c *Config) validateCanonical() error {
	for i, s := range c.Canonical {
		if s.URL == "" {
			return fmt.Errorf("canonical[%d].url is required", i)
		}
		if s.Name == "" {
			c.Canonical[i].Name = s.URL
		}
	}
	if len(c.Canonical) == 0 {
		c.Canonical = DefaultCanonical()
	}
	return nil
}

// validateConnection checks connection fields needed for a PostgreSQL catalog source.
func (c *Config) validateConnection() error {
	if c.Connection.Host == "" {
		return fmt.Errorf("connection.host is required")
	}
	if c.Connection.Port == 0 {
		c.Connection.Port = 5432
	}
	if c.Connection.Database == "" {
		return fmt.Errorf("connection.database is required")
	}
	if c.Connection.User == "" {
		return fmt.Errorf("connection.user is required")
	}
	if c.Connection.SSLMode == "" {
		c.Connection.SSLMode = "disable"
	}
	if c.Catalogs.Schema == "" {
		c.Catalogs.Schema = "public"
	}
	return nil
}

func (c *Config) resolvePaths(dir string) {
	rel := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	if c.Catalogs.Source == SourceFile {
		c.Catalogs.Tables = rel(c.Catalogs.Tables)
		c.Catalogs.Fields = rel(c.Catalogs.Fields)
		c.Catalogs.Predicates = rel(c.Catalogs.Predicates)
	}
	c.Output = rel(c.Output)
}
