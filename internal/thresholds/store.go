// Package thresholds loads and resolves reference thresholds per country,
// phase, medium and parameter. Lookups fail softly: a parameter without a
// configured threshold is excluded from scoring, never an error.
package thresholds

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"envrisk/internal/domain"
	"envrisk/internal/metrics"
	"envrisk/internal/ports"
)

const (
	// DefaultCountry selects the built-in tables only.
	DefaultCountry = "default"

	loadTTL = 24 * time.Hour
)

// Store resolves thresholds with the fallback chain
// (phase, country, medium, parameter) -> (country, medium, parameter) ->
// built-in default -> fuzzy name match -> nil.
type Store struct {
	dir    string
	cache  ports.Cache
	logger *slog.Logger
	ttl    time.Duration
}

// NewStore creates a store reading country files from dir. An empty dir
// disables file loading; only built-in tables apply. The cache memoizes
// parsed files and may be shared with other components.
func NewStore(dir string, cache ports.Cache, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, cache: cache, logger: logger, ttl: loadTTL}
}

// countryTables holds the parsed phase-oriented overlay for one country.
type countryTables struct {
	media  map[domain.Medium]map[string]domain.ThresholdSpec
	phases map[domain.Phase]map[domain.Medium]map[string]domain.ThresholdSpec
}

// Lookup resolves the threshold for a parameter. It returns nil when nothing
// is configured; callers must treat nil as "excluded from scoring".
func (s *Store) Lookup(parameter string, medium domain.Medium, country string, phase domain.Phase) *domain.ThresholdSpec {
	t := s.tables(country)

	if phase != "" {
		if sp, ok := t.phases[phase][medium][parameter]; ok {
			return &sp
		}
	}
	if sp, ok := t.media[medium][parameter]; ok {
		return &sp
	}
	if sp, ok := builtinSpecs[medium][parameter]; ok {
		return &sp
	}

	if phase != "" {
		if sp := fuzzyMatch(t.phases[phase][medium], parameter); sp != nil {
			return sp
		}
	}
	if sp := fuzzyMatch(t.media[medium], parameter); sp != nil {
		return sp
	}
	return fuzzyMatch(builtinSpecs[medium], parameter)
}

// fuzzyMatch finds a spec whose key and the parameter name contain each
// other, case-insensitively. Keys are visited in sorted order so the match is
// deterministic.
func fuzzyMatch(table map[string]domain.ThresholdSpec, parameter string) *domain.ThresholdSpec {
	if len(table) == 0 {
		return nil
	}
	needle := strings.ToLower(strings.TrimSpace(parameter))
	if needle == "" {
		return nil
	}
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		key := strings.ToLower(k)
		if strings.Contains(key, needle) || strings.Contains(needle, key) {
			sp := table[k]
			return &sp
		}
	}
	return nil
}

// LoadCountry returns the snapshot scoring configuration for a country. It
// never fails: a missing or malformed file logs a warning and falls back to
// the built-in defaults, reported through the degraded flag.
func (s *Store) LoadCountry(country string) (cfg *CountryConfig, degraded bool) {
	if country == "" || country == DefaultCountry || s.dir == "" {
		return DefaultCountryConfig(), false
	}

	type cached struct {
		cfg      *CountryConfig
		degraded bool
	}
	key := "thresholds:country:" + country
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			if c, ok := v.(cached); ok {
				return c.cfg, c.degraded
			}
		}
	}

	cfg, degraded = s.loadCountryFile(country)
	if s.cache != nil {
		s.cache.Put(key, cached{cfg: cfg, degraded: degraded}, s.ttl)
	}
	return cfg, degraded
}

func (s *Store) loadCountryFile(country string) (*CountryConfig, bool) {
	path := filepath.Join(s.dir, fmt.Sprintf("thresholds_%s.json", country))
	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Warn("country thresholds unavailable, using built-in defaults",
			slog.String("country", country), slog.String("path", path), slog.String("error", err.Error()))
		metrics.ThresholdFallbacks.Inc()
		return DefaultCountryConfig(), true
	}
	cfg, err := parseCountryConfig(data, country)
	if err != nil {
		s.logger.Warn("country thresholds malformed, using built-in defaults",
			slog.String("country", country), slog.String("error", err.Error()))
		metrics.ThresholdFallbacks.Inc()
		return DefaultCountryConfig(), true
	}
	s.logger.Debug("country thresholds loaded",
		slog.String("country", country), slog.Int("media", len(cfg.Media)))
	return cfg, false
}

// tables returns the phase-oriented overlay for a country, loading and
// caching the YAML file on first use.
func (s *Store) tables(country string) countryTables {
	if country == "" || country == DefaultCountry || s.dir == "" {
		return countryTables{}
	}
	key := "thresholds:tables:" + country
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			if t, ok := v.(countryTables); ok {
				return t
			}
		}
	}
	t := s.loadOverlayFile(country)
	if s.cache != nil {
		s.cache.Put(key, t, s.ttl)
	}
	return t
}

// specEntry is one threshold entry in the YAML overlay. Kind is optional and
// inferred from which bounds are present.
type specEntry struct {
	Kind   string   `yaml:"kind"`
	Min    *float64 `yaml:"min"`
	Max    *float64 `yaml:"max"`
	Target *float64 `yaml:"target"`
	Unit   string   `yaml:"unit"`
}

type overlayFile struct {
	Country string                                     `yaml:"country"`
	Media   map[string]map[string]specEntry            `yaml:"media"`
	Phases  map[string]map[string]map[string]specEntry `yaml:"phases"`
}

func (s *Store) loadOverlayFile(country string) countryTables {
	path := filepath.Join(s.dir, fmt.Sprintf("thresholds_%s.yaml", country))
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("phase thresholds unreadable, using built-in defaults",
				slog.String("country", country), slog.String("error", err.Error()))
		}
		return countryTables{}
	}

	var file overlayFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		s.logger.Warn("phase thresholds malformed, using built-in defaults",
			slog.String("country", country), slog.String("error", err.Error()))
		return countryTables{}
	}

	t := countryTables{
		media:  make(map[domain.Medium]map[string]domain.ThresholdSpec),
		phases: make(map[domain.Phase]map[domain.Medium]map[string]domain.ThresholdSpec),
	}
	for mediumName, params := range file.Media {
		medium, table := s.parseMediumTable(mediumName, params)
		if table != nil {
			t.media[medium] = table
		}
	}
	for phaseName, media := range file.Phases {
		phase, err := domain.ParsePhase(phaseName)
		if err != nil {
			s.logger.Warn("phase thresholds: skipping entry", slog.String("error", err.Error()))
			continue
		}
		t.phases[phase] = make(map[domain.Medium]map[string]domain.ThresholdSpec)
		for mediumName, params := range media {
			medium, table := s.parseMediumTable(mediumName, params)
			if table != nil {
				t.phases[phase][medium] = table
			}
		}
	}
	return t
}

func (s *Store) parseMediumTable(mediumName string, params map[string]specEntry) (domain.Medium, map[string]domain.ThresholdSpec) {
	medium, err := domain.ParseMedium(mediumName)
	if err != nil {
		s.logger.Warn("phase thresholds: skipping medium", slog.String("error", err.Error()))
		return "", nil
	}
	table := make(map[string]domain.ThresholdSpec, len(params))
	for name, entry := range params {
		sp, err := entry.toSpec(name, medium)
		if err != nil {
			s.logger.Warn("phase thresholds: skipping parameter",
				slog.String("parameter", name), slog.String("error", err.Error()))
			continue
		}
		table[name] = sp
	}
	return medium, table
}

func (e specEntry) toSpec(parameter string, medium domain.Medium) (domain.ThresholdSpec, error) {
	kind := domain.ThresholdKind(e.Kind)
	if e.Kind == "" {
		switch {
		case e.Target != nil:
			kind = domain.ThresholdTarget
		case e.Min != nil && e.Max != nil:
			kind = domain.ThresholdRange
		case e.Max != nil:
			kind = domain.ThresholdMax
		case e.Min != nil:
			kind = domain.ThresholdMin
		default:
			return domain.ThresholdSpec{}, fmt.Errorf("threshold %s: no bounds given", parameter)
		}
	}
	sp := domain.ThresholdSpec{
		Parameter: parameter,
		Medium:    medium,
		Kind:      kind,
		Min:       e.Min,
		Max:       e.Max,
		Target:    e.Target,
		Unit:      e.Unit,
	}
	if err := sp.Validate(); err != nil {
		return domain.ThresholdSpec{}, err
	}
	return sp, nil
}
