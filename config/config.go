package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"m3u-playlist-merger/m3u"
	"m3u-playlist-merger/utils"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// MaxEnvSources is the number of PLAYLIST_URL_n variables consulted.
const MaxEnvSources = 3

const (
	DefaultOutputPath   = "playlist.m3u"
	DefaultSportsLogo   = "https://i.postimg.cc/rwbHWYY7/livesports.png"
	DefaultFetchTimeout = 12 * time.Second
)

var DefaultSportsKeywords = []string{
	"sports", "live sports", "sport",
	"football", "footbol", "cricket",
}

type Promo struct {
	Name  string `yaml:"name"`
	Logo  string `yaml:"logo"`
	Group string `yaml:"group"`
	URL   string `yaml:"url"`
}

func (p Promo) Channel() m3u.Channel {
	return m3u.Channel{
		Name:    p.Name,
		LogoURL: p.Logo,
		Group:   p.Group,
		URL:     p.URL,
	}
}

var DefaultPromo = Promo{
	Name:  "HOME CHANNEL",
	Logo:  "https://i.postimg.cc/Kvzz5Pt4/joinus.png",
	Group: "JOIN TELEGRAM",
	URL:   "https://raw.githubusercontent.com/unosottor/unosottor.github.io/refs/heads/main/notice/index.m3u8",
}

type Config struct {
	Sources        []string      `yaml:"sources"`
	OutputPath     string        `yaml:"output_path"`
	SportsLogo     string        `yaml:"sports_logo"`
	SportsKeywords []string      `yaml:"sports_keywords"`
	Promo          Promo         `yaml:"promo"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout"`
	UserAgent      string        `yaml:"user_agent"`
	SyncCron       string        `yaml:"sync_cron"`
	SyncOnBoot     bool          `yaml:"sync_on_boot"`
}

func Default() *Config {
	return &Config{
		OutputPath:     DefaultOutputPath,
		SportsLogo:     DefaultSportsLogo,
		SportsKeywords: append([]string(nil), DefaultSportsKeywords...),
		Promo:          DefaultPromo,
		FetchTimeout:   DefaultFetchTimeout,
		UserAgent:      utils.DefaultUserAgent,
		SyncOnBoot:     true,
	}
}

// Load builds the configuration from defaults, the optional YAML file named
// by CONFIG_FILE, and finally the environment.
func Load(fs afero.Fs) (*Config, error) {
	cfg := Default()

	if path, ok := utils.LookupEnvTrimmed("CONFIG_FILE"); ok {
		if err := LoadFile(fs, path, cfg); err != nil {
			return nil, err
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	return cfg, nil
}

// LoadFile overlays the YAML document at path onto cfg. Fields missing from
// the document keep their current values.
func LoadFile(fs afero.Fs, path string, cfg *Config) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("error reading config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("error parsing config file %s: %w", path, err)
	}

	return nil
}

// ApplyEnv overrides cfg with every environment variable that is set to a
// non-blank value. PLAYLIST_URL_1..3 replace the source list as a whole.
func ApplyEnv(cfg *Config) error {
	var sources []string
	for i := 1; i <= MaxEnvSources; i++ {
		if src, ok := utils.LookupEnvTrimmed(fmt.Sprintf("PLAYLIST_URL_%d", i)); ok {
			sources = append(sources, src)
		}
	}
	if len(sources) > 0 {
		cfg.Sources = sources
	}

	if v, ok := utils.LookupEnvTrimmed("OUTPUT_PATH"); ok {
		cfg.OutputPath = v
	}
	if v, ok := utils.LookupEnvTrimmed("SPORTS_LOGO"); ok {
		cfg.SportsLogo = v
	}
	if v, ok := utils.LookupEnvTrimmed("SPORTS_KEYWORDS"); ok {
		cfg.SportsKeywords = utils.SplitList(v)
	}
	if v, ok := utils.LookupEnvTrimmed("PROMO_NAME"); ok {
		cfg.Promo.Name = v
	}
	if v, ok := utils.LookupEnvTrimmed("PROMO_LOGO"); ok {
		cfg.Promo.Logo = v
	}
	if v, ok := utils.LookupEnvTrimmed("PROMO_GROUP"); ok {
		cfg.Promo.Group = v
	}
	if v, ok := utils.LookupEnvTrimmed("PROMO_URL"); ok {
		cfg.Promo.URL = v
	}
	if v, ok := utils.LookupEnvTrimmed("USER_AGENT"); ok {
		cfg.UserAgent = v
	}
	if v, ok := utils.LookupEnvTrimmed("SYNC_CRON"); ok {
		cfg.SyncCron = v
	}

	if v, ok := utils.LookupEnvTrimmed("FETCH_TIMEOUT"); ok {
		timeout, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("invalid FETCH_TIMEOUT %q: %w", v, err)
		}
		cfg.FetchTimeout = timeout
	}

	if v, ok := utils.LookupEnvTrimmed("SYNC_ON_BOOT"); ok {
		onBoot, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SYNC_ON_BOOT %q: %w", v, err)
		}
		cfg.SyncOnBoot = onBoot
	}

	return nil
}

// parseTimeout accepts a Go duration ("12s", "1m") or a bare number of seconds.
func parseTimeout(value string) (time.Duration, error) {
	if seconds, err := strconv.ParseFloat(value, 64); err == nil {
		if seconds <= 0 {
			return 0, fmt.Errorf("timeout must be positive")
		}
		return time.Duration(seconds * float64(time.Second)), nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive")
	}
	return d, nil
}

// normalize drops blank sources and keywords and fills zero values that
// would make a run meaningless.
func (c *Config) normalize() {
	sources := c.Sources[:0]
	for _, src := range c.Sources {
		if src = strings.TrimSpace(src); src != "" {
			sources = append(sources, src)
		}
	}
	c.Sources = sources

	var keywords []string
	for _, kw := range c.SportsKeywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	c.SportsKeywords = keywords

	if strings.TrimSpace(c.OutputPath) == "" {
		c.OutputPath = DefaultOutputPath
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		c.UserAgent = utils.DefaultUserAgent
	}
	c.SyncCron = strings.TrimSpace(c.SyncCron)
}
