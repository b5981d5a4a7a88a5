package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		HTTPAddr string `koanf:"http_addr"`
		LogLevel string `koanf:"log_level"`
		LogFile  string `koanf:"log_file"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout  time.Duration `koanf:"read_timeout"`
		WriteTimeout time.Duration `koanf:"write_timeout"`
		IdleTimeout  time.Duration `koanf:"idle_timeout"`
		CORSOrigins  []string      `koanf:"cors_origins"`
	} `koanf:"http"`

	Upstream struct {
		BaseURL string        `koanf:"base_url"`
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"upstream"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
	} `koanf:"redis"`

	Session struct {
		Secret   string        `koanf:"secret"`
		Issuer   string        `koanf:"issuer"`
		Audience string        `koanf:"audience"`
		TTL      time.Duration `koanf:"ttl"`
	} `koanf:"session"`

	Idempotency struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"idempotency"`

	Workflow struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"workflow"`

	Toast struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"toast"`

	Catalog struct {
		CacheTTL time.Duration `koanf:"cache_ttl"`
	} `koanf:"catalog"`

	Tracking struct {
		Interval   time.Duration `koanf:"interval"`
		MaxBackoff time.Duration `koanf:"max_backoff"`
	} `koanf:"tracking"`

	Payment struct {
		CheckoutScriptURL string `koanf:"checkout_script_url"`
		KeySecret         string `koanf:"key_secret"`
	} `koanf:"payment"`
}

func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")
	// 1) base
	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	// 2) env override (dev/staging/prod). Optional: allow missing for local runs.
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	// 3) environment variables override (prefix MEALMATE_, nested with __)
	// e.g. MEALMATE_UPSTREAM__BASE_URL, MEALMATE_REDIS__PASSWORD
	if err := k.Load(env.Provider("MEALMATE_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "MEALMATE_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream.base_url required")
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("session.secret required")
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr required")
	}
	return nil
}
