// Package config resolves the CLI settings from flags and LIBRETRAN_*
// environment variables. No configuration file is read.
package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/valpere/libretran/internal/translator"
)

// EnvPrefix namespaces environment overrides, e.g. LIBRETRAN_TARGET.
const EnvPrefix = "LIBRETRAN"

// Keys match the long flag names bound into viper.
const (
	KeyURL      = "url"
	KeySource   = "source"
	KeyTarget   = "target"
	KeyFormat   = "format"
	KeyTimeout  = "timeout"
	KeyVerbose  = "verbose"
	KeyValidate = "validate"
)

// DefaultTimeout bounds a request unless --timeout says otherwise.
const DefaultTimeout = 30 * time.Second

// codeRe accepts endpoint-specific codes such as "zt" or "pb" that are not
// registered BCP 47 subtags.
var codeRe = regexp.MustCompile(`^[a-z]{2,3}(-[A-Za-z0-9]+)*$`)

// Config is the resolved setting set for one invocation.
type Config struct {
	BaseURL  string
	Source   string
	Target   string
	Format   string
	Timeout  time.Duration
	Verbose  bool
	Validate bool
}

// NewViper returns a viper instance with defaults and environment binding
// set up. Flags are bound by the caller.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyURL, translator.DefaultBaseURL)
	v.SetDefault(KeySource, translator.AutoDetect)
	v.SetDefault(KeyTarget, translator.DefaultTarget)
	v.SetDefault(KeyFormat, translator.FormatText)
	v.SetDefault(KeyTimeout, DefaultTimeout)

	return v
}

// Load reads and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		BaseURL:  strings.TrimSpace(v.GetString(KeyURL)),
		Source:   strings.TrimSpace(v.GetString(KeySource)),
		Target:   strings.TrimSpace(v.GetString(KeyTarget)),
		Format:   strings.TrimSpace(v.GetString(KeyFormat)),
		Timeout:  v.GetDuration(KeyTimeout),
		Verbose:  v.GetBool(KeyVerbose),
		Validate: v.GetBool(KeyValidate),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid endpoint URL %q: %w", c.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid endpoint URL %q: must be an absolute http(s) URL", c.BaseURL)
	}

	if c.Source != translator.AutoDetect {
		if err := checkCode(c.Source); err != nil {
			return fmt.Errorf("invalid source language %q: %w", c.Source, err)
		}
	}

	if c.Target == translator.AutoDetect {
		return fmt.Errorf("target language cannot be %q", translator.AutoDetect)
	}
	if err := checkCode(c.Target); err != nil {
		return fmt.Errorf("invalid target language %q: %w", c.Target, err)
	}

	switch c.Format {
	case translator.FormatText, translator.FormatHTML:
	default:
		return fmt.Errorf("invalid format %q: must be %q or %q", c.Format, translator.FormatText, translator.FormatHTML)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative: %v", c.Timeout)
	}
	return nil
}

// checkCode accepts any BCP 47 tag, plus well-formed codes the endpoint may
// define on its own. Whether the pair is supported is left to the endpoint.
func checkCode(code string) error {
	_, err := language.Parse(code)
	if err == nil || codeRe.MatchString(code) {
		return nil
	}
	return err
}

// Request builds the translation request for text from the configured
// language pair and format.
func (c *Config) Request(text string) translator.TranslateRequest {
	req := translator.NewRequest(text)
	req.Source = c.Source
	req.Target = c.Target
	req.Format = c.Format
	return req
}
