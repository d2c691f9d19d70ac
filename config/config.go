package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/lborres/accounts/core"
	"github.com/lborres/accounts/pkg/crypto"
)

const day = 24 * time.Hour

const (
	HasherBcrypt = "bcrypt"
	HasherArgon2 = "argon2"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Cookie   CookieConfig
	Password PasswordConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port     int
	BasePath string
}

type DatabaseConfig struct {
	URL string
}

type JWTConfig struct {
	Secret string
	Expire time.Duration
}

type CookieConfig struct {
	SignUpExpire time.Duration
	SignInExpire time.Duration
	Secure       bool
}

type PasswordConfig struct {
	Hasher     string
	BcryptCost int
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads .env (when present), then CONFIG_FILE (when set), then the
// environment, which wins over both.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	if p := os.Getenv("CONFIG_FILE"); p != "" {
		v.SetConfigFile(p)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", p, err)
		}
	}

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("PORT", 4000)
	v.SetDefault("BASE_PATH", "/api")
	v.SetDefault("DATABASE_URL", "memory://")
	v.SetDefault("JWT_EXPIRE", "48h")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("PASSWORD_HASHER", HasherBcrypt)
	v.SetDefault("BCRYPT_COST", crypto.DefaultBcryptCost)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	jwtExpire, err := ParseDuration(v.GetString("JWT_EXPIRE"))
	if err != nil {
		return nil, fmt.Errorf("JWT_EXPIRE: %w", err)
	}

	signUp, err := cookieExpire(v, "SIGNUP_COOKIE_EXPIRE", 2)
	if err != nil {
		return nil, err
	}
	signIn, err := cookieExpire(v, "LOGIN_COOKIE_EXPIRE", 1)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     v.GetInt("PORT"),
			BasePath: v.GetString("BASE_PATH"),
		},
		Database: DatabaseConfig{
			URL: v.GetString("DATABASE_URL"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SEC"),
			Expire: jwtExpire,
		},
		Cookie: CookieConfig{
			SignUpExpire: signUp,
			SignInExpire: signIn,
			Secure:       v.GetBool("COOKIE_SECURE"),
		},
		Password: PasswordConfig{
			Hasher:     strings.ToLower(v.GetString("PASSWORD_HASHER")),
			BcryptCost: v.GetInt("BCRYPT_COST"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.JWT.Secret == "" {
		errs = append(errs, fmt.Errorf("JWT_SEC: %w", core.ErrSecretRequired))
	}
	if c.JWT.Expire <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRE must be positive"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Server.Port))
	}
	switch c.Password.Hasher {
	case HasherBcrypt, HasherArgon2:
	default:
		errs = append(errs, fmt.Errorf("PASSWORD_HASHER %q is not one of %s, %s", c.Password.Hasher, HasherBcrypt, HasherArgon2))
	}
	return errors.Join(errs...)
}

// cookieExpire reads a retention in days from key, falling back to
// COOKIE_EXPIRE and then def.
func cookieExpire(v *viper.Viper, key string, def int) (time.Duration, error) {
	raw := v.GetString(key)
	if raw == "" {
		raw = v.GetString("COOKIE_EXPIRE")
	}
	if raw == "" {
		return time.Duration(def) * day, nil
	}

	days, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || days <= 0 {
		return 0, fmt.Errorf("%s: %q is not a positive number of days", key, raw)
	}
	return time.Duration(days) * day, nil
}

// ParseDuration accepts Go durations ("48h"), day counts ("2d") and bare
// seconds ("3600").
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty duration")
	}

	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}

	if strings.HasSuffix(s, "d") {
		n, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0, fmt.Errorf("invalid day count %q", s)
		}
		return time.Duration(n) * day, nil
	}

	return time.ParseDuration(s)
}

func (c *Config) TokenConfig() core.TokenConfig {
	return core.TokenConfig{TTL: c.JWT.Expire}
}

func (c *Config) CookieConfig() core.CookieConfig {
	cookie := core.DefaultCookieConfig()
	cookie.SignUpMaxAge = c.Cookie.SignUpExpire
	cookie.SignInMaxAge = c.Cookie.SignInExpire
	cookie.Secure = c.Cookie.Secure
	return cookie
}

func (c *Config) PasswordHasher() crypto.PasswordHandler {
	if c.Password.Hasher == HasherArgon2 {
		return crypto.NewArgon2()
	}
	return crypto.NewBcrypt(c.Password.BcryptCost)
}
