package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env             string
		Build           string
		AppName         string
		Debug           bool
		TestMode        bool
		SecretKey       string
		WorkDir         string
		FrontendBaseURL string
		SendgridApiKey  string
		RollbarToken    string
		defaultFromMail string

		Server   ServerConfig
		Sheets   SheetsConfig
		Progress ProgressConfig
		Sim      SimConfig
	}

	ServerConfig struct {
		Host                      string
		Address                   string
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	// SheetsConfig configures the remote spreadsheet endpoint client.
	SheetsConfig struct {
		URL       string
		CacheTTL  time.Duration
		Timeout   time.Duration
		PruneSpec string // cron schedule
	}

	// ProgressConfig holds the product knobs of progress reconciliation.
	// PointsCap <= 0 means earned points are not capped.
	ProgressConfig struct {
		DueSoonDays int
		PointsCap   int
		TaskGrade   int
	}

	// SimConfig configures the local sheet endpoint emulator.
	SimConfig struct {
		Address string
		DBPath  string
	}
)

// NewConfig loads the configuration from defaults, `config/.env.<env>` (if any) and the environment.
// Environment variables are prefixed with the env name, e.g. `PROD_SHEETS_URL`.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("build", "dev")
	v.SetDefault("appName", "Huda Academy")
	v.SetDefault("secretKey", "k2x=9f$w7@hb+dq4!ru(1j#zo6e&ya*ml_3v5cnt8pgsi0^")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("server.jwtRefreshExpirationDelta", 4*time.Hour)

	v.SetDefault("sheets.url", "http://localhost:8090/exec")
	v.SetDefault("sheets.cacheTTL", 2*time.Minute)
	v.SetDefault("sheets.timeout", 15*time.Second)
	v.SetDefault("sheets.pruneSpec", "@every 5m")

	v.SetDefault("progress.dueSoonDays", 3)
	v.SetDefault("progress.pointsCap", 0)
	v.SetDefault("progress.taskGrade", 100)

	v.SetDefault("sim.address", ":8090")
	v.SetDefault("sim.dbPath", "sheets.db")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:             env,
		Build:           v.GetString("build"),
		AppName:         v.GetString("appName"),
		Debug:           v.GetBool("debug"),
		TestMode:        v.GetBool("testMode"),
		SecretKey:       v.GetString("secretKey"),
		WorkDir:         wd,
		FrontendBaseURL: v.GetString("frontendBaseURL"),
		SendgridApiKey:  v.GetString("sendgridApiKey"),
		RollbarToken:    v.GetString("rollbarToken"),
		defaultFromMail: v.GetString("defaultFromEmail"),
		Server: ServerConfig{
			Host:                      v.GetString("server.host"),
			Address:                   v.GetString("server.address"),
			DebugHost:                 v.GetString("server.debugHost"),
			ShutdownTimeout:           v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("server.jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("server.jwtRefreshExpirationDelta"),
		},
		Sheets: SheetsConfig{
			URL:       v.GetString("sheets.url"),
			CacheTTL:  v.GetDuration("sheets.cacheTTL"),
			Timeout:   v.GetDuration("sheets.timeout"),
			PruneSpec: v.GetString("sheets.pruneSpec"),
		},
		Progress: ProgressConfig{
			DueSoonDays: v.GetInt("progress.dueSoonDays"),
			PointsCap:   v.GetInt("progress.pointsCap"),
			TaskGrade:   v.GetInt("progress.taskGrade"),
		},
		Sim: SimConfig{
			Address: v.GetString("sim.address"),
			DBPath:  v.GetString("sim.dbPath"),
		},
	}
}

// DefaultFromEmail parses the configured sender address, falling back to a bare address.
func (c *Config) DefaultFromEmail() mail.Address {
	addr, err := mail.ParseAddress(c.defaultFromMail)
	if err != nil {
		return mail.Address{Name: c.AppName, Address: c.defaultFromMail}
	}
	if addr.Name == "" {
		addr.Name = c.AppName
	}
	return *addr
}

// SetDefaultFromEmail overrides the sender address, mostly for tests.
func (c *Config) SetDefaultFromEmail(addr string) {
	c.defaultFromMail = addr
}
