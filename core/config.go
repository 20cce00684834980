package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Address         string
		DebugAddress    string
		ShutdownTimeout time.Duration
		AccessTokenTTL  time.Duration
		LatencyMin      time.Duration
		LatencyMax      time.Duration
		DisableReqLogs  bool
	}

	ClientConfig struct {
		BaseURL   string
		Timeout   time.Duration
		TokenFile string
	}

	Config struct {
		Debug        bool
		TestMode     bool
		Env          string
		AppName      string
		Build        string
		SecretKey    string
		RollbarToken string
		Server       ServerConfig
		Client       ClientConfig
	}
)

// NewConfig reads the configuration from defaults, the environment and an optional `config/.env.<env>` file.
// ENV selects the environment: DEV (local; default), TEST, QA, PROD.
func NewConfig() *Config {
	conf := viper.New()

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", env == "DEV" || env == "TEST")
	conf.SetDefault("testMode", env == "TEST")
	conf.SetDefault("appName", "Portal do Professor")
	conf.SetDefault("build", "develop")
	conf.SetDefault("secretKey", "k3l9-pq)xvm$+81=rt&zoah4(c!w)#*b7(#fe2^$dsgk5pn")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("server.address", ":8000")
	conf.SetDefault("server.debugAddress", ":4000")
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("server.accessTokenTTL", time.Hour)
	conf.SetDefault("server.latencyMin", 150*time.Millisecond)
	conf.SetDefault("server.latencyMax", 450*time.Millisecond)
	conf.SetDefault("server.disableReqLogs", false)
	conf.SetDefault("client.baseURL", "http://localhost:8000/api")
	conf.SetDefault("client.timeout", 10*time.Second)
	conf.SetDefault("client.tokenFile", defaultTokenFile())

	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	cfg := &Config{
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		Env:          env,
		AppName:      conf.GetString("appName"),
		Build:        conf.GetString("build"),
		SecretKey:    conf.GetString("secretKey"),
		RollbarToken: conf.GetString("rollbarToken"),
		Server: ServerConfig{
			Address:         conf.GetString("server.address"),
			DebugAddress:    conf.GetString("server.debugAddress"),
			ShutdownTimeout: conf.GetDuration("server.shutdownTimeout"),
			AccessTokenTTL:  conf.GetDuration("server.accessTokenTTL"),
			LatencyMin:      conf.GetDuration("server.latencyMin"),
			LatencyMax:      conf.GetDuration("server.latencyMax"),
			DisableReqLogs:  conf.GetBool("server.disableReqLogs"),
		},
		Client: ClientConfig{
			BaseURL:   conf.GetString("client.baseURL"),
			Timeout:   conf.GetDuration("client.timeout"),
			TokenFile: conf.GetString("client.tokenFile"),
		},
	}
	if cfg.TestMode {
		cfg.Server.LatencyMin, cfg.Server.LatencyMax = 0, 0
	}
	return cfg
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "portal-professor", "tokens.json")
}
