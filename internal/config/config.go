package config

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "strconv"
    "strings"

    "github.com/joho/godotenv"
)

type Server struct {
    Port              string `json:"port"`
    RequestTimeoutSec int    `json:"request_timeout_sec"`
}

type Brapi struct {
    APIKey     string `json:"api_key"`
    BaseURL    string `json:"base_url"`
    TimeoutSec int    `json:"timeout_sec"`
}

type Yahoo struct {
    Enabled         bool   `json:"enabled"`
    DownloadURL     string `json:"download_url"`
    TimeoutSec      int    `json:"timeout_sec"`
    ProbeDelayMS    int    `json:"probe_delay_ms"`
    DownloadDelayMS int    `json:"download_delay_ms"`
}

type Log struct {
    Level string `json:"level"`
}

type Config struct {
    Server Server `json:"server"`
    Brapi  Brapi  `json:"brapi"`
    Yahoo  Yahoo  `json:"yahoo"`
    Log    Log    `json:"log"`
}

func Default() Config {
    return Config{
        Server: Server{Port: "8080", RequestTimeoutSec: 30},
        Brapi: Brapi{
            BaseURL:    "https://brapi.dev/api",
            TimeoutSec: 10,
        },
        Yahoo: Yahoo{
            Enabled:         true,
            DownloadURL:     "https://query1.finance.yahoo.com/v7/finance/download/{symbol}",
            TimeoutSec:      60,
            ProbeDelayMS:    500,
            DownloadDelayMS: 1000,
        },
        Log: Log{Level: "info"},
    }
}

// Load reads JSON config from path, falling back to CONFIG_FILE and then
// ./config.json. A missing file yields defaults. Variables from ./.env are
// loaded into the environment, which then overrides select fields.
func Load(path string) (Config, error) {
    cfg := Default()
    if path == "" {
        path = os.Getenv("CONFIG_FILE")
    }
    if path == "" {
        if _, err := os.Stat("config.json"); err == nil {
            path = "config.json"
        }
    }
    if path != "" {
        b, err := os.ReadFile(path)
        if err != nil && !errors.Is(err, os.ErrNotExist) {
            return cfg, fmt.Errorf("read config: %w", err)
        }
        if err == nil {
            if err := json.Unmarshal(b, &cfg); err != nil {
                return cfg, fmt.Errorf("parse config: %w", err)
            }
        }
    }
    // Existing environment variables win over .env entries.
    if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
        return cfg, fmt.Errorf("load .env: %w", err)
    }
    applyEnv(&cfg)
    return cfg, nil
}

func applyEnv(cfg *Config) {
    if v := os.Getenv("PORT"); v != "" {
        cfg.Server.Port = v
    }
    if x, ok := envInt("REQUEST_TIMEOUT_SEC"); ok && x > 0 {
        cfg.Server.RequestTimeoutSec = x
    }

    if v := os.Getenv("BRAPI_API_KEY"); v != "" {
        cfg.Brapi.APIKey = v
    }
    if v := os.Getenv("BRAPI_BASE_URL"); v != "" {
        cfg.Brapi.BaseURL = strings.TrimRight(v, "/")
    }
    if x, ok := envInt("BRAPI_TIMEOUT_SEC"); ok && x > 0 {
        cfg.Brapi.TimeoutSec = x
    }

    if v := os.Getenv("YAHOO_ENABLED"); v != "" {
        switch strings.ToLower(v) {
        case "1", "true", "yes", "y":
            cfg.Yahoo.Enabled = true
        case "0", "false", "no", "n":
            cfg.Yahoo.Enabled = false
        }
    }
    if v := os.Getenv("YAHOO_DOWNLOAD_URL"); v != "" {
        cfg.Yahoo.DownloadURL = v
    }
    if x, ok := envInt("YAHOO_PROBE_DELAY_MS"); ok && x >= 0 {
        cfg.Yahoo.ProbeDelayMS = x
    }
    if x, ok := envInt("YAHOO_DOWNLOAD_DELAY_MS"); ok && x >= 0 {
        cfg.Yahoo.DownloadDelayMS = x
    }

    if v := os.Getenv("LOG_LEVEL"); v != "" {
        cfg.Log.Level = v
    }
}

func envInt(key string) (int, bool) {
    v := os.Getenv(key)
    if v == "" {
        return 0, false
    }
    x, err := strconv.Atoi(strings.TrimSpace(v))
    return x, err == nil
}
