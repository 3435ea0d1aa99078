package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const defaultSessionFile = ".crackdash/session"

func LoadFromEnv() error {
	APIURL = envOr("API_URL", APIURL)
	LogLevel = envOr("LOG_LEVEL", LogLevel)

	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "parsing POLL_INTERVAL")
		}
		PollInterval = d
	}

	if v := os.Getenv("RATE_LIMIT"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrap(err, "parsing RATE_LIMIT")
		}
		RateLimit = r
	}

	SessionPath = envOr("SESSION_PATH", SessionPath)
	if SessionPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "resolving home directory")
		}
		SessionPath = filepath.Join(home, defaultSessionFile)
	}

	InfluxURL = envOr("INFLUX_URL", InfluxURL)
	InfluxToken = envOr("INFLUX_TOKEN", InfluxToken)
	InfluxOrg = envOr("INFLUX_ORG", InfluxOrg)
	InfluxBucket = envOr("INFLUX_BUCKET", InfluxBucket)

	EventQueueURL = envOr("EVENT_QUEUE_URL", EventQueueURL)
	AWSRegion = envOr("AWS_REGION", AWSRegion)
	AccessKeyID = envOr("ACCESS_KEY_ID", AccessKeyID)
	SecretAccessKey = envOr("SECRET_ACCESS_KEY", SecretAccessKey)

	MetricsAddr = envOr("METRICS_ADDR", MetricsAddr)

	return nil
}

type fileConfig struct {
	API struct {
		URL          string        `yaml:"url"`
		PollInterval time.Duration `yaml:"poll_interval"`
		RateLimit    float64       `yaml:"rate_limit"`
	} `yaml:"api"`

	Session struct {
		Path string `yaml:"path"`
	} `yaml:"session"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Influx struct {
		URL    string `yaml:"url"`
		Token  string `yaml:"token"`
		Org    string `yaml:"org"`
		Bucket string `yaml:"bucket"`
	} `yaml:"influx"`

	Events struct {
		QueueURL string `yaml:"queue_url"`
		Region   string `yaml:"region"`
	} `yaml:"events"`

	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
}

// LoadFromFile overlays values found in the YAML file at path.
// Keys missing from the file keep their current value.
func LoadFromFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading config file")
	}

	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return errors.Wrap(err, "decoding config file")
	}

	APIURL = orDefault(fc.API.URL, APIURL)
	if fc.API.PollInterval > 0 {
		PollInterval = fc.API.PollInterval
	}
	if fc.API.RateLimit > 0 {
		RateLimit = fc.API.RateLimit
	}

	SessionPath = orDefault(fc.Session.Path, SessionPath)
	LogLevel = orDefault(fc.Log.Level, LogLevel)

	InfluxURL = orDefault(fc.Influx.URL, InfluxURL)
	InfluxToken = orDefault(fc.Influx.Token, InfluxToken)
	InfluxOrg = orDefault(fc.Influx.Org, InfluxOrg)
	InfluxBucket = orDefault(fc.Influx.Bucket, InfluxBucket)

	EventQueueURL = orDefault(fc.Events.QueueURL, EventQueueURL)
	AWSRegion = orDefault(fc.Events.Region, AWSRegion)

	MetricsAddr = orDefault(fc.Metrics.Addr, MetricsAddr)

	return nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
