package config

import "time"

var (
	APIURL       string
	PollInterval = 15 * time.Second
	RateLimit    = 10.0
	LogLevel     = "info"
)

var (
	SessionPath string
)

var (
	InfluxURL    string
	InfluxToken  string
	InfluxOrg    string
	InfluxBucket string
)

var (
	EventQueueURL string
	AWSRegion     = "ap-northeast-2"

	AccessKeyID     string
	SecretAccessKey string
)

var (
	MetricsAddr string
)
