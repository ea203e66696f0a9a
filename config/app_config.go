package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const templateEnvPrefix = "SMS_TEMPLATE_"

type AppConfig struct {
	ServerPort   string
	RateLimit    float64 // Requests per second
	BurstLimit   int     // Burst requests allowed
	MaxQueueSize int     // Maximum SMS queue size
	APIKey       string
	LogLevel     string

	Provider string // "aliyun" or "twilio"
	SignName string // Default signature for templates that carry none

	AliyunAccessKeyID     string
	AliyunAccessKeySecret string
	AliyunEndpoint        string
	AliyunRegionID        string

	TwilioSID       string
	TwilioAuthToken string
	TwilioPhone     string

	// Templates maps a lower-cased name to a provider template code
	Templates map[string]string
}

// Load reads settings from the dotenv file at path. Variables already present
// in the process environment win over the file. A missing file is not an error.
func Load(path string) (*AppConfig, error) {
	file, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		file = map[string]string{}
	}

	env := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return file[key]
	}

	serverPort := env("SERVER_PORT")
	if serverPort == "" {
		serverPort = "5643"
	}

	provider := strings.ToLower(env("SMS_PROVIDER"))
	if provider != "aliyun" && provider != "twilio" {
		provider = "aliyun" // default
	}

	rateLimit, err := strconv.ParseFloat(env("RATE_LIMIT"), 64)
	if err != nil || rateLimit <= 0 {
		rateLimit = 1
	}

	burstLimit, err := strconv.Atoi(env("BURST_LIMIT"))
	if err != nil || burstLimit <= 0 {
		burstLimit = 5
	}

	maxQueueSize, err := strconv.Atoi(env("MAX_QUEUE_SIZE"))
	if err != nil || maxQueueSize <= 0 {
		maxQueueSize = 100
	}

	endpoint := env("ALIYUN_SMS_ENDPOINT")
	if endpoint == "" {
		endpoint = "dysmsapi.aliyuncs.com"
	}

	regionID := env("ALIYUN_REGION_ID")
	if regionID == "" {
		regionID = "cn-hangzhou"
	}

	templates := make(map[string]string)
	collect := func(key, value string) {
		if name, ok := strings.CutPrefix(key, templateEnvPrefix); ok && name != "" && value != "" {
			templates[strings.ToLower(name)] = value
		}
	}
	for key, value := range file {
		collect(key, value)
	}
	for _, kv := range os.Environ() {
		if key, value, ok := strings.Cut(kv, "="); ok {
			collect(key, value)
		}
	}

	return &AppConfig{
		ServerPort:            serverPort,
		RateLimit:             rateLimit,
		BurstLimit:            burstLimit,
		MaxQueueSize:          maxQueueSize,
		APIKey:                env("API_KEY"),
		LogLevel:              strings.ToLower(env("LOG_LEVEL")),
		Provider:              provider,
		SignName:              env("SMS_SIGN_NAME"),
		AliyunAccessKeyID:     env("ALIYUN_ACCESS_KEY_ID"),
		AliyunAccessKeySecret: env("ALIYUN_ACCESS_KEY_SECRET"),
		AliyunEndpoint:        endpoint,
		AliyunRegionID:        regionID,
		TwilioSID:             env("TWILIO_SID"),
		TwilioAuthToken:       env("TWILIO_AUTH_TOKEN"),
		TwilioPhone:           env("TWILIO_PHONE"),
		Templates:             templates,
	}, nil
}
