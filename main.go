package main

import (
	"aliyun_sms/config"
	"aliyun_sms/logger"
	"aliyun_sms/sms"
	"fmt"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

func newSender(cfg *config.AppConfig) (sms.Sender, error) {
	switch cfg.Provider {
	case "twilio":
		if cfg.TwilioSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioPhone == "" {
			return nil, fmt.Errorf("twilio provider selected but TWILIO_SID, TWILIO_AUTH_TOKEN or TWILIO_PHONE is missing")
		}
		return sms.NewTwilioSender(cfg.TwilioSID, cfg.TwilioAuthToken, cfg.TwilioPhone), nil
	default:
		sender, err := sms.NewAliyunSender(sms.AliyunConfig{
			AccessKeyID:     cfg.AliyunAccessKeyID,
			AccessKeySecret: cfg.AliyunAccessKeySecret,
			Endpoint:        cfg.AliyunEndpoint,
			RegionID:        cfg.AliyunRegionID,
		})
		if err != nil {
			return nil, err
		}
		return sender, nil
	}
}

// registeredTemplates turns the configured template codes into named templates
func registeredTemplates(cfg *config.AppConfig) map[string]*sms.Template {
	templates := make(map[string]*sms.Template, len(cfg.Templates))
	for name, code := range cfg.Templates {
		templates[name] = sms.NewTemplateBuilder().
			SignName(cfg.SignName).
			TemplateCode(code).
			Build()
	}
	return templates
}

func main() {
	cfg, err := config.Load("settings.env")
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg.LogLevel)
	if cfg.APIKey == "" {
		log.Warn("API_KEY is not set, /send-sms accepts unauthenticated requests")
	}

	sender, err := newSender(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to create sms sender")
	}

	client := sms.NewClient(sender,
		sms.WithLogger(log.WithField("provider", cfg.Provider)),
		sms.WithSignName(cfg.SignName),
		sms.WithTemplates(registeredTemplates(cfg)),
	)

	queue := sms.NewQueue(client, cfg.MaxQueueSize)
	queue.Start()
	defer queue.Stop()

	srv := &server{
		client: client,
		queue:  queue,
		apiKey: cfg.APIKey,
		logger: log,
	}
	rl := NewRateLimiter(rate.Limit(cfg.RateLimit), cfg.BurstLimit)

	log.Infof("Server is listening on port %s...", cfg.ServerPort)
	if err := http.ListenAndServe(":"+cfg.ServerPort, srv.routes(rl)); err != nil {
		log.WithError(err).Error("Server error")
		queue.Stop()
		os.Exit(1)
	}
}
