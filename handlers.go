package main

import (
	"aliyun_sms/sms"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

const paramFieldPrefix = "param."

type server struct {
	client *sms.Client
	queue  *sms.Queue
	apiKey string
	logger logrus.FieldLogger
}

func (s *server) routes(rl *RateLimiter) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "pong")
	})
	mux.Handle("/send-sms", rl.LimitMiddleware(http.HandlerFunc(s.handleSendSMS)))
	return mux
}

func (s *server) authenticate(r *http.Request) bool {
	if s.apiKey == "" {
		return true
	}
	return r.Header.Get("Authorization") == s.apiKey
}

// handleSendSMS validates the request synchronously and queues the template
func (s *server) handleSendSMS(w http.ResponseWriter, r *http.Request) {
	if !s.authenticate(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	tpl, err := s.templateFromForm(r)
	if err == nil {
		tpl, err = s.client.Prepare(tpl)
	}
	if err != nil {
		if errors.Is(err, sms.ErrInvalidArgument) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.logger.WithError(err).Error("Failed to prepare sms")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if !s.queue.TryEnqueue(tpl) {
		http.Error(w, "SMS queue is full or stopped", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte("SMS queued successfully\n"))
}

func (s *server) templateFromForm(r *http.Request) (*sms.Template, error) {
	var b *sms.TemplateBuilder
	if name := r.FormValue("template"); name != "" {
		tpl, ok := s.client.Template(name)
		if !ok {
			return nil, &sms.ArgumentError{Message: "Unknown template '" + name + "'"}
		}
		b = tpl.ToBuilder()
	} else {
		b = sms.NewTemplateBuilder().TemplateCode(r.FormValue("template_code"))
	}

	if signName := r.FormValue("sign_name"); signName != "" {
		b.SignName(signName)
	}

	var phones []string
	for _, p := range strings.Split(r.FormValue("phone"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			phones = append(phones, p)
		}
	}
	b.PhoneNumbers(phones...)

	for key, values := range r.Form {
		if name, ok := strings.CutPrefix(key, paramFieldPrefix); ok && name != "" && len(values) > 0 {
			b.AddTemplateParam(name, values[0])
		}
	}
	return b.Build(), nil
}
