package main

import (
	"fmt"
	"time"

	"github.com/brotasbeauty/scheduler/libs/config"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/availability"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/scheduling"
)

type settings struct {
	Service  string
	Port     string
	GRPCPort string
	Timezone string
	Hours    availability.BusinessHours
	WhatsApp string
	Rate     float64

	AdminUsername     string
	AdminPasswordHash string
	AdminPassword     string
	AdminTokenSecret  string
	AdminTokenTTL     time.Duration

	CORSOrigins        []string
	RateLimitPerMinute int
	RedisAddr          string

	KafkaBrokers   string
	KafkaSyncTopic string
	KafkaGroupID   string
	DatabaseURL    string
	DBMaxConns     int

	RequestTimeout time.Duration
}

func loadSettings() (settings, error) {
	s := settings{
		Service:           config.String("SERVICE_NAME", "scheduling-service"),
		Timezone:          config.String("TIMEZONE", "America/Sao_Paulo"),
		WhatsApp:          config.String("WHATSAPP_NUMBER", scheduling.DefaultWhatsAppNumber),
		AdminUsername:     config.String("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: config.String("ADMIN_PASSWORD_HASH", ""),
		AdminPassword:     config.String("ADMIN_PASSWORD", ""),
		AdminTokenSecret:  config.String("ADMIN_TOKEN_SECRET", ""),
		CORSOrigins:       config.List("CORS_ALLOWED_ORIGINS", "*"),
		RedisAddr:         config.String("REDIS_ADDR", ""),
		KafkaBrokers:      config.String("KAFKA_BROKERS", ""),
		KafkaSyncTopic:    config.String("KAFKA_SYNC_TOPIC", ""),
		KafkaGroupID:      config.String("KAFKA_GROUP_ID", "scheduling-service"),
		DatabaseURL:       config.String("DATABASE_URL", ""),
	}

	var err error
	if s.Port, err = config.Port("PORT", "8080"); err != nil {
		return settings{}, err
	}
	if config.String("GRPC_PORT", "9090") != "off" {
		if s.GRPCPort, err = config.Port("GRPC_PORT", "9090"); err != nil {
			return settings{}, err
		}
	}

	defaults := availability.DefaultBusinessHours()
	ints := []struct {
		key string
		def int
		dst *int
	}{
		{"BUSINESS_START_HOUR", defaults.StartHour, &s.Hours.StartHour},
		{"BUSINESS_END_HOUR", defaults.EndHour, &s.Hours.EndHour},
		{"BREAK_START_HOUR", defaults.BreakStartHour, &s.Hours.BreakStartHour},
		{"BREAK_END_HOUR", defaults.BreakEndHour, &s.Hours.BreakEndHour},
		{"SLOT_INTERVAL_MINUTES", defaults.IntervalMin, &s.Hours.IntervalMin},
		{"RATE_LIMIT_PER_MINUTE", 120, &s.RateLimitPerMinute},
		{"DB_MAX_CONNS", 4, &s.DBMaxConns},
	}
	for _, v := range ints {
		if *v.dst, err = config.Int(v.key, v.def); err != nil {
			return settings{}, err
		}
	}
	if err := s.Hours.Validate(); err != nil {
		return settings{}, fmt.Errorf("business hours: %w", err)
	}

	if s.Rate, err = config.Float("REPORT_RATE_PER_APPOINTMENT", 100); err != nil {
		return settings{}, err
	}
	if s.AdminTokenTTL, err = config.Duration("ADMIN_TOKEN_TTL", 12*time.Hour); err != nil {
		return settings{}, err
	}
	if s.RequestTimeout, err = config.Duration("HTTP_REQUEST_TIMEOUT", 15*time.Second); err != nil {
		return settings{}, err
	}
	return s, nil
}
