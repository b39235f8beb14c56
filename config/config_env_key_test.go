package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"store": map[string]any{
			"pollInterval": "2s",
			"firebase": map[string]any{
				"databaseUrl": "",
			},
		},
		"sms": map[string]any{
			"accountSid":  "",
			"phoneNumber": "",
		},
		"pubsub": map[string]any{
			"topicId": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "STORE_POLLINTERVAL", want: "store.pollInterval"},
		{envKey: "STORE_FIREBASE_DATABASEURL", want: "store.firebase.databaseUrl"},
		{envKey: "SMS_ACCOUNTSID", want: "sms.accountSid"},
		{envKey: "SMS_PHONENUMBER", want: "sms.phoneNumber"},
		{envKey: "PUBSUB_TOPICID", want: "pubsub.topicId"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestSMSConfig_Configured(t *testing.T) {
	full := SMSConfig{Enabled: true, AccountSID: "AC1", AuthToken: "tok", PhoneNumber: "+15550001111"}

	tests := []struct {
		name   string
		mutate func(c *SMSConfig)
		want   bool
	}{
		{name: "all present", mutate: func(c *SMSConfig) {}, want: true},
		{name: "flag off", mutate: func(c *SMSConfig) { c.Enabled = false }, want: false},
		{name: "missing account", mutate: func(c *SMSConfig) { c.AccountSID = "" }, want: false},
		{name: "missing token", mutate: func(c *SMSConfig) { c.AuthToken = "  " }, want: false},
		{name: "missing phone", mutate: func(c *SMSConfig) { c.PhoneNumber = "" }, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := full
			tt.mutate(&cfg)
			assert.Equal(t, tt.want, cfg.Configured())
		})
	}

	var nilCfg *SMSConfig
	assert.False(t, nilCfg.Configured())
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, "memory", cfg.Store.Provider)
	assert.Equal(t, defaultPollInterval, cfg.Store.PollInterval)
	assert.Equal(t, "simulated", cfg.SMS.Gateway)
	assert.Equal(t, 500, cfg.Alert.MaxMessageLength)
	assert.Equal(t, 7*24*time.Hour, cfg.Alert.InAppExpiry)
	assert.Equal(t, 100, cfg.Logs.SubscriptionLimit)
	assert.Equal(t, 8081, cfg.Ingest.Port)
	assert.False(t, cfg.Ingest.Enabled)
}
