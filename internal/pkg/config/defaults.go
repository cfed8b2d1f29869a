package config

// DefaultJWTSecret is the fallback signing secret used when JWT_SECRET is unset.
// It is deliberately insecure and only suitable for local development.
const DefaultJWTSecret = "default-secret-key"

var defaults = map[string]any{
	"app.name":                                "otpgate",
	"app.port":                                3000,
	"app.server.read_timeout_seconds":         10,
	"app.server.read_header_timeout_seconds":  5,
	"app.server.write_timeout_seconds":        10,
	"app.server.idle_timeout_seconds":         60,
	"app.server.max_goroutine":                64,
	"app.server.cors":                         "*",
	"app.maintenance.endpoints":               "",
	"instrument.enabled":                      false,
	"instrument.service_name":                 "otpgate",
	"instrument.service_version":              "dev",
	"instrument.env":                          "local",
	"instrument.otlp_endpoint":                "localhost:4317",
	"instrument.otlp_secure":                  false,
	"instrument.trace_sample_ratio":           1.0,
	"instrument.metric_interval_seconds":      15,
	"instrument.log_level":                    "info",
	"instrument.log_mask_fields":              "password,authorization,cookie,set-cookie,access_token",
	"jwt.secret":                              "",
	"jwt.issuer":                              "",
	"jwt.ttl_minutes":                         15,
	"jwt.require_secret":                      false,
	"modules.auth.enabled":                    true,
	"modules.auth.store":                      "memory",
	"modules.auth.login_session_ttl_seconds":  300,
	"modules.auth.cookie_name":                "session_token",
	"modules.auth.cookie_max_age_seconds":     900,
	"modules.auth.cookie_secure":              false,
	"modules.auth.hash_password":              false,
	"modules.auth.require_verified_session":   false,
	"modules.auth.bcrypt_cost":                10,
	"modules.auth.sweep_interval_seconds":     0,
	"otp.driver":                              "random",
	"otp.hotp.secret":                         "",
	"delivery.drivers":                        "log",
	"delivery.topic":                          "auth.otp.issued",
	"delivery.retry_max":                      3,
	"delivery.retry_base_millis":              200,
	"delivery.timeout_seconds":                10,
	"mail.host":                               "",
	"mail.port":                               0,
	"mail.username":                           "",
	"mail.password":                           "",
	"mail.from":                               "no-reply@otpgate.local",
	"messaging.kafka.brokers":                 "",
	"messaging.nats.url":                      "",
	"messaging.nats.name":                     "otpgate",
	"messaging.nats.timeout_seconds":          5,
	"messaging.nsq.producer_addr":             "",
	"redis.url":                               "redis://localhost:6379/0",
	"redis.prefix":                            "otpgate",
	"redis.session_retention_seconds":         0,
}

// envBindings maps configuration keys to the plain environment variables
// operators are expected to set.
var envBindings = map[string]string{
	"app.port":   "PORT",
	"jwt.secret": "JWT_SECRET",
}
