package config

import (
	"os"
	"strconv"
	"time"

	"gosleuth/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Models    ModelConfig
	Detection DetectionConfig
	Profiling ProfilingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// ModelConfig holds classifier model and cascade file locations
type ModelConfig struct {
	// Dir contains the agent weight files (vigilante-v2.json, sentinel-x.json).
	Dir string
	// CascadeDir contains the pigo facefinder and puploc cascade binaries.
	CascadeDir string
	// InputSize is the square side the classifiers expect (original models
	// were trained on 224x224 crops).
	InputSize int
	// MaxInferenceSlots caps concurrent classifier inference process-wide.
	MaxInferenceSlots int64
}

// DetectionConfig holds explicit pipeline thresholds and deadlines.
// Every threshold is configuration, never an implicit global.
type DetectionConfig struct {
	// AgentSuspicionThreshold flips an agent to SUSPICIOUS and the fused
	// verdict to FAKE when met or exceeded.
	AgentSuspicionThreshold float64
	// ELACriticalThreshold is the error-level score that raises a CRITICAL
	// compression finding.
	ELACriticalThreshold float64
	// ELARequality is the fixed JPEG quality used for ELA re-encoding.
	ELARequality int
	// MaxImageDim downscales larger inputs before inference.
	MaxImageDim int
	// AgentTimeout bounds one classifier call.
	AgentTimeout time.Duration
	// ModuleTimeout bounds one forensic module call.
	ModuleTimeout time.Duration
	// OverallDeadline bounds the whole fan-out for one invocation.
	OverallDeadline time.Duration
}

// ProfilingConfig holds the ops server settings (health + pprof)
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8000"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Models: ModelConfig{
			Dir:               getEnvOrDefault("MODEL_DIR", "./models"),
			CascadeDir:        getEnvOrDefault("CASCADE_DIR", "./cascades"),
			InputSize:         getEnvIntOrDefault("MODEL_INPUT_SIZE", 224),
			MaxInferenceSlots: int64(getEnvIntOrDefault("MAX_INFERENCE_SLOTS", 4)),
		},
		Detection: DetectionConfig{
			AgentSuspicionThreshold: getEnvFloatOrDefault("AGENT_SUSPICION_THRESHOLD", 0.5),
			ELACriticalThreshold:    getEnvFloatOrDefault("ELA_CRITICAL_THRESHOLD", 15.0),
			ELARequality:            getEnvIntOrDefault("ELA_REQUALITY", 75),
			MaxImageDim:             getEnvIntOrDefault("MAX_IMAGE_DIM", 1024),
			AgentTimeout:            getEnvDurationOrDefault("AGENT_TIMEOUT", 10*time.Second),
			ModuleTimeout:           getEnvDurationOrDefault("MODULE_TIMEOUT", 5*time.Second),
			OverallDeadline:         getEnvDurationOrDefault("ANALYSIS_DEADLINE", 30*time.Second),
		},
		Profiling: ProfilingConfig{
			Port:    getEnvOrDefault("OPS_PORT", "6060"),
			Enabled: getEnvBoolOrDefault("OPS_ENABLED", true),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Models.Dir == "" {
		return errors.ConfigInvalid("MODEL_DIR is required")
	}
	if cfg.Detection.AgentSuspicionThreshold <= 0 || cfg.Detection.AgentSuspicionThreshold >= 1 {
		return errors.ConfigInvalid("AGENT_SUSPICION_THRESHOLD must be in (0,1)")
	}
	if cfg.Detection.ELARequality < 1 || cfg.Detection.ELARequality > 100 {
		return errors.ConfigInvalid("ELA_REQUALITY must be in [1,100]")
	}
	if cfg.Detection.MaxImageDim < 64 {
		return errors.ConfigInvalid("MAX_IMAGE_DIM must be at least 64")
	}
	if cfg.Models.MaxInferenceSlots < 1 {
		return errors.ConfigInvalid("MAX_INFERENCE_SLOTS must be at least 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
