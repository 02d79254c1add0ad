package tokens

import (
	"github.com/easyops/contextslots-go/pkg/core/errors"
)

// 估算器名称
const (
	// EstimatorChars 字符估算（默认）
	EstimatorChars = "chars"
	// EstimatorTiktoken tiktoken 精确计数
	EstimatorTiktoken = "tiktoken"
)

// Config Token 估算配置
type Config struct {
	// Estimator 估算器名称: chars, tiktoken
	Estimator string `koanf:"estimator"`
	// Model tiktoken 使用的模型名称
	Model string `koanf:"model"`
	// CharsPerToken 字符估算器的每 Token 字符数
	// 默认: 2
	CharsPerToken float64 `koanf:"chars_per_token"`
	// CacheSize 计数缓存容量，0 表示不缓存
	CacheSize int `koanf:"cache_size"`
}

// WithDefaults 返回带默认值的配置
func (c Config) WithDefaults() Config {
	if c.Estimator == "" {
		c.Estimator = EstimatorChars
	}
	if c.CharsPerToken == 0 {
		c.CharsPerToken = DefaultCharsPerToken
	}
	return c
}

// Validate 验证配置
func (c *Config) Validate() error {
	switch c.Estimator {
	case "", EstimatorChars, EstimatorTiktoken:
	default:
		return errors.WithID(errors.ErrUnknownEstimator, c.Estimator)
	}
	if c.CharsPerToken < 0 || c.CacheSize < 0 {
		return errors.ErrInvalidConfig
	}
	return nil
}

// FromConfig 根据配置创建计数器
func FromConfig(cfg Config) (Counter, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var counter Counter
	switch cfg.Estimator {
	case EstimatorTiktoken:
		tc, err := NewTiktokenCounter(WithModel(cfg.Model))
		if err != nil {
			return nil, errors.WrapError(err, "load tiktoken encoding")
		}
		counter = tc
	default:
		counter = &EstimatedCounter{CharsPerToken: cfg.CharsPerToken}
	}

	if cfg.CacheSize > 0 {
		cached, err := NewCachedCounter(counter, cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		return cached, nil
	}
	return counter, nil
}
