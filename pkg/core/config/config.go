// Package config 提供配置加载和管理功能
//
// 加载顺序：YAML 文件 → 环境变量（优先级更高）。环境变量以 CONTEXTSLOTS_
// 为前缀，双下划线分隔层级：CONTEXTSLOTS_COMPILE__MAX_TOKENS → compile.max_tokens。
package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/easyops/contextslots-go/pkg/core/errors"
	"github.com/easyops/contextslots-go/pkg/otel"
	"github.com/easyops/contextslots-go/pkg/slot"
	"github.com/easyops/contextslots-go/pkg/tokens"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "CONTEXTSLOTS_"

// 环境变量中以逗号分隔的列表键
var listKeys = map[string]struct{}{
	"compile.categories": {},
	"compile.exclude":    {},
	"compile.layers":     {},
}

// Config 全局配置结构
type Config struct {
	// Compile 默认编译选项
	Compile slot.CompileOptions `koanf:"compile"`
	// Tokens Token 估算配置
	Tokens tokens.Config `koanf:"tokens"`
	// Observability 可观测性配置
	Observability otel.Config `koanf:"observability"`
}

// WithDefaults 返回带默认值的配置
func (c Config) WithDefaults() Config {
	c.Tokens = c.Tokens.WithDefaults()
	c.Observability = c.Observability.WithDefaults()
	return c
}

// Validate 验证配置
func (c *Config) Validate() error {
	if err := c.Compile.Validate(); err != nil {
		return errors.WrapError(err, "compile")
	}
	for name, v := range map[string]*int{
		"max_slots":  c.Compile.MaxSlots,
		"max_tokens": c.Compile.MaxTokens,
	} {
		if v != nil && *v < 0 {
			return errors.WrapError(errors.ErrInvalidConfig, "compile."+name+" must be >= 0")
		}
	}
	if err := c.Tokens.Validate(); err != nil {
		return errors.WrapError(err, "tokens")
	}
	if err := c.Observability.Validate(); err != nil {
		return errors.WrapError(err, "observability")
	}
	return nil
}

// CompileOptions 返回带 Token 估算器的默认编译选项
func (c *Config) CompileOptions() (slot.CompileOptions, error) {
	counter, err := tokens.FromConfig(c.Tokens)
	if err != nil {
		return slot.CompileOptions{}, err
	}
	opts := c.Compile.Clone()
	opts.TokenCounter = counter
	return opts, nil
}

// Loader 配置加载器
type Loader struct {
	k *koanf.Koanf
}

// NewLoader 创建配置加载器
func NewLoader() *Loader {
	return &Loader{
		k: koanf.New("."),
	}
}

// LoadFile 从 YAML 文件加载配置
//
// 文件不存在时不报错，使用默认值。
func (l *Loader) LoadFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	switch {
	case strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml"):
		if err := l.k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return errors.WrapError(err, "load config file "+path)
		}
		return nil
	default:
		return errors.WrapError(errors.ErrInvalidConfig, "unsupported config file "+path)
	}
}

// LoadEnv 从环境变量加载配置
func (l *Loader) LoadEnv(prefix string) error {
	return l.k.Load(env.ProviderWithValue(prefix, ".", func(key, value string) (string, interface{}) {
		// CONTEXTSLOTS_COMPILE__MAX_TOKENS -> compile.max_tokens
		key = strings.TrimPrefix(key, prefix)
		key = strings.ToLower(key)
		key = strings.ReplaceAll(key, "__", ".")

		if _, ok := listKeys[key]; ok {
			return key, splitList(value)
		}
		return key, value
	}), nil)
}

// Unmarshal 解析配置到结构体
func (l *Loader) Unmarshal(cfg *Config) error {
	return l.k.Unmarshal("", cfg)
}

// Get 获取配置值
func (l *Loader) Get(key string) interface{} {
	return l.k.Get(key)
}

// GetString 获取字符串配置值
func (l *Loader) GetString(key string) string {
	return l.k.String(key)
}

// GetInt 获取整数配置值
func (l *Loader) GetInt(key string) int {
	return l.k.Int(key)
}

// Load 加载完整配置（文件 + 环境变量）
func Load(configPath string) (*Config, error) {
	loader := NewLoader()

	if configPath != "" {
		if err := loader.LoadFile(configPath); err != nil {
			return nil, err
		}
	}

	// 环境变量优先级更高
	if err := loader.LoadEnv(EnvPrefix); err != nil {
		return nil, errors.WrapError(err, "load env")
	}

	cfg := &Config{}
	if err := loader.Unmarshal(cfg); err != nil {
		return nil, errors.WrapError(err, "unmarshal config")
	}

	*cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
