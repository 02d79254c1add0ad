package otel

import (
	"context"
	"fmt"
	"sync"
)

// Metrics 按名称提供编译运行的指标仪器
type Metrics interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
	Gauge(name string) Gauge
}

// Counter 单调递增计数
type Counter interface {
	Add(ctx context.Context, value int64, attrs ...Attr)
}

// Histogram 分布记录
type Histogram interface {
	Record(ctx context.Context, value float64, attrs ...Attr)
}

// Gauge 最近值
type Gauge interface {
	Set(ctx context.Context, value float64, attrs ...Attr)
}

// Attr 指标属性
type Attr struct {
	Key   string
	Value any
}

// NewAttr 创建指标属性
func NewAttr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// measurement 一次测量及其属性
type measurement struct {
	value float64
	attrs map[string]string
}

// matches 判断测量是否带有全部给定属性
func (m measurement) matches(filter []Attr) bool {
	for _, a := range filter {
		if v, ok := m.attrs[a.Key]; !ok || v != fmt.Sprint(a.Value) {
			return false
		}
	}
	return true
}

type instrumentKind int

const (
	kindCounter instrumentKind = iota
	kindHistogram
	kindGauge
)

type instrumentKey struct {
	kind instrumentKind
	name string
}

// InMemoryMetrics 保留每一次测量的内存指标，用于测试与示例
//
// 读取时可按属性过滤，例如只看某个丢弃原因的计数。
type InMemoryMetrics struct {
	mu      sync.Mutex
	records map[instrumentKey][]measurement
}

// NewInMemoryMetrics 创建内存指标
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{records: make(map[instrumentKey][]measurement)}
}

func (m *InMemoryMetrics) Counter(name string) Counter {
	return memInstrument{m: m, key: instrumentKey{kindCounter, name}}
}

func (m *InMemoryMetrics) Histogram(name string) Histogram {
	return memInstrument{m: m, key: instrumentKey{kindHistogram, name}}
}

func (m *InMemoryMetrics) Gauge(name string) Gauge {
	return memInstrument{m: m, key: instrumentKey{kindGauge, name}}
}

func (m *InMemoryMetrics) record(key instrumentKey, value float64, attrs []Attr) {
	rec := measurement{value: value}
	if len(attrs) > 0 {
		rec.attrs = make(map[string]string, len(attrs))
		for _, a := range attrs {
			rec.attrs[a.Key] = fmt.Sprint(a.Value)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = append(m.records[key], rec)
}

// values 返回匹配过滤条件的测量值，按记录顺序
func (m *InMemoryMetrics) values(key instrumentKey, filter []Attr) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []float64
	for _, rec := range m.records[key] {
		if rec.matches(filter) {
			out = append(out, rec.value)
		}
	}
	return out
}

// CounterValue 返回计数器在匹配属性上的累计值
func (m *InMemoryMetrics) CounterValue(name string, filter ...Attr) int64 {
	var total int64
	for _, v := range m.values(instrumentKey{kindCounter, name}, filter) {
		total += int64(v)
	}
	return total
}

// HistogramValues 返回直方图在匹配属性上的全部记录
func (m *InMemoryMetrics) HistogramValues(name string, filter ...Attr) []float64 {
	return m.values(instrumentKey{kindHistogram, name}, filter)
}

// GaugeValue 返回仪表在匹配属性上的最近值，未记录时为 0
func (m *InMemoryMetrics) GaugeValue(name string, filter ...Attr) float64 {
	values := m.values(instrumentKey{kindGauge, name}, filter)
	if len(values) == 0 {
		return 0
	}
	return values[len(values)-1]
}

// memInstrument 把测量写回所属的 InMemoryMetrics
type memInstrument struct {
	m   *InMemoryMetrics
	key instrumentKey
}

func (i memInstrument) Add(_ context.Context, value int64, attrs ...Attr) {
	i.m.record(i.key, float64(value), attrs)
}

func (i memInstrument) Record(_ context.Context, value float64, attrs ...Attr) {
	i.m.record(i.key, value, attrs)
}

func (i memInstrument) Set(_ context.Context, value float64, attrs ...Attr) {
	i.m.record(i.key, value, attrs)
}

// NoopMetrics 空实现指标
type NoopMetrics struct{}

// NewNoopMetrics 创建空实现指标
func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

func (m *NoopMetrics) Counter(string) Counter     { return noopInstrument{} }
func (m *NoopMetrics) Histogram(string) Histogram { return noopInstrument{} }
func (m *NoopMetrics) Gauge(string) Gauge         { return noopInstrument{} }

type noopInstrument struct{}

func (noopInstrument) Add(context.Context, int64, ...Attr)      {}
func (noopInstrument) Record(context.Context, float64, ...Attr) {}
func (noopInstrument) Set(context.Context, float64, ...Attr)    {}

// 编译时接口检查
var _ Metrics = (*InMemoryMetrics)(nil)
var _ Metrics = (*NoopMetrics)(nil)
var _ Counter = memInstrument{}
var _ Histogram = memInstrument{}
var _ Gauge = memInstrument{}
