package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"EdaToolkit/src/dataset"
)

// Config 结构体定义了应用程序的配置结构
type Config struct {
	DataDir    string `json:"data_dir"`     // 图片与导出文件的输出目录
	LogName    string `json:"log_name"`     // 日志文件名, 位于 DataDir 下
	LogMaxSize string `json:"log_max_size"` // 日志轮转大小, 如 "10 * 1024 * 1024"
	LogLevel   string `json:"log_level"`

	Schedule struct {
		Enabled       bool     `json:"enabled"`
		CheckInterval Duration `json:"check_interval"` // 定时重新生成报告的间隔
	} `json:"schedule"`

	Watch   bool   `json:"watch"`    // 数据文件变化时重新生成报告
	Show    bool   `json:"show"`     // 在窗口中显示图片
	WebAddr string `json:"web_addr"` // 实时日志页面监听地址, 为空时不启动
}

// HistogramSpec 一个直方图
type HistogramSpec struct {
	Column string `json:"column"`
	Bins   int    `json:"bins"`
}

// ScatterSpec 一组散点图变量
type ScatterSpec struct {
	X     string `json:"x"`
	Y     string `json:"y"`
	Title string `json:"title"`
}

// DataConfig 描述一次数据探索任务
type DataConfig struct {
	FilePath    string                    `json:"file_path"`
	SheetName   string                    `json:"sheet_name"`
	Encoding    string                    `json:"encoding"`
	NaValues    []string                  `json:"na_values"`
	Clean       dataset.Rules             `json:"clean"`
	DropColumns dataset.OneOrMany[string] `json:"drop_columns"`
	Histograms  []HistogramSpec           `json:"histograms"`
	Scatters    []ScatterSpec             `json:"scatters"`
	Pairs       bool                      `json:"pairs"`
	Exports     struct {
		Excel   string `json:"excel"`
		Parquet string `json:"parquet"`
	} `json:"exports"`
}

var (
	once               sync.Once
	instance           *Config
	dataConfigInstance *DataConfig
	mu                 sync.RWMutex
)

func LoadConfig(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	var err error
	once.Do(func() {
		instance, dataConfigInstance, err = loadConfigs(jsonFolder, jsonFile, dataJsonFile)
	})
	return instance, dataConfigInstance, err
}

func loadConfigs(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	configFile := filepath.Join(jsonFolder, jsonFile)
	dataConfigFile := filepath.Join(jsonFolder, dataJsonFile)

	configData, err := readFile(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	dataConfigData, err := readFile(dataConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("读取数据配置文件失败: %w", err)
	}

	cfgChan := make(chan *Config, 1)
	dcfgChan := make(chan *DataConfig, 1)
	errChan := make(chan error, 2)

	go parseConfig(configData, cfgChan, errChan)
	go parseDataConfig(dataConfigData, dcfgChan, errChan)

	cfg, dcfg, err := waitForResults(cfgChan, dcfgChan, errChan)
	if err != nil {
		return nil, nil, err
	}

	return cfg, dcfg, nil
}

func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("无法读取文件 %s: %w", filePath, err)
	}
	return data, nil
}

func parseConfig(data []byte, resultChan chan<- *Config, errChan chan<- error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		errChan <- fmt.Errorf("解析Config失败: %w", err)
		return
	}
	cfg.applyDefaults()
	resultChan <- &cfg
}

func parseDataConfig(data []byte, resultChan chan<- *DataConfig, errChan chan<- error) {
	var dcfg DataConfig
	if err := json.Unmarshal(data, &dcfg); err != nil {
		errChan <- fmt.Errorf("解析DataConfig失败: %w", err)
		return
	}
	if err := dcfg.validate(); err != nil {
		errChan <- fmt.Errorf("DataConfig无效: %w", err)
		return
	}
	resultChan <- &dcfg
}

func waitForResults(
	cfgChan <-chan *Config,
	dcfgChan <-chan *DataConfig,
	errChan <-chan error,
) (*Config, *DataConfig, error) {
	var (
		cfg    *Config
		dcfg   *DataConfig
		errors []error
	)

	for i := 0; i < 2; i++ {
		select {
		case c := <-cfgChan:
			cfg = c
			fmt.Println("Config 配置文件加载完毕")
		case d := <-dcfgChan:
			dcfg = d
			fmt.Println("DataConfig 配置文件加载完毕")
		case err := <-errChan:
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return nil, nil, combineErrors(errors)
	}

	if cfg == nil || dcfg == nil {
		return nil, nil, fmt.Errorf("部分配置未加载成功")
	}

	return cfg, dcfg, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	// 使用固定格式字符串
	msg := "配置加载遇到多个错误:"
	for _, err := range errs {
		msg = fmt.Sprintf("%s\n- %v", msg, err)
	}
	return fmt.Errorf("%s", msg)
}

// Duration 是time.Duration的自定义包装类型
// 用于支持JSON序列化和反序列化
type Duration time.Duration

// UnmarshalJSON 实现json.Unmarshaler接口
// 用于从JSON字符串解析Duration
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalJSON 实现json.Marshaler接口
// 用于将Duration序列化为JSON字符串
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.LogName == "" {
		c.LogName = "eda.log"
	}
	if c.LogMaxSize == "" {
		c.LogMaxSize = "10 * 1024 * 1024"
	}
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
	if c.Schedule.CheckInterval <= 0 {
		c.Schedule.CheckInterval = Duration(time.Hour)
	}
}

// LogPath 日志文件完整路径
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, c.LogName)
}

// PidPath 运行中进程的 pid 文件
func (c *Config) PidPath() string {
	return filepath.Join(c.DataDir, "eda.pid")
}

// OutputPath DataDir 下的输出文件路径, 绝对路径原样返回
func (c *Config) OutputPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

func (dc *DataConfig) validate() error {
	if dc.FilePath == "" {
		return fmt.Errorf("file_path 不能为空")
	}
	for i, h := range dc.Histograms {
		if h.Column == "" {
			return fmt.Errorf("histograms[%d]: column 不能为空", i)
		}
	}
	for i, s := range dc.Scatters {
		if s.X == "" || s.Y == "" {
			return fmt.Errorf("scatters[%d]: x 和 y 不能为空", i)
		}
	}
	return nil
}

func (dc *DataConfig) GetFilePath() string {
	mu.RLock()
	defer mu.RUnlock()
	return dc.FilePath
}

func (dc *DataConfig) SetFilePath(path string) {
	mu.Lock()
	defer mu.Unlock()
	dc.FilePath = path
}

// GetCleanRules 返回清洗规则的副本
func (dc *DataConfig) GetCleanRules() dataset.Rules {
	mu.RLock()
	defer mu.RUnlock()
	rules := make(dataset.Rules, len(dc.Clean))
	for col, values := range dc.Clean {
		rules[col] = values
	}
	return rules
}

func (dc *DataConfig) SetCleanRule(colName string, values dataset.OneOrMany[any]) {
	mu.Lock()
	defer mu.Unlock()
	if dc.Clean == nil {
		dc.Clean = make(dataset.Rules)
	}
	dc.Clean[colName] = values
}
