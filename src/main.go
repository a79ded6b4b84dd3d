package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"EdaToolkit/src/config"
	"EdaToolkit/src/datasource/file"
	"EdaToolkit/src/plot"
	"EdaToolkit/src/processor"
	"EdaToolkit/src/storage"
	"EdaToolkit/src/viewer"

	"fyne.io/fyne/v2/app"
	"github.com/robfig/cron"
)

func main() {
	jsonFolder := "./config"
	jsonFile := "config.json"
	dataJsonFile := "dataconfig.json"
	cfg, dcfg, err := config.LoadConfig(jsonFolder, jsonFile, dataJsonFile)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := file.EnsureDir(cfg.DataDir); err != nil {
		log.Fatal("Failed to create data dir:", err)
	}

	// 初始化日志系统
	logger, err := storage.NewLogger(cfg.LogPath())
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	logger.SetLevel(storage.ParseLevel(cfg.LogLevel))

	var win *viewer.Window
	var v plot.Viewer
	if cfg.Show {
		win = viewer.New(app.NewWithID("eda.toolkit"), "EDA Toolkit")
		v = win
	}

	s := newService(cfg, processor.NewExplorer(cfg, dcfg, logger, v), logger)
	if err := writePidFile(cfg.PidPath()); err != nil {
		logger.Warning("写入pid文件失败: " + err.Error())
	}
	go waitForSignals(s, win)

	if win != nil {
		// 窗口事件循环必须在主 goroutine
		win.Run(func() { go s.start(dcfg.GetFilePath()) })
		s.stop()
		return
	}
	s.start(dcfg.GetFilePath())
	<-s.done
}

// service 串行执行探索任务, 由启动、定时器和文件变化触发
type service struct {
	cfg      *config.Config
	explorer *processor.Explorer
	logger   *storage.Logger

	mu      sync.Mutex // 同一时间只运行一次探索
	cron    *cron.Cron
	monitor *file.FileMonitor

	stopOnce sync.Once
	done     chan struct{}
}

func newService(cfg *config.Config, explorer *processor.Explorer, logger *storage.Logger) *service {
	return &service{
		cfg:      cfg,
		explorer: explorer,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// run 执行一次探索并检查日志轮转
func (s *service) run(reason string) (*processor.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info(fmt.Sprintf("触发数据探索(%s)", reason))
	res, err := s.explorer.Run()
	if err != nil {
		s.logger.Error("数据探索失败: " + err.Error())
	}

	if rotated, rerr := s.logger.CheckRotate(s.cfg.LogMaxSize); rerr != nil {
		s.logger.Error("检查日志轮转失败: " + rerr.Error())
	} else if rotated {
		s.logger.Info("日志已轮转")
	}
	return res, err
}

// start 首次运行后按配置开启定时任务、文件监控和日志页面
func (s *service) start(dataFile string) {
	s.run("startup")

	if s.cfg.Schedule.Enabled {
		// 使用配置中的检查间隔而不是硬编码
		interval := time.Duration(s.cfg.Schedule.CheckInterval).String()
		cronSpec := fmt.Sprintf("@every %s", interval)

		c := cron.New()
		err := c.AddFunc(cronSpec, func() {
			s.run("schedule " + cronSpec)
		})
		if err != nil {
			s.logger.Error("创建定时任务失败: " + err.Error())
		} else {
			c.Start()
			s.cron = c
			s.logger.Info(fmt.Sprintf("定时任务已启动(检查间隔: %v)", interval))
		}
	}

	if s.cfg.Watch {
		monitor, err := file.NewFileMonitor(dataFile)
		if err != nil {
			s.logger.Error("创建文件监控失败: " + err.Error())
		} else {
			s.monitor = monitor
			go s.watch(monitor)
		}
	}

	if s.cfg.WebAddr != "" {
		go startWebUI(s.logger, s.cfg.WebAddr)
	}
	s.logger.Info("数据探索服务已启动，按Ctrl+C退出")
}

func (s *service) watch(monitor *file.FileMonitor) {
	err := monitor.Watch(func(filePath string) {
		s.run("file changed: " + filePath)
	})
	if err != nil {
		s.logger.Error("File monitoring error:" + err.Error())
	}
}

// stop 停止定时任务与文件监控并关闭日志, 可重复调用
func (s *service) stop() {
	s.stopOnce.Do(func() {
		if s.cron != nil {
			s.cron.Stop()
		}
		if s.monitor != nil {
			_ = s.monitor.Close()
		}
		// 等待正在进行的探索结束
		s.mu.Lock()
		_ = os.Remove(s.cfg.PidPath())
		s.logger.Close()
		s.mu.Unlock()
		close(s.done)
	})
}

// startWebUI 启动一个简单的Web界面来显示实时日志
// 参数:
//
//	logger: 日志记录器实例，用于订阅日志消息
//	addr: 监听地址
func startWebUI(logger *storage.Logger, addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/logs", logStreamHandler(logger))

	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("日志页面启动失败: " + err.Error())
	}
}

// logStreamHandler 将订阅到的日志逐条写入响应
func logStreamHandler(logger *storage.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// 设置响应头
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Transfer-Encoding", "chunked")

		// 创建日志订阅通道
		logChan := logger.Subscribe()
		defer logger.Unsubscribe(logChan)

		for {
			select {
			case msg, ok := <-logChan:
				if !ok {
					return
				}
				// 将日志消息写入HTTP响应
				if _, err := fmt.Fprintln(w, strings.TrimRight(msg, "\n")); err != nil {
					// 如果写入失败(如客户端断开连接)，则退出循环
					return
				}
				// 刷新响应缓冲区，确保消息立即发送到客户端
				if f, ok := w.(http.Flusher); ok {
					f.Flush()
				}
			case <-r.Context().Done():
				return
			}
		}
	}
}

// waitForSignals SIGHUP 重新打开日志文件, SIGINT/SIGTERM 退出
func waitForSignals(s *service, win *viewer.Window) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for sig := range sigChan {
		if sig == syscall.SIGHUP {
			if err := s.logger.Reopen(""); err != nil {
				log.Println("Failed to reopen log:", err)
				continue
			}
			s.logger.Info("Received SIGHUP, log file reopened")
			continue
		}

		s.logger.Info("Received signal: " + sig.String() + ", shutting down...")
		signal.Stop(sigChan)
		if win != nil {
			win.Quit()
			return
		}
		s.stop()
		return
	}
}

func writePidFile(path string) error {
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0644)
}
