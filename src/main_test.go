package main

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"EdaToolkit/src/config"
	"EdaToolkit/src/dataset"
	"EdaToolkit/src/processor"
	"EdaToolkit/src/storage"
)

func TestLogStreamHandler(t *testing.T) {
	logger := storage.Discard()
	srv := httptest.NewServer(logStreamHandler(logger))
	defer srv.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		// 请求建立前的日志不会被订阅到, 持续写入直到测试结束
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				logger.Info("explorer finished")
			case <-done:
				return
			}
		}
	}()

	resp, err := http.Get(srv.URL + "/logs")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(line, "INFO: explorer finished") {
		t.Errorf("unexpected line %q", line)
	}
}

func newTestService(t *testing.T, content string) (*service, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "sample.csv")
	if err := os.WriteFile(csvPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{DataDir: dir, LogMaxSize: "10 * 1024 * 1024"}
	dcfg := &config.DataConfig{
		FilePath:   csvPath,
		Histograms: []config.HistogramSpec{{Column: "age"}},
	}
	logger, err := storage.NewLogger(cfg.OutputPath("eda.log"))
	if err != nil {
		t.Fatal(err)
	}
	return newService(cfg, processor.NewExplorer(cfg, dcfg, logger, nil), logger), cfg
}

func TestServiceRun(t *testing.T) {
	s, cfg := newTestService(t, "age,sex\n25,M\n40,F\n")
	defer s.stop()

	res, err := s.run("test")
	if err != nil {
		t.Fatal(err)
	}
	if res.Rows != 2 || len(res.Images) != 1 {
		t.Errorf("unexpected result %+v", res)
	}
	if _, err := os.Stat(cfg.OutputPath("hist_age.png")); err != nil {
		t.Error(err)
	}
}

func TestServiceRunLoadError(t *testing.T) {
	s, _ := newTestService(t, "")
	defer s.stop()

	if _, err := s.run("test"); err == nil {
		t.Fatal("empty file should fail")
	} else if !strings.Contains(err.Error(), dataset.ErrLoad.Error()) {
		t.Errorf("err = %v", err)
	}
}

func TestServiceStop(t *testing.T) {
	s, cfg := newTestService(t, "age\n1\n")
	if err := writePidFile(cfg.PidPath()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(cfg.PidPath())
	if err != nil {
		t.Fatal(err)
	}
	if pid, err := strconv.Atoi(strings.TrimSpace(string(data))); err != nil || pid != os.Getpid() {
		t.Errorf("pid file = %q", data)
	}

	s.stop()
	s.stop()
	select {
	case <-s.done:
	default:
		t.Error("done should be closed")
	}
	if _, err := os.Stat(cfg.PidPath()); !os.IsNotExist(err) {
		t.Error("pid file should be removed")
	}
}
