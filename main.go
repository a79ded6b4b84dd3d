package main

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// 通知正在运行的数据探索服务重新打开日志文件(日志被外部工具转储后使用).
// 用法: go run . [pid文件], 默认读取 data/eda.pid
func main() {
	pidFile := filepath.Join("data", "eda.pid")
	if len(os.Args) > 1 {
		pidFile = os.Args[1]
	}

	data, err := os.ReadFile(pidFile)
	if err != nil {
		log.Fatal("Failed to read pid file:", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		log.Fatal("Invalid pid file:", err)
	}

	// 向服务进程发送 SIGHUP
	if err := syscall.Kill(pid, syscall.SIGHUP); err != nil {
		log.Fatal("Failed to send SIGHUP:", err)
	}
	log.Printf("SIGHUP sent to %d", pid)
}
