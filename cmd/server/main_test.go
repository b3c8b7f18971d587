package main

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"overspeed/internal/logger"
)

func TestRun_ListenErrorIsReturned(t *testing.T) {
	t.Chdir(t.TempDir())

	busy, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("Failed to reserve a port: %v", err)
	}
	defer busy.Close()

	logDir := t.TempDir()
	t.Setenv("PORT", strconv.Itoa(busy.Addr().(*net.TCPAddr).Port))
	t.Setenv("LOG_DIR", logDir)

	if err := run(); err == nil {
		t.Fatal("Expected run to return the listen error")
	}

	data, err := os.ReadFile(filepath.Join(logDir, logger.ErrorFile))
	if err != nil {
		t.Fatalf("Failed to read error log: %v", err)
	}
	if !strings.Contains(string(data), "Server stopped") {
		t.Errorf("Expected the failure in the error log, got %q", data)
	}
}
