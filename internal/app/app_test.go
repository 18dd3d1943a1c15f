package app

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/chrissnell/climatequery/internal/controllers/restserver"
	"github.com/chrissnell/climatequery/internal/database/dbtest"
	"github.com/chrissnell/climatequery/internal/log"
	"github.com/chrissnell/climatequery/pkg/config"
)

func testConfig(path string) *config.ConfigData {
	cfg := config.Defaults()
	cfg.Database.Path = path
	cfg.Server.ListenAddr = "127.0.0.1"
	return cfg
}

func TestRun(t *testing.T) {
	cfg := testConfig(dbtest.CreateFile(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg.Server.HTTPPort = freePort(t)

	application := New(cfg, log.GetSugaredLogger())
	addr := make(chan string, 1)
	application.started = func(rc *restserver.Controller) {
		addr <- rc.ListenAddr().String()
	}

	errs := make(chan error, 1)
	go func() {
		errs <- application.Run(ctx)
	}()

	var base string
	select {
	case a := <-addr:
		base = "http://" + a
	case err := <-errs:
		t.Fatalf("Run returned early: %v", err)
	case <-time.After(10 * time.Second):
		t.Fatal("application did not start")
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(base + "/api/v1.0/start/2016-08-23/end/2016-08-23")
	if err != nil {
		t.Fatalf("GET summary: %v", err)
	}
	var values []*float64
	err = json.NewDecoder(resp.Body).Decode(&values)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(values) != 3 || values[0] == nil || *values[0] != 74 || *values[1] != 81 || *values[2] != 77 {
		t.Errorf("summary = %v, expected [74 81 77]", values)
	}

	cancel()

	select {
	case err := <-errs:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("application did not shut down")
	}
}

func TestRunMissingDataset(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "missing.sqlite"))

	err := New(cfg, log.GetSugaredLogger()).Run(context.Background())
	if err == nil {
		t.Fatal("Run succeeded without a dataset")
	}
}

// freePort reserves an ephemeral port and releases it for the server to bind
func freePort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}
