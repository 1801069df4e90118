package cmd_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/DMarby/cdnstyle/internal/cmd"
	"github.com/DMarby/cdnstyle/internal/logger"
	"go.uber.org/zap"
)

func TestNewServer(t *testing.T) {
	h := http.NotFoundHandler()
	server := cmd.NewServer(":8080", h, logger.New(zap.FatalLevel))

	if server.Addr != ":8080" {
		t.Errorf("wrong address %s", server.Addr)
	}

	if server.ReadTimeout != cmd.ReadTimeout || server.WriteTimeout != cmd.WriteTimeout || server.IdleTimeout != cmd.IdleTimeout {
		t.Errorf("wrong timeouts %s %s %s", server.ReadTimeout, server.WriteTimeout, server.IdleTimeout)
	}

	if server.ErrorLog == nil {
		t.Error("missing error log")
	}

	if cmd.HandlerTimeout >= cmd.WriteTimeout {
		t.Errorf("handler timeout %s must be shorter than the write timeout %s", cmd.HandlerTimeout, cmd.WriteTimeout)
	}
}

func TestWaitForInterrupt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := cmd.WaitForInterrupt(ctx); err == nil || err.Error() != "canceled" {
		t.Errorf("wrong error %v", err)
	}
}
