package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DMarby/cdnstyle/internal/logger"
)

// Timeouts for the derivative service.
// Renders only touch the metadata store, so handlers finish well within a second unless a backend hangs.
const (
	ReadTimeout     = 5 * time.Second
	WriteTimeout    = 15 * time.Second
	HandlerTimeout  = 10 * time.Second
	IdleTimeout     = time.Minute
	ShutdownTimeout = WriteTimeout
	DatabaseTimeout = 30 * time.Second
)

// NewServer returns an http server using the service timeouts, logging server errors to log
func NewServer(addr string, h http.Handler, log *logger.Logger) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
		ErrorLog:     logger.NewHTTPErrorLog(log),
	}
}

// WaitForInterrupt blocks until the process receives SIGINT or SIGTERM, or ctx is done
func WaitForInterrupt(ctx context.Context) error {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(c)

	select {
	case sig := <-c:
		return fmt.Errorf("received signal %s", sig)
	case <-ctx.Done():
		return errors.New("canceled")
	}
}
