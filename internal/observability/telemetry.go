// Package observability starts and stops the tracing and profiling sidecars
// that run next to the scoring API.
package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"strings"
	"time"

	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/cricket-league/internal/config"
	"github.com/riskibarqy/cricket-league/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
)

// Telemetry holds whatever sidecars were enabled for this process.
type Telemetry struct {
	logger   *logging.Logger
	tracing  bool
	profiler *pyroscope.Profiler
	debugSrv *http.Server
}

// Start brings up Uptrace tracing, Pyroscope profiling and the pprof debug
// listener according to cfg. Disabled parts are skipped. On error anything
// already started is torn down.
func Start(cfg config.Config, logger *logging.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = logging.Default()
	}
	t := &Telemetry{logger: logger.Named("telemetry")}

	t.startTracing(cfg)

	if cfg.PyroscopeEnabled {
		profiler, err := pyroscope.Start(profilerConfig(cfg))
		if err != nil {
			_ = t.Shutdown(context.Background())
			return nil, err
		}
		t.profiler = profiler
		t.logger.Info("profiling on", "server_address", cfg.PyroscopeServerAddress, "application", cfg.PyroscopeAppName)
	}

	if cfg.PprofEnabled {
		t.debugSrv = &http.Server{
			Addr:              cfg.PprofAddr,
			Handler:           debugMux(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go t.serveDebug(t.debugSrv)
	}

	return t, nil
}

func (t *Telemetry) startTracing(cfg config.Config) {
	if !cfg.UptraceEnabled || strings.TrimSpace(cfg.UptraceDSN) == "" {
		t.logger.Debug("tracing off", "uptrace_enabled", cfg.UptraceEnabled)
		return
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
	)
	t.tracing = true
	t.logger.Info("tracing on", "service", cfg.ServiceName, "version", cfg.ServiceVersion, "env", cfg.AppEnv)
}

func (t *Telemetry) serveDebug(srv *http.Server) {
	t.logger.Info("pprof listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		t.logger.Error("pprof listener failed", "error", err)
	}
}

// Shutdown stops the sidecars in reverse start order and flushes pending spans.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}

	var errs []error
	if t.debugSrv != nil {
		errs = append(errs, t.debugSrv.Shutdown(ctx))
		t.debugSrv = nil
	}
	if t.profiler != nil {
		errs = append(errs, t.profiler.Stop())
		t.profiler = nil
	}
	if t.tracing {
		errs = append(errs, uptrace.Shutdown(ctx))
		t.tracing = false
	}
	return errors.Join(errs...)
}

func profilerConfig(cfg config.Config) pyroscope.Config {
	return pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags: map[string]string{
			"env":     cfg.AppEnv,
			"service": cfg.ServiceName,
		},
		// Replay workers and the live feed hub are goroutine and lock heavy.
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
			pyroscope.ProfileMutexCount,
			pyroscope.ProfileMutexDuration,
			pyroscope.ProfileBlockCount,
			pyroscope.ProfileBlockDuration,
		},
	}
}

func debugMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	for name, fn := range map[string]http.HandlerFunc{
		"cmdline": pprof.Cmdline,
		"profile": pprof.Profile,
		"symbol":  pprof.Symbol,
		"trace":   pprof.Trace,
	} {
		mux.HandleFunc("/debug/pprof/"+name, fn)
	}
	return mux
}
