package telemetry

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

// ProfilerConfig holds Pyroscope continuous profiling configuration.
type ProfilerConfig struct {
	Enabled         bool
	ServerAddress   string // e.g. "http://pyroscope:4040"
	ApplicationName string
	DisableGCRuns   bool
}

// profileTypes is the always-on set: CPU, heap and goroutines. Mutex and
// block profiles are left off because the webhook path rarely contends.
var profileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocObjects,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseObjects,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
}

// Profiler streams profiles to Pyroscope until Stop is called.
type Profiler struct {
	session *pyroscope.Profiler
	logger  *zap.Logger
	config  ProfilerConfig

	stopOnce sync.Once
	stopErr  error
}

// NewProfiler starts profiling. A disabled config yields a profiler whose
// Stop does nothing.
func NewProfiler(cfg ProfilerConfig, logger *zap.Logger) (*Profiler, error) {
	p := &Profiler{logger: logger, config: cfg}
	if !cfg.Enabled {
		logger.Info("Continuous profiling disabled")
		return p, nil
	}

	switch {
	case cfg.ServerAddress == "":
		return nil, errors.New("profiler server address is required when profiling is enabled")
	case cfg.ApplicationName == "":
		return nil, errors.New("profiler application name is required when profiling is enabled")
	}

	tags := make(map[string]string, 1)
	if host := os.Getenv("HOSTNAME"); host != "" {
		tags["hostname"] = host
	}

	session, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.ApplicationName,
		ServerAddress:   cfg.ServerAddress,
		Logger:          pyroscopeLogger{logger.Named("pyroscope").Sugar()},
		Tags:            tags,
		ProfileTypes:    profileTypes,
		DisableGCRuns:   cfg.DisableGCRuns,
	})
	if err != nil {
		return nil, fmt.Errorf("start pyroscope profiler: %w", err)
	}
	p.session = session

	logger.Info("Continuous profiling enabled", zap.String("server_address", cfg.ServerAddress))
	return p, nil
}

// Stop flushes the last profiles. Only the first call does any work.
func (p *Profiler) Stop() error {
	p.stopOnce.Do(func() {
		if p.session == nil {
			return
		}
		if err := p.session.Stop(); err != nil {
			p.logger.Error("Profiler stop failed", zap.Error(err))
			p.stopErr = fmt.Errorf("stop pyroscope profiler: %w", err)
			return
		}
		p.logger.Info("Continuous profiling stopped")
	})
	return p.stopErr
}

// IsEnabled reports whether profiles are being uploaded.
func (p *Profiler) IsEnabled() bool { return p.session != nil }

// GetConfig returns a copy of the profiler configuration.
func (p *Profiler) GetConfig() ProfilerConfig { return p.config }

// pyroscopeLogger satisfies pyroscope.Logger through the sugared
// Infof, Debugf and Errorf methods.
type pyroscopeLogger struct {
	*zap.SugaredLogger
}

var _ pyroscope.Logger = pyroscopeLogger{}
