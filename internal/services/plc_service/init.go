package plc_service

import (
	"time"

	"github.com/iwtcode/inspectionService/internal/config"
	"github.com/iwtcode/inspectionService/internal/interfaces"
	"github.com/iwtcode/inspectionService/internal/middleware/logging"
)

// NewPlcService собирает Link по конфигурации. При PLC_SIMULATOR=true сессии
// открываются к ПЛК в памяти процесса.
func NewPlcService(cfg *config.AppConfig, profile *config.MachineProfile, events interfaces.EventJournal, logger *logging.Logger) interfaces.PlcLink {
	var dialer Dialer = TCPDialer{}
	if cfg.Plc.Simulator {
		logger.Warn("PLC simulator enabled, no hardware will be addressed")
		dialer = NewSimulator(profile.Plc.XYRadix)
	}

	return NewLink(Options{
		Dialer:         dialer,
		XYRadix:        profile.Plc.XYRadix,
		ProbeRegister:  profile.Plc.ProbeRegister,
		ProbeInterval:  time.Duration(cfg.Plc.ProbeIntervalMs) * time.Millisecond,
		DefaultTimeout: time.Duration(cfg.Plc.TimeoutMs) * time.Millisecond,
		AutoReconnect:  cfg.Plc.AutoReconnect,
		Events:         events,
		Logger:         logger,
	})
}
