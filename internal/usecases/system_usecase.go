package usecases

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/iwtcode/inspectionService/internal/domain/models"
)

func (u *Usecase) Events(limit int) []models.Event {
	return u.events.List(limit)
}

// Health не падает при недоступных зависимостях: их состояние отражается в полях
func (u *Usecase) Health(ctx context.Context) models.HealthResponse {
	return models.HealthResponse{
		Status:        "healthy",
		AgentLoaded:   u.agent.Loaded(ctx),
		PlcConnected:  u.plc.Status().Connected,
		CameraOpen:    u.camera.Status().IsOpen,
		InferenceMode: u.inference.Mode(),
		ScanState:     u.scans.State(),
		Host:          u.hostStats(ctx),
	}
}

func (u *Usecase) hostStats(ctx context.Context) *models.HostStats {
	stats := &models.HostStats{UptimeSeconds: uint64(time.Since(startedAt).Seconds())}
	if percents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	} else if err != nil {
		u.logger.Debug("CPU stats unavailable", "error", err)
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		stats.MemoryPercent = vm.UsedPercent
	} else {
		u.logger.Debug("Memory stats unavailable", "error", err)
	}
	return stats
}

func (u *Usecase) Troubleshoot(ctx context.Context, query string) (string, error) {
	return u.agent.Troubleshoot(ctx, query)
}
