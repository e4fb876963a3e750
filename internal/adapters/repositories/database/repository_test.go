package database

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwtcode/inspectionService/internal/domain/entities"
	"github.com/iwtcode/inspectionService/internal/domain/models"
	"github.com/iwtcode/inspectionService/internal/interfaces"
	apperrors "github.com/iwtcode/inspectionService/pkg/errors"
)

func newTestRepository(t *testing.T) interfaces.Repository {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "data", "inspection.db"), nil)
	require.NoError(t, err)
	repo, err := NewFromDB(db)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repo
}

func record(id string, created time.Time, defects int) *entities.ScanRecord {
	status := entities.ScanStatusPass
	if defects > 0 {
		status = entities.ScanStatusFail
	}
	return &entities.ScanRecord{
		ID:          id,
		CreatedAt:   created,
		Date:        created.Format("2006-01-02"),
		Time:        created.Format("15:04:05"),
		ImageCount:  1,
		DefectCount: defects,
		Status:      status,
		Images:      []string{"panel_01.jpg"},
		Defects: []entities.ScanDefect{{
			Image:       "panel_01.jpg",
			OverlayURL:  "/scans/" + id + "/image/panel_01_overlay.png",
			DefectCount: defects,
			DefectDetails: []models.Defect{
				{Type: "Dust", ClassID: 1, PixelCount: 120, AreaRatio: 0.004, Severity: models.SeverityLow},
			},
		}},
	}
}

func TestScanArchiveGetIsStable(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.Create(record("scan-1", time.Now(), 1)))

	first, err := repo.GetByID("scan-1")
	require.NoError(t, err)
	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		again, err := repo.GetByID("scan-1")
		require.NoError(t, err)
		againJSON, err := json.Marshal(again)
		require.NoError(t, err)
		assert.Equal(t, firstJSON, againJSON)
	}

	assert.Equal(t, entities.ScanStatusFail, first.Status)
	require.Len(t, first.Defects, 1)
	assert.Equal(t, "Dust", first.Defects[0].DefectDetails[0].Type)
}

func TestScanArchiveRejectsDuplicateID(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.Create(record("scan-1", time.Now(), 0)))
	assert.Error(t, repo.Create(record("scan-1", time.Now(), 5)))

	got, err := repo.GetByID("scan-1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.DefectCount)
}

func TestScanArchiveListNewestFirst(t *testing.T) {
	repo := newTestRepository(t)
	base := time.Now().Add(-time.Hour)
	require.NoError(t, repo.Create(record("old", base, 0)))
	require.NoError(t, repo.Create(record("new", base.Add(30*time.Minute), 2)))
	require.NoError(t, repo.Create(record("mid", base.Add(10*time.Minute), 0)))

	list, err := repo.List()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{list[0].ID, list[1].ID, list[2].ID})
	assert.Equal(t, "/scans/new/image/panel_01.jpg", list[0].Summary().Thumbnail)
}

func TestScanArchiveNotFound(t *testing.T) {
	repo := newTestRepository(t)
	_, err := repo.GetByID("missing")
	assert.ErrorIs(t, err, apperrors.ErrDataNotFound)
}

func TestSettingsUpsert(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetPlcEndpoint()
	assert.ErrorIs(t, err, apperrors.ErrDataNotFound)
	_, err = repo.GetCameraSettings()
	assert.ErrorIs(t, err, apperrors.ErrDataNotFound)

	require.NoError(t, repo.SavePlcEndpoint(entities.NewPlcEndpoint("169.254.180.21", 5000, 5000)))
	require.NoError(t, repo.SavePlcEndpoint(entities.NewPlcEndpoint("169.254.180.22", 5001, 2000)))
	endpoint, err := repo.GetPlcEndpoint()
	require.NoError(t, err)
	assert.Equal(t, "169.254.180.22", endpoint.Host)
	assert.Equal(t, 5001, endpoint.Port)

	require.NoError(t, repo.SaveCameraSettings(entities.NewCameraSettings(8000, 6, true)))
	cam, err := repo.GetCameraSettings()
	require.NoError(t, err)
	assert.Equal(t, 8000.0, cam.Exposure)
	assert.True(t, cam.AutoExposure)
}

func TestScanArchiveSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "inspection.db")

	db, err := OpenSQLite(path, nil)
	require.NoError(t, err)
	repo, err := NewFromDB(db)
	require.NoError(t, err)
	created := time.Now().Add(-time.Minute)
	require.NoError(t, repo.Create(record("scan-1", created, 2)))
	require.NoError(t, repo.Create(record("scan-2", created.Add(time.Second), 0)))

	before, err := repo.GetByID("scan-1")
	require.NoError(t, err)
	beforeJSON, err := json.Marshal(before)
	require.NoError(t, err)
	listBefore, err := repo.List()
	require.NoError(t, err)
	listBeforeJSON, err := json.Marshal(listBefore)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	reopened, err := OpenSQLite(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := reopened.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	repo, err = NewFromDB(reopened)
	require.NoError(t, err)

	after, err := repo.GetByID("scan-1")
	require.NoError(t, err)
	afterJSON, err := json.Marshal(after)
	require.NoError(t, err)
	assert.JSONEq(t, string(beforeJSON), string(afterJSON))

	listAfter, err := repo.List()
	require.NoError(t, err)
	listAfterJSON, err := json.Marshal(listAfter)
	require.NoError(t, err)
	assert.JSONEq(t, string(listBeforeJSON), string(listAfterJSON))
	require.Len(t, listAfter, 2)
	assert.Equal(t, "scan-2", listAfter[0].ID)
}
