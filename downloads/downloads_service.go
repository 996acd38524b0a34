package downloads

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ipahub/ipahub/constants"
	"github.com/ipahub/ipahub/db"
	"github.com/ipahub/ipahub/logger"
	"github.com/ipahub/ipahub/store"
	"github.com/ipahub/ipahub/store/plist"
)

var ErrDownloadNotFound = errors.New("download not found")

type downloadsService struct {
	db *gorm.DB
}

type DownloadsService interface {
	CreateDownload(software store.Software, accountHash string, versionID string, descriptor *store.DownloadDescriptor) (*db.Download, error)
	GetDownload(downloadID uint) (*db.Download, error)
	ListDownloads(limit uint64, offset uint64) ([]db.Download, int64, error)
	UpdateDownloadState(downloadID uint, state string, reason string) error
	DeleteDownload(downloadID uint) error
}

func NewDownloadsService(gormDB *gorm.DB) *downloadsService {
	return &downloadsService{
		db: gormDB,
	}
}

// CreateDownload records a resolved download descriptor. The sinfs and the
// metadata blob are kept verbatim so the artifact can be signed later.
func (svc *downloadsService) CreateDownload(software store.Software, accountHash string, versionID string, descriptor *store.DownloadDescriptor) (*db.Download, error) {
	sinfs, err := json.Marshal(descriptor.Sinfs)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize sinfs: %w", err)
	}

	var metadata []byte
	if descriptor.Metadata != nil {
		metadata, err = plist.Encode(descriptor.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize download metadata: %w", err)
		}
	}

	download := db.Download{
		AppID:       software.ID,
		BundleID:    software.BundleID,
		Name:        software.Name,
		Version:     software.Version,
		ArtworkURL:  software.ArtworkURL,
		AccountHash: accountHash,
		DownloadURL: descriptor.URL,
		VersionID:   versionID,
		Sinfs:       datatypes.JSON(sinfs),
		Metadata:    metadata,
		State:       constants.DOWNLOAD_STATE_PENDING,
	}

	err = svc.db.Create(&download).Error
	if err != nil {
		logger.Logger.Error().Err(err).Str("bundleId", software.BundleID).Msg("Failed to record download")
		return nil, err
	}

	logger.Logger.Info().
		Uint("id", download.ID).
		Str("bundleId", software.BundleID).
		Str("version", software.Version).
		Msg("Recorded download")
	return &download, nil
}

func (svc *downloadsService) GetDownload(downloadID uint) (*db.Download, error) {
	var download db.Download
	result := svc.db.Limit(1).Find(&download, downloadID)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrDownloadNotFound
	}
	return &download, nil
}

func (svc *downloadsService) ListDownloads(limit uint64, offset uint64) ([]db.Download, int64, error) {
	var total int64
	err := svc.db.Model(&db.Download{}).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	downloads := []db.Download{}
	query := svc.db.Order("created_at desc")
	if limit > 0 {
		query = query.Limit(int(limit))
	}
	err = query.Offset(int(offset)).Find(&downloads).Error
	if err != nil {
		return nil, 0, err
	}
	return downloads, total, nil
}

func (svc *downloadsService) UpdateDownloadState(downloadID uint, state string, reason string) error {
	if !slices.Contains(constants.GetDownloadStates(), state) {
		return fmt.Errorf("invalid download state: %s", state)
	}

	download, err := svc.GetDownload(downloadID)
	if err != nil {
		return err
	}

	return svc.db.Model(download).Updates(map[string]interface{}{
		"state": state,
		"error": reason,
	}).Error
}

func (svc *downloadsService) DeleteDownload(downloadID uint) error {
	download, err := svc.GetDownload(downloadID)
	if err != nil {
		return err
	}
	return svc.db.Delete(download).Error
}
