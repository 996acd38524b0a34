package constants

// shared constants used by multiple packages

const (
	DOWNLOAD_STATE_PENDING  = "PENDING"
	DOWNLOAD_STATE_COMPLETE = "COMPLETE"
	DOWNLOAD_STATE_FAILED   = "FAILED"
)

func GetDownloadStates() []string {
	return []string{
		DOWNLOAD_STATE_PENDING,
		DOWNLOAD_STATE_COMPLETE,
		DOWNLOAD_STATE_FAILED,
	}
}
