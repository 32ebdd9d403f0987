package storage

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/spectorr/internal/common"
	"github.com/ternarybob/spectorr/internal/interfaces"
	"github.com/ternarybob/spectorr/internal/storage/flatfile"
)

// NewStorageManager creates the flat file storage manager for the configured data root
func NewStorageManager(logger arbor.ILogger, config *common.Config) interfaces.StorageManager {
	return flatfile.NewManager(logger, &config.Data)
}
