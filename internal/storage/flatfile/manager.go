package flatfile

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/spectorr/internal/common"
	"github.com/ternarybob/spectorr/internal/interfaces"
)

// Manager implements the StorageManager interface over the data root's flat files
type Manager struct {
	rawDir    string
	canonical *CanonicalStorage
	insight   *InsightStorage
	logger    arbor.ILogger
}

var _ interfaces.StorageManager = (*Manager)(nil)

// NewManager creates a flat file storage manager for the configured data root
func NewManager(logger arbor.ILogger, config *common.DataConfig) *Manager {
	manager := &Manager{
		rawDir:    config.RawDir(),
		canonical: NewCanonicalStorage(config.CleanedCSV(), logger),
		insight:   NewInsightStorage(config.InsightsJSON(), logger),
		logger:    logger,
	}

	logger.Debug().
		Str("raw_dir", manager.rawDir).
		Str("cleaned", manager.canonical.Path()).
		Str("insights", manager.insight.Path()).
		Msg("Flat file storage initialized")

	return manager
}

// RawDir returns the directory raw inputs are discovered in
func (m *Manager) RawDir() string {
	return m.rawDir
}

// CanonicalStorage returns the canonical storage interface
func (m *Manager) CanonicalStorage() interfaces.CanonicalStorage {
	return m.canonical
}

// InsightStorage returns the insight storage interface
func (m *Manager) InsightStorage() interfaces.InsightWriter {
	return m.insight
}
