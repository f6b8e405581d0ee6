package session

import (
	"fmt"
	"os"

	"github.com/nguyentantai21042004/recap-flow/internal/logger"
)

type implManager struct {
	root   string
	logger logger.Logger
}

// New creates a Manager rooted at root, creating the directory if needed.
func New(root string, log logger.Logger) (Manager, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create sessions root: %w", err)
	}
	return &implManager{root: root, logger: log}, nil
}
