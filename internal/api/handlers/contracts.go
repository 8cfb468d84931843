package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"energy-lsmc/internal/api/models"
	"energy-lsmc/internal/config"
	"energy-lsmc/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContractHandler serves the contract presets under dir/storage and
// dir/swing.
type ContractHandler struct {
	dir    string
	logger *zap.Logger
}

// NewContractHandler creates a new contract handler
func NewContractHandler(dir string, logger *zap.Logger) *ContractHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	logger.Info("contract presets", zap.String("dir", dir))
	return &ContractHandler{dir: dir, logger: logger}
}

// ListContracts handles GET /api/v1/contracts
func (h *ContractHandler) ListContracts(c *gin.Context) {
	contracts := []models.ContractInfo{}
	for _, kind := range []model.ContractKind{model.KindStorage, model.KindSwing} {
		infos, err := h.list(kind)
		if err != nil {
			h.logger.Warn("read contract presets", zap.String("kind", string(kind)), zap.Error(err))
			continue
		}
		contracts = append(contracts, infos...)
	}
	c.JSON(http.StatusOK, gin.H{"contracts": contracts})
}

func (h *ContractHandler) list(kind model.ContractKind) ([]models.ContractInfo, error) {
	dir := filepath.Join(h.dir, string(kind))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []models.ContractInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".yaml")
		path := filepath.Join(dir, entry.Name())

		var name string
		switch kind {
		case model.KindStorage:
			sc, err := config.LoadStorageFile(path)
			if err != nil {
				h.logger.Warn("skip storage preset", zap.String("file", path), zap.Error(err))
				continue
			}
			name = sc.Name
		case model.KindSwing:
			sc, err := config.LoadSwingFile(path)
			if err != nil {
				h.logger.Warn("skip swing preset", zap.String("file", path), zap.Error(err))
				continue
			}
			name = sc.Name
		}
		if name == "" {
			name = id
		}
		out = append(out, models.ContractInfo{ID: id, Kind: string(kind), Name: name, File: path})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// errUnknownContract is returned for preset ids that do not resolve.
var errUnknownContract = errors.New("unknown contract preset")

// presetPath rejects ids that would escape the preset directory.
func (h *ContractHandler) presetPath(kind model.ContractKind, id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", fmt.Errorf("%w: %q", errUnknownContract, id)
	}
	path := filepath.Join(h.dir, string(kind), id+".yaml")
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s %q", errUnknownContract, kind, id)
	}
	return path, nil
}

// Storage loads a storage preset by id.
func (h *ContractHandler) Storage(id string) (config.StorageConfig, error) {
	path, err := h.presetPath(model.KindStorage, id)
	if err != nil {
		return config.StorageConfig{}, err
	}
	return config.LoadStorageFile(path)
}

// Swing loads a swing preset by id.
func (h *ContractHandler) Swing(id string) (config.SwingConfig, error) {
	path, err := h.presetPath(model.KindSwing, id)
	if err != nil {
		return config.SwingConfig{}, err
	}
	return config.LoadSwingFile(path)
}
