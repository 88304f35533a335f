package source

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/vstrvlno/tenderubot2/internal/model"
)

// LoadSources はソース設定ファイル（JSON配列）を読み込む。
// URLが空のエントリは無効として除外する。
// 種別の検証はパーサー生成時に行うため、ここでは行わない。
func LoadSources(path string) ([]model.SourceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ソース設定ファイルの読み込みに失敗しました: %w", err)
	}

	var configs []model.SourceConfig
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("ソース設定のパースに失敗しました: %w", err)
	}

	valid := make([]model.SourceConfig, 0, len(configs))
	for _, cfg := range configs {
		if cfg.URL == "" {
			continue
		}
		valid = append(valid, cfg)
	}

	return valid, nil
}
