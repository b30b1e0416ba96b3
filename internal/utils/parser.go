package utils

import (
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// ParseGenres 解析 TMDB 的类型字段
// 格式通常为: [{'id': 28, 'name': 'Action'}, {'id': 12, 'name': 'Adventure'}]
// 单引号会被替换为双引号再按 JSON 解析；空值或格式错误时返回空切片
func ParseGenres(raw string) []string {
	entries, ok := decodeList(raw)
	if !ok {
		return []string{}
	}

	genres := make([]string, 0, len(entries))
	for _, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name, ok := obj["name"].(string)
		if !ok {
			continue
		}
		if name = strings.TrimSpace(name); name != "" {
			genres = append(genres, name)
		}
	}
	return genres
}

// ParseGenreList 解析快照中的类型列表，如 ["Action", "Drama"] 或 ['Action', 'Drama']
func ParseGenreList(raw string) []string {
	entries, ok := decodeList(raw)
	if !ok {
		return []string{}
	}

	genres := make([]string, 0, len(entries))
	for _, entry := range entries {
		if name, ok := entry.(string); ok {
			if name = strings.TrimSpace(name); name != "" {
				genres = append(genres, name)
			}
		}
	}
	return genres
}

func decodeList(raw string) ([]any, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}
	var entries []any
	if err := json.Unmarshal([]byte(strings.ReplaceAll(raw, "'", `"`)), &entries); err != nil {
		return nil, false
	}
	return entries, true
}

// MainGenre 返回第一个类型，列表为空时返回 nil
func MainGenre(genres []string) *string {
	if len(genres) == 0 {
		return nil
	}
	main := genres[0]
	return &main
}

// ExtractYear 从 YYYY-MM-DD 格式的日期中提取年份
// 格式必须完全匹配，否则返回 false
func ExtractYear(date string) (int, bool) {
	if strings.TrimSpace(date) == "" {
		return 0, false
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, false
	}
	return t.Year(), true
}
