package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/user/moodflix/internal/model"
	"github.com/user/moodflix/internal/utils"
)

// Catalog 内存中的电影目录，构建后只读
type Catalog struct {
	films []model.Film
	index map[int]int
}

// NewCatalog 按 id 去重构建目录，重复的 id 保留第一次出现的记录
func NewCatalog(films []model.Film) *Catalog {
	c := &Catalog{
		films: make([]model.Film, 0, len(films)),
		index: make(map[int]int, len(films)),
	}
	for _, f := range films {
		if _, exists := c.index[f.ID]; exists {
			continue
		}
		c.index[f.ID] = len(c.films)
		c.films = append(c.films, f)
	}
	return c
}

// Films 返回目录的副本，调用方可以随意修改
func (c *Catalog) Films() []model.Film {
	out := make([]model.Film, len(c.films))
	copy(out, c.films)
	return out
}

// FindByID 根据 id 查找电影
func (c *Catalog) FindByID(id int) (model.Film, bool) {
	i, ok := c.index[id]
	if !ok {
		return model.Film{}, false
	}
	return c.films[i], true
}

// Len 电影数量
func (c *Catalog) Len() int {
	return len(c.films)
}

// TMDB 5000 数据集中用到的列
var rawColumns = []string{"id", "title", "genres", "overview", "vote_average", "popularity", "release_date"}

// 快照列顺序
var snapshotColumns = []string{
	"id", "title", "genres", "main_genre", "overview", "vote_average", "popularity",
	"release_year", "sentiment_score", "sentiment_label", "sentiment_score_norm",
}

// LoadTMDBCSV 读取原始 TMDB CSV，按表头名取列
// id 无法解析的行直接跳过，评分和热度无法解析时记为 0
func LoadTMDBCSV(path string) ([]model.Film, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开数据集失败: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}
	cols, err := columnIndex(header, rawColumns)
	if err != nil {
		return nil, err
	}

	var films []model.Film
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("读取数据集失败: %w", err)
		}

		id, err := strconv.Atoi(strings.TrimSpace(cell(row, cols["id"])))
		if err != nil {
			continue
		}
		genres := utils.ParseGenres(cell(row, cols["genres"]))
		film := model.Film{
			ID:          id,
			Title:       cell(row, cols["title"]),
			Genres:      genres,
			MainGenre:   utils.MainGenre(genres),
			Overview:    cell(row, cols["overview"]),
			VoteAverage: parseFloat(cell(row, cols["vote_average"])),
			Popularity:  parseFloat(cell(row, cols["popularity"])),
		}
		if year, ok := utils.ExtractYear(cell(row, cols["release_date"])); ok {
			film.ReleaseYear = &year
		}
		films = append(films, film)
	}
	return films, nil
}

// SaveSnapshot 把已打好情感标签的目录写成 CSV 快照
func SaveSnapshot(path string, films []model.Film) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建快照目录失败: %w", err)
		}
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("创建快照失败: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(snapshotColumns); err != nil {
		f.Close()
		return err
	}
	for _, film := range films {
		genres, err := json.Marshal(film.Genres)
		if err != nil {
			f.Close()
			return err
		}
		mainGenre := ""
		if film.MainGenre != nil {
			mainGenre = *film.MainGenre
		}
		year := ""
		if film.ReleaseYear != nil {
			year = strconv.Itoa(*film.ReleaseYear)
		}
		record := []string{
			strconv.Itoa(film.ID),
			film.Title,
			string(genres),
			mainGenre,
			film.Overview,
			formatFloat(film.VoteAverage),
			formatFloat(film.Popularity),
			year,
			formatFloat(film.SentimentScore),
			film.SentimentLabel,
			formatFloat(film.SentimentScoreNorm),
		}
		if err := w.Write(record); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("写入快照失败: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadSnapshot 读取 SaveSnapshot 写出的快照
func LoadSnapshot(path string) ([]model.Film, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("读取快照表头失败: %w", err)
	}
	cols, err := columnIndex(header, snapshotColumns)
	if err != nil {
		return nil, err
	}

	var films []model.Film
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("读取快照失败: %w", err)
		}
		id, err := strconv.Atoi(cell(row, cols["id"]))
		if err != nil {
			continue
		}
		film := model.Film{
			ID:                 id,
			Title:              cell(row, cols["title"]),
			Genres:             utils.ParseGenreList(cell(row, cols["genres"])),
			Overview:           cell(row, cols["overview"]),
			VoteAverage:        parseFloat(cell(row, cols["vote_average"])),
			Popularity:         parseFloat(cell(row, cols["popularity"])),
			SentimentScore:     parseFloat(cell(row, cols["sentiment_score"])),
			SentimentLabel:     cell(row, cols["sentiment_label"]),
			SentimentScoreNorm: parseFloat(cell(row, cols["sentiment_score_norm"])),
		}
		film.MainGenre = utils.MainGenre(film.Genres)
		if year, err := strconv.Atoi(cell(row, cols["release_year"])); err == nil {
			film.ReleaseYear = &year
		}
		films = append(films, film)
	}
	return films, nil
}

func columnIndex(header, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("缺少列: %s", name)
		}
	}
	return idx, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
