package service

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/user/moodflix/internal/metrics"
	"github.com/user/moodflix/internal/model"
	"github.com/user/moodflix/internal/repository"
	"github.com/user/moodflix/internal/utils"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	defaultTMDBBaseURL = "https://api.themoviedb.org/3"
	tmdbPosterBase     = "https://image.tmdb.org/t/p/w780"
	tmdbLogoBase       = "https://image.tmdb.org/t/p/w500"

	noDescription = "Pas de description disponible."
)

// 判断简介是否已经是法语时参考的常见词
var frenchWords = []string{"le", "la", "de", "et", "un", "une", "est", "pour", "avec", "qui", "se", "film"}

// TMDBConfig TMDB 客户端配置
type TMDBConfig struct {
	APIKey      string
	APIToken    string
	Enabled     bool
	BaseURL     string
	CacheSize   int
	CacheTTL    time.Duration
	Concurrency int
}

// TMDBService 为推荐结果补充海报、预告片和播放平台等信息
type TMDBService struct {
	client      *utils.HTTPClient
	cfg         TMDBConfig
	memory      *utils.TTLCache[int, model.FilmDetails]
	disk        *repository.EnrichmentCache
	translator  *Translator
	group       singleflight.Group
	concurrency int
}

// NewTMDBService disk 和 translator 可以为 nil
func NewTMDBService(cfg TMDBConfig, disk *repository.EnrichmentCache, translator *Translator) *TMDBService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultTMDBBaseURL
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 1000
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if disk == nil {
		disk = repository.NewEnrichmentCache("")
	}
	return &TMDBService{
		client:      utils.NewHTTPClient(5 * time.Second),
		cfg:         cfg,
		memory:      utils.NewTTLCache[int, model.FilmDetails](cfg.CacheSize, cfg.CacheTTL),
		disk:        disk,
		translator:  translator,
		concurrency: cfg.Concurrency,
	}
}

// Enabled 是否配置了凭据并开启补充
func (s *TMDBService) Enabled() bool {
	return s.cfg.Enabled && (s.cfg.APIKey != "" || s.cfg.APIToken != "")
}

// Enrich 返回附带补充信息的副本，失败时只填占位图
func (s *TMDBService) Enrich(ctx context.Context, film model.Film) model.Film {
	details := s.Details(ctx, film)
	film.Details = &details
	return film
}

// EnrichAll 并发补充整个列表，顺序不变
func (s *TMDBService) EnrichAll(ctx context.Context, films []model.Film) []model.Film {
	out := make([]model.Film, len(films))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range films {
		i := i
		g.Go(func() error {
			out[i] = s.Enrich(gctx, films[i])
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Details 依次查询内存缓存、磁盘缓存和 TMDB
func (s *TMDBService) Details(ctx context.Context, film model.Film) model.FilmDetails {
	if !s.Enabled() {
		metrics.RecordEnrichment("disabled")
		return s.offlineDetails(ctx, film)
	}
	if d, ok := s.memory.Get(film.ID); ok {
		metrics.RecordEnrichment("memory")
		return d
	}
	if d, ok := s.disk.Get(film.ID); ok {
		metrics.RecordEnrichment("disk")
		s.memory.Set(film.ID, d)
		return d
	}

	// 同一部电影的并发请求只抓取一次
	val, err, _ := s.group.Do(fmt.Sprint(film.ID), func() (interface{}, error) {
		return s.fetch(ctx, film)
	})
	if err != nil {
		metrics.RecordEnrichment("error")
		log.Printf("[TMDB] 获取详情失败 (ID: %d): %v", film.ID, err)
		return PlaceholderDetails(film.Title)
	}
	metrics.RecordEnrichment("fetched")
	d := val.(model.FilmDetails)
	s.memory.Set(film.ID, d)
	s.disk.Put(film.ID, d)
	return d
}

// PersistCache 把磁盘缓存写回文件
func (s *TMDBService) PersistCache() (bool, error) {
	return s.disk.Save()
}

type tmdbProvider struct {
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path"`
}

type tmdbMovieResponse struct {
	Overview     string `json:"overview"`
	PosterPath   string `json:"poster_path"`
	BackdropPath string `json:"backdrop_path"`
	Runtime      int    `json:"runtime"`
	Budget       int64  `json:"budget"`
	Revenue      int64  `json:"revenue"`
	Videos       struct {
		Results []struct {
			Key  string `json:"key"`
			Site string `json:"site"`
			Type string `json:"type"`
		} `json:"results"`
	} `json:"videos"`
	WatchProviders struct {
		Results map[string]struct {
			Flatrate []tmdbProvider `json:"flatrate"`
			Rent     []tmdbProvider `json:"rent"`
			Buy      []tmdbProvider `json:"buy"`
		} `json:"results"`
	} `json:"watch/providers"`
}

func (s *TMDBService) fetchMovie(ctx context.Context, id int, language string) (*tmdbMovieResponse, error) {
	query := url.Values{}
	query.Set("language", language)
	query.Set("append_to_response", "videos,watch/providers")

	var headers map[string]string
	if s.cfg.APIToken != "" {
		headers = map[string]string{"Authorization": "Bearer " + s.cfg.APIToken}
	} else {
		query.Set("api_key", s.cfg.APIKey)
	}

	var result tmdbMovieResponse
	endpoint := fmt.Sprintf("%s/movie/%d", s.cfg.BaseURL, id)
	if err := s.client.GetJSON(ctx, endpoint, query, headers, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *TMDBService) fetch(ctx context.Context, film model.Film) (model.FilmDetails, error) {
	data, err := s.fetchMovie(ctx, film.ID, "fr-FR")
	if err != nil {
		return model.FilmDetails{}, err
	}

	details := PlaceholderDetails(film.Title)
	if data.PosterPath != "" {
		details.PosterURL = tmdbPosterBase + data.PosterPath
	}
	if data.BackdropPath != "" {
		details.BackdropURL = tmdbPosterBase + data.BackdropPath
	}
	details.Runtime = data.Runtime
	details.Budget = data.Budget
	details.Revenue = data.Revenue
	details.OverviewFR = s.frenchOverview(ctx, film.ID, data.Overview)

	for _, v := range data.Videos.Results {
		if v.Type == "Trailer" && v.Site == "YouTube" {
			details.TrailerKey = v.Key
			details.TrailerURL = "https://www.youtube.com/embed/" + v.Key
			break
		}
	}

	if fr, ok := data.WatchProviders.Results["FR"]; ok {
		seen := make(map[string]bool)
		add := func(providers []tmdbProvider, suffix, kind string) {
			for _, p := range providers {
				link := model.StreamingLink{Name: p.ProviderName + suffix, Type: kind}
				if p.LogoPath != "" {
					link.Logo = tmdbLogoBase + p.LogoPath
				}
				details.StreamingLinks = append(details.StreamingLinks, link)

				name := strings.ToLower(p.ProviderName)
				if name != "" && !seen[name] {
					seen[name] = true
					details.StreamingProviders = append(details.StreamingProviders, name)
				}
			}
		}
		add(fr.Flatrate, "", "subscription")
		add(fr.Rent, " (Location)", "rent")
		add(fr.Buy, " (Achat)", "buy")
	}
	return details, nil
}

// frenchOverview 简介优先用法语，太短时改用英语，再按需翻译
func (s *TMDBService) frenchOverview(ctx context.Context, id int, overview string) string {
	if len(strings.TrimSpace(overview)) < 10 {
		if en, err := s.fetchMovie(ctx, id, "en-US"); err == nil {
			overview = en.Overview
		}
	}
	if strings.TrimSpace(overview) == "" {
		return noDescription
	}
	if frenchRatio(overview) < 0.3 && s.translator != nil {
		return s.translator.Translate(ctx, overview, "en", "fr")
	}
	return overview
}

// offlineDetails 未启用 TMDB 时只有占位图，简介用数据集里的英文简介翻译
func (s *TMDBService) offlineDetails(ctx context.Context, film model.Film) model.FilmDetails {
	details := PlaceholderDetails(film.Title)
	overview := strings.TrimSpace(film.Overview)
	switch {
	case overview == "":
		details.OverviewFR = noDescription
	case s.translator != nil && len([]rune(overview)) > 10:
		if d, ok := s.memory.Get(film.ID); ok {
			return d
		}
		details.OverviewFR = s.translator.Translate(ctx, overview, "en", "fr")
		// 翻译失败时返回原文，不缓存，下次重试
		if details.OverviewFR != overview {
			s.memory.Set(film.ID, details)
		}
	default:
		details.OverviewFR = overview
	}
	return details
}

// frenchRatio 出现的法语常见词个数与总词数之比
func frenchRatio(text string) float64 {
	lower := strings.ToLower(text)
	words := len(strings.Fields(lower))
	if words == 0 {
		return 0
	}
	matches := 0
	for _, w := range frenchWords {
		if strings.Contains(lower, w) {
			matches++
		}
	}
	return float64(matches) / float64(words)
}

// PlaceholderDetails 没有 TMDB 数据时的默认展示信息
func PlaceholderDetails(title string) model.FilmDetails {
	text := url.QueryEscape(utils.Truncate(title, 20))
	return model.FilmDetails{
		PosterURL:          "https://via.placeholder.com/500x750?text=" + text,
		BackdropURL:        "https://via.placeholder.com/1280x720?text=" + text,
		StreamingLinks:     []model.StreamingLink{},
		StreamingProviders: []string{},
	}
}
