package model

// 情感标签
const (
	SentimentPositive = "positif"
	SentimentNeutral  = "neutre"
	SentimentNegative = "negatif"
)

// Film 电影记录（目录中的唯一实体）
type Film struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	Genres             []string `json:"genres"`
	MainGenre          *string  `json:"main_genre"`
	Overview           string   `json:"overview"`
	VoteAverage        float64  `json:"vote_average"`
	Popularity         float64  `json:"popularity"`
	ReleaseYear        *int     `json:"release_year"`
	SentimentScore     float64  `json:"sentiment_score"`
	SentimentLabel     string   `json:"sentiment_label"`
	SentimentScoreNorm float64  `json:"sentiment_score_norm"`

	// 以下字段只存在于单次请求的副本上，不写回目录
	ScoreSimilarite *float64     `json:"score_similarite,omitempty"`
	ScoreEmotion    *float64     `json:"score_emotion,omitempty"`
	Details         *FilmDetails `json:"details,omitempty"`
}

// FilmDetails TMDB 补充信息
type FilmDetails struct {
	PosterURL          string          `json:"poster_url"`
	BackdropURL        string          `json:"backdrop_url"`
	OverviewFR         string          `json:"overview_fr"`
	TrailerURL         string          `json:"trailer_url,omitempty"`
	TrailerKey         string          `json:"trailer_key,omitempty"`
	Runtime            int             `json:"runtime"`
	Budget             int64           `json:"budget"`
	Revenue            int64           `json:"revenue"`
	StreamingLinks     []StreamingLink `json:"streaming_links"`
	StreamingProviders []string        `json:"streaming_providers"`
}

// StreamingLink 播放平台
type StreamingLink struct {
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
	Type string `json:"type"` // subscription / rent / buy
}

// EmotionProfile 情绪的展示信息
type EmotionProfile struct {
	Key      string `json:"emotion"`
	Label    string `json:"label"`
	Reaction string `json:"reaction"`
	Color    string `json:"color"`
}

// HasGenre 判断是否包含某个类型
func (f *Film) HasGenre(genre string) bool {
	for _, g := range f.Genres {
		if g == genre {
			return true
		}
	}
	return false
}
