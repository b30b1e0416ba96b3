package service

import (
	"context"
	"log"
	"net/url"
	"time"

	"github.com/user/moodflix/internal/utils"
)

const defaultTranslateURL = "https://api.mymemory.translated.net/get"

// Translator 基于 MyMemory 免费接口的翻译
type Translator struct {
	client  *utils.HTTPClient
	baseURL string
}

// NewTranslator baseURL 为空时使用 MyMemory 官方地址
func NewTranslator(baseURL string) *Translator {
	if baseURL == "" {
		baseURL = defaultTranslateURL
	}
	return &Translator{
		client:  utils.NewHTTPClient(5 * time.Second),
		baseURL: baseURL,
	}
}

type myMemoryResponse struct {
	ResponseStatus interface{} `json:"responseStatus"`
	ResponseData   struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
}

// Translate 翻译文本，失败时原样返回
func (t *Translator) Translate(ctx context.Context, text, from, to string) string {
	if len([]rune(text)) < 5 {
		return text
	}

	query := url.Values{}
	query.Set("q", utils.Truncate(text, 500))
	query.Set("langpair", from+"|"+to)

	var resp myMemoryResponse
	if err := t.client.GetJSON(ctx, t.baseURL, query, nil, &resp); err != nil {
		log.Printf("[Translate] MyMemory 请求失败: %v", err)
		return text
	}
	// responseStatus 有时是数字，有时是字符串
	switch status := resp.ResponseStatus.(type) {
	case float64:
		if status != 200 {
			return text
		}
	case string:
		if status != "200" {
			return text
		}
	default:
		return text
	}

	translated := resp.ResponseData.TranslatedText
	if translated == "" {
		return text
	}
	return translated
}
