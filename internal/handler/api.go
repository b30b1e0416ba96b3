package handler

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/moodflix/internal/middleware"
	"github.com/user/moodflix/internal/service"
	"github.com/user/moodflix/internal/utils"
)

const maxResults = 50

// parseLimit 读取 n 参数，缺省为配置值，超出 [1, 50] 返回 false
func (h *Handler) parseLimit(c *gin.Context) (int, bool) {
	raw := c.Query("n")
	if raw == "" {
		return h.Recommend.Limit(), true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxResults {
		utils.BadRequest(c, "n doit être un entier entre 1 et 50")
		return 0, false
	}
	return n, true
}

func parseFilmID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.BadRequest(c, "id invalide")
		return 0, false
	}
	return id, true
}

// APIEmotions 情绪列表
func (h *Handler) APIEmotions(c *gin.Context) {
	utils.Success(c, h.Recommend.Emotions())
}

// APIRecommend 按情绪推荐
func (h *Handler) APIRecommend(c *gin.Context) {
	emotion := strings.TrimSpace(c.Query("emotion"))
	if emotion == "" {
		utils.BadRequest(c, "emotion est obligatoire")
		return
	}
	n, ok := h.parseLimit(c)
	if !ok {
		return
	}
	utils.Success(c, h.Recommend.ByEmotion(c.Request.Context(), emotion, n))
}

// APISearch 组合搜索（标题 + 情绪）
func (h *Handler) APISearch(c *gin.Context) {
	utils.Success(c, h.Recommend.Search(c.Request.Context(), c.Query("titre"), c.Query("emotion")))
}

// APIFilm 电影详情
func (h *Handler) APIFilm(c *gin.Context) {
	id, ok := parseFilmID(c)
	if !ok {
		return
	}
	film, err := h.Recommend.Film(c.Request.Context(), id)
	if err != nil {
		utils.NotFound(c, "Film introuvable")
		return
	}
	utils.Success(c, film)
}

// APISimilar 相似电影
func (h *Handler) APISimilar(c *gin.Context) {
	id, ok := parseFilmID(c)
	if !ok {
		return
	}
	n, ok := h.parseLimit(c)
	if !ok {
		return
	}
	films, err := h.Recommend.Similar(c.Request.Context(), id, n)
	if errors.Is(err, service.ErrFilmNotFound) {
		utils.NotFound(c, "Film introuvable")
		return
	}
	utils.Success(c, films)
}

// APILookup 按标题查找
func (h *Handler) APILookup(c *gin.Context) {
	titre := strings.TrimSpace(c.Query("titre"))
	if titre == "" {
		utils.BadRequest(c, "titre est obligatoire")
		return
	}
	film, err := h.Recommend.Lookup(c.Request.Context(), titre)
	if err != nil {
		utils.NotFound(c, "Aucun film ne correspond à ce titre")
		return
	}
	utils.Success(c, film)
}

// ==================== 收藏 ====================

// APIFavorites 收藏列表
func (h *Handler) APIFavorites(c *gin.Context) {
	films, err := h.favoriteFilms(c)
	if err != nil {
		log.Printf("[Favorites] 获取收藏失败: %v", err)
		utils.InternalServerError(c, "Impossible de charger les favoris")
		return
	}
	utils.Success(c, films)
}

// AddFavorite 添加收藏
func (h *Handler) AddFavorite(c *gin.Context) {
	id, ok := parseFilmID(c)
	if !ok {
		return
	}
	if _, err := h.Recommend.Film(c.Request.Context(), id); err != nil {
		utils.NotFound(c, "Film introuvable")
		return
	}
	if err := h.Repos.Favorite.Add(middleware.GetUserID(c), id); err != nil {
		log.Printf("[Favorites] 添加收藏失败: %v", err)
		utils.InternalServerError(c, "Impossible d'ajouter le favori")
		return
	}
	utils.SuccessWithMessage(c, "Ajouté aux favoris", gin.H{"film_id": id})
}

// RemoveFavorite 取消收藏
func (h *Handler) RemoveFavorite(c *gin.Context) {
	id, ok := parseFilmID(c)
	if !ok {
		return
	}
	if err := h.Repos.Favorite.Remove(middleware.GetUserID(c), id); err != nil {
		log.Printf("[Favorites] 取消收藏失败: %v", err)
		utils.InternalServerError(c, "Impossible de retirer le favori")
		return
	}
	utils.SuccessWithMessage(c, "Retiré des favoris", gin.H{"film_id": id})
}
