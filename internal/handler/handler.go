package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/user/moodflix/internal/config"
	"github.com/user/moodflix/internal/middleware"
	"github.com/user/moodflix/internal/model"
	"github.com/user/moodflix/internal/repository"
	"github.com/user/moodflix/internal/service"
)

// Handler HTTP 处理器
type Handler struct {
	Repos     *repository.Repositories
	Config    *config.Config
	Recommend *service.RecommendationService
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config, recommend *service.RecommendationService) *Handler {
	return &Handler{
		Repos:     repos,
		Config:    cfg,
		Recommend: recommend,
	}
}

// RenderData 统一封装公共渲染数据
func (h *Handler) RenderData(c *gin.Context, data gin.H) gin.H {
	res := gin.H{
		"SiteName": h.Config.SiteName,
		"SiteUrl":  h.Config.SiteUrl,
		"Path":     c.Request.URL.Path,
		"Emotions": h.Recommend.Emotions(),
	}

	// 注入用户信息
	session := sessions.Default(c)
	if userinfo := session.Get("userinfo"); userinfo != nil {
		if su, ok := userinfo.(model.SessionUser); ok {
			res["UserInfo"] = su
		}
	}

	for k, v := range data {
		res[k] = v
	}
	return res
}

// ==================== 公开页面 ====================

// Home 首页：情绪选择和标题搜索
func (h *Handler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", h.RenderData(c, gin.H{
		"Title": h.Config.SiteName + " - Films selon votre humeur",
		"Titre": "",
	}))
}

// Search 结果页
func (h *Handler) Search(c *gin.Context) {
	titre := strings.TrimSpace(c.Query("titre"))
	emotion := strings.ToLower(strings.TrimSpace(c.Query("emotion")))
	if titre == "" && emotion == "" {
		c.Redirect(http.StatusFound, "/")
		return
	}

	result := h.Recommend.Search(c.Request.Context(), titre, emotion)
	c.HTML(http.StatusOK, "results.html", h.RenderData(c, gin.H{
		"Title":   "Résultats - " + h.Config.SiteName,
		"Titre":   titre,
		"Emotion": result.Emotion,
		"Films":   result.Films,
	}))
}

// FilmPage 电影详情页，附带相似推荐
func (h *Handler) FilmPage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.NotFound(c)
		return
	}
	film, err := h.Recommend.Film(c.Request.Context(), id)
	if err != nil {
		h.NotFound(c)
		return
	}
	similar, _ := h.Recommend.Similar(c.Request.Context(), id, h.Recommend.Limit())

	c.HTML(http.StatusOK, "film.html", h.RenderData(c, gin.H{
		"Title":   film.Title + " - " + h.Config.SiteName,
		"Film":    film,
		"Similar": similar,
	}))
}

// NotFound 404 页面
func (h *Handler) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", h.RenderData(c, gin.H{
		"Title": "Page introuvable - " + h.Config.SiteName,
	}))
}

// ==================== 认证 ====================

// LoginPage 登录页面
func (h *Handler) LoginPage(c *gin.Context) {
	if middleware.GetUserID(c) > 0 {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", h.RenderData(c, gin.H{
		"Title":    "Connexion - " + h.Config.SiteName,
		"Redirect": c.Query("redirect"),
	}))
}

// Login 登录处理
func (h *Handler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	redirect := safeRedirect(c.PostForm("redirect"))

	user, err := h.Repos.User.Authenticate(email, password)
	if err != nil {
		if !errors.Is(err, repository.ErrInvalidCredentials) {
			log.Printf("[Auth] 登录失败: %v", err)
		}
		c.HTML(http.StatusOK, "login.html", h.RenderData(c, gin.H{
			"Title":    "Connexion - " + h.Config.SiteName,
			"Error":    "Email ou mot de passe incorrect",
			"Redirect": redirect,
		}))
		return
	}

	if err := h.signIn(c, user); err != nil {
		c.HTML(http.StatusInternalServerError, "login.html", h.RenderData(c, gin.H{
			"Title": "Connexion - " + h.Config.SiteName,
			"Error": "Échec de la connexion, veuillez réessayer",
		}))
		return
	}
	c.Redirect(http.StatusFound, redirect)
}

// RegisterPage 注册页面
func (h *Handler) RegisterPage(c *gin.Context) {
	if middleware.GetUserID(c) > 0 {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "register.html", h.RenderData(c, gin.H{
		"Title": "Inscription - " + h.Config.SiteName,
	}))
}

// registerForm 注册表单
type registerForm struct {
	Email           string `form:"email" binding:"required,email"`
	Username        string `form:"username"`
	Password        string `form:"password" binding:"required,min=6"`
	ConfirmPassword string `form:"confirm_password" binding:"required,eqfield=Password"`
}

// Register 注册处理
func (h *Handler) Register(c *gin.Context) {
	renderError := func(status int, msg string) {
		c.HTML(status, "register.html", h.RenderData(c, gin.H{
			"Title": "Inscription - " + h.Config.SiteName,
			"Error": msg,
		}))
	}

	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		renderError(http.StatusOK, registerErrorMessage(c))
		return
	}

	// 默认截取邮箱 @ 符号前的内容作为用户名
	username := strings.TrimSpace(form.Username)
	if username == "" {
		username = strings.SplitN(form.Email, "@", 2)[0]
	}

	user, err := h.Repos.User.Create(form.Email, username, form.Password)
	if errors.Is(err, repository.ErrUserExists) {
		renderError(http.StatusOK, "Cet email ou ce nom d'utilisateur est déjà utilisé")
		return
	}
	if err != nil {
		log.Printf("[Auth] 注册失败: %v", err)
		renderError(http.StatusInternalServerError, "Échec de l'inscription, veuillez réessayer")
		return
	}

	if err := h.signIn(c, user); err != nil {
		log.Printf("[Auth] 注册后登录失败: %v", err)
	}
	c.Redirect(http.StatusFound, "/")
}

// registerErrorMessage 根据表单内容给出具体提示
func registerErrorMessage(c *gin.Context) string {
	password := c.PostForm("password")
	switch {
	case len(password) < 6:
		return "Le mot de passe doit contenir au moins 6 caractères"
	case password != c.PostForm("confirm_password"):
		return "Les mots de passe ne correspondent pas"
	default:
		return "Email invalide"
	}
}

// Logout 登出
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)

	session := sessions.Default(c)
	session.Clear()
	session.Save()

	c.Redirect(http.StatusFound, "/")
}

// signIn 写入 JWT Cookie 和 Session
func (h *Handler) signIn(c *gin.Context, user *model.User) error {
	token, err := middleware.GenerateToken(user.ID, user.Email, user.Role, h.Config.AppSecret, h.Config.JWTExpiry)
	if err != nil {
		return err
	}
	c.SetCookie("token", token, int(h.Config.JWTExpiry.Seconds()), "/", "", false, true)

	session := sessions.Default(c)
	session.Set("userinfo", model.SessionUser{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
	})
	return session.Save()
}

// safeRedirect 只允许站内跳转
func safeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return "/"
	}
	return target
}

// ==================== 用户中心 ====================

// FavoritesPage 我的收藏
func (h *Handler) FavoritesPage(c *gin.Context) {
	films, err := h.favoriteFilms(c)
	if err != nil {
		log.Printf("[Favorites] 获取收藏失败: %v", err)
	}
	c.HTML(http.StatusOK, "favorites.html", h.RenderData(c, gin.H{
		"Title": "Mes favoris - " + h.Config.SiteName,
		"Films": films,
	}))
}

func (h *Handler) favoriteFilms(c *gin.Context) ([]model.Film, error) {
	favorites, err := h.Repos.Favorite.ListByUser(middleware.GetUserID(c))
	if err != nil {
		return []model.Film{}, err
	}
	ids := make([]int, 0, len(favorites))
	for _, f := range favorites {
		ids = append(ids, f.FilmID)
	}
	return h.Recommend.Resolve(c.Request.Context(), ids), nil
}
