// internal/api/handlers.go
package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Corphon/ReviewForgeMCP/internal/config"
	"github.com/Corphon/ReviewForgeMCP/internal/llm"
	"github.com/Corphon/ReviewForgeMCP/internal/models"
	"github.com/Corphon/ReviewForgeMCP/internal/services"
	"github.com/Corphon/ReviewForgeMCP/internal/storage"
	"github.com/Corphon/ReviewForgeMCP/internal/utils"
	"github.com/gin-gonic/gin"
)

// Handler 处理API请求
type Handler struct {
	Config        *config.Config
	ReviewService *services.ReviewService
	Store         *storage.ExportStore
	Response      *ResponseHelper

	logger *utils.Logger
}

// NewHandler 创建API处理器
func NewHandler(cfg *config.Config, reviewService *services.ReviewService, store *storage.ExportStore) *Handler {
	return &Handler{
		Config:        cfg,
		ReviewService: reviewService,
		Store:         store,
		Response:      NewResponseHelper(),
		logger:        utils.GetLogger(),
	}
}

// FormView 表单页面的回显数据
type FormView struct {
	Topic       string
	Audience    string
	Mode        string
	Length      string
	Keywords    string
	Outline     string
	Lang        string
	SourcesText string
	LLM         string
	LLMModel    string
	LLMTimeout  string
	LLMEndpoint string
}

// defaultFormView 表单缺省值
func defaultFormView() FormView {
	return FormView{
		Topic:      "多模态大模型",
		Audience:   "researcher",
		Mode:       models.ModeTimeline,
		Length:     "1500",
		Keywords:   "LLM,benchmark,alignment",
		Lang:       "zh",
		LLM:        models.ProviderLocal,
		LLMTimeout: "8",
	}
}

// IndexPage 返回生成器表单页
func (h *Handler) IndexPage(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Form": defaultFormView(),
	})
}

// GenerateFormPage 处理表单提交并在同一页面渲染结果
func (h *Handler) GenerateFormPage(c *gin.Context) {
	form := FormView{
		Topic:       c.PostForm("topic"),
		Audience:    c.DefaultPostForm("audience", "general"),
		Mode:        c.DefaultPostForm("mode", models.ModeTimeline),
		Length:      c.DefaultPostForm("length", "1500"),
		Keywords:    c.PostForm("keywords"),
		Outline:     c.PostForm("outline"),
		Lang:        c.DefaultPostForm("lang", "zh"),
		SourcesText: c.PostForm("sources_text"),
		LLM:         c.DefaultPostForm("llm", models.ProviderLocal),
		LLMModel:    c.PostForm("llm_model"),
		LLMTimeout:  c.DefaultPostForm("llm_timeout", "8"),
		LLMEndpoint: c.PostForm("llm_endpoint"),
	}

	length, err := strconv.Atoi(form.Length)
	if err != nil || length <= 0 {
		length = 1500
	}
	timeout, err := strconv.Atoi(form.LLMTimeout)
	if err != nil || timeout <= 0 {
		timeout = 8
	}

	req := models.ReviewRequest{
		Topic:       form.Topic,
		Audience:    form.Audience,
		Length:      length,
		Mode:        form.Mode,
		Keywords:    splitKeywords(form.Keywords),
		Outline:     form.Outline,
		Lang:        form.Lang,
		LLMProvider: form.LLM,
		LLMEndpoint: form.LLMEndpoint,
		LLMModel:    form.LLMModel,
		LLMToken:    c.PostForm("llm_token"),
		LLMTimeout:  timeout,
	}
	req.ApplyDefaults()

	docs := h.collectFormSources(c)

	if err := req.Validate(); err != nil {
		h.renderForm(c, form, "", err.Error())
		return
	}

	provider, err := llm.Build(req.LLMProvider, llm.BuildOptions{
		Endpoint: req.LLMEndpoint,
		Model:    req.LLMModel,
		Token:    req.LLMToken,
		Timeout:  req.LLMTimeout,
	})
	if err != nil {
		h.renderForm(c, form, "", "LLM 初始化失败: "+err.Error())
		return
	}

	result, err := h.ReviewService.Generate(c.Request.Context(), &req, docs, nil, provider, nil)
	if err != nil {
		h.renderForm(c, form, "", "生成失败: "+err.Error())
		return
	}

	if _, err := h.Store.SaveReview(req.Topic, result.Markdown); err != nil {
		h.logger.Warnf("保存导出文档失败: %v", err)
	}

	h.renderForm(c, form, result.Markdown, "")
}

// renderForm 渲染表单页面（含结果或错误）
func (h *Handler) renderForm(c *gin.Context, form FormView, result, errMessage string) {
	status := http.StatusOK
	if errMessage != "" {
		status = http.StatusBadRequest
	}
	c.HTML(status, "index.html", gin.H{
		"Form":   form,
		"Result": result,
		"Error":  errMessage,
	})
}

// collectFormSources 从表单收集源文献：粘贴的文本块与上传的文件
// 清洗后按文本去重并保持名称对齐
func (h *Handler) collectFormSources(c *gin.Context) []models.SourceDocument {
	var docs []models.SourceDocument

	pasted := strings.Split(c.PostForm("sources_text"), "\n")
	for idx, line := range pasted {
		cleaned := h.ReviewService.Sources.Clean(line)
		if cleaned == "" {
			continue
		}
		docs = append(docs, models.SourceDocument{
			Name: fmt.Sprintf("pasted_%d.txt", idx+1),
			Text: cleaned,
		})
	}

	multipartForm, err := c.MultipartForm()
	if err == nil && multipartForm != nil {
		for _, fileHeader := range multipartForm.File["sources_files"] {
			file, err := fileHeader.Open()
			if err != nil {
				continue
			}
			content, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				continue
			}
			cleaned := h.ReviewService.Sources.Clean(string(content))
			if cleaned == "" {
				continue
			}
			name := fileHeader.Filename
			if name == "" {
				name = fmt.Sprintf("upload_%d.txt", len(docs)+1)
			}
			docs = append(docs, models.SourceDocument{Name: name, Text: cleaned})
		}
	}

	return h.ReviewService.Sources.DeduplicateDocuments(docs)
}

// GenerateReview 处理 JSON 生成请求
func (h *Handler) GenerateReview(c *gin.Context) {
	var req models.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "请求体解析失败: "+err.Error())
		return
	}

	h.Config.ApplyLLMDefaults(&req)

	result, err := h.ReviewService.GenerateFromRequest(c.Request.Context(), &req, nil)
	if err != nil {
		h.Response.Error(c, err)
		return
	}

	savedPath := ""
	if path, err := h.Store.SaveReview(req.Topic, result.Markdown); err == nil {
		savedPath = path
	} else {
		h.logger.Warnf("保存导出文档失败: %v", err)
	}

	h.Response.Success(c, gin.H{
		"result":     result,
		"saved_path": savedPath,
	})
}

// ListProviders 返回已注册的生成后端
func (h *Handler) ListProviders(c *gin.Context) {
	h.Response.Success(c, gin.H{
		"providers": llm.ListProviders(),
	})
}

// ListExports 返回已保存的导出文档
func (h *Handler) ListExports(c *gin.Context) {
	exports, err := h.Store.List()
	if err != nil {
		h.Response.Error(c, err)
		return
	}
	h.Response.Success(c, gin.H{"exports": exports})
}

// GetExport 返回单个导出文档内容
func (h *Handler) GetExport(c *gin.Context) {
	data, err := h.Store.Read(c.Param("name"))
	if err != nil {
		h.Response.NotFound(c, "导出文档不存在")
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", data)
}

// splitKeywords 解析逗号分隔的关键词
func splitKeywords(raw string) []string {
	var keywords []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			keywords = append(keywords, part)
		}
	}
	return keywords
}
