// internal/api/websocket.go
package api

import (
	"net/http"
	"time"

	"github.com/Corphon/ReviewForgeMCP/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WebSocket 升级器配置
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 在生产环境中应该进行更严格的检查
		return true
	},
}

// wsWriteTimeout 单条消息的写超时
const wsWriteTimeout = 10 * time.Second

// ProgressEvent 推送给客户端的进度事件
type ProgressEvent struct {
	Type     string                   `json:"type"` // section | complete | error
	Index    int                      `json:"index,omitempty"`
	Total    int                      `json:"total,omitempty"`
	Section  *models.GeneratedSection `json:"section,omitempty"`
	Markdown string                   `json:"markdown,omitempty"`
	Message  string                   `json:"message,omitempty"`
}

// ReviewWebSocket 接收一个生成请求并逐章节推送进度
func (h *Handler) ReviewWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warnf("WebSocket 升级失败: %v", err)
		return
	}
	defer conn.Close()

	var req models.ReviewRequest
	if err := conn.ReadJSON(&req); err != nil {
		h.writeEvent(conn, ProgressEvent{Type: "error", Message: "请求解析失败: " + err.Error()})
		return
	}

	h.Config.ApplyLLMDefaults(&req)

	progress := func(index, total int, section models.GeneratedSection) {
		h.writeEvent(conn, ProgressEvent{
			Type:    "section",
			Index:   index,
			Total:   total,
			Section: &section,
		})
	}

	result, err := h.ReviewService.GenerateFromRequest(c.Request.Context(), &req, progress)
	if err != nil {
		h.writeEvent(conn, ProgressEvent{Type: "error", Message: err.Error()})
		return
	}

	if _, err := h.Store.SaveReview(req.Topic, result.Markdown); err != nil {
		h.logger.Warnf("保存导出文档失败: %v", err)
	}

	h.writeEvent(conn, ProgressEvent{Type: "complete", Markdown: result.Markdown})
}

// writeEvent 带写超时地推送一条事件
func (h *Handler) writeEvent(conn *websocket.Conn, event ProgressEvent) {
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(event); err != nil {
		h.logger.Warnf("WebSocket 写入失败: %v", err)
	}
}
