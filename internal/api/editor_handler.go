package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resumeSync/internal/api/middleware"
	"resumeSync/internal/engine"
	"resumeSync/internal/page"
	"resumeSync/internal/resume"
)

// EditorHandler 将浏览器事件转发进页面文档。所有文档操作都在引擎 Loop 上执行。
type EditorHandler struct {
	doc      *page.Document
	loop     *engine.Loop
	throttle *PrintThrottle

	// lastSeq 记录每个输入框已应用的最大序号，只在 Loop 上读写。
	lastSeq map[resume.InputID]uint64
}

// NewEditorHandler 构造编辑器处理器。
func NewEditorHandler(doc *page.Document, loop *engine.Loop, throttle *PrintThrottle) *EditorHandler {
	return &EditorHandler{
		doc:      doc,
		loop:     loop,
		throttle: throttle,
		lastSeq:  make(map[resume.InputID]uint64),
	}
}

// fieldRequest 的 Seq 由浏览器按输入框递增；乱序到达的旧值会被丢弃。
type fieldRequest struct {
	Value string  `json:"value"`
	Seq   *uint64 `json:"seq"`
}

type clearRequest struct {
	Confirmed bool `json:"confirmed"`
}

type slotResponse struct {
	Input       resume.InputID   `json:"input"`
	Preview     resume.PreviewID `json:"preview"`
	Value       string           `json:"value"`
	PreviewHTML string           `json:"preview_html"`
	Stale       bool             `json:"stale,omitempty"`
}

// Page 渲染完整的编辑页。
func (h *EditorHandler) Page(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := page.Render(c.Writer, h.doc.View()); err != nil {
		middleware.LoggerFromContext(c).Error("render editor page failed", slog.Any("error", err))
	}
}

// Document 返回当前页面状态。
func (h *EditorHandler) Document(c *gin.Context) {
	c.JSON(http.StatusOK, h.doc.View())
}

// Input 模拟一次键入：写入输入框并触发 input 事件。
func (h *EditorHandler) Input(c *gin.Context) {
	h.fieldEvent(c, h.doc.Input)
}

// Paste 模拟一次粘贴：先触发 paste 事件再写入值，预览在粘贴延迟后刷新。
func (h *EditorHandler) Paste(c *gin.Context) {
	h.fieldEvent(c, h.doc.Paste)
}

func (h *EditorHandler) fieldEvent(c *gin.Context, dispatch func(resume.InputID, string) bool) {
	id := resume.InputID(strings.TrimSpace(c.Param("id")))

	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	var found, stale bool
	if !h.run(c, func() {
		if req.Seq != nil {
			if *req.Seq <= h.lastSeq[id] {
				stale = true
				_, found = h.doc.InputValue(id)
				return
			}
		}
		found = dispatch(id, req.Value)
		if found && req.Seq != nil {
			h.lastSeq[id] = *req.Seq
		}
	}) {
		return
	}
	if !found {
		NotFound(c, "field not found")
		return
	}

	resp := h.slot(id)
	resp.Stale = stale
	c.JSON(http.StatusOK, resp)
}

// Theme 模拟点击主题选择按钮。
func (h *EditorHandler) Theme(c *gin.Context) {
	theme, ok := resume.ParseTheme(c.Param("name"))
	if !ok {
		BadRequest(c, "unknown theme")
		return
	}

	var found bool
	if !h.run(c, func() { found = h.doc.Click(engine.ThemeControl(theme)) }) {
		return
	}
	if !found {
		NotFound(c, "theme control not found")
		return
	}

	view := h.doc.View()
	c.JSON(http.StatusOK, gin.H{"stylesheet": view.Stylesheet, "active": view.Active})
}

// Clear 模拟点击清空按钮；浏览器端确认框的结果随请求一起提交。
func (h *EditorHandler) Clear(c *gin.Context) {
	var req clearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	if !h.run(c, func() {
		h.doc.AnswerConfirm(req.Confirmed)
		h.doc.Click(engine.ControlClear)
	}) {
		return
	}

	c.JSON(http.StatusOK, h.doc.View())
}

// Print 模拟点击打印按钮。打印在延迟后异步进行，结果通过 WebSocket 推送。
func (h *EditorHandler) Print(c *gin.Context) {
	allowed, err := h.throttle.Allow(c.Request.Context())
	if err != nil {
		middleware.LoggerFromContext(c).Warn("print throttle unavailable", slog.Any("error", err))
	}
	if !allowed {
		TooManyRequests(c, "too many print requests")
		return
	}

	if !h.run(c, func() { h.doc.Click(engine.ControlPrint) }) {
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "scheduled"})
}

// run 在引擎 Loop 上执行 fn 并等待完成；失败时已写出响应并返回 false。
func (h *EditorHandler) run(c *gin.Context, fn func()) bool {
	err := h.loop.Do(c.Request.Context(), fn)
	if err == nil {
		return true
	}

	log := middleware.LoggerFromContext(c)
	switch {
	case errors.Is(err, engine.ErrLoopStopped):
		log.Warn("engine loop stopped")
		Unavailable(c, "shutting down")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Warn("request abandoned before engine finished", slog.Any("error", err))
		Unavailable(c, "request cancelled")
	default:
		log.Error("engine dispatch failed", slog.Any("error", err))
		Internal(c, "internal error")
	}
	return false
}

func (h *EditorHandler) slot(id resume.InputID) slotResponse {
	for _, s := range h.doc.View().Slots {
		if s.Input == id {
			return slotResponse{
				Input:       s.Input,
				Preview:     s.Preview,
				Value:       s.Value,
				PreviewHTML: s.PreviewHTML,
			}
		}
	}
	return slotResponse{Input: id}
}
