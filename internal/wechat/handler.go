package wechat

import (
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/johnqing-424/WeChat-XML/internal/codec"
	"github.com/johnqing-424/WeChat-XML/internal/config"
	"github.com/johnqing-424/WeChat-XML/internal/models"
	"github.com/johnqing-424/WeChat-XML/internal/observability"
	"github.com/johnqing-424/WeChat-XML/internal/store"
)

const (
	// 微信收到 success 时不做任何处理，也不会重试
	noReply = "success"

	maxBodyBytes  = 1 << 20
	statusTTL     = 10 * time.Minute
	statusCommand = "/status"

	processingText = "您的问题正在处理中，可稍后发送 /status 查询结果。"
	noStatusText   = "没有找到您已完成的问题，如果刚刚提问，请稍候再查询。"
)

// Handler 微信消息回调
type Handler struct {
	cfg       config.WeChatConfig
	cacheTTL  time.Duration
	codec     *codec.Codec
	cache     store.ReplyCache
	responder Responder
	logger    *zap.Logger
	now       func() time.Time

	// 正在处理的消息，微信重试时等待同一个结果
	inflight sync.Map
}

type pending struct {
	done  chan struct{}
	reply []byte
}

// NewHandler 创建消息回调处理器
func NewHandler(cfg *config.Config, c *codec.Codec, cache store.ReplyCache, responder Responder, logger *zap.Logger) *Handler {
	return &Handler{
		cfg:       cfg.WeChat,
		cacheTTL:  cfg.Cache.TTL,
		codec:     c,
		cache:     cache,
		responder: responder,
		logger:    logger,
		now:       time.Now,
	}
}

// Register 注册 GET 验证和 POST 消息两个路由
func (h *Handler) Register(r gin.IRoutes, path string) {
	r.GET(path, h.VerifyToken)
	r.POST(path, h.HandleMessage)
}

// VerifyToken 是用于验证微信服务器的 Token 回调
func (h *Handler) VerifyToken(c *gin.Context) {
	if !h.checkSignature(c) {
		c.String(http.StatusForbidden, "验证失败")
		return
	}
	c.String(http.StatusOK, c.Query("echostr"))
}

// HandleMessage 处理用户发送的消息
func (h *Handler) HandleMessage(c *gin.Context) {
	if c.Query("signature") != "" || !h.cfg.SkipSignature {
		if !h.checkSignature(c) {
			h.logger.Warn("消息签名校验失败", zap.String("ip", c.ClientIP()))
			c.String(http.StatusForbidden, "验证失败")
			return
		}
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.String(http.StatusRequestEntityTooLarge, "消息过大")
			return
		}
		h.logger.Warn("读取消息失败", zap.Error(err))
		c.String(http.StatusBadRequest, "读取消息失败")
		return
	}

	msg, err := h.codec.Decode(body)
	if err != nil {
		observability.RecordCodecError("decode", codec.Kind(err))
		h.logger.Warn("XML 解析失败", zap.String("kind", codec.Kind(err)), zap.Error(err))
		c.String(http.StatusOK, noReply)
		return
	}

	event := ""
	if ev, ok := msg.(models.Event); ok {
		event = string(ev.Event())
	}
	observability.RecordDecoded(string(msg.MsgType()), event)
	h.logger.Info("收到消息",
		zap.String("user", msg.Head().FromUserName),
		zap.String("msg_type", string(msg.MsgType())),
		zap.String("event", event),
	)

	key := dedupKey(msg)
	ctx := c.Request.Context()

	// 微信重试，直接返回上次的回复
	if reply, ok, err := h.cache.Get(ctx, key); err != nil {
		h.logger.Warn("读取回复缓存失败", zap.String("key", key), zap.Error(err))
	} else if ok {
		observability.RecordReplyCacheHit()
		h.logger.Debug("返回已处理消息的回复", zap.String("key", key))
		h.write(c, reply)
		return
	}

	p := h.start(key, msg)
	select {
	case <-p.done:
		h.write(c, p.reply)
	case <-time.After(h.cfg.ReplyTimeout):
		// 超时，先返回处理中的消息，结果继续在后台写入缓存
		h.logger.Info("回复超时，返回处理中消息", zap.String("key", key))
		reply := models.NewTextReply(msg.Head().Reply(h.now()), processingText)
		h.write(c, h.encode(reply))
	}
}

// dedupKey 微信重试的消息 MsgId 相同，事件没有 MsgId 时用 FromUserName + CreateTime
func dedupKey(msg models.Message) string {
	if id := msg.Values().Int("MsgId"); id != 0 {
		return fmt.Sprintf("msg:%d", id)
	}
	h := msg.Head()
	return fmt.Sprintf("evt:%s:%d", h.FromUserName, h.CreateTime.Unix())
}

// start 开始处理一条消息，同一条消息只处理一次
func (h *Handler) start(key string, msg models.Message) *pending {
	p := &pending{done: make(chan struct{})}
	if actual, loaded := h.inflight.LoadOrStore(key, p); loaded {
		return actual.(*pending)
	}

	go func() {
		defer h.inflight.Delete(key)
		p.reply = h.process(key, msg)
		close(p.done)
	}()
	return p
}

// process 生成回复并写入缓存。请求已经返回时仍然会执行完
func (h *Handler) process(key string, msg models.Message) (reply []byte) {
	reply = []byte(noReply)
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("处理消息时发生错误", zap.String("key", key), zap.Any("panic", r))
			reply = []byte(noReply)
		}
	}()

	ctx := context.Background()
	head := msg.Head()

	var out models.Message
	if text, ok := msg.(*models.TextMessage); ok && strings.TrimSpace(text.Content) == statusCommand {
		out = h.status(ctx, msg)
	} else {
		var err error
		out, err = h.responder.Respond(ctx, msg)
		if err != nil {
			h.logger.Error("生成回复失败", zap.String("key", key), zap.Error(err))
			out = nil
		}
		if out != nil {
			if err := h.cache.Set(ctx, lastKey(head.FromUserName), h.encode(out), statusTTL); err != nil {
				h.logger.Warn("写入最近回复失败", zap.Error(err))
			}
		}
	}

	reply = h.encode(out)
	if err := h.cache.Set(ctx, key, reply, h.cacheTTL); err != nil {
		h.logger.Warn("写入回复缓存失败", zap.String("key", key), zap.Error(err))
	}
	return reply
}

func lastKey(user string) string {
	return "last:" + user
}

// status 返回用户最近一次完成的回复，重新填写收发双方和时间
func (h *Handler) status(ctx context.Context, msg models.Message) models.Message {
	head := msg.Head().Reply(h.now())

	cached, ok, err := h.cache.Get(ctx, lastKey(msg.Head().FromUserName))
	if err != nil || !ok || string(cached) == noReply {
		return models.NewTextReply(head, noStatusText)
	}

	last, err := h.codec.Decode(cached)
	if err != nil {
		h.logger.Warn("解析最近回复失败", zap.Error(err))
		return models.NewTextReply(head, noStatusText)
	}

	values := last.Values()
	values["ToUserName"] = head.ToUserName
	values["FromUserName"] = head.FromUserName
	values["CreateTime"] = head.CreateTime
	return last.Shape().Build(values)
}

// encode 编码回复，nil 或编码失败时返回 success
func (h *Handler) encode(msg models.Message) []byte {
	if msg == nil {
		return []byte(noReply)
	}
	out, err := h.codec.Encode(msg)
	if err != nil {
		observability.RecordCodecError("encode", codec.Kind(err))
		h.logger.Error("回复编码失败", zap.String("msg_type", string(msg.MsgType())), zap.Error(err))
		return []byte(noReply)
	}
	return out
}

func (h *Handler) write(c *gin.Context, reply []byte) {
	if string(reply) == noReply {
		c.String(http.StatusOK, noReply)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", reply)
}

// checkSignature 校验请求是否来自微信服务器
func (h *Handler) checkSignature(c *gin.Context) bool {
	return Signature(h.cfg.Token, c.Query("timestamp"), c.Query("nonce")) == c.Query("signature")
}

// Signature 计算微信签名
func Signature(token, timestamp, nonce string) string {
	// 1. 将token、timestamp、nonce三个参数进行字典序排序
	strs := []string{token, timestamp, nonce}
	sort.Strings(strs)

	// 2. 将三个参数字符串拼接成一个字符串进行sha1加密
	h := sha1.New()
	h.Write([]byte(strings.Join(strs, "")))
	return fmt.Sprintf("%x", h.Sum(nil))
}
