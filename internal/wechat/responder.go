package wechat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnqing-424/WeChat-XML/internal/models"
)

const (
	helpText           = "欢迎使用RAG智能问答系统！\n\n您可以直接发送问题与系统对话，系统会尝试从知识库中寻找答案。\n\n可用命令：\n/help - 显示帮助信息\n/重置 - 重置会话\n/status - 查询上一个问题的处理结果"
	unknownCommandText = "未识别的指令，您可以直接发送问题来获取回答。可用指令：/help、/重置、/status"
	resetText          = "系统已重置，开始新的对话。"
	ragFailedText      = "抱歉，系统暂时无法回答您的问题，请稍后再试或者尝试其他问题。"
)

// Responder 根据收到的消息生成被动回复，返回 nil 表示不回复
type Responder interface {
	Respond(ctx context.Context, msg models.Message) (models.Message, error)
}

// Asker 知识库问答，由 ragflow.Client 实现
type Asker interface {
	Ask(ctx context.Context, question, userID string) (string, error)
	ClearSession(userID string)
}

// DefaultResponder 默认回复逻辑：指令、知识库问答、关注欢迎语等
type DefaultResponder struct {
	welcome string
	rag     Asker // 为 nil 时原样回显文本
	logger  *zap.Logger
	now     func() time.Time
}

// NewResponder 创建默认回复逻辑，rag 可以为 nil
func NewResponder(welcome string, rag Asker, logger *zap.Logger) *DefaultResponder {
	return &DefaultResponder{
		welcome: welcome,
		rag:     rag,
		logger:  logger,
		now:     time.Now,
	}
}

func (r *DefaultResponder) Respond(ctx context.Context, msg models.Message) (models.Message, error) {
	head := msg.Head().Reply(r.now())

	switch m := msg.(type) {
	case *models.TextMessage:
		content := strings.TrimSpace(m.Content)
		if strings.HasPrefix(content, "/") {
			return models.NewTextReply(head, r.command(content, m.FromUserName)), nil
		}
		return models.NewTextReply(head, r.answer(ctx, content, m.FromUserName)), nil

	case *models.SubscribeEvent:
		return models.NewTextReply(head, r.welcome), nil

	case *models.LocationMessage:
		return models.NewTextReply(head, fmt.Sprintf("您的位置：%s\n纬度 %g，经度 %g", m.Label, m.LocationX, m.LocationY)), nil

	case *models.ClickEvent:
		return models.NewTextReply(head, "您点击了菜单："+m.EventKey), nil
	}

	return nil, nil
}

func (r *DefaultResponder) command(cmd, userID string) string {
	switch cmd {
	case "/help":
		return helpText
	case "/重置":
		if r.rag != nil {
			r.rag.ClearSession(userID)
		}
		return resetText
	default:
		return unknownCommandText
	}
}

func (r *DefaultResponder) answer(ctx context.Context, question, userID string) string {
	if r.rag == nil {
		return question
	}

	answer, err := r.rag.Ask(ctx, question, userID)
	if err != nil {
		r.logger.Warn("RAGFlow 查询失败", zap.String("user", userID), zap.Error(err))
		return ragFailedText
	}
	if answer == "" {
		return ragFailedText
	}
	return answer
}
