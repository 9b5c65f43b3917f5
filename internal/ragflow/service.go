package ragflow

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/johnqing-424/WeChat-XML/internal/config"
)

type RagFlowRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
	Stream    bool   `json:"stream"`
}

type RagFlowResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Answer    string `json:"answer"`
		Reference struct {
			Chunks []struct {
				DocumentName string `json:"document_name"`
			} `json:"chunks"`
		} `json:"reference"`
		SessionID string `json:"session_id"`
	} `json:"data"`
}

// Client 调用 RAGFlow 对话接口
type Client struct {
	cfg        config.RagFlowConfig
	httpClient *http.Client
	logger     *zap.Logger

	// 用户ID -> RAGFlow 会话ID
	sessions sync.Map
}

// NewClient 创建 RAGFlow 客户端
func NewClient(cfg config.RagFlowConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		logger:     logger,
	}
}

// Ask 调用 RAGFlow 获取答案，同一用户复用会话
func (c *Client) Ask(ctx context.Context, question, userID string) (string, error) {
	retries := max(c.cfg.MaxRetries, 0)

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.cfg.RetryInterval):
			}
			c.logger.Warn("重试 RAGFlow 请求", zap.Int("attempt", attempt), zap.Error(lastErr))
		}

		resp, err := c.query(ctx, question, c.session(userID))
		if err == nil {
			if resp.Data.SessionID != "" {
				c.sessions.Store(userID, resp.Data.SessionID)
			}
			return CleanAnswer(resp.Data.Answer), nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}

// ClearSession 清除用户的会话，下次提问开始新会话
func (c *Client) ClearSession(userID string) {
	c.sessions.Delete(userID)
}

func (c *Client) session(userID string) string {
	if v, ok := c.sessions.Load(userID); ok {
		return v.(string)
	}
	return ""
}

func (c *Client) query(ctx context.Context, question, sessionID string) (*RagFlowResponse, error) {
	body, err := sonic.Marshal(RagFlowRequest{
		Question:  question,
		SessionID: sessionID,
		Stream:    false,
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/api/v1/chats/%s/completions", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.ChatID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("RAGFlow 返回 HTTP %d", resp.StatusCode)
	}

	var result RagFlowResponse
	if err := sonic.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("解析 RAGFlow 响应失败: %w", err)
	}
	if result.Code != 0 {
		return nil, fmt.Errorf("RAGFlow 返回错误码 %d: %s", result.Code, result.Message)
	}
	return &result, nil
}

// CleanAnswer 清理回答中的特殊标记，保留原文引用标记##$$
func CleanAnswer(answer string) string {
	specialMarks := []string{"CITATIONS: ", "CITATIONS:"}
	for _, mark := range specialMarks {
		answer = strings.ReplaceAll(answer, mark, "")
	}
	return strings.TrimSpace(answer)
}
