// Package codec 在微信公众号消息 XML 与 models 中的消息类型之间互相转换。
//
// 解码时先按 MsgType（event 类型再按 Event）在注册表中选出消息描述，
// 再按描述逐个读取同名子节点；无法识别的类型得到 UndetectedMessage。
// 编码时按描述的字段顺序写出子节点，字符串和枚举写成 CDATA。
//
// Codec 创建后不再修改，可以在多个 goroutine 中同时使用。
package codec

import (
	"time"

	"go.uber.org/zap"

	"github.com/johnqing-424/WeChat-XML/internal/models"
)

// RootElement 消息 XML 的根节点名
const RootElement = "xml"

// Codec 消息编解码器
type Codec struct {
	loc    *time.Location
	logger *zap.Logger
}

// Option 配置 Codec
type Option func(*Codec)

// WithLocation 设置解码得到的 CreateTime 所在时区，默认 time.Local
func WithLocation(loc *time.Location) Option {
	return func(c *Codec) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithLogger 设置日志，默认不输出
func WithLogger(logger *zap.Logger) Option {
	return func(c *Codec) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New 创建编解码器
func New(opts ...Option) *Codec {
	c := &Codec{
		loc:    time.Local,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Location 返回解码使用的时区
func (c *Codec) Location() *time.Location {
	return c.loc
}

var defaultCodec = New()

// Decode 使用默认配置解码
func Decode(data []byte) (models.Message, error) {
	return defaultCodec.Decode(data)
}

// Encode 使用默认配置编码
func Encode(msg models.Message) ([]byte, error) {
	return defaultCodec.Encode(msg)
}
