package codec

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedXML            = errors.New("codec: malformed xml")
	ErrMissingDiscriminator    = errors.New("codec: missing MsgType")
	ErrMissingSubDiscriminator = errors.New("codec: missing Event")
	ErrUnknownEnumValue        = errors.New("codec: unknown enum value")
	ErrNumericParse            = errors.New("codec: numeric parse error")
	ErrEncode                  = errors.New("codec: encode error")
)

// FieldError 记录出错的消息类型、字段以及原始文本
type FieldError struct {
	Shape string
	Field string
	Text  string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("%v: %s.%s", e.Err, e.Shape, e.Field)
	}
	return fmt.Sprintf("%v: %s.%s=%q", e.Err, e.Shape, e.Field, e.Text)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Kind 返回错误类别，用于日志和监控标签
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrMalformedXML):
		return "malformed_xml"
	case errors.Is(err, ErrMissingDiscriminator):
		return "missing_msg_type"
	case errors.Is(err, ErrMissingSubDiscriminator):
		return "missing_event"
	case errors.Is(err, ErrUnknownEnumValue):
		return "unknown_enum"
	case errors.Is(err, ErrNumericParse):
		return "numeric_parse"
	case errors.Is(err, ErrEncode):
		return "encode"
	default:
		return "other"
	}
}
