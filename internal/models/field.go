package models

import (
	"strings"
	"time"
)

// FieldKind 字段的语义类型
type FieldKind int

const (
	KindString    FieldKind = iota // 原始文本
	KindTimestamp                  // Unix 秒
	KindEnum                       // 枚举，大小写不敏感
	KindInt                        // 整数
	KindFloat                      // 浮点数
	KindArticles                   // 图文消息的文章列表
)

func (k FieldKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindTimestamp:
		return "timestamp"
	case KindEnum:
		return "enum"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindArticles:
		return "articles"
	default:
		return "unknown"
	}
}

// Enum 枚举类型的取值集合
type Enum struct {
	Name   string
	Values []string
}

// Match 大小写不敏感地匹配 text，返回声明时的写法
func (e *Enum) Match(text string) (string, bool) {
	for _, v := range e.Values {
		if strings.EqualFold(v, text) {
			return v, true
		}
	}
	return "", false
}

// Field 描述一个字段：名称即 XML 子元素名
type Field struct {
	Name     string
	Kind     FieldKind
	Enum     *Enum // 仅 KindEnum
	Required bool  // 编码时不能为空
	Fixed    bool  // 由消息类型本身决定（MsgType/Event），解码时不读取
}

// Shape 是一种消息的字段描述表
type Shape struct {
	Name    string
	MsgType MsgType
	Event   EventType
	Fields  []Field
	build   func(Values) Message
}

// Build 用解码得到的字段值一次性构造消息
func (s *Shape) Build(v Values) Message {
	return s.build(v)
}

// Field 按名称查找字段描述
func (s *Shape) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Values 字段名 -> 字段值。值的 Go 类型由 FieldKind 决定：
// string、time.Time、int64、float64、[]Article
type Values map[string]any

func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

func (v Values) Time(name string) time.Time {
	t, _ := v[name].(time.Time)
	return t
}

func (v Values) Int(name string) int64 {
	n, _ := v[name].(int64)
	return n
}

func (v Values) Float(name string) float64 {
	f, _ := v[name].(float64)
	return f
}

func (v Values) Articles(name string) []Article {
	a, _ := v[name].([]Article)
	return a
}
