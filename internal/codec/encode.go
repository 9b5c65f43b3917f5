package codec

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/johnqing-424/WeChat-XML/internal/models"
)

const cdataEnd = "]]>"

// Encode 把消息编码为 XML，根节点为 <xml>，不带声明和缩进
func (c *Codec) Encode(msg models.Message) ([]byte, error) {
	if msg == nil {
		return nil, fmt.Errorf("%w: nil message", ErrEncode)
	}
	shape := msg.Shape()
	if !models.Registered(shape) {
		return nil, fmt.Errorf("%w: unregistered message type %T", ErrEncode, msg)
	}

	doc := etree.NewDocument()
	root := doc.CreateElement(RootElement)
	if err := c.encodeFields(root, shape, msg.Values()); err != nil {
		return nil, err
	}

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return out, nil
}

func (c *Codec) encodeFields(parent *etree.Element, shape *models.Shape, values models.Values) error {
	for _, f := range shape.Fields {
		v, ok := values[f.Name]
		if f.Kind == models.KindEnum && !f.Required && !f.Fixed && isEmpty(v) {
			// 可选枚举未设置时不写节点，解码时按缺省处理
			continue
		}
		if !ok && f.Required {
			return &FieldError{Shape: shape.Name, Field: f.Name, Err: ErrEncode}
		}
		if err := c.encodeField(parent, shape, f, v); err != nil {
			return err
		}
	}
	return nil
}

func (c *Codec) encodeField(parent *etree.Element, shape *models.Shape, f models.Field, v any) error {
	fail := func(text string) error {
		return &FieldError{Shape: shape.Name, Field: f.Name, Text: text, Err: ErrEncode}
	}

	switch f.Kind {
	case models.KindString:
		s, ok := asString(v)
		if !ok {
			return fail(fmt.Sprintf("%T", v))
		}
		if f.Required && s == "" {
			return fail("")
		}
		writeCData(parent.CreateElement(f.Name), s)
	case models.KindEnum:
		s, ok := asString(v)
		if !ok {
			return fail(fmt.Sprintf("%T", v))
		}
		canonical, ok := f.Enum.Match(s)
		if !ok || canonical != s {
			return fail(s)
		}
		writeCData(parent.CreateElement(f.Name), s)
	case models.KindTimestamp:
		t, ok := v.(time.Time)
		if !ok && v != nil {
			return fail(fmt.Sprintf("%T", v))
		}
		if f.Required && t.IsZero() {
			return fail("")
		}
		parent.CreateElement(f.Name).SetText(strconv.FormatInt(t.Unix(), 10))
	case models.KindInt:
		n, ok := v.(int64)
		if !ok && v != nil {
			return fail(fmt.Sprintf("%T", v))
		}
		parent.CreateElement(f.Name).SetText(strconv.FormatInt(n, 10))
	case models.KindFloat:
		n, ok := v.(float64)
		if !ok && v != nil {
			return fail(fmt.Sprintf("%T", v))
		}
		parent.CreateElement(f.Name).SetText(strconv.FormatFloat(n, 'f', -1, 64))
	case models.KindArticles:
		articles, ok := v.([]models.Article)
		if !ok && v != nil {
			return fail(fmt.Sprintf("%T", v))
		}
		list := parent.CreateElement(f.Name)
		for _, a := range articles {
			item := list.CreateElement(models.ArticleShape.Name)
			if err := c.encodeFields(item, models.ArticleShape, a.Values()); err != nil {
				return err
			}
		}
	default:
		return fail(f.Kind.String())
	}
	return nil
}

// writeCData 把 s 写成 CDATA。s 中的 "]]>" 会被拆到相邻的两段 CDATA 中
func writeCData(el *etree.Element, s string) {
	for {
		i := strings.Index(s, cdataEnd)
		if i < 0 {
			el.CreateCData(s)
			return
		}
		// "a]]>b" -> <![CDATA[a]]]]><![CDATA[>b]]>
		el.CreateCData(s[:i+2])
		s = s[i+2:]
	}
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", true
	case string:
		return s, true
	case fmt.Stringer:
		return s.String(), true
	default:
		return "", false
	}
}

func isEmpty(v any) bool {
	s, ok := asString(v)
	return ok && s == ""
}
