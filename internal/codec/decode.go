package codec

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/johnqing-424/WeChat-XML/internal/models"
)

// Decode 解析一条消息 XML
func (c *Codec) Decode(data []byte) (models.Message, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
	}
	root, err := singleRoot(doc)
	if err != nil {
		return nil, err
	}

	shape, err := c.resolve(root)
	if err != nil {
		return nil, err
	}

	values, err := c.decodeFields(root, shape)
	if err != nil {
		return nil, err
	}
	return shape.Build(values), nil
}

// singleRoot 要求文档只有一个根节点，根节点之外只能有空白、注释和声明
func singleRoot(doc *etree.Document) (*etree.Element, error) {
	var root *etree.Element
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.Element:
			if root != nil {
				return nil, fmt.Errorf("%w: multiple root elements", ErrMalformedXML)
			}
			root = t
		case *etree.CharData:
			if strings.TrimSpace(t.Data) != "" {
				return nil, fmt.Errorf("%w: text outside root element", ErrMalformedXML)
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformedXML)
	}
	return root, nil
}

// resolve 按 MsgType / Event 选出消息描述，未识别时返回兜底描述
func (c *Codec) resolve(root *etree.Element) (*models.Shape, error) {
	msgTypeNode := root.SelectElement("MsgType")
	if msgTypeNode == nil {
		return nil, ErrMissingDiscriminator
	}
	msgType := msgTypeNode.Text()

	route, ok := models.Lookup(msgType)
	if !ok {
		c.logger.Debug("未识别的 MsgType，按 UndetectedMessage 处理", zap.String("msg_type", msgType))
		return models.Undetected(), nil
	}
	if shape, ok := route.Terminal(); ok {
		return shape, nil
	}

	eventNode := root.SelectElement("Event")
	if eventNode == nil {
		return nil, ErrMissingSubDiscriminator
	}
	event := eventNode.Text()
	shape, ok := route.Event(event)
	if !ok {
		c.logger.Debug("未识别的 Event，按 UndetectedMessage 处理", zap.String("event", event))
		return models.Undetected(), nil
	}
	return shape, nil
}

func (c *Codec) decodeFields(el *etree.Element, shape *models.Shape) (models.Values, error) {
	values := make(models.Values, len(shape.Fields))
	for _, f := range shape.Fields {
		if f.Fixed {
			continue
		}
		if f.Kind == models.KindArticles {
			articles, err := c.decodeArticles(el.SelectElement(f.Name))
			if err != nil {
				return nil, err
			}
			values[f.Name] = articles
			continue
		}

		node := el.SelectElement(f.Name)
		if node == nil {
			continue
		}
		v, err := c.decodeValue(f, node.Text())
		if err != nil {
			return nil, &FieldError{Shape: shape.Name, Field: f.Name, Text: node.Text(), Err: err}
		}
		values[f.Name] = v
	}
	return values, nil
}

func (c *Codec) decodeArticles(node *etree.Element) ([]models.Article, error) {
	if node == nil {
		return nil, nil
	}
	children := node.ChildElements()
	if len(children) == 0 {
		return nil, nil
	}
	articles := make([]models.Article, 0, len(children))
	for _, item := range children {
		values, err := c.decodeFields(item, models.ArticleShape)
		if err != nil {
			return nil, err
		}
		articles = append(articles, models.NewArticle(values))
	}
	return articles, nil
}

func (c *Codec) decodeValue(f models.Field, text string) (any, error) {
	switch f.Kind {
	case models.KindString:
		return text, nil
	case models.KindTimestamp:
		sec, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return nil, ErrNumericParse
		}
		return time.Unix(sec, 0).In(c.loc), nil
	case models.KindEnum:
		v, ok := f.Enum.Match(strings.TrimSpace(text))
		if !ok {
			return nil, ErrUnknownEnumValue
		}
		return v, nil
	case models.KindInt:
		n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return nil, ErrNumericParse
		}
		return n, nil
	case models.KindFloat:
		n, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, ErrNumericParse
		}
		return n, nil
	default:
		return nil, fmt.Errorf("codec: unsupported field kind %s", f.Kind)
	}
}
