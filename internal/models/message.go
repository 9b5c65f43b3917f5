package models

import "time"

// Header 所有消息共有的字段
type Header struct {
	ToUserName   string    // 开发者微信号
	FromUserName string    // 发送方帐号（一个 OpenID）
	CreateTime   time.Time // 消息创建时间
}

// Head 返回公共字段
func (h Header) Head() Header { return h }

// Reply 交换收发双方，生成回复消息的 Header
func (h Header) Reply(now time.Time) Header {
	return Header{
		ToUserName:   h.FromUserName,
		FromUserName: h.ToUserName,
		CreateTime:   now,
	}
}

func (h Header) values(t MsgType) Values {
	return Values{
		"ToUserName":   h.ToUserName,
		"FromUserName": h.FromUserName,
		"CreateTime":   h.CreateTime,
		"MsgType":      string(t),
	}
}

func (h Header) eventValues(e EventType) Values {
	v := h.values(MsgTypeEvent)
	v["Event"] = string(e)
	return v
}

func headerFrom(v Values) Header {
	return Header{
		ToUserName:   v.String("ToUserName"),
		FromUserName: v.String("FromUserName"),
		CreateTime:   v.Time("CreateTime"),
	}
}

// Message 是所有消息、事件和回复的公共接口。
// MsgType 由具体类型决定，构造后不可修改。
type Message interface {
	MsgType() MsgType
	Head() Header
	Shape() *Shape
	Values() Values
}

// Article 图文消息中的一篇文章
type Article struct {
	Title       string
	Description string
	PicUrl      string
	Url         string
}

// Values 返回文章的字段值
func (a Article) Values() Values {
	return Values{
		"Title":       a.Title,
		"Description": a.Description,
		"PicUrl":      a.PicUrl,
		"Url":         a.Url,
	}
}

// NewArticle 从解码得到的字段值构造文章
func NewArticle(v Values) Article {
	return Article{
		Title:       v.String("Title"),
		Description: v.String("Description"),
		PicUrl:      v.String("PicUrl"),
		Url:         v.String("Url"),
	}
}

// TextMessage 文本消息
type TextMessage struct {
	Header
	Content string
	MsgId   int64
}

func (TextMessage) MsgType() MsgType { return MsgTypeText }
func (TextMessage) Shape() *Shape     { return textShape }

func (m TextMessage) Values() Values {
	v := m.values(MsgTypeText)
	v["Content"] = m.Content
	v["MsgId"] = m.MsgId
	return v
}

// ImageMessage 图片消息
type ImageMessage struct {
	Header
	PicUrl  string
	MediaId string
	MsgId   int64
}

func (ImageMessage) MsgType() MsgType { return MsgTypeImage }
func (ImageMessage) Shape() *Shape     { return imageShape }

func (m ImageMessage) Values() Values {
	v := m.values(MsgTypeImage)
	v["PicUrl"] = m.PicUrl
	v["MediaId"] = m.MediaId
	v["MsgId"] = m.MsgId
	return v
}

// VoiceMessage 语音消息，Recognition 为开通语音识别后的识别结果
type VoiceMessage struct {
	Header
	MediaId     string
	Format      string
	Recognition string
	MsgId       int64
}

func (VoiceMessage) MsgType() MsgType { return MsgTypeVoice }
func (VoiceMessage) Shape() *Shape     { return voiceShape }

func (m VoiceMessage) Values() Values {
	v := m.values(MsgTypeVoice)
	v["MediaId"] = m.MediaId
	v["Format"] = m.Format
	v["Recognition"] = m.Recognition
	v["MsgId"] = m.MsgId
	return v
}

// VideoMessage 视频消息
type VideoMessage struct {
	Header
	MediaId      string
	ThumbMediaId string
	MsgId        int64
}

func (VideoMessage) MsgType() MsgType { return MsgTypeVideo }
func (VideoMessage) Shape() *Shape     { return videoShape }

func (m VideoMessage) Values() Values {
	v := m.values(MsgTypeVideo)
	v["MediaId"] = m.MediaId
	v["ThumbMediaId"] = m.ThumbMediaId
	v["MsgId"] = m.MsgId
	return v
}

// LocationMessage 地理位置消息
type LocationMessage struct {
	Header
	LocationX float64 // 纬度
	LocationY float64 // 经度
	Scale     int64   // 地图缩放大小
	Label     string  // 地理位置信息
	MsgId     int64
}

func (LocationMessage) MsgType() MsgType { return MsgTypeLocation }
func (LocationMessage) Shape() *Shape     { return locationShape }

func (m LocationMessage) Values() Values {
	v := m.values(MsgTypeLocation)
	v["Location_X"] = m.LocationX
	v["Location_Y"] = m.LocationY
	v["Scale"] = m.Scale
	v["Label"] = m.Label
	v["MsgId"] = m.MsgId
	return v
}

// LinkMessage 链接消息
type LinkMessage struct {
	Header
	Title       string
	Description string
	Url         string
	MsgId       int64
}

func (LinkMessage) MsgType() MsgType { return MsgTypeLink }
func (LinkMessage) Shape() *Shape     { return linkShape }

func (m LinkMessage) Values() Values {
	v := m.values(MsgTypeLink)
	v["Title"] = m.Title
	v["Description"] = m.Description
	v["Url"] = m.Url
	v["MsgId"] = m.MsgId
	return v
}

// TransferCustomerServiceMessage 将消息转发到客服
type TransferCustomerServiceMessage struct {
	Header
}

func (TransferCustomerServiceMessage) MsgType() MsgType { return MsgTypeTransferCustomerService }
func (TransferCustomerServiceMessage) Shape() *Shape     { return transferShape }

func (m TransferCustomerServiceMessage) Values() Values {
	return m.values(MsgTypeTransferCustomerService)
}

// NewsMessage 图文消息
type NewsMessage struct {
	Header
	ArticleCount int64
	Articles     []Article
}

func (NewsMessage) MsgType() MsgType { return MsgTypeNews }
func (NewsMessage) Shape() *Shape     { return newsShape }

func (m NewsMessage) Values() Values {
	v := m.values(MsgTypeNews)
	v["ArticleCount"] = m.ArticleCount
	v["Articles"] = m.Articles
	return v
}

// UndetectedMessage 无法识别的消息，只保留公共字段
type UndetectedMessage struct {
	Header
}

func (UndetectedMessage) MsgType() MsgType { return MsgTypeUnknown }
func (UndetectedMessage) Shape() *Shape     { return undetectedShape }

func (m UndetectedMessage) Values() Values {
	return m.values(MsgTypeUnknown)
}
