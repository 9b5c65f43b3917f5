package models

// 被动回复消息的构造函数。h 一般由收到的消息 Head().Reply(now) 得到。

// NewTextReply 回复文本消息
func NewTextReply(h Header, content string) *TextMessage {
	return &TextMessage{Header: h, Content: content}
}

// NewImageReply 回复图片消息
func NewImageReply(h Header, mediaID string) *ImageMessage {
	return &ImageMessage{Header: h, MediaId: mediaID}
}

// NewVoiceReply 回复语音消息
func NewVoiceReply(h Header, mediaID string) *VoiceMessage {
	return &VoiceMessage{Header: h, MediaId: mediaID}
}

// NewVideoReply 回复视频消息
func NewVideoReply(h Header, mediaID, thumbMediaID string) *VideoMessage {
	return &VideoMessage{Header: h, MediaId: mediaID, ThumbMediaId: thumbMediaID}
}

// NewNewsReply 回复图文消息，ArticleCount 取文章数
func NewNewsReply(h Header, articles ...Article) *NewsMessage {
	list := make([]Article, len(articles))
	copy(list, articles)
	return &NewsMessage{Header: h, ArticleCount: int64(len(list)), Articles: list}
}

// NewTransferCustomerService 将消息转发到多客服
func NewTransferCustomerService(h Header) *TransferCustomerServiceMessage {
	return &TransferCustomerServiceMessage{Header: h}
}
