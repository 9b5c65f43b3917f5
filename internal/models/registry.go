package models

import "strings"

// ArticleItem 是 Articles 下每篇文章的元素名
const ArticleItem = "item"

func messageFields(extra ...Field) []Field {
	fields := []Field{
		{Name: "ToUserName", Kind: KindString, Required: true},
		{Name: "FromUserName", Kind: KindString, Required: true},
		{Name: "CreateTime", Kind: KindTimestamp, Required: true},
		{Name: "MsgType", Kind: KindEnum, Enum: msgTypeEnum, Fixed: true},
	}
	return append(fields, extra...)
}

func eventFields(extra ...Field) []Field {
	return messageFields(append([]Field{
		{Name: "Event", Kind: KindEnum, Enum: eventTypeEnum, Fixed: true},
	}, extra...)...)
}

func str(name string) Field { return Field{Name: name, Kind: KindString} }

var msgID = Field{Name: "MsgId", Kind: KindInt}

// ArticleShape 描述图文消息中单篇文章的字段
var ArticleShape = &Shape{
	Name:   ArticleItem,
	Fields: []Field{str("Title"), str("Description"), str("PicUrl"), str("Url")},
}

var (
	textShape = &Shape{
		Name:    "TextMessage",
		MsgType: MsgTypeText,
		Fields:  messageFields(str("Content"), msgID),
		build: func(v Values) Message {
			return &TextMessage{Header: headerFrom(v), Content: v.String("Content"), MsgId: v.Int("MsgId")}
		},
	}

	imageShape = &Shape{
		Name:    "ImageMessage",
		MsgType: MsgTypeImage,
		Fields:  messageFields(str("PicUrl"), str("MediaId"), msgID),
		build: func(v Values) Message {
			return &ImageMessage{
				Header:  headerFrom(v),
				PicUrl:  v.String("PicUrl"),
				MediaId: v.String("MediaId"),
				MsgId:   v.Int("MsgId"),
			}
		},
	}

	voiceShape = &Shape{
		Name:    "VoiceMessage",
		MsgType: MsgTypeVoice,
		Fields:  messageFields(str("MediaId"), str("Format"), str("Recognition"), msgID),
		build: func(v Values) Message {
			return &VoiceMessage{
				Header:      headerFrom(v),
				MediaId:     v.String("MediaId"),
				Format:      v.String("Format"),
				Recognition: v.String("Recognition"),
				MsgId:       v.Int("MsgId"),
			}
		},
	}

	videoShape = &Shape{
		Name:    "VideoMessage",
		MsgType: MsgTypeVideo,
		Fields:  messageFields(str("MediaId"), str("ThumbMediaId"), msgID),
		build: func(v Values) Message {
			return &VideoMessage{
				Header:       headerFrom(v),
				MediaId:      v.String("MediaId"),
				ThumbMediaId: v.String("ThumbMediaId"),
				MsgId:        v.Int("MsgId"),
			}
		},
	}

	locationShape = &Shape{
		Name:    "LocationMessage",
		MsgType: MsgTypeLocation,
		Fields: messageFields(
			Field{Name: "Location_X", Kind: KindFloat},
			Field{Name: "Location_Y", Kind: KindFloat},
			Field{Name: "Scale", Kind: KindInt},
			str("Label"),
			msgID,
		),
		build: func(v Values) Message {
			return &LocationMessage{
				Header:    headerFrom(v),
				LocationX: v.Float("Location_X"),
				LocationY: v.Float("Location_Y"),
				Scale:     v.Int("Scale"),
				Label:     v.String("Label"),
				MsgId:     v.Int("MsgId"),
			}
		},
	}

	linkShape = &Shape{
		Name:    "LinkMessage",
		MsgType: MsgTypeLink,
		Fields:  messageFields(str("Title"), str("Description"), str("Url"), msgID),
		build: func(v Values) Message {
			return &LinkMessage{
				Header:      headerFrom(v),
				Title:       v.String("Title"),
				Description: v.String("Description"),
				Url:         v.String("Url"),
				MsgId:       v.Int("MsgId"),
			}
		},
	}

	transferShape = &Shape{
		Name:    "TransferCustomerServiceMessage",
		MsgType: MsgTypeTransferCustomerService,
		Fields:  messageFields(),
		build: func(v Values) Message {
			return &TransferCustomerServiceMessage{Header: headerFrom(v)}
		},
	}

	newsShape = &Shape{
		Name:    "NewsMessage",
		MsgType: MsgTypeNews,
		Fields: messageFields(
			Field{Name: "ArticleCount", Kind: KindInt},
			Field{Name: "Articles", Kind: KindArticles},
		),
		build: func(v Values) Message {
			return &NewsMessage{
				Header:       headerFrom(v),
				ArticleCount: v.Int("ArticleCount"),
				Articles:     v.Articles("Articles"),
			}
		},
	}

	undetectedShape = &Shape{
		Name:    "UndetectedMessage",
		MsgType: MsgTypeUnknown,
		Fields:  messageFields(),
		build: func(v Values) Message {
			return &UndetectedMessage{Header: headerFrom(v)}
		},
	}
)

var (
	subscribeShape = &Shape{
		Name:    "SubscribeEvent",
		MsgType: MsgTypeEvent,
		Event:   EventSubscribe,
		Fields:  eventFields(str("EventKey"), str("Ticket")),
		build: func(v Values) Message {
			return &SubscribeEvent{Header: headerFrom(v), EventKey: v.String("EventKey"), Ticket: v.String("Ticket")}
		},
	}

	unsubscribeShape = &Shape{
		Name:    "UnsubscribeEvent",
		MsgType: MsgTypeEvent,
		Event:   EventUnsubscribe,
		Fields:  eventFields(str("EventKey")),
		build: func(v Values) Message {
			return &UnsubscribeEvent{Header: headerFrom(v), EventKey: v.String("EventKey")}
		},
	}

	scanShape = &Shape{
		Name:    "ScanEvent",
		MsgType: MsgTypeEvent,
		Event:   EventScan,
		Fields:  eventFields(str("EventKey"), str("Ticket")),
		build: func(v Values) Message {
			return &ScanEvent{Header: headerFrom(v), EventKey: v.String("EventKey"), Ticket: v.String("Ticket")}
		},
	}

	locationEventShape = &Shape{
		Name:    "LocationEvent",
		MsgType: MsgTypeEvent,
		Event:   EventLocation,
		Fields: eventFields(
			Field{Name: "Latitude", Kind: KindFloat},
			Field{Name: "Longitude", Kind: KindFloat},
			Field{Name: "Precision", Kind: KindFloat},
		),
		build: func(v Values) Message {
			return &LocationEvent{
				Header:    headerFrom(v),
				Latitude:  v.Float("Latitude"),
				Longitude: v.Float("Longitude"),
				Precision: v.Float("Precision"),
			}
		},
	}

	clickShape = &Shape{
		Name:    "ClickEvent",
		MsgType: MsgTypeEvent,
		Event:   EventClick,
		Fields:  eventFields(str("EventKey")),
		build: func(v Values) Message {
			return &ClickEvent{Header: headerFrom(v), EventKey: v.String("EventKey")}
		},
	}

	viewShape = &Shape{
		Name:    "ViewEvent",
		MsgType: MsgTypeEvent,
		Event:   EventView,
		Fields:  eventFields(str("EventKey")),
		build: func(v Values) Message {
			return &ViewEvent{Header: headerFrom(v), EventKey: v.String("EventKey")}
		},
	}

	templateSendJobFinishShape = &Shape{
		Name:    "TemplateSendJobFinishEvent",
		MsgType: MsgTypeEvent,
		Event:   EventTemplateSendJobFinish,
		Fields: eventFields(
			Field{Name: "MsgID", Kind: KindInt},
			Field{Name: "Status", Kind: KindEnum, Enum: jobStatusEnum},
		),
		build: func(v Values) Message {
			return &TemplateSendJobFinishEvent{
				Header: headerFrom(v),
				MsgID:  v.Int("MsgID"),
				Status: JobStatus(v.String("Status")),
			}
		},
	}
)

// Route 一级路由：要么直接对应一种消息，要么按 Event 再查一次
type Route struct {
	shape  *Shape
	events map[string]*Shape
}

// Terminal 返回一级路由直接对应的消息描述
func (r Route) Terminal() (*Shape, bool) {
	return r.shape, r.shape != nil
}

// HasEvents 是否需要按 Event 节点二次查找
func (r Route) HasEvents() bool {
	return r.events != nil
}

// Event 按事件类型查找，大小写不敏感
func (r Route) Event(name string) (*Shape, bool) {
	s, ok := r.events[normalize(name)]
	return s, ok
}

var eventRoutes = map[string]*Shape{}

var routes = map[string]Route{
	string(MsgTypeText):                    {shape: textShape},
	string(MsgTypeImage):                   {shape: imageShape},
	string(MsgTypeVoice):                   {shape: voiceShape},
	string(MsgTypeVideo):                   {shape: videoShape},
	string(MsgTypeNews):                    {shape: newsShape},
	string(MsgTypeLocation):                {shape: locationShape},
	string(MsgTypeLink):                    {shape: linkShape},
	string(MsgTypeTransferCustomerService): {shape: transferShape},
	string(MsgTypeEvent):                   {events: eventRoutes},
}

var eventShapes = []*Shape{
	subscribeShape,
	unsubscribeShape,
	scanShape,
	locationEventShape,
	clickShape,
	viewShape,
	templateSendJobFinishShape,
}

func init() {
	for _, s := range eventShapes {
		eventRoutes[normalize(string(s.Event))] = s
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Lookup 按 MsgType 查找一级路由，大小写不敏感
func Lookup(msgType string) (Route, bool) {
	r, ok := routes[normalize(msgType)]
	return r, ok
}

// Undetected 返回兜底消息的描述
func Undetected() *Shape {
	return undetectedShape
}

// Shapes 返回全部已注册的消息描述（含兜底消息）
func Shapes() []*Shape {
	return []*Shape{
		textShape,
		imageShape,
		voiceShape,
		videoShape,
		locationShape,
		linkShape,
		transferShape,
		newsShape,
		subscribeShape,
		unsubscribeShape,
		scanShape,
		locationEventShape,
		clickShape,
		viewShape,
		templateSendJobFinishShape,
		undetectedShape,
	}
}

// Registered 判断 s 是否为注册表中的消息描述
func Registered(s *Shape) bool {
	if s == nil {
		return false
	}
	for _, r := range Shapes() {
		if r == s {
			return true
		}
	}
	return false
}
