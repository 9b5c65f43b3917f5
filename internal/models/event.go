package models

// Event 事件推送的公共接口
type Event interface {
	Message
	Event() EventType
}

// SubscribeEvent 关注事件。扫描带参数二维码关注时 EventKey 以 qrscene_ 开头，Ticket 非空
type SubscribeEvent struct {
	Header
	EventKey string
	Ticket   string
}

func (SubscribeEvent) MsgType() MsgType { return MsgTypeEvent }
func (SubscribeEvent) Event() EventType { return EventSubscribe }
func (SubscribeEvent) Shape() *Shape    { return subscribeShape }

func (e SubscribeEvent) Values() Values {
	v := e.eventValues(EventSubscribe)
	v["EventKey"] = e.EventKey
	v["Ticket"] = e.Ticket
	return v
}

// UnsubscribeEvent 取消关注事件
type UnsubscribeEvent struct {
	Header
	EventKey string
}

func (UnsubscribeEvent) MsgType() MsgType { return MsgTypeEvent }
func (UnsubscribeEvent) Event() EventType { return EventUnsubscribe }
func (UnsubscribeEvent) Shape() *Shape    { return unsubscribeShape }

func (e UnsubscribeEvent) Values() Values {
	v := e.eventValues(EventUnsubscribe)
	v["EventKey"] = e.EventKey
	return v
}

// ScanEvent 已关注用户扫描带参数二维码
type ScanEvent struct {
	Header
	EventKey string
	Ticket   string
}

func (ScanEvent) MsgType() MsgType { return MsgTypeEvent }
func (ScanEvent) Event() EventType { return EventScan }
func (ScanEvent) Shape() *Shape    { return scanShape }

func (e ScanEvent) Values() Values {
	v := e.eventValues(EventScan)
	v["EventKey"] = e.EventKey
	v["Ticket"] = e.Ticket
	return v
}

// LocationEvent 上报地理位置事件
type LocationEvent struct {
	Header
	Latitude  float64
	Longitude float64
	Precision float64
}

func (LocationEvent) MsgType() MsgType { return MsgTypeEvent }
func (LocationEvent) Event() EventType { return EventLocation }
func (LocationEvent) Shape() *Shape    { return locationEventShape }

func (e LocationEvent) Values() Values {
	v := e.eventValues(EventLocation)
	v["Latitude"] = e.Latitude
	v["Longitude"] = e.Longitude
	v["Precision"] = e.Precision
	return v
}

// ClickEvent 点击菜单拉取消息，EventKey 为自定义菜单的 key
type ClickEvent struct {
	Header
	EventKey string
}

func (ClickEvent) MsgType() MsgType { return MsgTypeEvent }
func (ClickEvent) Event() EventType { return EventClick }
func (ClickEvent) Shape() *Shape    { return clickShape }

func (e ClickEvent) Values() Values {
	v := e.eventValues(EventClick)
	v["EventKey"] = e.EventKey
	return v
}

// ViewEvent 点击菜单跳转链接，EventKey 为跳转的 URL
type ViewEvent struct {
	Header
	EventKey string
}

func (ViewEvent) MsgType() MsgType { return MsgTypeEvent }
func (ViewEvent) Event() EventType { return EventView }
func (ViewEvent) Shape() *Shape    { return viewShape }

func (e ViewEvent) Values() Values {
	v := e.eventValues(EventView)
	v["EventKey"] = e.EventKey
	return v
}

// TemplateSendJobFinishEvent 模板消息发送完成通知
type TemplateSendJobFinishEvent struct {
	Header
	MsgID  int64
	Status JobStatus
}

func (TemplateSendJobFinishEvent) MsgType() MsgType { return MsgTypeEvent }
func (TemplateSendJobFinishEvent) Event() EventType { return EventTemplateSendJobFinish }
func (TemplateSendJobFinishEvent) Shape() *Shape    { return templateSendJobFinishShape }

func (e TemplateSendJobFinishEvent) Values() Values {
	v := e.eventValues(EventTemplateSendJobFinish)
	v["MsgID"] = e.MsgID
	v["Status"] = string(e.Status)
	return v
}
