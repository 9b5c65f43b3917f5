package models

// MsgType 消息类型（MsgType 节点）
type MsgType string

const (
	MsgTypeText                    MsgType = "text"
	MsgTypeImage                   MsgType = "image"
	MsgTypeVoice                   MsgType = "voice"
	MsgTypeVideo                   MsgType = "video"
	MsgTypeNews                    MsgType = "news"
	MsgTypeLocation                MsgType = "location"
	MsgTypeLink                    MsgType = "link"
	MsgTypeTransferCustomerService MsgType = "transfer_customer_service"
	MsgTypeEvent                   MsgType = "event"
	MsgTypeUnknown                 MsgType = "unknown" // 未识别的消息
)

// EventType 事件类型（Event 节点），仅 MsgType 为 event 时有效
type EventType string

const (
	EventSubscribe             EventType = "subscribe"
	EventUnsubscribe           EventType = "unsubscribe"
	EventScan                  EventType = "SCAN"
	EventLocation              EventType = "LOCATION"
	EventClick                 EventType = "CLICK"
	EventView                  EventType = "VIEW"
	EventTemplateSendJobFinish EventType = "TEMPLATESENDJOBFINISH"
)

// JobStatus 模板消息发送结果
type JobStatus string

const (
	JobStatusSuccess      JobStatus = "success"
	JobStatusUserBlock    JobStatus = "failed:user block"
	JobStatusSystemFailed JobStatus = "failed: system failed"
)

var (
	msgTypeEnum = &Enum{
		Name: "MsgType",
		Values: []string{
			string(MsgTypeText),
			string(MsgTypeImage),
			string(MsgTypeVoice),
			string(MsgTypeVideo),
			string(MsgTypeNews),
			string(MsgTypeLocation),
			string(MsgTypeLink),
			string(MsgTypeTransferCustomerService),
			string(MsgTypeEvent),
			string(MsgTypeUnknown),
		},
	}

	eventTypeEnum = &Enum{
		Name: "Event",
		Values: []string{
			string(EventSubscribe),
			string(EventUnsubscribe),
			string(EventScan),
			string(EventLocation),
			string(EventClick),
			string(EventView),
			string(EventTemplateSendJobFinish),
		},
	}

	jobStatusEnum = &Enum{
		Name: "JobStatus",
		Values: []string{
			string(JobStatusSuccess),
			string(JobStatusUserBlock),
			string(JobStatusSystemFailed),
		},
	}
)
