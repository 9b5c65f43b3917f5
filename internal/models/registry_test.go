package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_PrimaryTable(t *testing.T) {
	cases := map[string]string{
		"text":                      "TextMessage",
		"IMAGE":                     "ImageMessage",
		"Voice":                     "VoiceMessage",
		"video":                     "VideoMessage",
		"news":                      "NewsMessage",
		"location":                  "LocationMessage",
		"link":                      "LinkMessage",
		"transfer_customer_service": "TransferCustomerServiceMessage",
	}
	for msgType, want := range cases {
		r, ok := Lookup(msgType)
		require.True(t, ok, msgType)
		shape, ok := r.Terminal()
		require.True(t, ok, msgType)
		assert.Equal(t, want, shape.Name)
		assert.False(t, r.HasEvents())
	}

	_, ok := Lookup("bogus_type")
	assert.False(t, ok)
	_, ok = Lookup("unknown")
	assert.False(t, ok, "fallback type must not be routable")
}

func TestLookup_EventTable(t *testing.T) {
	r, ok := Lookup("event")
	require.True(t, ok)
	require.True(t, r.HasEvents())
	_, terminal := r.Terminal()
	assert.False(t, terminal)

	cases := map[string]string{
		"subscribe":             "SubscribeEvent",
		"unsubscribe":           "UnsubscribeEvent",
		"scan":                  "ScanEvent",
		"LOCATION":              "LocationEvent",
		"click":                 "ClickEvent",
		"View":                  "ViewEvent",
		"templatesendjobfinish": "TemplateSendJobFinishEvent",
	}
	for event, want := range cases {
		shape, ok := r.Event(event)
		require.True(t, ok, event)
		assert.Equal(t, want, shape.Name)
		assert.Equal(t, MsgTypeEvent, shape.MsgType)
	}

	_, ok = r.Event("masssendjobfinish")
	assert.False(t, ok)
}

func TestShapes_Descriptors(t *testing.T) {
	names := make(map[string]bool)
	for _, s := range Shapes() {
		assert.False(t, names[s.Name], "duplicate shape %s", s.Name)
		names[s.Name] = true
		assert.True(t, Registered(s))

		require.GreaterOrEqual(t, len(s.Fields), 4, s.Name)
		assert.Equal(t, "ToUserName", s.Fields[0].Name)
		assert.Equal(t, "FromUserName", s.Fields[1].Name)
		assert.Equal(t, KindTimestamp, s.Fields[2].Kind)
		assert.True(t, s.Fields[3].Fixed)

		if s.MsgType == MsgTypeEvent {
			f, ok := s.Field("Event")
			require.True(t, ok, s.Name)
			assert.True(t, f.Fixed)
		}

		seen := make(map[string]bool)
		for _, f := range s.Fields {
			assert.False(t, seen[f.Name], "%s declares %s twice", s.Name, f.Name)
			seen[f.Name] = true
			if f.Kind == KindEnum {
				assert.NotNil(t, f.Enum, "%s.%s", s.Name, f.Name)
			}
		}
	}
	assert.Len(t, names, 16)
	assert.False(t, Registered(nil))
	assert.False(t, Registered(&Shape{Name: "TextMessage"}))
}

func TestShapes_BuildMatchesIdentity(t *testing.T) {
	for _, s := range Shapes() {
		msg := s.Build(Values{})
		assert.Same(t, s, msg.Shape(), s.Name)
		assert.Equal(t, s.MsgType, msg.MsgType(), s.Name)
		if ev, ok := msg.(Event); ok {
			assert.Equal(t, s.Event, ev.Event(), s.Name)
		}
		for _, f := range s.Fields {
			_, ok := msg.Values()[f.Name]
			assert.True(t, ok, "%s.Values() lacks %s", s.Name, f.Name)
		}
	}
}

func TestEnum_Match(t *testing.T) {
	v, ok := jobStatusEnum.Match("FAILED:USER BLOCK")
	assert.True(t, ok)
	assert.Equal(t, string(JobStatusUserBlock), v)

	v, ok = eventTypeEnum.Match("scan")
	assert.True(t, ok)
	assert.Equal(t, "SCAN", v)

	_, ok = msgTypeEnum.Match("file")
	assert.False(t, ok)
}

func TestHeader_Reply(t *testing.T) {
	in := Header{ToUserName: "gh_123", FromUserName: "oUser1", CreateTime: time.Unix(1, 0)}
	now := time.Unix(100, 0)
	reply := NewTextReply(in.Reply(now), "hi")

	assert.Equal(t, "oUser1", reply.ToUserName)
	assert.Equal(t, "gh_123", reply.FromUserName)
	assert.Equal(t, now, reply.CreateTime)
	assert.Equal(t, "hi", reply.Content)
}

func TestNewNewsReply_CopiesArticles(t *testing.T) {
	articles := []Article{{Title: "a"}, {Title: "b"}}
	news := NewNewsReply(Header{}, articles...)
	articles[0].Title = "changed"

	assert.Equal(t, int64(2), news.ArticleCount)
	assert.Equal(t, "a", news.Articles[0].Title)
}
