package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	. "github.com/smartystreets/goconvey/convey"
	"gopkg.in/gomail.v2"

	"github.com/okian/leadboard/internal/domain/model"
	"github.com/okian/leadboard/internal/fixtures"
)

type published struct {
	exchange, key string
	msg           amqp.Publishing
}

type fakeChannel struct {
	mu     sync.Mutex
	out    []published
	err    error
	closed bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.out = append(f.out, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestRabbitPublisher(t *testing.T) {
	Convey("Given a publisher over a fake channel", t, func() {
		ch := &fakeChannel{}
		p := newRabbitPublisher(ch)
		ctx := context.Background()
		at := time.Date(2024, 12, 17, 9, 0, 0, 0, time.UTC)

		Convey("When an assign event is published", func() {
			err := p.Publish(ctx, Event{ActionID: "act-1", Kind: model.ActionAssign, LeadID: "2", Assignee: "Mike Wilson", At: at})

			Convey("Then it goes to the topic exchange as persistent JSON", func() {
				So(err, ShouldBeNil)
				So(ch.out, ShouldHaveLength, 1)
				got := ch.out[0]
				So(got.exchange, ShouldEqual, "leadboard.actions")
				So(got.key, ShouldEqual, "lead.assign")
				So(got.msg.DeliveryMode, ShouldEqual, amqp.Persistent)
				So(got.msg.ContentType, ShouldEqual, "application/json")
				So(got.msg.MessageId, ShouldEqual, "act-1:2")

				var e Event
				So(json.Unmarshal(got.msg.Body, &e), ShouldBeNil)
				So(e.Assignee, ShouldEqual, "Mike Wilson")
				So(e.At.Equal(at), ShouldBeTrue)
			})
		})

		Convey("When the broker rejects the message", func() {
			ch.err = errors.New("channel closed")
			err := p.Publish(ctx, Event{ActionID: "a", Kind: model.ActionExport, LeadID: "1"})
			So(errors.Is(err, ErrPublish), ShouldBeTrue)
		})

		Convey("When closed", func() {
			So(p.Close(), ShouldBeNil)
			So(ch.closed, ShouldBeTrue)
		})
	})
}

func TestSMTPMailer(t *testing.T) {
	Convey("Given a mailer over a recording sender", t, func() {
		var from string
		var to []string
		var raw bytes.Buffer
		sender := gomail.SendFunc(func(f string, t []string, msg io.WriterTo) error {
			from, to = f, t
			_, err := msg.WriteTo(&raw)
			return err
		})
		m := newMailerWithSender("sales@leadboard.example", sender)
		lead := fixtures.Leads()[0]

		Convey("When a campaign is sent", func() {
			err := m.SendCampaign(context.Background(), lead)

			Convey("Then the lead receives a personalised message", func() {
				So(err, ShouldBeNil)
				So(from, ShouldEqual, "sales@leadboard.example")
				So(to, ShouldResemble, []string{"john.smith@email.com"})
				So(raw.String(), ShouldContainSubstring, "Subject: Your Honda Civic 2024 inquiry")
				So(raw.String(), ShouldContainSubstring, "Hi John,")
				So(raw.String(), ShouldContainSubstring, "Sarah Johnson")
			})
		})

		Convey("When the lead has no email", func() {
			lead.Email = ""
			err := m.SendCampaign(context.Background(), lead)
			So(errors.Is(err, ErrNoAddress), ShouldBeTrue)
		})

		Convey("When the server fails", func() {
			failing := newMailerWithSender("x@y", gomail.SendFunc(func(string, []string, io.WriterTo) error {
				return errors.New("421 service not available")
			}))
			err := failing.SendCampaign(context.Background(), lead)
			So(errors.Is(err, ErrSendMail), ShouldBeTrue)
		})

		Convey("When the context is already done", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			So(m.SendCampaign(ctx, lead), ShouldEqual, context.Canceled)
		})
	})
}

func TestNops(t *testing.T) {
	Convey("No-op collaborators accept everything", t, func() {
		So(NopPublisher{}.Publish(context.Background(), Event{}), ShouldBeNil)
		So(NopPublisher{}.Close(), ShouldBeNil)
		So(NopMailer{}.SendCampaign(context.Background(), model.Lead{}), ShouldBeNil)
	})
}
