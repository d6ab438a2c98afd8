package mqtt

import (
	"context"
	"encoding/json"
	"io"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"github.com/robotalks/truetouch/pkg/link"
	"github.com/robotalks/truetouch/pkg/status"
)

// DefaultStatusInterval is the status publishing period.
const DefaultStatusInterval = time.Second

// Registrar announces a device on the broker, forwards its command topic
// into the device pipe and publishes status reports.
type Registrar struct {
	Queue    *Queue
	Info     link.DeviceInfo
	Reporter status.Reporter
	Interval time.Duration

	source   Source
	metaJSON []byte
}

// NewRegistrar creates a Registrar.
func NewRegistrar(brokerURL string, info link.DeviceInfo, cmds io.Writer, reporter status.Reporter) (*Registrar, error) {
	meta, err := json.Marshal(&info.Meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+DeviceTopic(info.Ref, MetaTopic), nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("truetouch:" + info.Ref.Name())
	}
	r := &Registrar{
		Queue:    NewQueue(opts, topicPrefix),
		Info:     info,
		Reporter: reporter,
		Interval: DefaultStatusInterval,
		metaJSON: meta,
	}
	r.source = Source{Queue: r.Queue, Topic: DeviceTopic(info.Ref, CmdTopic), Writer: cmds}
	r.Queue.OnConnect = func(*Queue) { r.publishMeta(r.metaJSON) }
	return r, nil
}

// Name implements framework.Named.
func (r *Registrar) Name() string {
	return "registrar:" + r.Info.Ref.Name()
}

// Run implements Runnable.
func (r *Registrar) Run(ctx context.Context) error {
	sub := r.Queue.Sub(r.source.Topic, r.source.handle)
	defer sub.Close()
	if token := r.Queue.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer r.Queue.Close()

	interval := r.Interval
	if interval <= 0 {
		interval = DefaultStatusInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.publishMeta(nil).WaitTimeout(time.Second)
			return ctx.Err()
		case <-ticker.C:
			r.PublishStatus()
		}
	}
}

// PublishStatus publishes one report.
func (r *Registrar) PublishStatus() {
	if r.Reporter == nil || !r.Queue.Client.IsConnected() {
		return
	}
	report := r.Reporter.Report()
	report.Device = r.Info.Ref.Name()
	data, err := report.Encode()
	if err != nil {
		glog.Errorf("encode status: %v", err)
		return
	}
	r.Queue.Pub(DeviceTopic(r.Info.Ref, StatusTopic), data)
}

func (r *Registrar) publishMeta(meta []byte) paho.Token {
	return r.Queue.PubWith(DeviceTopic(r.Info.Ref, MetaTopic), meta, 1, true)
}
