package mqtt

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/truetouch/pkg/link"
	"github.com/robotalks/truetouch/pkg/status"
)

// DefaultDiscoverTimeout defines the default timeout value of discovery.
const DefaultDiscoverTimeout = 500 * time.Millisecond

// Discover collects the retained meta of devices under the broker prefix.
func Discover(ctx context.Context, brokerURL string, timeout time.Duration) ([]link.DeviceInfo, error) {
	q, err := NewQueueFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	token := q.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, err
	}
	defer q.Close()

	resCh := make(chan link.DeviceInfo, 16)
	sub := q.Sub("+/+/"+MetaTopic, func(topic string, payload []byte) {
		if info, ok := parseMeta(topic, payload); ok {
			select {
			case resCh <- info:
			case <-time.After(time.Second):
			}
		}
	})
	defer sub.Close()

	if timeout <= 0 {
		timeout = DefaultDiscoverTimeout
	}
	expire := time.After(timeout)
	var res []link.DeviceInfo
	for {
		select {
		case info := <-resCh:
			res = append(res, info)
		case <-expire:
			return res, nil
		case <-ctx.Done():
			return res, ctx.Err()
		}
	}
}

// parseMeta handles <type>/<id>/meta. Empty payloads are cleared devices.
func parseMeta(topic string, payload []byte) (info link.DeviceInfo, ok bool) {
	items := strings.Split(topic, "/")
	if len(items) != 3 || items[2] != MetaTopic || len(payload) == 0 {
		return
	}
	info.Ref = link.DeviceRef{Type: items[0], ID: items[1]}
	if err := json.Unmarshal(payload, &info.Meta); err != nil {
		glog.Warningf("device %s: invalid meta: %v", info.Ref.Name(), err)
	}
	return info, true
}

// WatchStatus calls fn with every report of the device until ctx is done.
func WatchStatus(ctx context.Context, q *Queue, ref link.DeviceRef, fn func(*status.Report)) error {
	sub := q.Sub(DeviceTopic(ref, StatusTopic), func(topic string, payload []byte) {
		report, err := status.Decode(payload)
		if err != nil {
			glog.Warningf("%s: %v", topic, err)
			return
		}
		fn(report)
	})
	defer sub.Close()
	<-ctx.Done()
	return ctx.Err()
}
