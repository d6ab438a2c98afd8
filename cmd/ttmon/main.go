package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/robotalks/truetouch/pkg/link/mqtt"
	"github.com/robotalks/truetouch/pkg/status"
)

var (
	mqttURL = "mqtt://localhost:1883/truetouch/"
)

func init() {
	if val := os.Getenv("TRUETOUCH_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}

	q.Sub("#", mqtt.Handler(func(topic string, payload []byte) {
		switch {
		case strings.HasSuffix(topic, "/"+mqtt.MetaTopic):
			if len(payload) == 0 {
				log.Printf("%s: gone", topic)
				return
			}
			log.Printf("%s: %s", topic, string(payload))
		case strings.HasSuffix(topic, "/"+mqtt.StatusTopic):
			report, err := status.Decode(payload)
			if err != nil {
				log.Printf("%s: bad report: %v", topic, err)
				return
			}
			log.Printf("%s: %s", topic, report.String())
		case strings.HasSuffix(topic, "/"+mqtt.CmdTopic):
			log.Printf("%s: % x", topic, payload)
		}
	}))
	select {}
}
