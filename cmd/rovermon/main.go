package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"reflect"
	"strings"

	"github.com/lguibr/asciiring/helpers"

	"github.com/robotalks/rover.go/pkg/telemetry"
	"github.com/robotalks/rover.go/pkg/telemetry/mqtt"
)

var (
	mqttURL = "mqtt://localhost:1883/rover/"
	topic   = "#"
	screen  bool
)

func init() {
	if val := os.Getenv("ROVER_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&topic, "topic", topic, "Telemetry topic: display, status or # for all.")
	flag.BoolVar(&screen, "screen", screen, "Redraw the display of each frame on the terminal.")
}

// graphLevels renders graph points from 0 to 0xef.
const graphLevels = " .:-=+*#%@"

func drawFrame(roverID string, f *telemetry.DisplayFrame) {
	helpers.ClearScreen()
	fmt.Printf("rover %s  frame %d\n\n", roverID, f.Seq)
	for _, line := range f.Lines {
		fmt.Println(line)
	}
	var graph strings.Builder
	for _, v := range f.Graph {
		graph.WriteByte(graphLevels[int(v)*(len(graphLevels)-1)/0xef])
	}
	fmt.Printf("\n[%s]\n", graph.String())
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL, "rovermon", nil)
	if err != nil {
		log.Fatalln(err)
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}
	mon := &telemetry.Monitor{Queue: q}
	_, err = mon.Watch(topic, func(roverID, topic string, msg telemetry.Message, err error) {
		if err != nil {
			log.Printf("%s: bad message: %v", topic, err)
			return
		}
		if frame, ok := msg.(*telemetry.DisplayFrame); ok && screen {
			drawFrame(roverID, frame)
			return
		}
		log.Printf("%s: [%s] %s", topic,
			reflect.Indirect(reflect.ValueOf(msg)).Type().Name(),
			msg.String())
	})
	if err != nil {
		log.Fatalln(err)
	}
	<-(chan struct{})(nil)
}
