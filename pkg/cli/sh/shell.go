package sh

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"sync"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/rover.go/pkg/nav"
	"github.com/robotalks/rover.go/pkg/rover"
	"github.com/robotalks/rover.go/pkg/telemetry/mqtt"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell  *ishell.Shell
	Config *rover.Config
	Map    *nav.Map
	Ring   *nav.Ring

	queueLock sync.Mutex
	queue     *mqtt.Queue
}

const (
	shellKey = "$shell"
	prompt   = "rover > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	commands []*ishell.Cmd
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell with the map from conf.
func New(conf *rover.Config) (*Shell, error) {
	m, err := conf.Map()
	if err != nil {
		return nil, err
	}
	ring, err := m.Walls()
	if err != nil {
		return nil, err
	}
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
		Map:    m,
		Ring:   ring,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(prompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s, nil
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustHaveBroker wraps command func requires an MQTT broker.
func MustHaveBroker(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Config.MQTTBrokerURL == "" {
			c.Err(fmt.Errorf("MQTT broker not configured, use -mqtt"))
			return
		}
		fn(c)
	}
}

// Queue connects the MQTT broker on first use.
func (s *Shell) Queue() (*mqtt.Queue, error) {
	s.queueLock.Lock()
	defer s.queueLock.Unlock()
	if s.queue != nil {
		return s.queue, nil
	}
	q, err := mqtt.NewQueueFromURL(s.Config.MQTTBrokerURL, "roversh", nil)
	if err != nil {
		return nil, err
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	s.queue = q
	return q, nil
}

// Output prints v as JSON in JSON mode, or text otherwise.
func Output(c *ishell.Context, v interface{}, text string) {
	if ShellFrom(c).OutputJSON {
		out, err := json.Marshal(v)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Println(text)
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	defer s.close()
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Printf("Map with %d walls loaded\n", s.Ring.Len())
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

func (s *Shell) close() {
	s.queueLock.Lock()
	defer s.queueLock.Unlock()
	if s.queue != nil {
		s.queue.Close()
		s.queue = nil
	}
}

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	s, err := New(rover.NewConfig())
	if err != nil {
		log.Fatalln(err)
	}
	s.Run(flag.Args()...)
}
