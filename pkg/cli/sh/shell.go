// Package sh provides the interactive controller shell of ttctl.
package sh

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/abiosoft/ishell"

	env "github.com/robotalks/truetouch/pkg/env/connector"
	"github.com/robotalks/truetouch/pkg/link"
	"github.com/robotalks/truetouch/pkg/protocol"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell  *ishell.Shell
	Config *env.Config
	Sink   link.Sink
	Link   string
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&DiscoverCmd,
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// FormatInfo prints DeviceInfo into friendly string for display.
func FormatInfo(info link.DeviceInfo) string {
	var w bytes.Buffer
	fmt.Fprintf(&w, "%s", info.Ref.Name())
	if info.Meta.Description != "" {
		fmt.Fprintf(&w, ": %s", info.Meta.Description)
	}
	return w.String()
}

// Send writes a frame to the connected device.
func (s *Shell) Send(f protocol.Frame) error {
	if s.Sink == nil {
		return fmt.Errorf("not connected")
	}
	return s.Sink.WritePacket(f.Bytes())
}

// FrameCmd wraps a FrameBuilder as a command sending the frame.
func FrameCmd(name, help string, build FrameBuilder, aliases ...string) *ishell.Cmd {
	return &ishell.Cmd{
		Name:    name,
		Aliases: aliases,
		Help:    help,
		Func: func(c *ishell.Context) {
			f, err := build(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			s := ShellFrom(c)
			if err := s.Send(f); err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				out, _ := json.Marshal(map[string]interface{}{"sent": fmt.Sprintf("% x", f.Bytes()), "frame": f})
				c.Println(string(out))
				return
			}
			c.Printf("sent % x\n", f.Bytes())
		},
	}
}

// Connect opens a link URL.
func (s *Shell) Connect(linkURL string) error {
	sink, err := link.Dial(linkURL)
	if err != nil {
		return err
	}
	s.Disconnect()
	s.Sink, s.Link = sink, linkURL
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", linkURL))
	return nil
}

// Disconnect closes the current link.
func (s *Shell) Disconnect() {
	if s.Sink != nil {
		s.Sink.Close()
		s.Sink, s.Link = nil, ""
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// SelectDevice discovers devices and asks for a choice.
func (s *Shell) SelectDevice(typ string) (*link.DeviceInfo, error) {
	infoList, err := s.Config.Discover(context.TODO())
	if err != nil {
		return nil, err
	}
	if typ != "" {
		items := make([]link.DeviceInfo, 0, len(infoList))
		for _, info := range infoList {
			if info.Ref.Type == typ {
				items = append(items, info)
			}
		}
		infoList = items
	}
	if len(infoList) == 0 {
		return nil, nil
	}
	var index int
	if len(infoList) > 1 {
		if !s.Interactive {
			return nil, fmt.Errorf("more than 1 devices discovered in non-interactive mode")
		}
		items := make([]string, len(infoList))
		for n, info := range infoList {
			items[n] = FormatInfo(info)
		}
		index = s.Shell.MultiChoice(items, "Which one to connect?")
	}
	return &infoList[index], nil
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.Config.Link != "" {
		if err := s.Connect(s.Config.Link); err != nil {
			log.Fatalf("connect %q failed: %v", s.Config.Link, err)
		}
		defer s.Disconnect()
	}

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// DiscoverCmd discovers devices registered on the broker.
	DiscoverCmd = ishell.Cmd{
		Name:    "discover",
		Aliases: []string{"list", "l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			infoList, err := s.Config.Discover(context.TODO())
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				if len(infoList) == 0 {
					infoList = []link.DeviceInfo{}
				}
				out, err := json.Marshal(infoList)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			if len(infoList) == 0 {
				c.Println("No devices found")
				return
			}
			for _, info := range infoList {
				c.Println(FormatInfo(info))
			}
		},
	}

	// ConnectCmd connects a device by link URL or registered name.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "URL | TYPE ID | [TYPE]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			var linkURL string
			var err error
			switch {
			case len(c.Args) == 1 && isURL(c.Args[0]):
				linkURL = c.Args[0]
			case len(c.Args) >= 2:
				linkURL, err = s.Config.DeviceLink(link.DeviceRef{Type: c.Args[0], ID: c.Args[1]})
			default:
				var typ string
				if len(c.Args) == 1 {
					typ = c.Args[0]
				}
				var info *link.DeviceInfo
				if info, err = s.SelectDevice(typ); err == nil {
					if info == nil {
						err = fmt.Errorf("no device discovered")
					} else {
						linkURL, err = s.Config.DeviceLink(info.Ref)
					}
				}
			}
			if err == nil {
				err = s.Connect(linkURL)
			}
			if err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects current device.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)

func isURL(s string) bool {
	return strings.Contains(s, "://")
}

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(env.NewConfig()).Run(flag.Args()...)
}
