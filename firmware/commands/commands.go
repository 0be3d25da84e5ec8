package commands

import (
	"errors"

	"github.com/calvinmclean/feedswap"
)

// Command is one single-byte console command with optional extra input
type Command struct {
	Flag        byte
	InputSize   uint
	Run         func(Controller, []byte) error
	Description string
}

// Controller is used to control the feeder from the debug console
type Controller interface {
	Debug()
	Verbose()
	ForceActive(feedswap.LaneID)

	// I/O
	ReadByte() (byte, error)
}

var (
	DebugCommand = &Command{
		Flag:      'D',
		InputSize: 0,
		Run: func(c Controller, b []byte) error {
			c.Debug()
			return nil
		},
		Description: "Print a state snapshot immediately.",
	}
	VerboseCommand = &Command{
		Flag:      'V',
		InputSize: 0,
		Run: func(c Controller, b []byte) error {
			c.Verbose()
			return nil
		},
		Description: "Enable verbose output (logs status transitions).",
	}
	ActiveLaneCommand = &Command{
		Flag:      'A',
		InputSize: 1,
		Run: func(c Controller, b []byte) error {
			switch b[0] {
			case '1':
				c.ForceActive(feedswap.Lane1)
			case '2':
				c.ForceActive(feedswap.Lane2)
			default:
				return errors.New("invalid lane: " + string(b[0]))
			}
			return nil
		},
		Description: "Force the active lane and disarm any pending swap. Input: 1 or 2.",
	}
	HelpCommand = &Command{
		Flag:        'H',
		InputSize:   0,
		Description: "Show all available commands and their descriptions.",
		Run: func(c Controller, b []byte) error {
			println("Available Commands:")
			for _, cmd := range commands {
				println(string(cmd.Flag) + ": " + cmd.Description)
			}
			return nil
		},
	}
)

var commands = []*Command{
	DebugCommand,
	VerboseCommand,
	ActiveLaneCommand,
}

// Console dispatches console bytes without ever blocking, so it is polled
// from inside the control loop's tick and everything a command mutates is
// still written by the single loop executor.
type Console struct {
	c       Controller
	cmdMap  map[byte]*Command
	pending *Command
	input   []byte
}

func NewConsole(c Controller) *Console {
	cmdMap := map[byte]*Command{
		HelpCommand.Flag: HelpCommand,
	}
	for _, cmd := range commands {
		cmdMap[cmd.Flag] = cmd
	}

	return &Console{
		c:      c,
		cmdMap: cmdMap,
	}
}

// Poll consumes at most one buffered byte. Call once per tick.
func (con *Console) Poll() {
	b, err := con.c.ReadByte()
	if err != nil {
		return
	}

	if con.pending == nil {
		cmd, ok := con.cmdMap[b]
		if !ok {
			return
		}
		if cmd.InputSize == 0 {
			con.run(cmd, nil)
			return
		}
		con.pending = cmd
		con.input = con.input[:0]
		return
	}

	con.input = append(con.input, b)
	if uint(len(con.input)) == con.pending.InputSize {
		cmd := con.pending
		con.pending = nil
		con.run(cmd, con.input)
	}
}

func (con *Console) run(cmd *Command, input []byte) {
	err := cmd.Run(con.c, input)
	if err != nil {
		println("error:", err.Error())
	}
}
