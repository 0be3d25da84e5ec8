package feedswap

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LaneID identifies one of the two filament feed lanes
type LaneID int

const (
	Lane1 LaneID = 1
	Lane2 LaneID = 2
)

// Other returns the opposite lane
func (l LaneID) Other() LaneID {
	if l == Lane1 {
		return Lane2
	}
	return Lane1
}

func (l LaneID) String() string {
	return strconv.Itoa(int(l))
}

// TaskMode is the task a lane is currently running
type TaskMode int

const (
	ModeIdle TaskMode = iota
	ModeAutoload
	ModeFeed
	ModeReverse
)

func (m TaskMode) String() string {
	switch m {
	case ModeAutoload:
		return "autoload"
	case ModeFeed:
		return "feed"
	case ModeReverse:
		return "reverse"
	default:
		fallthrough
	case ModeIdle:
		return "idle"
	}
}

// ParseTaskMode parses the string form produced by TaskMode.String
func ParseTaskMode(s string) (TaskMode, error) {
	switch s {
	case "idle":
		return ModeIdle, nil
	case "autoload":
		return ModeAutoload, nil
	case "feed":
		return ModeFeed, nil
	case "reverse":
		return ModeReverse, nil
	}
	return ModeIdle, errors.New("invalid task mode: " + s)
}

// LaneSnapshot is one lane's portion of a telemetry line
type LaneSnapshot struct {
	In   bool
	Out  bool
	Mode TaskMode
}

// Snapshot is the periodic telemetry line emitted by the firmware. It is
// advisory only and not part of the control contract, but the firmware and
// the host monitor both use this package so the format stays agreed-upon.
type Snapshot struct {
	Uptime     time.Duration
	Active     LaneID
	Armed      bool
	Manual     bool
	Rate       uint32
	Lanes      [2]LaneSnapshot
	YClear     bool
	BufferLow  bool
	BufferHigh bool
}

func (s Snapshot) String() string {
	return fmt.Sprintf("[%.1f] active=%d armed=%s manual=%s rate=%d l1=%s l2=%s y=%s low=%s high=%s",
		s.Uptime.Seconds(), s.Active,
		boolStr(s.Armed), boolStr(s.Manual), s.Rate,
		s.Lanes[0], s.Lanes[1],
		boolStr(s.YClear), boolStr(s.BufferLow), boolStr(s.BufferHigh),
	)
}

func (l LaneSnapshot) String() string {
	return boolStr(l.In) + "," + boolStr(l.Out) + "," + l.Mode.String()
}

// ParseSnapshot parses one telemetry line back into a Snapshot. Lines that are
// not telemetry (console output, boot messages) return an error and should
// simply be passed through by callers.
func ParseSnapshot(line string) (Snapshot, error) {
	var s Snapshot

	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) != 10 || !strings.HasPrefix(fields[0], "[") || !strings.HasSuffix(fields[0], "]") {
		return s, errors.New("not a telemetry line")
	}

	seconds, err := strconv.ParseFloat(strings.Trim(fields[0], "[]"), 64)
	if err != nil {
		return s, errors.New("invalid uptime: " + fields[0])
	}
	s.Uptime = time.Duration(seconds * float64(time.Second))

	for _, field := range fields[1:] {
		key, value, found := strings.Cut(field, "=")
		if !found {
			return s, errors.New("invalid field: " + field)
		}

		switch key {
		case "active":
			id, err := strconv.Atoi(value)
			if err != nil || (LaneID(id) != Lane1 && LaneID(id) != Lane2) {
				return s, errors.New("invalid active lane: " + value)
			}
			s.Active = LaneID(id)
		case "armed":
			s.Armed, err = parseBool(value)
		case "manual":
			s.Manual, err = parseBool(value)
		case "rate":
			rate, convErr := strconv.ParseUint(value, 10, 32)
			s.Rate, err = uint32(rate), convErr
		case "l1":
			s.Lanes[0], err = parseLaneSnapshot(value)
		case "l2":
			s.Lanes[1], err = parseLaneSnapshot(value)
		case "y":
			s.YClear, err = parseBool(value)
		case "low":
			s.BufferLow, err = parseBool(value)
		case "high":
			s.BufferHigh, err = parseBool(value)
		default:
			err = errors.New("unknown field: " + key)
		}
		if err != nil {
			return s, err
		}
	}

	return s, nil
}

func parseLaneSnapshot(value string) (LaneSnapshot, error) {
	var l LaneSnapshot

	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return l, errors.New("invalid lane snapshot: " + value)
	}

	var err error
	l.In, err = parseBool(parts[0])
	if err != nil {
		return l, err
	}
	l.Out, err = parseBool(parts[1])
	if err != nil {
		return l, err
	}
	l.Mode, err = ParseTaskMode(parts[2])
	return l, err
}

func boolStr(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func parseBool(s string) (bool, error) {
	switch s {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return false, errors.New("invalid bool: " + s)
}
