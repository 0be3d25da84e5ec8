// Package monitor connects a host machine to the feeder's USB serial console.
// It passes console commands down and telemetry lines back up, so the CLI and
// the desktop UI both sit on top of it.
package monitor

import (
	"context"
	"errors"
	"io"
	"os"
	"strconv"

	"go.bug.st/serial"
)

type Config struct {
	SerialPort string
	BaudRate   string
}

// Monitor is an open serial connection to the feeder
type Monitor struct {
	port serial.Port
}

func New(cfg Config) (*Monitor, error) {
	if cfg.SerialPort == "" || cfg.SerialPort == SerialPortNone {
		return &Monitor{}, nil
	}

	baud, err := parseBaudRate(cfg.BaudRate)
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(cfg.SerialPort, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, errors.New("error opening serial port: " + err.Error())
	}

	return &Monitor{port: port}, nil
}

// NewFromEnv connects using SERIAL_PORT and BAUD_RATE environment variables.
// An unset SERIAL_PORT falls back to the first detected USB serial device.
func NewFromEnv() (*Monitor, error) {
	cfg := Config{
		SerialPort: os.Getenv("SERIAL_PORT"),
		BaudRate:   os.Getenv("BAUD_RATE"),
	}

	if cfg.SerialPort == "" {
		ports, err := GetSerialPorts()
		if err != nil {
			return nil, err
		}
		cfg.SerialPort = ports[0]
	}

	return New(cfg)
}

// Run copies console input to the feeder and feeder output to out until the
// context is cancelled or either side fails. With no port configured it just
// waits on the context, which lets the UI run without hardware attached.
func (m *Monitor) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	if m.port == nil {
		// keep draining commands so UI writers never block
		go io.Copy(io.Discard, in)
		<-ctx.Done()
		return nil
	}

	errCh := make(chan error, 2)
	go func() {
		_, err := io.Copy(m.port, in)
		errCh <- err
	}()
	go func() {
		_, err := io.Copy(out, m.port)
		errCh <- err
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

func (m *Monitor) Close() error {
	if m.port == nil {
		return nil
	}
	return m.port.Close()
}

func parseBaudRate(s string) (int, error) {
	if s == "" {
		return 115200, nil
	}
	baud, err := strconv.Atoi(s)
	if err != nil || baud <= 0 {
		return 0, errors.New("invalid baud rate: " + s)
	}
	return baud, nil
}
