package monitor

import (
	"errors"

	"go.bug.st/serial/enumerator"
)

// SerialPortNone disables the serial connection, for running the UI with no
// feeder attached
const SerialPortNone = "none"

var ErrNoUSBSerial = errors.New("no USB serial ports found")

// GetSerialPorts lists attached USB serial devices
func GetSerialPorts() ([]string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, errors.New("error listing serial ports: " + err.Error())
	}

	var result []string
	for _, port := range ports {
		if port.IsUSB {
			result = append(result, port.Name)
		}
	}
	if len(result) == 0 {
		return nil, ErrNoUSBSerial
	}

	return result, nil
}
