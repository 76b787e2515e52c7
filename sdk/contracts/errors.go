package contracts

import "errors"

var (
	// ErrDeviceUnavailable is returned when the requested input does not exist or the driver refused to open it.
	ErrDeviceUnavailable = errors.New("MIDI device unavailable")
	// ErrNotConnected is returned by writes attempted while no device is connected.
	ErrNotConnected = errors.New("MIDI device not connected")
	// ErrNoOutputPort is returned by writes when the connected device has no matching output.
	ErrNoOutputPort = errors.New("no MIDI output port for device")
	// ErrDriverUnavailable is returned when the platform MIDI layer cannot be used.
	ErrDriverUnavailable = errors.New("MIDI driver unavailable")
	// ErrDeviceLost is reported by drivers when an open device stops delivering.
	ErrDeviceLost = errors.New("MIDI device lost")
)
