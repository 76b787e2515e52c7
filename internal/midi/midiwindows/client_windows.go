//go:build windows
// +build windows

package midiwindows

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/delugian/midi/internal/message"
	"github.com/delugian/midi/sdk/contracts"
	"golang.org/x/sys/windows"
)

// Type definitions for MIDI handles
type (
	HMIDIIN  windows.Handle
	HMIDIOUT windows.Handle
)

// Constants for callback flags
const (
	CALLBACK_FUNCTION = 0x00030000 // Indicates that the callback is a function
	MIDI_IO_STATUS    = 0x00000020 // MIDI input/output status
	CALLBACK_NULL     = 0x00000000
)

// Constants for MIDI message types
const (
	MIM_OPEN      = 0x3C1 // MIDI device opened
	MIM_CLOSE     = 0x3C2 // MIDI device closed
	MIM_DATA      = 0x3C3 // MIDI data received
	MIM_LONGDATA  = 0x3C4 // SysEx buffer returned
	MIM_ERROR     = 0x3C5 // MIDI error
	MIM_LONGERROR = 0x3C6 // Long MIDI error
	MIM_MOREDATA  = 0x3CC // More MIDI data available
)

// Error definitions for winmm failures.
var (
	ErrOpenInput  = errors.New("midiInOpen failed")
	ErrStartInput = errors.New("midiInStart failed")
	ErrOpenOutput = errors.New("midiOutOpen failed")
	ErrSend       = errors.New("midiOut send failed")
)

// Struct representing MIDI input capabilities
type midiInCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	dwSupport      uint32
}

// Struct representing MIDI output capabilities
type midiOutCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	wTechnology    uint16
	wVoices        uint16
	wNotes         uint16
	wChannelMask   uint16
	dwSupport      uint32
}

// midiHdr mirrors MIDIHDR for midiOutLongMsg.
type midiHdr struct {
	lpData          uintptr
	dwBufferLength  uint32
	dwBytesRecorded uint32
	dwUser          uintptr
	dwFlags         uint32
	lpNext          uintptr
	reserved        uintptr
	dwOffset        uint32
	dwReserved      [8]uintptr
}

// Load the winmm.dll library and required functions
var (
	winmm                      = windows.NewLazySystemDLL("winmm.dll")
	procMidiInGetNumDevs       = winmm.NewProc("midiInGetNumDevs")
	procMidiInGetDevCaps       = winmm.NewProc("midiInGetDevCapsW")
	procMidiInOpen             = winmm.NewProc("midiInOpen")
	procMidiInStart            = winmm.NewProc("midiInStart")
	procMidiInStop             = winmm.NewProc("midiInStop")
	procMidiInClose            = winmm.NewProc("midiInClose")
	procMidiOutGetNumDevs      = winmm.NewProc("midiOutGetNumDevs")
	procMidiOutGetDevCaps      = winmm.NewProc("midiOutGetDevCapsW")
	procMidiOutOpen            = winmm.NewProc("midiOutOpen")
	procMidiOutShortMsg        = winmm.NewProc("midiOutShortMsg")
	procMidiOutLongMsg         = winmm.NewProc("midiOutLongMsg")
	procMidiOutPrepareHeader   = winmm.NewProc("midiOutPrepareHeader")
	procMidiOutUnprepareHeader = winmm.NewProc("midiOutUnprepareHeader")
	procMidiOutClose           = winmm.NewProc("midiOutClose")
)

// winmm hands dwInstance back to the callback untouched. Passing a Go
// pointer there is unsafe, so inputs are registered under a numeric id.
var (
	callbackOnce sync.Once
	callbackPtr  uintptr
	nextPortID   atomic.Uintptr
	openPorts    sync.Map // uintptr -> *inputPort
)

func inputCallback() uintptr {
	callbackOnce.Do(func() {
		callbackPtr = windows.NewCallback(midiInCallback)
	})
	return callbackPtr
}

// Driver implements contracts.Driver on winmm.
type Driver struct {
	logger contracts.Logger
}

// NewDriver creates the winmm driver.
func NewDriver(options *contracts.ClientOptions) (contracts.Driver, error) {
	if err := winmm.Load(); err != nil {
		return nil, fmt.Errorf("%w: %v", contracts.ErrDriverUnavailable, err)
	}
	options.Logger.Info("MIDI client created for Windows")
	return &Driver{logger: options.Logger}, nil
}

// Inputs lists the winmm input devices.
func (d *Driver) Inputs() ([]contracts.MidiDevice, error) {
	r0, _, _ := procMidiInGetNumDevs.Call()
	numDevices := uint32(r0)

	devices := make([]contracts.MidiDevice, 0, numDevices)
	for i := uint32(0); i < numDevices; i++ {
		var caps midiInCaps
		r1, _, _ := procMidiInGetDevCaps.Call(
			uintptr(i),
			uintptr(unsafe.Pointer(&caps)),
			unsafe.Sizeof(caps),
		)
		if r1 != 0 {
			// Keep the slot so list positions stay equal to winmm device ids.
			d.logger.Warn("Failed to get information for MIDI device", d.logger.Field().Int("deviceID", int(i)))
			devices = append(devices, contracts.MidiDevice{Index: int(i), Name: fmt.Sprintf("MIDI In %d", i)})
			continue
		}
		deviceName := windows.UTF16ToString(caps.szPname[:])
		devices = append(devices, contracts.MidiDevice{
			Index:        int(i),
			Name:         deviceName,
			EntityName:   deviceName,
			Manufacturer: fmt.Sprintf("MID: %d PID: %d", caps.wMid, caps.wPid),
		})
	}
	return devices, nil
}

// OpenInput opens and starts the input device at index.
func (d *Driver) OpenInput(index int, onFrame func([]byte), onErr func(error)) (contracts.InputPort, error) {
	r0, _, _ := procMidiInGetNumDevs.Call()
	if index < 0 || index >= int(uint32(r0)) {
		return nil, fmt.Errorf("%w: no input %d", contracts.ErrDeviceUnavailable, index)
	}

	port := &inputPort{
		id:      nextPortID.Add(1),
		logger:  d.logger,
		onFrame: onFrame,
		onErr:   onErr,
	}
	openPorts.Store(port.id, port)

	r1, _, err := procMidiInOpen.Call(
		uintptr(unsafe.Pointer(&port.handle)),
		uintptr(index),
		inputCallback(),
		port.id,
		uintptr(CALLBACK_FUNCTION|MIDI_IO_STATUS),
	)
	if r1 != 0 {
		openPorts.Delete(port.id)
		return nil, fmt.Errorf("%w: device %d: code %d: %v", ErrOpenInput, index, r1, err)
	}

	r1, _, err = procMidiInStart.Call(uintptr(port.handle))
	if r1 != 0 {
		_ = port.Close()
		return nil, fmt.Errorf("%w: device %d: code %d: %v", ErrStartInput, index, r1, err)
	}

	d.logger.Info("MIDI device connected", d.logger.Field().Int("deviceID", index))
	return port, nil
}

// OpenOutput opens the output device whose product name is name.
func (d *Driver) OpenOutput(name string) (contracts.OutputPort, error) {
	r0, _, _ := procMidiOutGetNumDevs.Call()
	numDevices := uint32(r0)

	for i := uint32(0); i < numDevices; i++ {
		var caps midiOutCaps
		r1, _, _ := procMidiOutGetDevCaps.Call(
			uintptr(i),
			uintptr(unsafe.Pointer(&caps)),
			unsafe.Sizeof(caps),
		)
		if r1 != 0 || windows.UTF16ToString(caps.szPname[:]) != name {
			continue
		}

		out := &outputPort{}
		r1, _, err := procMidiOutOpen.Call(
			uintptr(unsafe.Pointer(&out.handle)),
			uintptr(i),
			0,
			0,
			CALLBACK_NULL,
		)
		if r1 != 0 {
			return nil, fmt.Errorf("%w: %q: code %d: %v", ErrOpenOutput, name, r1, err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %q", contracts.ErrNoOutputPort, name)
}

// Close is a no-op: ports are released individually.
func (d *Driver) Close() error {
	return nil
}

type inputPort struct {
	id      uintptr
	handle  HMIDIIN
	logger  contracts.Logger
	onFrame func([]byte)
	onErr   func(error)
	closing atomic.Bool
	once    sync.Once
}

// Close stops and closes the device. MIM_CLOSE raised by this call is not a loss.
func (p *inputPort) Close() error {
	var err error
	p.once.Do(func() {
		p.closing.Store(true)
		defer openPorts.Delete(p.id)

		if r1, _, callErr := procMidiInStop.Call(uintptr(p.handle)); r1 != 0 {
			p.logger.Error("Failed to stop MIDI capture", p.logger.Field().Error("error", callErr))
		}
		if r1, _, callErr := procMidiInClose.Call(uintptr(p.handle)); r1 != 0 {
			err = fmt.Errorf("midiInClose: code %d: %v", r1, callErr)
		}
	})
	return err
}

// midiInCallback processes incoming MIDI messages
func midiInCallback(hMidiIn uintptr, wMsg uint32, dwInstance uintptr, dwParam1 uintptr, dwParam2 uintptr) uintptr {
	v, ok := openPorts.Load(dwInstance)
	if !ok {
		return 0
	}
	p := v.(*inputPort)

	switch wMsg {
	case MIM_OPEN:
		p.logger.Debug("MIDI device opened")
	case MIM_CLOSE:
		if !p.closing.Load() && p.onErr != nil {
			p.onErr(contracts.ErrDeviceLost)
		}
	case MIM_DATA, MIM_MOREDATA:
		if p.closing.Load() {
			return 0
		}
		status := byte(dwParam1 & 0xFF)
		n := message.Length(status)
		if n == 0 {
			// SysEx arrives via MIM_LONGDATA, which needs input buffers this driver does not post.
			return 0
		}
		packed := [3]byte{status, byte(dwParam1 >> 8), byte(dwParam1 >> 16)}
		p.onFrame(packed[:n:n])
	case MIM_ERROR, MIM_LONGERROR:
		p.logger.Error("MIDI error", p.logger.Field().Int("msg", int(wMsg)))
	default:
		p.logger.Warn("Unknown MIDI message", p.logger.Field().Int("msg", int(wMsg)))
	}
	return 0
}

type outputPort struct {
	mu     sync.Mutex
	handle HMIDIOUT
}

// Send writes short messages with midiOutShortMsg and SysEx with midiOutLongMsg.
func (o *outputPort) Send(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	if data[0] != byte(contracts.SysEx) && len(data) <= 3 {
		var packed uintptr
		for i, b := range data {
			packed |= uintptr(b) << (8 * i)
		}
		if r1, _, err := procMidiOutShortMsg.Call(uintptr(o.handle), packed); r1 != 0 {
			return fmt.Errorf("%w: code %d: %v", ErrSend, r1, err)
		}
		return nil
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	hdr := midiHdr{
		lpData:         uintptr(unsafe.Pointer(&buf[0])),
		dwBufferLength: uint32(len(buf)),
	}
	if r1, _, err := procMidiOutPrepareHeader.Call(uintptr(o.handle), uintptr(unsafe.Pointer(&hdr)), unsafe.Sizeof(hdr)); r1 != 0 {
		return fmt.Errorf("%w: prepare header: code %d: %v", ErrSend, r1, err)
	}
	r1, _, err := procMidiOutLongMsg.Call(uintptr(o.handle), uintptr(unsafe.Pointer(&hdr)), unsafe.Sizeof(hdr))
	// midiOutUnprepareHeader returns MIDIERR_STILLPLAYING until the buffer is sent.
	for {
		u, _, _ := procMidiOutUnprepareHeader.Call(uintptr(o.handle), uintptr(unsafe.Pointer(&hdr)), unsafe.Sizeof(hdr))
		if u != midiErrStillPlaying {
			break
		}
		windows.SleepEx(1, false)
	}
	if r1 != 0 {
		return fmt.Errorf("%w: long message: code %d: %v", ErrSend, r1, err)
	}
	return nil
}

const midiErrStillPlaying = 65 // MIDIERR_STILLPLAYING

func (o *outputPort) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.handle == 0 {
		return nil
	}
	r1, _, err := procMidiOutClose.Call(uintptr(o.handle))
	o.handle = 0
	if r1 != 0 {
		return fmt.Errorf("midiOutClose: code %d: %v", r1, err)
	}
	return nil
}
