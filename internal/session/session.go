// Package session owns the single open MIDI input and its receive loop.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/delugian/midi/internal/message"
	"github.com/delugian/midi/sdk/contracts"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// State is the connection state of a Session.
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// DefaultBuffer is the number of frames queued between the driver and the receive loop.
const DefaultBuffer = 256

// Listener receives every decoded event of the open session, in arrival order.
type Listener func(ev contracts.Event)

// LostHandler is told that the session identified by id stopped delivering.
// It runs on its own goroutine and may call Close.
type LostHandler func(id string, err error)

// Session is a Closed/Open state machine over one driver input.
// Opening while open closes the current input first, so at most one handle is held.
type Session struct {
	driver contracts.Driver
	logger contracts.Logger
	buffer int

	mu     sync.Mutex
	state  State
	device contracts.MidiDevice
	id     string
	in     contracts.InputPort
	out    contracts.OutputPort
	recv   *receiver
	onLost LostHandler

	listenerMu sync.Mutex
	listener   Listener
}

type frame struct {
	data []byte
	at   time.Time
}

// receiver is the per-open plumbing between the driver callback and the loop.
type receiver struct {
	frames chan frame
	done   chan struct{}
	wg     sync.WaitGroup
}

func (r *receiver) push(data []byte) {
	f := frame{data: append([]byte(nil), data...), at: time.Now()}
	select {
	case r.frames <- f:
	case <-r.done:
	}
}

func (r *receiver) stopped() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// New returns a closed Session. buffer <= 0 selects DefaultBuffer.
func New(driver contracts.Driver, logger contracts.Logger, buffer int) *Session {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Session{driver: driver, logger: logger, buffer: buffer}
}

// OnLost registers the handler for devices that stop delivering while open.
func (s *Session) OnLost(h LostHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLost = h
}

// SetListener replaces the registered listener. When it returns, the previous
// listener is not running and will not be called again. nil removes it.
func (s *Session) SetListener(l Listener) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.listener = l
}

// State returns the current state and, when open, the open device.
func (s *Session) State() (State, contracts.MidiDevice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.device
}

// ID returns the identifier of the open connection, or "" when closed.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Open connects to the input at device.Index and starts the receive loop.
// It also opens the output port carrying the same name, when there is one.
// On failure the session is Closed and the error wraps contracts.ErrDeviceUnavailable.
func (s *Session) Open(device contracts.MidiDevice) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Open {
		s.logger.Info("Closing current MIDI input before switching",
			s.logger.Field().String("session", s.id),
			s.logger.Field().Int("deviceID", s.device.Index))
		if err := s.closeLocked(); err != nil {
			s.logger.Warn("Error while closing previous MIDI input", s.logger.Field().Error("error", err))
		}
	}

	id := uuid.NewString()
	recv := &receiver{
		frames: make(chan frame, s.buffer),
		done:   make(chan struct{}),
	}

	in, err := s.driver.OpenInput(device.Index, recv.push, func(err error) {
		s.reportLost(id, err)
	})
	if err != nil {
		s.logger.Error("Failed to open MIDI input",
			s.logger.Field().Int("deviceID", device.Index),
			s.logger.Field().String("deviceName", device.Name),
			s.logger.Field().Error("error", err))
		if errors.Is(err, contracts.ErrDeviceUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: input %d: %w", contracts.ErrDeviceUnavailable, device.Index, err)
	}

	var out contracts.OutputPort
	if device.Name != "" {
		out, err = s.driver.OpenOutput(device.Name)
		if err != nil {
			s.logger.Debug("No output port for MIDI device",
				s.logger.Field().String("deviceName", device.Name),
				s.logger.Field().Error("error", err))
			out = nil
		}
	}

	s.state = Open
	s.device = device
	s.id = id
	s.in = in
	s.out = out
	s.recv = recv

	recv.wg.Add(1)
	go s.receive(recv)

	s.logger.Info("MIDI device successfully connected",
		s.logger.Field().String("session", id),
		s.logger.Field().Int("deviceID", device.Index),
		s.logger.Field().String("deviceName", device.Name),
		s.logger.Field().Bool("output", out != nil))
	return id, nil
}

// Close stops the receive loop and releases the ports. It returns once the loop
// has exited; frames still queued are dropped. Closing a closed session is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

func (s *Session) closeLocked() error {
	if s.state == Closed {
		return nil
	}

	recv := s.recv
	close(recv.done)

	err := s.in.Close()
	if s.out != nil {
		err = multierr.Append(err, s.out.Close())
	}
	recv.wg.Wait()

	s.logger.Info("MIDI input closed",
		s.logger.Field().String("session", s.id),
		s.logger.Field().Int("deviceID", s.device.Index))

	s.state = Closed
	s.device = contracts.MidiDevice{}
	s.id = ""
	s.in = nil
	s.out = nil
	s.recv = nil
	return err
}

// SendSysEx writes data unchanged to the output port of the open device.
func (s *Session) SendSysEx(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Closed {
		return contracts.ErrNotConnected
	}
	if s.out == nil {
		return fmt.Errorf("%w: %q", contracts.ErrNoOutputPort, s.device.Name)
	}
	if err := s.out.Send(data); err != nil {
		return fmt.Errorf("send to %q: %w", s.device.Name, err)
	}
	s.logger.Debug("SysEx sent",
		s.logger.Field().String("session", s.id),
		s.logger.Field().Int("bytes", len(data)))
	return nil
}

func (s *Session) receive(recv *receiver) {
	defer recv.wg.Done()
	for {
		select {
		case <-recv.done:
			return
		case f := <-recv.frames:
			if recv.stopped() {
				return
			}
			ev := message.Decode(f.data)
			ev.Timestamp = uint64(f.at.UTC().UnixNano())
			s.dispatch(recv, ev)
		}
	}
}

func (s *Session) dispatch(recv *receiver, ev contracts.Event) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()

	// Close may have started while this event was decoded.
	if recv.stopped() || s.listener == nil {
		return
	}
	s.listener(ev)
}

func (s *Session) reportLost(id string, err error) {
	s.logger.Warn("MIDI input stopped delivering",
		s.logger.Field().String("session", id),
		s.logger.Field().Error("error", err))

	// Driver callbacks must not block on Close, which waits for them.
	go func() {
		s.mu.Lock()
		current := s.state == Open && s.id == id
		handler := s.onLost
		s.mu.Unlock()

		if current && handler != nil {
			handler(id, err)
		}
	}()
}
