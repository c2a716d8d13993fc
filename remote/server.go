package remote

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"strconv"
	"strings"

	"github.com/hypebeast/go-osc/osc"
	"github.com/robmorgan/metronome/logger"
	"github.com/robmorgan/metronome/prefs"
	"github.com/robmorgan/metronome/rhythm"
	"github.com/sirupsen/logrus"
)

const (
	AddressStart  = "/metronome/start"
	AddressStop   = "/metronome/stop"
	AddressToggle = "/metronome/toggle"
	AddressTempo  = "/metronome/tempo"
	AddressTone   = "/metronome/tone"
	AddressOnce   = "/metronome/once"
)

var errMissingArgument = errors.New("missing argument")

// Controller is the part of the beat scheduler driven over OSC.
type Controller interface {
	Start(bpm int, tone rhythm.Tone) error
	Stop() error
	Toggle(tone rhythm.Tone) (bool, error)
	ChangeTempo(bpm int) error
	PlayOnce(tone rhythm.Tone) error
	Snapshot() rhythm.Snapshot
}

// Server is an OSC Dispatcher that maps /metronome/* messages onto a Controller.
// Bad or unknown messages are logged and ignored.
type Server struct {
	controller Controller
	prefs      prefs.Store
	log        *logrus.Entry
}

func NewServer(controller Controller, store prefs.Store) *Server {
	return &Server{
		controller: controller,
		prefs:      store,
		log:        logger.GetProjectLogger().WithField("component", "osc"),
	}
}

// ListenAndServe listens on the UDP address addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, conn)
}

// Serve reads OSC packets from conn until ctx is done, then closes conn.
func (s *Server) Serve(ctx context.Context, conn net.PacketConn) error {
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	s.log.WithField("addr", conn.LocalAddr().String()).Info("Listening for OSC")
	server := &osc.Server{Addr: conn.LocalAddr().String(), Dispatcher: s}
	err := server.Serve(conn)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// Dispatch implements osc.Dispatcher.
func (s *Server) Dispatch(packet osc.Packet) {
	switch packet := packet.(type) {
	case *osc.Message:
		s.handle(packet)
	case *osc.Bundle:
		for _, msg := range packet.Messages {
			s.handle(msg)
		}
		for _, bundle := range packet.Bundles {
			s.Dispatch(bundle)
		}
	}
}

func (s *Server) handle(msg *osc.Message) {
	log := s.log.WithField("address", msg.Address)
	if err := s.apply(msg); err != nil {
		log.WithError(err).Warn("Ignoring OSC message")
		return
	}
	log.Debug("Handled OSC message")
}

func (s *Server) apply(msg *osc.Message) error {
	switch msg.Address {
	case AddressStart:
		bpm := s.controller.Snapshot().Tempo
		if len(msg.Arguments) > 0 {
			var err error
			if bpm, err = intArg(msg.Arguments[0]); err != nil {
				return err
			}
		}
		tone, err := s.prefs.Tone()
		if err != nil {
			return err
		}
		return s.controller.Start(bpm, tone)

	case AddressStop:
		return s.controller.Stop()

	case AddressToggle:
		tone, err := s.prefs.Tone()
		if err != nil {
			return err
		}
		_, err = s.controller.Toggle(tone)
		return err

	case AddressTempo:
		if len(msg.Arguments) == 0 {
			return errMissingArgument
		}
		bpm, err := intArg(msg.Arguments[0])
		if err != nil {
			return err
		}
		return s.controller.ChangeTempo(bpm)

	case AddressTone:
		if len(msg.Arguments) == 0 {
			return errMissingArgument
		}
		tone, err := toneArg(msg.Arguments[0])
		if err != nil {
			return err
		}
		if err := s.prefs.SetTone(tone); err != nil {
			return err
		}
		return s.controller.PlayOnce(tone)

	case AddressOnce:
		tone, err := s.prefs.Tone()
		if err != nil {
			return err
		}
		return s.controller.PlayOnce(tone)
	}
	return fmt.Errorf("unknown address %q", msg.Address)
}

func intArg(arg interface{}) (int, error) {
	switch v := arg.(type) {
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float32:
		return int(math.Round(float64(v))), nil
	case float64:
		return int(math.Round(v)), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(v))
	}
	return 0, fmt.Errorf("expected a number, got %T", arg)
}

func toneArg(arg interface{}) (rhythm.Tone, error) {
	if s, ok := arg.(string); ok {
		return rhythm.ParseTone(s)
	}
	i, err := intArg(arg)
	if err != nil {
		return 0, err
	}
	return rhythm.ParseTone(strconv.Itoa(i))
}
