package main

import (
	"context"
	"fmt"
	"log"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

type noteHolder interface {
	Hold(notes ...int)
	Release(notes ...int)
	ReleaseAll()
}

// runMIDI plays notes from a MIDI input port until ctx is done.
func runMIDI(ctx context.Context, notes noteHolder, port string) error {
	defer midi.CloseDriver()

	in, err := findInPort(port)
	if err != nil {
		return err
	}
	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		handleMIDI(notes, msg)
	}, midi.HandleError(func(err error) {
		log.Printf("midi: %s: %v", in, err)
	}))
	if err != nil {
		return fmt.Errorf("midi: listen on %s: %w", in, err)
	}
	log.Printf("midi: listening on %s", in)

	<-ctx.Done()
	stop()
	notes.ReleaseAll()
	return nil
}

func findInPort(name string) (drivers.In, error) {
	if name != "" {
		return midi.FindInPort(name)
	}
	ports := midi.GetInPorts()
	if len(ports) == 0 {
		return nil, fmt.Errorf("midi: no input ports")
	}
	return ports[0], nil
}

func handleMIDI(notes noteHolder, msg midi.Message) {
	var ch, key, vel uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		notes.Hold(int(key))
	case msg.GetNoteEnd(&ch, &key):
		notes.Release(int(key))
	}
}
