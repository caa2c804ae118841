// Package midifile serializes note sequences to and from Standard MIDI Files.
package midifile

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/RyanBlaney/sonido-scribe/transcribe"
)

const (
	ticksPerQuarter = 960
	defaultTempo    = 120.0
)

// noteEvent is a flattened on/off event used while building a track
type noteEvent struct {
	time  float64
	off   bool
	pitch uint8
	vel   uint8
}

// Encode builds a single-track SMF from a note sequence with the given
// program change and tempo (BPM).
func Encode(notes []transcribe.Note, program uint8, tempo float64) (*smf.SMF, error) {
	if tempo <= 0 {
		return nil, fmt.Errorf("tempo must be positive, got %v", tempo)
	}

	events := make([]noteEvent, 0, len(notes)*2)
	for _, n := range notes {
		events = append(events,
			noteEvent{time: n.Start, pitch: uint8(n.Pitch), vel: uint8(n.Velocity)},
			noteEvent{time: n.End, off: true, pitch: uint8(n.Pitch)},
		)
	}

	// note-offs first on equal times so retriggers don't cancel themselves
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].time != events[j].time {
			return events[i].time < events[j].time
		}
		return events[i].off && !events[j].off
	})

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(tempo))
	tr.Add(0, midi.ProgramChange(0, program))

	var prevTicks uint32
	for _, ev := range events {
		ticks := secondsToTicks(ev.time, tempo)
		if ticks < prevTicks {
			ticks = prevTicks
		}
		delta := ticks - prevTicks
		if ev.off {
			tr.Add(delta, midi.NoteOff(0, ev.pitch))
		} else {
			tr.Add(delta, midi.NoteOn(0, ev.pitch, ev.vel))
		}
		prevTicks = ticks
	}
	tr.Close(0)

	s.Add(tr)
	return s, nil
}

func secondsToTicks(seconds, tempo float64) uint32 {
	return uint32(math.Round(seconds * tempo / 60.0 * ticksPerQuarter))
}

// tempoChange is one tempo map entry at an absolute tick offset
type tempoChange struct {
	tick    int64
	bpm     float64
	seconds float64 // absolute time of the change, filled in after sorting
}

// Decode extracts the note sequence from an SMF, pairing note-on and
// note-off events across all tracks and converting ticks to seconds through
// the file's tempo map. A note-on with velocity zero counts as a note-off.
// Dangling note-ons without a matching off are dropped.
func Decode(s *smf.SMF) ([]transcribe.Note, error) {
	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("unsupported SMF time format %v", s.TimeFormat)
	}
	resolution := float64(mt)
	if resolution <= 0 {
		return nil, fmt.Errorf("invalid SMF resolution %v", resolution)
	}

	// First pass: global tempo map
	changes := []tempoChange{{tick: 0, bpm: defaultTempo}}
	for _, track := range s.Tracks {
		var absTicks int64
		for _, ev := range track {
			absTicks += int64(ev.Delta)
			var bpm float64
			if ev.Message.GetMetaTempo(&bpm) && bpm > 0 {
				changes = append(changes, tempoChange{tick: absTicks, bpm: bpm})
			}
		}
	}
	sort.SliceStable(changes, func(i, j int) bool { return changes[i].tick < changes[j].tick })
	for i := 1; i < len(changes); i++ {
		prev := changes[i-1]
		deltaTicks := float64(changes[i].tick - prev.tick)
		changes[i].seconds = prev.seconds + deltaTicks/resolution*60.0/prev.bpm
	}

	ticksToSeconds := func(tick int64) float64 {
		last := changes[0]
		for _, c := range changes[1:] {
			if c.tick > tick {
				break
			}
			last = c
		}
		return last.seconds + float64(tick-last.tick)/resolution*60.0/last.bpm
	}

	// Second pass: pair note events
	var notes []transcribe.Note
	for _, track := range s.Tracks {
		type openNote struct {
			start    float64
			velocity uint8
		}
		open := make(map[uint8]openNote)

		var absTicks int64
		for _, ev := range track {
			absTicks += int64(ev.Delta)

			var channel, key, velocity uint8
			switch {
			case ev.Message.GetNoteOn(&channel, &key, &velocity) && velocity > 0:
				now := ticksToSeconds(absTicks)
				if prev, ok := open[key]; ok && now > prev.start {
					notes = append(notes, transcribe.Note{
						Pitch:    int(key),
						Velocity: int(prev.velocity),
						Start:    prev.start,
						End:      now,
					})
				}
				open[key] = openNote{start: now, velocity: velocity}
			case ev.Message.GetNoteOff(&channel, &key, &velocity),
				ev.Message.GetNoteOn(&channel, &key, &velocity):
				now := ticksToSeconds(absTicks)
				if prev, ok := open[key]; ok {
					delete(open, key)
					if now > prev.start {
						notes = append(notes, transcribe.Note{
							Pitch:    int(key),
							Velocity: int(prev.velocity),
							Start:    prev.start,
							End:      now,
						})
					}
				}
			}
		}
	}

	sort.Slice(notes, func(i, j int) bool { return notes[i].Start < notes[j].Start })
	return notes, nil
}

// ReadFile parses an SMF file from disk
func ReadFile(path string) (s *smf.SMF, e error) {
	// the SMF parser can panic on malformed files
	defer func() {
		if r, ok := recover().(string); ok {
			e = errors.New(r)
		}
	}()

	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading midi file: %w", err)
	}

	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, fmt.Errorf("parsing midi file: %w", err)
	}

	return res, nil
}

// ReadNotes parses an SMF file and returns its note sequence
func ReadNotes(path string) ([]transcribe.Note, error) {
	s, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(s)
}

// WriteFile writes an SMF to disk atomically: the file is written to a
// temporary sibling first and renamed into place, so a failed write never
// leaves a partial file behind.
func WriteFile(path string, s *smf.SMF) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".midifile-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp midi file: %w", err)
	}
	tmpName := tmp.Name()

	_, err = s.WriteTo(tmp)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing midi file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming midi file: %w", err)
	}
	return nil
}

// WriteNotes encodes a note sequence and writes it to disk
func WriteNotes(path string, notes []transcribe.Note, program uint8, tempo float64) error {
	s, err := Encode(notes, program, tempo)
	if err != nil {
		return err
	}
	return WriteFile(path, s)
}
