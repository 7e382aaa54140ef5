package livepose

import "github.com/akmonengine/livepose/rig"

const (
	FRAME_SAMPLED EventType = iota
	KEYFRAME_INSERTED
	BONE_SKIPPED
	BONE_LOST
	POSE_APPLIED
	ANIMATION_BAKED
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// FrameSampledEvent is sent once per visited frame, after the rig was moved
// to the frame and evaluated, before any bone is read.
type FrameSampledEvent struct {
	Frame int
	Index int
	Total int
}

func (e FrameSampledEvent) Type() EventType { return FRAME_SAMPLED }

type KeyframeInsertedEvent struct {
	Bone    string
	Channel rig.Channel
	Frame   int
}

func (e KeyframeInsertedEvent) Type() EventType { return KEYFRAME_INSERTED }

// BoneSkippedEvent reports a document bone the rig does not have
type BoneSkippedEvent struct {
	Bone string
}

func (e BoneSkippedEvent) Type() EventType { return BONE_SKIPPED }

// BoneLostEvent reports a bone that stopped answering during a bake. It is
// ignored for the remaining frames.
type BoneLostEvent struct {
	Bone  string
	Frame int
	Err   error
}

func (e BoneLostEvent) Type() EventType { return BONE_LOST }

type PoseAppliedEvent struct {
	Result ApplyResult
	Invert bool
}

func (e PoseAppliedEvent) Type() EventType { return POSE_APPLIED }

type AnimationBakedEvent struct {
	Result BakeResult
	Invert bool
}

func (e AnimationBakedEvent) Type() EventType { return ANIMATION_BAKED }

// EventListener - callback for events
type EventListener func(event Event)

// Events buffers events raised by an operation and dispatches them on flush
type Events struct {
	listeners map[EventType][]EventListener
	buffer    []Event
}

func NewEvents() Events {
	return Events{
		listeners: make(map[EventType][]EventListener),
		buffer:    make([]Event, 0, 64),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	if e.listeners == nil {
		e.listeners = make(map[EventType][]EventListener)
	}
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

func (e *Events) emit(event Event) {
	if len(e.listeners[event.Type()]) == 0 {
		return
	}
	e.buffer = append(e.buffer, event)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	for _, event := range e.buffer {
		for _, listener := range e.listeners[event.Type()] {
			listener(event)
		}
	}
	e.buffer = e.buffer[:0]
}
