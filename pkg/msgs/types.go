package msgs

import "strconv"

// MsgType is the type tag of an Envelope.
type MsgType uint8

// Message types.
const (
	TypeSensorRead   MsgType = 6
	TypeMotorCommand MsgType = 7
	TypeMotorStatus  MsgType = 8
	TypeSensorData   MsgType = 9
	TypeMotorData    MsgType = 10
	TypeSensorTimer  MsgType = 12
	TypeMotorTimer   MsgType = 13
	TypeDisplayTimer MsgType = 14
	TypeDisplayPrint MsgType = 15
	TypeDisplayGraph MsgType = 16
)

var typeNames = map[MsgType]string{
	TypeSensorRead:   "SensorRead",
	TypeMotorCommand: "MotorCommand",
	TypeMotorStatus:  "MotorStatus",
	TypeSensorData:   "SensorData",
	TypeMotorData:    "MotorData",
	TypeSensorTimer:  "SensorTimer",
	TypeMotorTimer:   "MotorTimer",
	TypeDisplayTimer: "DisplayTimer",
	TypeDisplayPrint: "DisplayPrint",
	TypeDisplayGraph: "DisplayGraph",
}

// String implements fmt.Stringer.
func (t MsgType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "MsgType(" + strconv.Itoa(int(t)) + ")"
}

// Wire markers shared by the rover peripheral protocol.
const (
	// MarkerSensor leads a sensor poll and its reply.
	MarkerSensor byte = 0xF0
	// MarkerMotor leads a motor command and its status reply.
	MarkerMotor byte = 0xF1
	// SensorPoll is the second byte of a sensor poll command.
	SensorPoll byte = 0xBB
	// MotorResync is sent after MarkerMotor to ask for the status again.
	MotorResync byte = 0xF0
)

// IsMarker reports whether b is reserved for framing and can't appear
// as a data byte.
func IsMarker(b byte) bool {
	return b == MarkerSensor || b == MarkerMotor
}

// Default sizes.
const (
	// DefaultQueueLen is the capacity of an actor mailbox.
	DefaultQueueLen = 10
	// DefaultMaxLen is the max payload length accepted by the sensor,
	// motor and navigation mailboxes.
	DefaultMaxLen = 7
)
