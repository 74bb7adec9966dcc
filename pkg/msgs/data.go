package msgs

import "fmt"

// SensorReadingLen is the payload length of SensorData.
const SensorReadingLen = 6

// SensorReading carries the six infrared distances in inches.
type SensorReading struct {
	Front      uint8
	FrontRight uint8
	BackRight  uint8
	Back       uint8
	BackLeft   uint8
	FrontLeft  uint8
}

// Envelope encodes the reading as SensorData.
func (r SensorReading) Envelope() Envelope {
	env := Envelope{Type: TypeSensorData, Len: SensorReadingLen}
	copy(env.Buf[:], []byte{r.Front, r.FrontRight, r.BackRight, r.Back, r.BackLeft, r.FrontLeft})
	return env
}

// String implements fmt.Stringer.
func (r SensorReading) String() string {
	return fmt.Sprintf("%d,%d,%d,%d,%d,%d",
		r.Front, r.FrontRight, r.BackRight, r.Back, r.BackLeft, r.FrontLeft)
}

// DecodeSensorReading decodes the first six bytes of p in sensor order.
func DecodeSensorReading(p []byte) (r SensorReading, ok bool) {
	if len(p) < SensorReadingLen {
		return
	}
	return SensorReading{
		Front:      p[0],
		FrontRight: p[1],
		BackRight:  p[2],
		Back:       p[3],
		BackLeft:   p[4],
		FrontLeft:  p[5],
	}, true
}

// MotorDataLen is the payload length of MotorData.
const MotorDataLen = 2

// MotorData reports the last executed move and the distance traveled.
type MotorData struct {
	Direction uint8
	Distance  uint8
}

// Envelope encodes MotorData.
func (d MotorData) Envelope() Envelope {
	env := Envelope{Type: TypeMotorData, Len: MotorDataLen}
	env.Buf[0], env.Buf[1] = d.Direction, d.Distance
	return env
}

// DecodeMotorData decodes MotorData.
func DecodeMotorData(p []byte) (d MotorData, ok bool) {
	if len(p) < MotorDataLen {
		return
	}
	return MotorData{Direction: p[0], Distance: p[1]}, true
}

// MotorCommand creates a MotorCommand envelope for direction.
func MotorCommand(direction uint8) Envelope {
	env := Envelope{Type: TypeMotorCommand, Len: 1}
	env.Buf[0] = direction
	return env
}
