// Package telemetry publishes rover display frames and presence over MQTT
// as protobuf messages, and decodes them for monitors.
package telemetry
