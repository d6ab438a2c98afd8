// Package uart provides the receive side of a serial byte pipe.
//
// Transports (serial port, MQTT, websocket) write whatever fragment they
// receive into a Pipe. The device drains it cooperatively: it checks how
// many bytes are buffered, peeks the next byte and reads only complete
// frames, so nothing in this package ever blocks the consumer.
package uart
